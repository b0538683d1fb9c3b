/*
 *  Copyright (c) 2026, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/model"
)

var testAuthConfig = middleware.AuthConfig{
	SecretKey:   "unit-test-secret",
	TokenIssuer: "lifecycle-api",
}

func newUserService(users ...*model.User) (*UserService, *mockUserRepository) {
	repo := newMockUserRepository(users...)
	service := &UserService{
		userRepo:   repo,
		authConfig: testAuthConfig,
		tokenTTL:   time.Hour,
	}
	return service, repo
}

func TestSignup(t *testing.T) {
	service, _ := newUserService()

	resp, err := service.Signup(&dto.SignupRequest{
		Email:    "  Maya@Example.COM ",
		Username: "maya",
		FullName: "Maya Srinivasan",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if resp.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", resp.TokenType)
	}
	if resp.User.Email != "maya@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", resp.User.Email)
	}
	if resp.User.Role != constants.DefaultUserRole {
		t.Errorf("Role = %q, want default %q", resp.User.Role, constants.DefaultUserRole)
	}
	if !resp.User.IsActive {
		t.Error("new account must be active")
	}

	// the issued token must round-trip through the middleware validator
	claims, err := middleware.ParseAccessToken(testAuthConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.Subject != resp.User.ID {
		t.Errorf("token subject = %q, want user ID %q", claims.Subject, resp.User.ID)
	}
	if claims.Role != constants.DefaultUserRole {
		t.Errorf("token role = %q, want %q", claims.Role, constants.DefaultUserRole)
	}
}

func TestSignupDuplicates(t *testing.T) {
	tests := []struct {
		name        string
		req         *dto.SignupRequest
		expectedErr error
	}{
		{
			name: "email already registered",
			req: &dto.SignupRequest{
				Email:    "maya@example.com",
				Username: "maya2",
				Password: "s3cret-pass",
			},
			expectedErr: constants.ErrEmailExists,
		},
		{
			name: "email matches case-insensitively",
			req: &dto.SignupRequest{
				Email:    "MAYA@EXAMPLE.COM",
				Username: "maya3",
				Password: "s3cret-pass",
			},
			expectedErr: constants.ErrEmailExists,
		},
		{
			name: "username already taken",
			req: &dto.SignupRequest{
				Email:    "other@example.com",
				Username: "maya",
				Password: "s3cret-pass",
			},
			expectedErr: constants.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newUserService()
			if _, err := service.Signup(&dto.SignupRequest{
				Email:    "maya@example.com",
				Username: "maya",
				Password: "s3cret-pass",
			}); err != nil {
				t.Fatalf("seed Signup() error = %v", err)
			}

			_, err := service.Signup(tt.req)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Signup() error = %v, expectedErr %v", err, tt.expectedErr)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	service, _ := newUserService()
	if _, err := service.Signup(&dto.SignupRequest{
		Email:    "maya@example.com",
		Username: "maya",
		Password: "s3cret-pass",
		Role:     "Product Owner",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name        string
		username    string
		password    string
		wantErr     bool
		expectedErr error
	}{
		{name: "login by username", username: "maya", password: "s3cret-pass"},
		{name: "login by email", username: "maya@example.com", password: "s3cret-pass"},
		{
			name:        "wrong password",
			username:    "maya",
			password:    "not-the-password",
			wantErr:     true,
			expectedErr: constants.ErrInvalidCredentials,
		},
		{
			name:        "unknown account",
			username:    "nobody",
			password:    "s3cret-pass",
			wantErr:     true,
			expectedErr: constants.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Login(&dto.LoginRequest{Username: tt.username, Password: tt.password})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("Login() error = %v, expectedErr %v", err, tt.expectedErr)
				}
				return
			}
			if resp.User.Username != "maya" {
				t.Errorf("Username = %q, want maya", resp.User.Username)
			}
		})
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	hashed, err := hashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}
	service, _ := newUserService(&model.User{
		UUID:           "user-gone",
		Email:          "gone@example.com",
		Username:       "gone",
		HashedPassword: hashed,
		Role:           "Developer",
		IsActive:       false,
	})

	_, err = service.Login(&dto.LoginRequest{Username: "gone", Password: "s3cret-pass"})
	if !errors.Is(err, constants.ErrInactiveUser) {
		t.Errorf("Login() error = %v, expectedErr %v", err, constants.ErrInactiveUser)
	}
}

func TestLoginTruncatesLongPasswords(t *testing.T) {
	service, _ := newUserService()
	// bcrypt only sees the first 72 bytes; registration must not error on a
	// longer password and login must compare the same truncated prefix.
	longPassword := strings.Repeat("a", 80)
	if _, err := service.Signup(&dto.SignupRequest{
		Email:    "maya@example.com",
		Username: "maya",
		Password: longPassword,
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	samePrefix := strings.Repeat("a", 72) + "completely-different-tail"
	if _, err := service.Login(&dto.LoginRequest{Username: "maya", Password: samePrefix}); err != nil {
		t.Errorf("Login() with matching 72-byte prefix error = %v", err)
	}

	if _, err := service.Login(&dto.LoginRequest{
		Username: "maya",
		Password: strings.Repeat("b", 80),
	}); !errors.Is(err, constants.ErrInvalidCredentials) {
		t.Errorf("Login() with mismatched prefix error = %v, expectedErr %v", err, constants.ErrInvalidCredentials)
	}
}

func TestDemoLoginProvisionsOnFirstUse(t *testing.T) {
	service, repo := newUserService()

	first, err := service.DemoLogin()
	if err != nil {
		t.Fatalf("DemoLogin() error = %v", err)
	}
	if first.User.Email != constants.DemoUserEmail {
		t.Errorf("Email = %q, want %q", first.User.Email, constants.DemoUserEmail)
	}
	if first.User.Role != constants.DemoUserRole {
		t.Errorf("Role = %q, want %q", first.User.Role, constants.DemoUserRole)
	}

	second, err := service.DemoLogin()
	if err != nil {
		t.Fatalf("DemoLogin() second call error = %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("demo account re-provisioned: %q then %q", first.User.ID, second.User.ID)
	}
	if count, _ := repo.CountUsers(""); count != 1 {
		t.Errorf("user count = %d, want the single shared demo account", count)
	}
}

func TestGetUserByUUID(t *testing.T) {
	service, _ := newUserService(&model.User{
		UUID:     "user-maya",
		Email:    "maya@example.com",
		Username: "maya",
		Role:     "Product Owner",
		IsActive: true,
	})

	resp, err := service.GetUserByUUID("user-maya")
	if err != nil {
		t.Fatalf("GetUserByUUID() error = %v", err)
	}
	if resp.Username != "maya" {
		t.Errorf("Username = %q, want maya", resp.Username)
	}

	if _, err := service.GetUserByUUID("user-missing"); !errors.Is(err, constants.ErrUserNotFound) {
		t.Errorf("GetUserByUUID() error = %v, expectedErr %v", err, constants.ErrUserNotFound)
	}
}

func TestListUsers(t *testing.T) {
	service, _ := newUserService(
		&model.User{UUID: "u1", Email: "a@example.com", Username: "a", Role: "Developer", IsActive: true},
		&model.User{UUID: "u2", Email: "b@example.com", Username: "b", Role: "Product Owner", IsActive: true},
		&model.User{UUID: "u3", Email: "c@example.com", Username: "c", Role: "Developer", IsActive: true},
	)

	resp, err := service.ListUsers("Developer", 10, 0)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if resp.Count != 2 || resp.Pagination.Total != 2 {
		t.Errorf("Count = %d Total = %d, want 2 and 2", resp.Count, resp.Pagination.Total)
	}
	for _, user := range resp.List {
		if user.Role != "Developer" {
			t.Errorf("filtered list contains role %q", user.Role)
		}
	}

	// out-of-range paging values are clamped
	resp, err = service.ListUsers("", -1, -1)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if resp.Pagination.Limit != 20 || resp.Pagination.Offset != 0 {
		t.Errorf("clamped pagination = %+v, want limit 20 offset 0", resp.Pagination)
	}
	if resp.Count != 3 {
		t.Errorf("Count = %d, want all seeded users", resp.Count)
	}
}

func TestListRoles(t *testing.T) {
	service, _ := newUserService(
		&model.User{UUID: "u1", Email: "a@example.com", Username: "a", Role: "Developer", IsActive: true},
		&model.User{UUID: "u2", Email: "b@example.com", Username: "b", Role: "Product Owner", IsActive: true},
		&model.User{UUID: "u3", Email: "c@example.com", Username: "c", Role: "Developer", IsActive: true},
	)

	resp, err := service.ListRoles()
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(resp.Roles) != 2 {
		t.Fatalf("Roles = %v, want the two distinct roles", resp.Roles)
	}

	empty, _ := newUserService()
	emptyResp, err := empty.ListRoles()
	if err != nil {
		t.Fatalf("ListRoles() on empty directory error = %v", err)
	}
	if emptyResp.Roles == nil {
		t.Error("Roles = nil, want an empty slice")
	}
}

func TestSignupUsesProvidedRole(t *testing.T) {
	service, _ := newUserService()

	resp, err := service.Signup(&dto.SignupRequest{
		Email:    "noor@example.com",
		Username: "noor",
		Password: "s3cret-pass",
		Role:     "  BR Owner  ",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if resp.User.Role != "BR Owner" {
		t.Errorf("Role = %q, want trimmed %q", resp.User.Role, "BR Owner")
	}
}
