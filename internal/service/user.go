/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
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
	"strings"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; longer passwords are truncated
// explicitly so hashing never errors on input length.
const maxPasswordBytes = 72

// UserService handles account registration, authentication and the user
// directory backing the stakeholder picker.
type UserService struct {
	userRepo   repository.UserRepository
	authConfig middleware.AuthConfig
	tokenTTL   time.Duration
}

func NewUserService(userRepo repository.UserRepository, authConfig middleware.AuthConfig, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:   userRepo,
		authConfig: authConfig,
		tokenTTL:   tokenTTL,
	}
}

// Signup registers a new account and returns a fresh access token
func (s *UserService) Signup(req *dto.SignupRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if existing, err := s.userRepo.GetUserByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, constants.ErrEmailExists
	}
	if existing, err := s.userRepo.GetUserByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, constants.ErrUsernameExists
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = constants.DefaultUserRole
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		Username:       username,
		FullName:       req.FullName,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, constants.ErrEmailExists
		}
		return nil, err
	}

	return s.tokenResponse(user)
}

// Login authenticates by username or email. Lookup failures and password
// mismatches are indistinguishable to the caller.
func (s *UserService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByIdentifier(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, constants.ErrInvalidCredentials
	}
	if !verifyPassword(user.HashedPassword, req.Password) {
		return nil, constants.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, constants.ErrInactiveUser
	}

	return s.tokenResponse(user)
}

// DemoLogin signs in as the shared demo account, provisioning it on first use
func (s *UserService) DemoLogin() (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(constants.DemoUserEmail)
	if err != nil {
		return nil, err
	}

	if user == nil {
		hashed, err := hashPassword(constants.DemoUserPassword)
		if err != nil {
			return nil, err
		}
		user = &model.User{
			Email:          constants.DemoUserEmail,
			Username:       constants.DemoUserName,
			FullName:       constants.DemoUserFullName,
			HashedPassword: hashed,
			Role:           constants.DemoUserRole,
			IsActive:       true,
		}
		if err := s.userRepo.CreateUser(user); err != nil {
			// Another instance may have provisioned the account first.
			if !isDuplicateKeyError(err) {
				return nil, err
			}
			user, err = s.userRepo.GetUserByEmail(constants.DemoUserEmail)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, constants.ErrUserNotFound
			}
		}
	}

	if !user.IsActive {
		return nil, constants.ErrInactiveUser
	}
	return s.tokenResponse(user)
}

// GetUserByUUID returns one account
func (s *UserService) GetUserByUUID(uuid string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, constants.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ListUsers returns accounts, optionally filtered by role, for the
// stakeholder picker
func (s *UserService) ListUsers(role string, limit, offset int) (*dto.UserListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.userRepo.CountUsers(role)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListUsers(role, limit, offset)
	if err != nil {
		return nil, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		list = append(list, *toUserResponse(user))
	}

	return &dto.UserListResponse{
		Count: len(list),
		List:  list,
		Pagination: dto.PaginationInfo{
			Total:  total,
			Offset: offset,
			Limit:  limit,
		},
	}, nil
}

// ListRoles returns the distinct roles present across accounts
func (s *UserService) ListRoles() (*dto.RoleListResponse, error) {
	roles, err := s.userRepo.ListRoles()
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	return &dto.RoleListResponse{Roles: roles}, nil
}

// ---- helpers ----

func (s *UserService) tokenResponse(user *model.User) (*dto.TokenResponse, error) {
	token, err := middleware.NewAccessToken(s.authConfig, user, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *toUserResponse(user),
	}, nil
}

func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	hashed, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func verifyPassword(hashed, password string) bool {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), b) == nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.UUID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
