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

package constants

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("invalid project name")
	ErrStakeholderExists  = errors.New("stakeholder with this name and role already exists")
)

var (
	ErrPhaseNotFound      = errors.New("phase not found")
	ErrInvalidPhaseNumber = errors.New("phase number must be between 1 and 6")
	ErrInvalidPhaseStatus = errors.New("invalid phase status")
	ErrInvalidPhaseData   = errors.New("invalid phase data payload")
	ErrPhaseLocked        = errors.New("phase is approved and locked for modification")
	ErrAlreadySubmitted   = errors.New("phase was already submitted for approval")
	ErrEmptyContent       = errors.New("content is empty")
	ErrValidation         = errors.New("required fields are missing")
	ErrPrecondition       = errors.New("upstream phase data is missing")
	ErrInvalidTransition  = errors.New("status transition is not allowed")
)

var (
	ErrApprovalNotFound     = errors.New("approval not found")
	ErrApprovalDecided      = errors.New("approval decision is already recorded")
	ErrNoStakeholders       = errors.New("at least one stakeholder is required")
	ErrInvalidApprovalState = errors.New("invalid approval status")
)

var (
	ErrGenerationFailed   = errors.New("content generation failed")
	ErrGenerationTimeout  = errors.New("content generation timed out")
	ErrMalformedResponse  = errors.New("generation provider returned a malformed response")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidChatContext = errors.New("invalid chat context type")
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveUser       = errors.New("user account is inactive")
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrExportNotConfigured = errors.New("issue export integration is not configured")
	ErrExportFailed        = errors.New("issue export failed")
)
