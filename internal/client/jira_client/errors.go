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

package jira_client

import (
	"errors"
	"fmt"
)

// JiraError represents an error from Jira operations
type JiraError struct {
	Code       int    // HTTP status code from Jira
	Message    string // Human-readable error message
	Retryable  bool   // Whether the error should trigger a retry
	Underlying error  // Underlying error if any
}

// Error implements the error interface for JiraError
func (e *JiraError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("jira error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("jira error: %s", e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *JiraError) Unwrap() error {
	return e.Underlying
}

// NewJiraError creates a new JiraError
func NewJiraError(code int, message string, retryable bool, underlying error) *JiraError {
	return &JiraError{
		Code:       code,
		Message:    message,
		Retryable:  retryable,
		Underlying: underlying,
	}
}

// Connection and general errors
var (
	ErrJiraConnectionFailed     = errors.New("jira connection failed")
	ErrJiraAuthenticationFailed = errors.New("jira authentication failed")
	ErrJiraInvalidRequest       = errors.New("jira invalid request")
)

// Issue-related errors
var (
	ErrIssueCreationFailed = errors.New("jira issue creation failed")
)
