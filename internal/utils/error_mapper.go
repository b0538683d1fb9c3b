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

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lifecycle-api/internal/constants"

	"github.com/go-playground/validator/v10"
)

// makeError creates a standardized error response tuple
func makeError(status int, message string) (int, interface{}) {
	return status, NewErrorResponse(status, http.StatusText(status), message)
}

// makeErrorFrom keeps the wrapped error's own message, so batch validation
// and precondition errors surface their missing-field lists verbatim.
func makeErrorFrom(status int, err error) (int, interface{}) {
	return status, NewErrorResponse(status, http.StatusText(status), err.Error())
}

// FormatValidationError converts validator errors to user-friendly messages (public API)
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error() // Not a validation error, return as-is
	}
	return formatValidationError(validationErrors)
}

// formatValidationError converts ValidationErrors to user-friendly messages (internal)
func formatValidationError(validationErrors validator.ValidationErrors) string {
	var messages []string
	for _, fieldError := range validationErrors {
		fieldName := getUserFriendlyFieldName(fieldError.Field())
		message := getValidationErrorMessage(fieldName, fieldError.Tag(), fieldError.Param())
		messages = append(messages, message)
	}
	return strings.Join(messages, "; ")
}

// getUserFriendlyFieldName maps struct field names to user-friendly field names
func getUserFriendlyFieldName(fieldName string) string {
	fieldMap := map[string]string{
		"Name":           "name",
		"Description":    "description",
		"Email":          "email",
		"Username":       "username",
		"FullName":       "full name",
		"Password":       "password",
		"Role":           "role",
		"Query":          "query",
		"ContextType":    "context type",
		"ContentType":    "content type",
		"Status":         "status",
		"Comments":       "comments",
		"PhaseID":        "phase ID",
		"Stakeholders":   "stakeholders",
		"RequiredFields": "required fields",
		"Field":          "field",
		"Content":        "content",
	}

	if friendly, exists := fieldMap[fieldName]; exists {
		return friendly
	}
	return strings.ToLower(fieldName)
}

// getValidationErrorMessage creates user-friendly validation error messages
func getValidationErrorMessage(fieldName, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", fieldName)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fieldName, param)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fieldName, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldName)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fieldName)
	}
}

// GetErrorResponse maps domain errors and validation errors to HTTP status and error response
func GetErrorResponse(err error) (int, interface{}) {
	// First check if it's a validation error
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		userFriendlyMessage := formatValidationError(validationErrors)
		return makeError(http.StatusBadRequest, userFriendlyMessage)
	}

	// Handle domain/business logic errors
	switch {
	// Not found
	case errors.Is(err, constants.ErrProjectNotFound):
		return makeError(http.StatusNotFound, "Project not found")
	case errors.Is(err, constants.ErrPhaseNotFound):
		return makeError(http.StatusNotFound, "Phase not found")
	case errors.Is(err, constants.ErrApprovalNotFound):
		return makeError(http.StatusNotFound, "Approval not found")
	case errors.Is(err, constants.ErrUserNotFound):
		return makeError(http.StatusNotFound, "User not found")

	// Workflow gating
	case errors.Is(err, constants.ErrPrecondition):
		return makeErrorFrom(http.StatusBadRequest, err)
	case errors.Is(err, constants.ErrValidation):
		return makeErrorFrom(http.StatusBadRequest, err)
	case errors.Is(err, constants.ErrEmptyContent):
		return makeError(http.StatusBadRequest, "Content must not be empty")
	case errors.Is(err, constants.ErrInvalidPhaseNumber):
		return makeError(http.StatusBadRequest, "Phase number must be between 1 and 6")
	case errors.Is(err, constants.ErrInvalidPhaseStatus):
		return makeError(http.StatusBadRequest, "Invalid phase status")
	case errors.Is(err, constants.ErrInvalidPhaseData):
		return makeErrorFrom(http.StatusBadRequest, err)
	case errors.Is(err, constants.ErrNoStakeholders):
		return makeError(http.StatusBadRequest, "At least one stakeholder is required")
	case errors.Is(err, constants.ErrInvalidContentType):
		return makeError(http.StatusBadRequest, "Invalid content type")
	case errors.Is(err, constants.ErrInvalidChatContext):
		return makeError(http.StatusBadRequest, "Invalid chat context type")
	case errors.Is(err, constants.ErrInvalidApprovalState):
		return makeError(http.StatusBadRequest, "Invalid approval status")

	// Conflicts
	case errors.Is(err, constants.ErrPhaseLocked):
		return makeError(http.StatusConflict, "Phase is approved and locked for modification")
	case errors.Is(err, constants.ErrAlreadySubmitted):
		return makeError(http.StatusConflict, "Phase was already submitted for approval")
	case errors.Is(err, constants.ErrInvalidTransition):
		return makeErrorFrom(http.StatusConflict, err)
	case errors.Is(err, constants.ErrApprovalDecided):
		return makeError(http.StatusConflict, "Approval decision is already recorded")
	case errors.Is(err, constants.ErrStakeholderExists):
		return makeError(http.StatusConflict, "Stakeholder with this name and role already exists")
	case errors.Is(err, constants.ErrEmailExists):
		return makeError(http.StatusConflict, "Email already registered")
	case errors.Is(err, constants.ErrUsernameExists):
		return makeError(http.StatusConflict, "Username already taken")

	// Generation failures
	case errors.Is(err, constants.ErrGenerationTimeout):
		return makeError(http.StatusGatewayTimeout, "Content generation timed out")
	case errors.Is(err, constants.ErrMalformedResponse):
		return makeError(http.StatusBadGateway, "Generation provider returned a malformed response")
	case errors.Is(err, constants.ErrGenerationFailed):
		return makeError(http.StatusBadGateway, "Content generation failed")

	// Auth
	case errors.Is(err, constants.ErrInvalidCredentials):
		return makeError(http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, constants.ErrInactiveUser):
		return makeError(http.StatusForbidden, "User account is inactive")

	// Integrations
	case errors.Is(err, constants.ErrExportNotConfigured):
		return makeError(http.StatusNotImplemented, "Issue export integration is not configured")
	case errors.Is(err, constants.ErrExportFailed):
		return makeErrorFrom(http.StatusBadGateway, err)

	case errors.Is(err, constants.ErrInvalidInput):
		return makeErrorFrom(http.StatusBadRequest, err)

	// Default case for unknown errors
	default:
		LogError("Unhandled service error", err)
		return makeError(http.StatusInternalServerError, "Internal Server Error")
	}
}
