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

package llm_client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ProviderError represents an error from LLM provider operations
type ProviderError struct {
	Code       int    // HTTP status code from the provider
	Message    string // Human-readable error message
	Underlying error  // Underlying error if any
}

// Error implements the error interface for ProviderError
func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("llm provider error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("llm provider error: %s", e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a new ProviderError
func NewProviderError(code int, message string, underlying error) *ProviderError {
	return &ProviderError{
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
}

// Provider transport and decoding errors
var (
	ErrProviderTimeout     = errors.New("llm provider request timed out")
	ErrProviderUnavailable = errors.New("llm provider request failed")
	ErrMalformedResponse   = errors.New("llm provider returned a malformed response")
	ErrEmptyCompletion     = errors.New("llm provider returned no completion content")
)

// classifyTransportError wraps a transport-level failure into the matching
// sentinel so callers can branch with errors.Is.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
