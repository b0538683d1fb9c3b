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

import "time"

// LLMConfig contains provider configuration used to create clients
type LLMConfig struct {
	BaseURL    string        // full base URL including scheme, e.g. https://api.openai.com/v1
	APIKey     string        // bearer token sent in the Authorization header
	Model      string        // model identifier passed on every completion request
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // max retry attempts for transient transport errors
}

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

// DefaultTimeout is the default client timeout
const DefaultTimeout = 60 * time.Second

// DefaultMaxRetries is zero: a failed generation is surfaced to the caller,
// who decides whether to trigger it again.
const DefaultMaxRetries = 0
