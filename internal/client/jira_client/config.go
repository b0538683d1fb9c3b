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

import "time"

// JiraConfig contains the connection settings for a Jira Cloud site.
type JiraConfig struct {
	BaseURL    string        // site base URL including scheme, e.g. https://acme.atlassian.net
	Email      string        // account email for basic auth
	APIToken   string        // API token paired with the email
	ProjectKey string        // Jira project issues are created under
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // max retry attempts for transient errors
}

// DefaultTimeout is the default client timeout
const DefaultTimeout = 10 * time.Second

// DefaultMaxRetries is the default retry attempts for transient errors
const DefaultMaxRetries = 3

// IsConfigured reports whether the config carries enough detail to reach a
// Jira site.
func (c JiraConfig) IsConfigured() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != "" && c.ProjectKey != ""
}
