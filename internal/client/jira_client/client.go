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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"lifecycle-api/internal/client"
)

// JiraClient is a lightweight Jira Cloud REST client. It is stateless and
// holds the configured retry-enabled HTTP client and JiraConfig used to build
// requests.
type JiraClient struct {
	cfg        JiraConfig
	httpClient *client.RetryableHTTPClient
}

// NewJiraClient creates a new Jira client for the provided JiraConfig.
func NewJiraClient(cfg JiraConfig) *JiraClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &JiraClient{
		cfg:        cfg,
		httpClient: client.NewRetryableHTTPClient(maxRetries, timeout),
	}
}

// do executes the request with basic auth credentials attached.
func (c *JiraClient) do(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	return c.httpClient.Do(req)
}

// buildURL joins the site base URL with path segments ensuring single slashes.
func (c *JiraClient) buildURL(parts ...string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.Trim(p, "/")
		if trimmed == "" {
			continue
		}
		for _, subPart := range strings.Split(trimmed, "/") {
			if subPart != "" {
				segments = append(segments, url.PathEscape(subPart))
			}
		}
	}
	if len(segments) == 0 {
		return base
	}
	return base + "/" + strings.Join(segments, "/")
}

// newJSONRequest marshals v to JSON (if non-nil) and returns an *http.Request
// with Content-Type set and body replay enabled for retries.
func (c *JiraClient) newJSONRequest(method, url string, v interface{}) (*http.Request, error) {
	var body io.Reader
	var payload []byte
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		payload = b
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
	}
	return req, nil
}

// doAndDecode executes the request, checks the status against expectedCodes,
// and decodes the response JSON into out. If out is nil, the body is discarded.
func (c *JiraClient) doAndDecode(req *http.Request, expectedCodes []int, out interface{}) error {
	resp, err := c.do(req)
	if err != nil {
		log.Printf("jira_client: request failed: %v", err)
		return NewJiraError(0, err.Error(), true, ErrJiraConnectionFailed)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("jira_client: reading response body failed: %v", err)
		return err
	}

	ok := false
	for _, code := range expectedCodes {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		log.Printf("jira_client: unexpected status=%d body=%s", resp.StatusCode, string(b))
		underlying := ErrJiraInvalidRequest
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			underlying = ErrJiraAuthenticationFailed
		}
		return NewJiraError(resp.StatusCode, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(b)), resp.StatusCode >= 500, underlying)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(b, out); err != nil {
		log.Printf("jira_client: decode failed: %v; body=%s", err, string(b))
		return NewJiraError(resp.StatusCode, "failed to decode response", false, err)
	}
	return nil
}
