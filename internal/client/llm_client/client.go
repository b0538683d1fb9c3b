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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lifecycle-api/internal/client"
)

// Gateway is the generation boundary consumed by the workflow services. The
// LLM provider behind it is replaceable; implementations must not retry a
// failed generation on their own.
type Gateway interface {
	GenerateContent(ctx context.Context, contentType string, payload map[string]interface{}) (*GenerationResult, error)
	AnalyzeRisks(ctx context.Context, payload map[string]interface{}) (*RiskAnalysisResult, error)
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)
}

// LLMClient talks to an OpenAI-compatible chat-completion endpoint. It is
// stateless and holds the configured retry-enabled HTTP client used to build
// requests.
type LLMClient struct {
	cfg        LLMConfig
	httpClient *client.RetryableHTTPClient
	model      string
}

// NewLLMClient creates a new provider client for the provided LLMConfig.
func NewLLMClient(cfg LLMConfig) *LLMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &LLMClient{
		cfg:        cfg,
		httpClient: client.NewRetryableHTTPClient(maxRetries, timeout),
		model:      model,
	}
}

// GenerateContent asks the provider for a phase artifact of the given content
// type and decodes it into the document shape that content type declares.
func (c *LLMClient) GenerateContent(ctx context.Context, contentType string, payload map[string]interface{}) (*GenerationResult, error) {
	prompt, err := buildGenerationPrompt(contentType, payload)
	if err != nil {
		return nil, err
	}

	raw, err := c.completion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, err := decodeArtifact(contentType, raw)
	if err != nil {
		return nil, err
	}

	// The chat-completion wire format carries no confidence score; leave it
	// unset and let the caller apply its fallback policy.
	return &GenerationResult{Content: content}, nil
}

// AnalyzeRisks asks the provider for a risk assessment of the supplied phase
// context and returns the decoded risk documents.
func (c *LLMClient) AnalyzeRisks(ctx context.Context, payload map[string]interface{}) (*RiskAnalysisResult, error) {
	prompt := buildRiskAnalysisPrompt(payload)

	raw, err := c.completion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	risks, err := decodeRiskList(raw)
	if err != nil {
		return nil, err
	}

	return &RiskAnalysisResult{Risks: risks}, nil
}

// Chat sends a conversational query with its context document. Providers that
// answer in the structured JSON shape get their alternatives and confidence
// passed through; plain-text answers are returned as the response verbatim.
func (c *LLMClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	prompt, err := buildChatPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := c.completion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return decodeChatResult(raw), nil
}

// completion executes one chat-completion round-trip and returns the content
// of the first choice.
func (c *LLMClient) completion(ctx context.Context, prompt *promptSpec) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.system},
			{Role: "user", Content: prompt.user},
		},
		Temperature: prompt.temperature,
		MaxTokens:   prompt.maxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	// Enable request body replay for retries
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewProviderError(resp.StatusCode,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrProviderUnavailable)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices", ErrMalformedResponse)
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion content", ErrEmptyCompletion)
	}
	return content, nil
}
