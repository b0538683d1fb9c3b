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

// Content kinds understood by the generation prompt and artifact decoders.
// Markdown kinds produce a single document string; JSON kinds produce decoded
// documents that are merged into the phase data as-is.
const (
	ContentKindPRD          = "prd"
	ContentKindBRD          = "brd"
	ContentKindEpics        = "epics"
	ContentKindUserStories  = "user_stories"
	ContentKindArchitecture = "architecture"
	ContentKindRisks        = "risks"
)

// GenerationResult is the decoded outcome of a content generation call.
// ConfidenceScore is nil when the provider does not report one; the caller
// owns the fallback policy.
type GenerationResult struct {
	Content         interface{}
	ConfidenceScore *int
}

// RiskAnalysisResult carries the decoded risk documents. Each entry is a JSON
// object with id, risk, category, priority, impact, likelihood, mitigation,
// contingency and affected_requirements populated (defaults applied when the
// provider omits a field).
type RiskAnalysisResult struct {
	Risks []interface{}
}

// ChatRequest is a conversational query with its assembled context document.
type ChatRequest struct {
	Query       string
	ContextType string // dashboard or project
	Context     map[string]interface{}
}

// ChatResult is the provider's answer to a conversational query.
type ChatResult struct {
	Response        string
	ConfidenceScore *int
	Alternatives    []string
}

// chat-completion wire format (OpenAI-compatible providers)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionChoice struct {
	Message chatMessage `json:"message"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}
