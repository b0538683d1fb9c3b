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

package dto

// GenerateContentResponse represents the result of an AI generation call.
// Content is the generated artifact in the shape its content type dictates
// (markdown string for prd/brd, JSON array for epics/user_stories/risks,
// JSON object for architecture).
type GenerateContentResponse struct {
	Content         interface{} `json:"content"`
	ConfidenceScore int         `json:"confidence_score"`
}

// AnalyzeRisksResponse represents the result of requirement risk analysis.
// Risks are open JSON documents (id, risk, category, priority, impact,
// likelihood, mitigation, contingency, affected_requirements) and are stored
// in phase data exactly as produced.
type AnalyzeRisksResponse struct {
	Status  string        `json:"status"`
	Risks   []interface{} `json:"risks"`
	Count   int           `json:"count"`
	Message string        `json:"message"`
}

// ChatQueryRequest represents the body of a copilot chat query
type ChatQueryRequest struct {
	Query       string  `json:"query" binding:"required"`
	ContextType string  `json:"context_type" binding:"required"`
	ProjectID   *string `json:"project_id"`
	PhaseID     *string `json:"phase_id"`
}

// ChatQueryResponse represents the copilot answer
type ChatQueryResponse struct {
	Response        string   `json:"response"`
	ConfidenceScore int      `json:"confidence_score"`
	Alternatives    []string `json:"alternatives"`
	Sources         []string `json:"sources,omitempty"`
	ContextType     string   `json:"context_type"`
}
