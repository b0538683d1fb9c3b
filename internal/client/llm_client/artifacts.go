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
	"encoding/json"
	"fmt"
	"strings"
)

// stripCodeFences removes a leading Markdown code fence (with optional json
// language tag) from provider output. Providers regularly wrap JSON payloads
// this way despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	s = parts[1]
	if strings.HasPrefix(s, "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// decodeArtifact turns raw completion text into the document shape the content
// type declares: Markdown kinds stay strings, JSON kinds are decoded and get
// their per-field defaults applied.
func decodeArtifact(contentType, raw string) (interface{}, error) {
	switch contentType {
	case ContentKindPRD, ContentKindBRD:
		return raw, nil
	case ContentKindEpics:
		items, err := decodeDocumentList(raw)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: empty epic list", ErrMalformedResponse)
		}
		applyEpicDefaults(items)
		return items, nil
	case ContentKindUserStories:
		items, err := decodeDocumentList(raw)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: empty user story list", ErrMalformedResponse)
		}
		applyUserStoryDefaults(items)
		return items, nil
	case ContentKindArchitecture:
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		setDefault(doc, "components", []interface{}{})
		setDefault(doc, "techStack", map[string]interface{}{})
		setDefault(doc, "database", map[string]interface{}{})
		setDefault(doc, "api", map[string]interface{}{})
		return doc, nil
	case ContentKindRisks:
		return decodeRiskList(raw)
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

func decodeRiskList(raw string) ([]interface{}, error) {
	items, err := decodeDocumentList(raw)
	if err != nil {
		return nil, err
	}
	applyRiskDefaults(items)
	return items, nil
}

func decodeDocumentList(raw string) ([]interface{}, error) {
	var items []interface{}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return items, nil
}

func decodeDocument(raw string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return doc, nil
}

// decodeChatResult accepts the structured chat answer when the provider
// followed the response contract and falls back to treating the whole
// completion as the answer text when it did not.
func decodeChatResult(raw string) *ChatResult {
	var decoded struct {
		Response        string   `json:"response"`
		Alternatives    []string `json:"alternatives"`
		ConfidenceScore *int     `json:"confidence_score"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &decoded); err == nil && decoded.Response != "" {
		return &ChatResult{
			Response:        decoded.Response,
			ConfidenceScore: decoded.ConfidenceScore,
			Alternatives:    decoded.Alternatives,
		}
	}
	return &ChatResult{Response: raw}
}

// ---- per-artifact defaults ----

func applyEpicDefaults(items []interface{}) {
	for i, item := range items {
		epic, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		setDefault(epic, "id", i+1)
		setDefault(epic, "title", fmt.Sprintf("Epic %v", epic["id"]))
		setDefault(epic, "description", "Epic description")
		setDefault(epic, "stories", 5)
		if _, ok := epic["points"]; !ok {
			epic["points"] = intValue(epic["stories"], 5) * 5
		}
		setDefault(epic, "priority", "Medium")
		setDefault(epic, "requirements_mapped", []interface{}{})
	}
}

func applyUserStoryDefaults(items []interface{}) {
	storyID := 1
	for _, item := range items {
		story, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		// ids are reassigned sequentially so stories stay addressable even
		// when the provider numbers them per-epic
		story["id"] = storyID
		storyID++
		setDefault(story, "epic", "Unknown Epic")
		setDefault(story, "epic_id", 1)
		setDefault(story, "title", "User Story")
		setDefault(story, "description", "Story description")
		setDefault(story, "acceptance_criteria", []interface{}{})
		setDefault(story, "points", 5)
		setDefault(story, "priority", "Medium")
		setDefault(story, "sprint", nil)
		setDefault(story, "status", "backlog")
	}
}

func applyRiskDefaults(items []interface{}) {
	for i, item := range items {
		risk, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		setDefault(risk, "id", fmt.Sprintf("risk-%d", i+1))
		setDefault(risk, "risk", fmt.Sprintf("Risk %d", i+1))
		setDefault(risk, "category", "Technical")
		setDefault(risk, "priority", "Medium")
		setDefault(risk, "impact", "Medium")
		setDefault(risk, "likelihood", "Possible")
		setDefault(risk, "mitigation", "To be defined")
		setDefault(risk, "contingency", "Monitor and reassess")
		setDefault(risk, "affected_requirements", []interface{}{})
	}
}

func setDefault(doc map[string]interface{}, key string, value interface{}) {
	if _, ok := doc[key]; !ok {
		doc[key] = value
	}
}

func intValue(v interface{}, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return fallback
	}
}
