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
	"errors"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no fence",
			input:    `[{"id": 1}]`,
			expected: `[{"id": 1}]`,
		},
		{
			name:     "plain fence",
			input:    "```\n[{\"id\": 1}]\n```",
			expected: `[{"id": 1}]`,
		},
		{
			name:     "json language tag",
			input:    "```json\n[{\"id\": 1}]\n```",
			expected: `[{"id": 1}]`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{\"a\": 1}\n```\n  ",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.expected {
				t.Errorf("stripCodeFences() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDecodeArtifactMarkdownKindsStayStrings(t *testing.T) {
	raw := "# Product Requirements\n\nSome document body."

	for _, contentType := range []string{ContentKindPRD, ContentKindBRD} {
		content, err := decodeArtifact(contentType, raw)
		if err != nil {
			t.Fatalf("decodeArtifact(%s) error = %v", contentType, err)
		}
		if content != raw {
			t.Errorf("decodeArtifact(%s) = %v, want the raw document", contentType, content)
		}
	}
}

func TestDecodeArtifactAppliesEpicDefaults(t *testing.T) {
	raw := "```json\n[{\"title\": \"Payment flow\", \"stories\": 4}]\n```"

	content, err := decodeArtifact(ContentKindEpics, raw)
	if err != nil {
		t.Fatalf("decodeArtifact() error = %v", err)
	}

	items := content.([]interface{})
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	epic := items[0].(map[string]interface{})
	if epic["title"] != "Payment flow" {
		t.Errorf("title = %v, want provider value preserved", epic["title"])
	}
	if epic["id"] != 1 {
		t.Errorf("id = %v, want default 1", epic["id"])
	}
	if epic["priority"] != "Medium" {
		t.Errorf("priority = %v, want default Medium", epic["priority"])
	}
	// points derives from the story count when omitted
	if epic["points"] != 20 {
		t.Errorf("points = %v, want 20", epic["points"])
	}
}

func TestDecodeArtifactReassignsStoryIDs(t *testing.T) {
	raw := `[{"id": 1, "title": "A"}, {"id": 1, "title": "B"}, {"title": "C"}]`

	content, err := decodeArtifact(ContentKindUserStories, raw)
	if err != nil {
		t.Fatalf("decodeArtifact() error = %v", err)
	}

	items := content.([]interface{})
	for i, item := range items {
		story := item.(map[string]interface{})
		if story["id"] != i+1 {
			t.Errorf("story %d id = %v, want %d", i, story["id"], i+1)
		}
		if story["status"] != "backlog" {
			t.Errorf("story %d status = %v, want backlog", i, story["status"])
		}
	}
}

func TestDecodeArtifactArchitectureDefaults(t *testing.T) {
	content, err := decodeArtifact(ContentKindArchitecture, `{"components": [{"name": "api"}]}`)
	if err != nil {
		t.Fatalf("decodeArtifact() error = %v", err)
	}

	doc := content.(map[string]interface{})
	for _, key := range []string{"components", "techStack", "database", "api"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("architecture document is missing %q", key)
		}
	}
}

func TestDecodeArtifactRiskDefaults(t *testing.T) {
	content, err := decodeArtifact(ContentKindRisks, `[{"risk": "Provider outage"}]`)
	if err != nil {
		t.Fatalf("decodeArtifact() error = %v", err)
	}

	risks := content.([]interface{})
	risk := risks[0].(map[string]interface{})
	if risk["risk"] != "Provider outage" {
		t.Errorf("risk = %v, want provider value preserved", risk["risk"])
	}
	if risk["id"] != "risk-1" {
		t.Errorf("id = %v, want risk-1", risk["id"])
	}
	if risk["mitigation"] != "To be defined" {
		t.Errorf("mitigation = %v, want default", risk["mitigation"])
	}
}

func TestDecodeArtifactMalformedPayloads(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		raw         string
	}{
		{name: "epics not json", contentType: ContentKindEpics, raw: "here are your epics"},
		{name: "epics empty list", contentType: ContentKindEpics, raw: "[]"},
		{name: "user stories empty list", contentType: ContentKindUserStories, raw: "[]"},
		{name: "architecture not an object", contentType: ContentKindArchitecture, raw: "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeArtifact(tt.contentType, tt.raw)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("decodeArtifact() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestDecodeChatResultFallsBackToRawText(t *testing.T) {
	structured := decodeChatResult(`{"response": "All good.", "alternatives": ["Check phase two"], "confidence_score": 90}`)
	if structured.Response != "All good." || len(structured.Alternatives) != 1 {
		t.Errorf("structured result = %+v", structured)
	}
	if structured.ConfidenceScore == nil || *structured.ConfidenceScore != 90 {
		t.Errorf("ConfidenceScore = %v, want 90", structured.ConfidenceScore)
	}

	plain := decodeChatResult("The project is on track.")
	if plain.Response != "The project is on track." {
		t.Errorf("plain result = %+v, want the raw completion text", plain)
	}
	if plain.ConfidenceScore != nil {
		t.Errorf("plain ConfidenceScore = %v, want nil", plain.ConfidenceScore)
	}
}
