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

// promptSpec is one fully prepared completion request: the system role, the
// user prompt and the sampling settings tuned for that artifact kind.
type promptSpec struct {
	system      string
	user        string
	temperature float64
	maxTokens   int
}

func buildGenerationPrompt(contentType string, payload map[string]interface{}) (*promptSpec, error) {
	switch contentType {
	case ContentKindPRD:
		return buildPRDPrompt(payload), nil
	case ContentKindBRD:
		return buildBRDPrompt(payload), nil
	case ContentKindEpics:
		return buildEpicsPrompt(payload), nil
	case ContentKindUserStories:
		return buildUserStoriesPrompt(payload), nil
	case ContentKindArchitecture:
		return buildArchitecturePrompt(payload), nil
	case ContentKindRisks:
		return buildRiskAnalysisPrompt(payload), nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

func buildPRDPrompt(payload map[string]interface{}) *promptSpec {
	name, description := projectInfo(payload)
	user := fmt.Sprintf(`Generate a professional Product Requirements Document (PRD) for this project.

**Project**: %s
**Description**: %s

**Requirements**:
%s

**Include these sections with ACTUAL data from requirements**:
1. Executive Summary
2. Product Overview
3. User Personas
4. Feature Requirements (name, priority, user story, acceptance criteria)
5. Functional Requirements
6. Non-Functional Requirements
7. UX/UI
8. Technical Considerations
9. Success Metrics & KPIs
10. Timeline & Milestones
11. Risks & Mitigation
12. Assumptions & Constraints
13. Out of Scope

**Format**: Professional markdown, clear headings, bullet lists, tables. Use ACTUAL requirement data, NOT placeholders.

Return the complete PRD.`, name, description, requirementsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Product Manager who creates comprehensive, professional PRDs. Use proper templates and fill with actual requirement data.",
		user:        user,
		temperature: 0.5,
		maxTokens:   3000,
	}
}

func buildBRDPrompt(payload map[string]interface{}) *promptSpec {
	name, description := projectInfo(payload)
	user := fmt.Sprintf(`Generate a professional Business Requirements Document (BRD) for this project.

**Project**: %s
**Description**: %s

**Requirements**:
%s

**Include these sections with ACTUAL data from requirements**:
1. Executive Summary
2. Business Context
3. Business Objectives
4. Stakeholders
5. Project Scope (In-Scope / Out-of-Scope)
6. Business Requirements (capability, business value, priority)
7. Business Rules & Constraints
8. Success Criteria & KPIs
9. Timeline Estimate
10. Risk Analysis

**Format**: Professional markdown, focus on BUSINESS VALUE. Use ACTUAL requirement data, NOT placeholders.

Return the complete BRD.`, name, description, requirementsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Business Analyst who creates professional BRDs focused on business value.",
		user:        user,
		temperature: 0.5,
		maxTokens:   2200,
	}
}

func buildEpicsPrompt(payload map[string]interface{}) *promptSpec {
	name, _ := projectInfo(payload)
	user := fmt.Sprintf(`Analyze the following requirements and generate a comprehensive set of Epics for the planning phase.

**Project**: %s

%s

**Instructions**:
1. Group related requirements into logical, high-level Epics (typically 3-6 epics)
2. Each epic should represent a major feature area or business capability
3. Ensure EVERY requirement is mapped to an epic (use the requirement IDs)
4. Estimate the number of user stories (2-10) and story points (10-50) per epic
5. Assign priority based on business value: High, Medium, or Low

**Output Format** (JSON array):
[
  {
    "id": 1,
    "title": "Epic Name",
    "description": "Detailed description of what this epic covers",
    "stories": 5,
    "points": 25,
    "priority": "High",
    "requirements_mapped": ["req-id-1", "req-id-2"]
  }
]

Return ONLY the JSON array, no additional text.`, name, requirementsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Product Manager who creates well-structured Epics from requirements. Always respond with valid JSON.",
		user:        user,
		temperature: 0.7,
		maxTokens:   2000,
	}
}

func buildUserStoriesPrompt(payload map[string]interface{}) *promptSpec {
	name, _ := projectInfo(payload)
	user := fmt.Sprintf(`Based on the Epics below and the requirements they map, generate detailed User Stories with acceptance criteria.

**Project**: %s

## Epics:
%s

## Requirements:
%s

**Instructions**:
1. For EACH Epic, generate user stories that match its expected story count
2. Each story follows the format: "As a [role], I want [goal], so that [benefit]"
3. Include acceptance criteria derived from the requirement scenarios
4. Estimate story points using the Fibonacci scale: 1, 2, 3, 5, 8, 13
5. Assign priority High, Medium, or Low from the epic and requirement priority
6. All stories start in "backlog" status with no sprint assigned

**Output Format** (JSON array):
[
  {
    "id": 1,
    "epic": "Epic Title",
    "epic_id": 1,
    "title": "As a user, I want to...",
    "description": "Detailed description of what needs to be done",
    "acceptance_criteria": ["Criterion 1", "Criterion 2"],
    "points": 5,
    "priority": "High",
    "sprint": null,
    "status": "backlog"
  }
]

Return ONLY the JSON array with all user stories, no additional text.`, name, epicsSummary(payload), requirementsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Scrum Master who creates detailed user stories from epics and requirements. Always respond with valid JSON.",
		user:        user,
		temperature: 0.7,
		maxTokens:   4000,
	}
}

func buildArchitecturePrompt(payload map[string]interface{}) *promptSpec {
	name, _ := projectInfo(payload)
	user := fmt.Sprintf(`Design a system architecture for this project based on its epics and user stories.

**Project**: %s

## Epics:
%s

**Instructions**:
1. Propose the architecture components (frontend, backend, services, data stores)
2. Recommend a technology stack per tier
3. Outline the database design and the API design at a high level

**Output Format** (JSON object):
{
  "components": [
    {"id": 1, "name": "Component Name", "type": "frontend|backend|service|database", "description": "...", "technologies": ["..."]}
  ],
  "techStack": {"frontend": ["..."], "backend": ["..."], "infrastructure": ["..."]},
  "database": {},
  "api": {}
}

Return ONLY the JSON object, no additional text.`, name, epicsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Software Architect who designs pragmatic, scalable systems. Always respond with valid JSON.",
		user:        user,
		temperature: 0.5,
		maxTokens:   2500,
	}
}

func buildRiskAnalysisPrompt(payload map[string]interface{}) *promptSpec {
	name, _ := projectInfo(payload)
	user := fmt.Sprintf(`Analyze the following requirements and identify potential risks for this project.

**Project**: %s

**Requirements**:
%s

**Instructions**:
Identify risks across Technical, Business, Resource, Schedule and Quality categories.
For each risk provide: a clear description, category, priority (likelihood x impact),
impact, likelihood, a mitigation strategy and a contingency plan.

**Priority Calculation**:
- Critical: High likelihood + High/Severe impact
- High: Medium/High likelihood + Medium/High impact
- Medium: Low/Medium likelihood + Medium impact
- Low: Low likelihood + Low impact

**Output Format** (JSON array):
[
  {
    "id": "risk-1",
    "risk": "Specific risk description",
    "category": "Technical|Business|Resource|Schedule|Quality",
    "priority": "Critical|High|Medium|Low",
    "impact": "Severe|High|Medium|Low",
    "likelihood": "Very Likely|Likely|Possible|Unlikely",
    "mitigation": "Specific mitigation strategy",
    "contingency": "Plan if risk occurs",
    "affected_requirements": ["req-1", "req-2"]
  }
]

Identify 5-10 most significant risks. Be specific to the actual requirements provided.

Return ONLY the JSON array.`, name, requirementsSummary(payload))

	return &promptSpec{
		system:      "You are an expert Risk Analyst who identifies and assesses project risks. Always respond with valid JSON.",
		user:        user,
		temperature: 0.4,
		maxTokens:   2000,
	}
}

func buildChatPrompt(req *ChatRequest) (*promptSpec, error) {
	contextJSON := "{}"
	if len(req.Context) > 0 {
		b, err := json.MarshalIndent(req.Context, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chat context: %w", err)
		}
		contextJSON = string(b)
	}

	user := fmt.Sprintf(`Answer the user's question using the context below.

**Context type**: %s
**Context**:
%s

**Question**: %s

Respond with a JSON object:
{"response": "your answer", "alternatives": ["alternative suggestion 1", "alternative suggestion 2"], "confidence_score": 85}

Return ONLY the JSON object.`, req.ContextType, contextJSON, req.Query)

	return &promptSpec{
		system:      "You are an SDLC copilot that guides teams through requirements, planning, architecture, design, development and deployment. Be concise and actionable.",
		user:        user,
		temperature: 0.7,
		maxTokens:   1500,
	}, nil
}

// ---- payload summaries ----

// projectInfo pulls the project name and description out of the context
// payload, tolerating absent or oddly shaped entries.
func projectInfo(payload map[string]interface{}) (string, string) {
	name, description := "Project", ""
	project, ok := payload["project"].(map[string]interface{})
	if !ok {
		return name, description
	}
	if v, ok := project["name"].(string); ok && v != "" {
		name = v
	}
	if v, ok := project["description"].(string); ok {
		description = v
	}
	return name, description
}

// requirementsSummary renders the gherkin requirements (falling back to the
// legacy requirement list) as a numbered digest for prompt context.
func requirementsSummary(payload map[string]interface{}) string {
	reqs := documentList(payload, "gherkinRequirements")
	if len(reqs) == 0 {
		reqs = documentList(payload, "requirements")
	}
	if len(reqs) == 0 {
		return "No requirements provided."
	}

	var sb strings.Builder
	for i, req := range reqs {
		title := stringField(req, "feature")
		if title == "" {
			title = stringField(req, "title")
		}
		if title == "" {
			title = fmt.Sprintf("Requirement %d", i+1)
		}
		fmt.Fprintf(&sb, "%d. **%s** (ID: %s)\n", i+1, title, stringField(req, "id"))
		if asA := stringField(req, "as_a"); asA != "" {
			fmt.Fprintf(&sb, "   - As a %s, I want %s, so that %s\n",
				asA, stringField(req, "i_want"), stringField(req, "so_that"))
		}
		if priority := stringField(req, "priority"); priority != "" {
			fmt.Fprintf(&sb, "   - Priority: %s\n", priority)
		}
		if scenarios, ok := req["scenarios"].([]interface{}); ok && len(scenarios) > 0 {
			fmt.Fprintf(&sb, "   - Scenarios: %d\n", len(scenarios))
		}
	}
	return sb.String()
}

// epicsSummary renders the planning epics as a digest for prompt context.
func epicsSummary(payload map[string]interface{}) string {
	epics := documentList(payload, "epics")
	if len(epics) == 0 {
		return "No epics provided."
	}

	var sb strings.Builder
	for _, epic := range epics {
		fmt.Fprintf(&sb, "**Epic %v**: %s\n", epic["id"], stringField(epic, "title"))
		fmt.Fprintf(&sb, "  - Description: %s\n", stringField(epic, "description"))
		fmt.Fprintf(&sb, "  - Priority: %s\n", stringField(epic, "priority"))
		if v, ok := epic["stories"]; ok {
			fmt.Fprintf(&sb, "  - Expected Stories: %v\n", v)
		}
		if v, ok := epic["points"]; ok {
			fmt.Fprintf(&sb, "  - Story Points: %v\n", v)
		}
	}
	return sb.String()
}

// documentList extracts a list of JSON objects stored under key.
func documentList(payload map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if doc, ok := item.(map[string]interface{}); ok {
			out = append(out, doc)
		}
	}
	return out
}

func stringField(doc map[string]interface{}, key string) string {
	v, _ := doc[key].(string)
	return v
}
