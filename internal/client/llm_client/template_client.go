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
	"fmt"
	"strings"
)

// TemplateClient is a deterministic Gateway implementation backed by built-in
// templates. It is wired in when no provider credentials are configured so the
// workflow stays fully usable in demos and local development, and it doubles
// as the documented shape reference for every artifact the hosted provider is
// asked to produce.
type TemplateClient struct{}

// NewTemplateClient creates a template-backed gateway.
func NewTemplateClient() *TemplateClient {
	return &TemplateClient{}
}

// GenerateContent renders the requested artifact from templates and the
// documents already present in the payload.
func (c *TemplateClient) GenerateContent(_ context.Context, contentType string, payload map[string]interface{}) (*GenerationResult, error) {
	switch contentType {
	case ContentKindPRD:
		return &GenerationResult{Content: templatePRD(payload)}, nil
	case ContentKindBRD:
		return &GenerationResult{Content: templateBRD(payload)}, nil
	case ContentKindEpics:
		return &GenerationResult{Content: templateEpics(payload)}, nil
	case ContentKindUserStories:
		return &GenerationResult{Content: templateUserStories(payload)}, nil
	case ContentKindArchitecture:
		return &GenerationResult{Content: templateArchitecture(payload)}, nil
	case ContentKindRisks:
		return &GenerationResult{Content: templateRisks(payload)}, nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

// AnalyzeRisks returns the baseline risk register for the supplied
// requirements.
func (c *TemplateClient) AnalyzeRisks(_ context.Context, payload map[string]interface{}) (*RiskAnalysisResult, error) {
	return &RiskAnalysisResult{Risks: templateRisks(payload)}, nil
}

// Chat routes the query through a keyword intent detector and answers with
// canned guidance for the detected intent.
func (c *TemplateClient) Chat(_ context.Context, req *ChatRequest) (*ChatResult, error) {
	phaseID := chatPhaseID(req.Context)

	switch detectIntent(req.Query) {
	case intentCreateProject:
		return guideProjectCreation(), nil
	case intentStartPhase:
		return guidePhaseStart(phaseID), nil
	case intentGenerateContent:
		return guideContentGeneration(phaseID), nil
	case intentReviewApproval:
		return guideApprovalProcess(phaseID), nil
	case intentNextSteps:
		return suggestNextSteps(phaseID), nil
	default:
		return contextualHelp(phaseID), nil
	}
}

// ---- intent routing ----

const (
	intentCreateProject   = "create_project"
	intentStartPhase      = "start_phase"
	intentGenerateContent = "generate_content"
	intentReviewApproval  = "review_approval"
	intentNextSteps       = "next_steps"
	intentHelp            = "help"
)

func detectIntent(query string) string {
	q := strings.ToLower(query)

	if containsAny(q, "create project", "new project", "start project") {
		return intentCreateProject
	}
	if containsAny(q, "start phase", "begin phase", "move to phase") {
		return intentStartPhase
	}
	if containsAny(q, "generate", "create prd", "create brd", "write", "design") {
		return intentGenerateContent
	}
	if containsAny(q, "approval", "review", "stakeholder") {
		return intentReviewApproval
	}
	if containsAny(q, "next", "what should", "what do") {
		return intentNextSteps
	}
	return intentHelp
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func chatPhaseID(chatContext map[string]interface{}) int {
	id := intValue(chatContext["phase_id"], 1)
	if id < 1 {
		return 1
	}
	if id > 6 {
		return 6
	}
	return id
}

func guideProjectCreation() *ChatResult {
	return &ChatResult{
		Response: `I'll help you create a new project.

To get started, tell me:

1. **What are you building?** (e.g., mobile app, web platform, IoT system)
2. **What problem does it solve?**
3. **Who are the users?**
4. **Any specific industry?** (e.g., healthcare, fintech, logistics)

You can answer in any format.

**Example:** "I want to build a trucking platform for zero-emission vehicles with fleet management"`,
		ConfidenceScore: intPtr(85),
		Alternatives: []string{
			"Healthcare app for patient management",
			"E-commerce platform with AI recommendations",
			"IoT system for smart buildings",
		},
	}
}

func guidePhaseStart(phaseID int) *ChatResult {
	guide := phaseGuides[phaseID]
	return &ChatResult{
		Response: fmt.Sprintf(`Let's start **Phase %d: %s**.

%s

**What we'll accomplish:**
%s

**Deliverables:**
%s

**I can help you with:**
%s

What would you like to start with?`,
			phaseID, guide.name, guide.description,
			formatBullets(guide.activities),
			formatBullets(guide.deliverables),
			formatBullets(guide.assistance)),
		ConfidenceScore: intPtr(90),
	}
}

func guideContentGeneration(phaseID int) *ChatResult {
	guide := phaseGuides[phaseID]
	alternatives := make([]string, 0, len(guide.deliverables))
	for _, deliverable := range guide.deliverables {
		alternatives = append(alternatives, "Generate "+deliverable)
	}
	return &ChatResult{
		Response: fmt.Sprintf(`For **Phase %d: %s** I can generate:

%s

Pick a deliverable and I'll draft it from the project data captured so far. You can edit the draft before submitting the phase for approval.`,
			phaseID, guide.name, formatBullets(guide.deliverables)),
		ConfidenceScore: intPtr(92),
		Alternatives:    alternatives,
	}
}

func guideApprovalProcess(phaseID int) *ChatResult {
	return &ChatResult{
		Response: fmt.Sprintf(`Let's set up approvals for Phase %d.

Based on this phase, you need approvals from:
%s

Would you like me to:
1. Create approval requests
2. Send notifications to stakeholders
3. Track approval status`,
			phaseID, approversForPhase(phaseID)),
		ConfidenceScore: intPtr(88),
	}
}

func suggestNextSteps(phaseID int) *ChatResult {
	if phaseID >= 6 {
		return &ChatResult{
			Response: `Congratulations, you've completed all 6 phases!

Your project is ready for production:
- Phase 1: Requirements & Business Analysis
- Phase 2: Planning & Product Backlog
- Phase 3: Architecture & High-Level Design
- Phase 4: Detailed Design & Specifications
- Phase 5: Development, Testing & Code Review
- Phase 6: Deployment, Release & Operations

What would you like to do now?
- Review final deliverables
- Export the backlog to your issue tracker
- Start a project retrospective`,
			ConfidenceScore: intPtr(95),
		}
	}

	next := phaseGuides[phaseID+1]
	return &ChatResult{
		Response: fmt.Sprintf(`Here's what's next:

**Current Phase %d status:**
- Content generated
- Awaiting approvals

**Next steps:**
1. Review generated content
2. Get stakeholder approvals
3. Move to Phase %d

**Phase %d preview:** %s — %s`,
			phaseID, phaseID+1, phaseID+1, next.name, next.description),
		ConfidenceScore: intPtr(90),
		Alternatives:    []string{fmt.Sprintf("Let's move to Phase %d", phaseID+1)},
	}
}

func contextualHelp(phaseID int) *ChatResult {
	return &ChatResult{
		Response: fmt.Sprintf(`I'm here to help with Phase %d: %s.

**I can help you:**
- Generate phase content
- Review deliverables
- Set up approvals
- Suggest next steps

What would you like me to help you with?`,
			phaseID, phaseGuides[phaseID].name),
		ConfidenceScore: intPtr(80),
		Alternatives: []string{
			"Generate phase content",
			"Set up approvals",
			"What's next?",
		},
	}
}

func approversForPhase(phaseID int) string {
	approvers := map[int]string{
		1: "- Product Owner\n- BR Owner\n- Business Stakeholders",
		2: "- Project Manager\n- Product Owner\n- Technical Lead",
		3: "- Solution Architect\n- Technical Architect\n- Security Architect",
		4: "- Technical Lead\n- Backend Architect\n- Frontend Architect\n- UX Designer",
		5: "- Technical Lead\n- Senior Developer\n- QA Lead\n- Security Team",
		6: "- DevOps Lead\n- Technical Lead\n- Product Owner",
	}
	if v, ok := approvers[phaseID]; ok {
		return v
	}
	return "- Project stakeholders"
}

type phaseGuide struct {
	name         string
	description  string
	activities   []string
	deliverables []string
	assistance   []string
}

var phaseGuides = map[int]phaseGuide{
	1: {
		name:         "Requirements & Business Analysis",
		description:  "Define what needs to be built.",
		activities:   []string{"Requirements collection", "PRD & BRD creation", "Risk assessment", "Feasibility analysis"},
		deliverables: []string{"PRD", "BRD", "Risk Assessment"},
		assistance:   []string{"Extract requirements from conversations", "Generate PRD/BRD drafts", "Identify risks automatically", "Suggest missing requirements"},
	},
	2: {
		name:         "Planning & Product Backlog",
		description:  "Plan effort and create the backlog.",
		activities:   []string{"Effort estimation", "Epic creation", "User story breakdown", "Sprint planning"},
		deliverables: []string{"Product Backlog", "Sprint Plan", "Release Roadmap"},
		assistance:   []string{"Auto-generate epics from requirements", "Create user stories", "Estimate story points", "Optimize sprint distribution"},
	},
	3: {
		name:         "Architecture & High-Level Design",
		description:  "Design the overall system.",
		activities:   []string{"System architecture", "Technology stack selection", "Infrastructure design", "Security architecture"},
		deliverables: []string{"Architecture Document", "Infrastructure Blueprint", "Security Plan"},
		assistance:   []string{"Suggest architecture patterns", "Recommend a tech stack", "Generate architecture outlines", "Security best practices"},
	},
	4: {
		name:         "Detailed Design & Specifications",
		description:  "Create detailed specifications.",
		activities:   []string{"Database design", "API specifications", "UX/UI design", "FSD creation"},
		deliverables: []string{"DB Schema", "API Specs", "FSD", "UX/UI Designs"},
		assistance:   []string{"Generate database schemas", "Create API documentation", "Design wireframes", "Generate the FSD"},
	},
	5: {
		name:         "Development, Testing & Code Review",
		description:  "Build and test the software.",
		activities:   []string{"Backend development", "Frontend development", "Unit testing", "Integration testing", "QA"},
		deliverables: []string{"Working Software", "Test Reports", "Code Coverage"},
		assistance:   []string{"Generate boilerplate code", "Generate unit tests", "Code review suggestions"},
	},
	6: {
		name:         "Deployment, Release & Operations",
		description:  "Release to production and monitor.",
		activities:   []string{"Staging deployment", "Production deployment", "Monitoring setup", "Documentation"},
		deliverables: []string{"Deployed Application", "Monitoring Dashboard", "Documentation"},
		assistance:   []string{"Generate a deployment checklist", "Create monitoring dashboards", "Generate documentation"},
	},
}

func formatBullets(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - " + item)
	}
	return sb.String()
}

func intPtr(n int) *int {
	return &n
}

// ---- document templates ----

func templatePRD(payload map[string]interface{}) string {
	name, description := projectInfo(payload)
	if description == "" {
		description = "Product description"
	}
	reqs := requirementsList(payload)

	var features strings.Builder
	for i, req := range reqs {
		fmt.Fprintf(&features, "\n### %d. %s\n**Priority**: %s\n\n",
			i+1, requirementTitle(req, i), defaultedField(req, "priority", "Medium"))
	}

	return fmt.Sprintf(`# Product Requirements Document (PRD)

## Project: %s

## 1. Product Overview
%s

## 2. Key Features
%s

## 3. Requirements Summary
Total Requirements: %d

---
*Generated by the Lifecycle AI Copilot (template mode)*`, name, description, features.String(), len(reqs))
}

func templateBRD(payload map[string]interface{}) string {
	name, description := projectInfo(payload)
	if description == "" {
		description = "Business case"
	}
	reqs := requirementsList(payload)

	var scope strings.Builder
	for i, req := range reqs {
		fmt.Fprintf(&scope, "- %s (Priority: %s)\n",
			requirementTitle(req, i), defaultedField(req, "priority", "Medium"))
	}

	return fmt.Sprintf(`# Business Requirements Document (BRD)

## Project: %s

## 1. Executive Summary
%s

## 2. Business Objectives
- Deliver a high-quality solution meeting all requirements
- Ensure user satisfaction and adoption
- Achieve ROI within the expected timeframe

## 3. Scope

### In Scope
%s

## 4. Requirements Summary
Total Requirements: %d

---
*Generated by the Lifecycle AI Copilot (template mode)*`, name, description, scope.String(), len(reqs))
}

// templateEpics groups the gathered requirements into at most four epics,
// sized by how many requirements each batch carries.
func templateEpics(payload map[string]interface{}) []interface{} {
	reqs := requirementsList(payload)
	if len(reqs) == 0 {
		return []interface{}{
			map[string]interface{}{
				"id":                  1,
				"title":               "Core System Features",
				"description":         "Implement core system functionality",
				"stories":             5,
				"points":              21,
				"priority":            "High",
				"requirements_mapped": []interface{}{},
			},
		}
	}

	perEpic := max(2, len(reqs)/3)
	epics := make([]interface{}, 0, 4)
	epicID := 1
	for i := 0; i < len(reqs) && epicID <= 4; i += perEpic {
		batch := reqs[i:min(i+perEpic, len(reqs))]

		mapped := make([]interface{}, 0, len(batch))
		for _, req := range batch {
			mapped = append(mapped, defaultedField(req, "id", fmt.Sprintf("req-%d", i)))
		}

		stories := min(10, len(batch)*2)
		epics = append(epics, map[string]interface{}{
			"id":                  epicID,
			"title":               requirementTitle(batch[0], epicID-1),
			"description":         fmt.Sprintf("Implementation of %d related requirements", len(batch)),
			"stories":             stories,
			"points":              stories * 5,
			"priority":            "High",
			"requirements_mapped": mapped,
		})
		epicID++
	}
	return epics
}

// templateUserStories derives up to five stories per epic, spreading the
// epic's point estimate across them.
func templateUserStories(payload map[string]interface{}) []interface{} {
	epics := documentList(payload, "epics")
	stories := make([]interface{}, 0, len(epics)*5)
	storyID := 1

	for _, epic := range epics {
		title := stringField(epic, "title")
		if title == "" {
			title = "Epic"
		}
		numStories := max(1, intValue(epic["stories"], 5))
		pointsPerStory := max(3, intValue(epic["points"], 25)/numStories)

		for i := 0; i < min(numStories, 5); i++ {
			stories = append(stories, map[string]interface{}{
				"id":          storyID,
				"epic":        title,
				"epic_id":     intValue(epic["id"], 0),
				"title":       fmt.Sprintf("As a user, I want to use %s functionality", strings.ToLower(title)),
				"description": fmt.Sprintf("Implement core functionality for %s", title),
				"acceptance_criteria": []interface{}{
					fmt.Sprintf("%s is implemented as specified", title),
					"All features are accessible and functional",
					"Error handling is robust",
				},
				"points":   min(pointsPerStory, 8),
				"priority": defaultedField(epic, "priority", "Medium"),
				"sprint":   nil,
				"status":   "backlog",
			})
			storyID++
		}
	}
	return stories
}

// templateArchitecture proposes components from keywords in the epic titles
// and fills in a conventional web platform stack around them.
func templateArchitecture(payload map[string]interface{}) map[string]interface{} {
	epics := documentList(payload, "epics")

	components := []interface{}{
		map[string]interface{}{
			"id":           1,
			"name":         "Frontend Application",
			"type":         "frontend",
			"description":  "User-facing web application with responsive design",
			"technologies": []interface{}{"React", "TypeScript", "Tailwind CSS", "Vite"},
		},
		map[string]interface{}{
			"id":           2,
			"name":         "Backend API Server",
			"type":         "backend",
			"description":  "RESTful API handling business logic and data management",
			"technologies": []interface{}{"Go", "Gin", "JWT"},
		},
		map[string]interface{}{
			"id":           3,
			"name":         "PostgreSQL Database",
			"type":         "database",
			"description":  "Primary data storage with relational schema",
			"technologies": []interface{}{"PostgreSQL", "Migrations"},
		},
	}
	componentID := 4

	titles := make([]string, 0, len(epics))
	for _, epic := range epics {
		titles = append(titles, strings.ToLower(stringField(epic, "title")))
	}
	epicText := strings.Join(titles, " ")

	if containsAny(epicText, "auth", "login", "user", "security") {
		components = append(components, map[string]interface{}{
			"id":           componentID,
			"name":         "Authentication Service",
			"type":         "security",
			"description":  "User authentication and authorization system",
			"technologies": []interface{}{"JWT", "bcrypt", "OAuth 2.0"},
		})
		componentID++
	}
	if containsAny(epicText, "payment", "billing", "subscription") {
		components = append(components, map[string]interface{}{
			"id":           componentID,
			"name":         "Payment Gateway Integration",
			"type":         "integration",
			"description":  "Payment processing and billing management",
			"technologies": []interface{}{"Stripe API", "Webhook Handler", "PCI Compliance"},
		})
		componentID++
	}
	if containsAny(epicText, "notification", "email", "alert") {
		components = append(components, map[string]interface{}{
			"id":           componentID,
			"name":         "Notification Service",
			"type":         "service",
			"description":  "Email and push notification delivery system",
			"technologies": []interface{}{"SendGrid", "Redis Queue", "WebSocket"},
		})
		componentID++
	}
	if containsAny(epicText, "search", "analytics", "dashboard") {
		components = append(components, map[string]interface{}{
			"id":           componentID,
			"name":         "Analytics & Reporting",
			"type":         "service",
			"description":  "Data analytics and reporting engine",
			"technologies": []interface{}{"Elasticsearch", "Grafana"},
		})
		componentID++
	}
	if containsAny(epicText, "ai", "ml", "copilot", "chatbot") {
		components = append(components, map[string]interface{}{
			"id":           componentID,
			"name":         "AI/ML Service",
			"type":         "service",
			"description":  "AI-powered features and intelligent automation",
			"technologies": []interface{}{"OpenAI API", "Vector Database", "RAG"},
		})
	}

	return map[string]interface{}{
		"components": components,
		"techStack": map[string]interface{}{
			"frontend":       []interface{}{"React 18", "TypeScript", "Tailwind CSS", "Vite"},
			"backend":        []interface{}{"Go", "Gin", "JWT Auth", "CORS Middleware"},
			"database":       []interface{}{"PostgreSQL 15+", "Redis (Cache)"},
			"infrastructure": []interface{}{"Docker", "Docker Compose", "Nginx", "GitHub Actions"},
			"testing":        []interface{}{"Go test", "Jest", "Playwright"},
		},
		"database": map[string]interface{}{
			"tables": []interface{}{
				map[string]interface{}{
					"name":        "users",
					"description": "User accounts and authentication",
					"key_fields":  []interface{}{"id", "email", "username", "password_hash", "role"},
				},
				map[string]interface{}{
					"name":        "projects",
					"description": "Project information",
					"key_fields":  []interface{}{"id", "name", "description", "created_by", "status"},
				},
				map[string]interface{}{
					"name":        "phases",
					"description": "Lifecycle phases per project",
					"key_fields":  []interface{}{"id", "project_id", "phase_number", "status", "data"},
				},
			},
		},
		"api": map[string]interface{}{
			"restful_endpoints": []interface{}{
				map[string]interface{}{"method": "POST", "path": "/api/v1/auth/login", "description": "User authentication"},
				map[string]interface{}{"method": "GET", "path": "/api/v1/projects", "description": "List all projects"},
				map[string]interface{}{"method": "POST", "path": "/api/v1/projects", "description": "Create new project"},
				map[string]interface{}{"method": "GET", "path": "/api/v1/projects/{id}", "description": "Get project details"},
				map[string]interface{}{"method": "GET", "path": "/api/v1/projects/{id}/phases", "description": "Get project phases"},
			},
			"authentication": "JWT Bearer Token",
			"data_format":    "JSON",
			"versioning":     "URL path (/api/v1/...)",
		},
	}
}

// templateRisks returns the baseline risk register. It is intentionally
// generic; the hosted provider produces requirement-specific entries.
func templateRisks(payload map[string]interface{}) []interface{} {
	if len(requirementsList(payload)) == 0 {
		return []interface{}{}
	}
	return []interface{}{
		map[string]interface{}{
			"id":                    "risk-1",
			"risk":                  "Technical complexity in implementation",
			"category":              "Technical",
			"priority":              "High",
			"impact":                "High",
			"likelihood":            "Likely",
			"mitigation":            "Conduct technical spike, use proven technologies",
			"contingency":           "Allocate additional development time",
			"affected_requirements": []interface{}{},
		},
		map[string]interface{}{
			"id":                    "risk-2",
			"risk":                  "Resource availability constraints",
			"category":              "Resource",
			"priority":              "Medium",
			"impact":                "Medium",
			"likelihood":            "Possible",
			"mitigation":            "Ensure team allocation in advance",
			"contingency":           "Adjust timeline or scope",
			"affected_requirements": []interface{}{},
		},
		map[string]interface{}{
			"id":                    "risk-3",
			"risk":                  "Scope creep and requirement changes",
			"category":              "Schedule",
			"priority":              "High",
			"impact":                "High",
			"likelihood":            "Likely",
			"mitigation":            "Implement strict change control process",
			"contingency":           "Re-prioritize features, phase delivery",
			"affected_requirements": []interface{}{},
		},
	}
}

func requirementsList(payload map[string]interface{}) []map[string]interface{} {
	reqs := documentList(payload, "gherkinRequirements")
	if len(reqs) == 0 {
		reqs = documentList(payload, "requirements")
	}
	return reqs
}

func requirementTitle(req map[string]interface{}, idx int) string {
	if v := stringField(req, "feature"); v != "" {
		return v
	}
	if v := stringField(req, "title"); v != "" {
		return v
	}
	return fmt.Sprintf("Feature %d", idx+1)
}

func defaultedField(doc map[string]interface{}, key string, fallback interface{}) interface{} {
	if v, ok := doc[key]; ok && v != nil && v != "" {
		return v
	}
	return fallback
}
