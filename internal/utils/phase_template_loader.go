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

package utils

import (
	"fmt"
	"os"
	"strings"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/model"

	"gopkg.in/yaml.v3"
)

type phaseTemplateYAML struct {
	PhaseNumber    int      `yaml:"phaseNumber"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	KeyActivities  []string `yaml:"keyActivities"`
	Deliverables   []string `yaml:"deliverables"`
	ApproverRoles  []string `yaml:"approverRoles"`
	RequiredFields []string `yaml:"requiredFields"`
}

type phaseTemplateFileYAML struct {
	Phases []phaseTemplateYAML `yaml:"phases"`
}

// DefaultPhaseTemplates returns the compiled-in six-phase catalog. Callers get
// a fresh copy; the catalog itself is immutable.
func DefaultPhaseTemplates() []*model.PhaseTemplate {
	return []*model.PhaseTemplate{
		{
			PhaseNumber:    constants.PhaseNumberRequirements,
			Name:           "Requirements & Business Analysis",
			Description:    "Define what to build",
			KeyActivities:  []string{"Requirements Collection", "PRD/BRD Creation", "Feasibility Analysis", "Risk Assessment"},
			Deliverables:   []string{"PRD", "BRD", "Risk Assessment"},
			ApproverRoles:  []string{"BR Owner", "Product Owner", "Business Stakeholders"},
			RequiredFields: []string{"prd", "brd"},
		},
		{
			PhaseNumber:    constants.PhaseNumberPlanning,
			Name:           "Planning & Product Backlog",
			Description:    "Plan how much and when",
			KeyActivities:  []string{"Effort Estimation", "Backlog Creation", "Sprint Planning", "Resource Allocation"},
			Deliverables:   []string{"Product Backlog", "Sprint Plan", "Release Roadmap"},
			ApproverRoles:  []string{"Project Manager", "Product Owner", "Technical Lead"},
			RequiredFields: []string{"epics", "userStories"},
		},
		{
			PhaseNumber:    constants.PhaseNumberArchitecture,
			Name:           "Architecture & High-Level Design",
			Description:    "Design the overall system",
			KeyActivities:  []string{"System Architecture", "Infrastructure Design", "Security Architecture", "API Architecture"},
			Deliverables:   []string{"Architecture Document", "Infrastructure Blueprint", "Security Plan"},
			ApproverRoles:  []string{"Solution Architect", "Technical Architect", "Security Architect"},
			RequiredFields: []string{"architecture"},
		},
		{
			PhaseNumber:   constants.PhaseNumberDevelopment,
			Name:          "Detailed Design & Specifications",
			Description:   "Create detailed specifications",
			KeyActivities: []string{"Database Design", "API Design", "UX/UI Design", "FSD Creation"},
			Deliverables:  []string{"DB Schema", "API Specs", "FSD", "UX/UI Designs"},
			ApproverRoles: []string{"Technical Lead", "Backend Architect", "Frontend Architect", "UX Designer"},
		},
		{
			PhaseNumber:   constants.PhaseNumberTesting,
			Name:          "Development, Testing & Code Review",
			Description:   "Build and test the software",
			KeyActivities: []string{"Backend Development", "Frontend Development", "Unit Testing", "Integration Testing", "QA", "UAT"},
			Deliverables:  []string{"Working Software", "Test Reports", "Code Coverage Reports"},
			ApproverRoles: []string{"Technical Lead", "Senior Dev", "QA Lead", "Security Team"},
		},
		{
			PhaseNumber:   constants.PhaseNumberDeployment,
			Name:          "Deployment, Release & Operations",
			Description:   "Release to production and monitor",
			KeyActivities: []string{"Staging Deployment", "Production Deployment", "Monitoring Setup", "Documentation"},
			Deliverables:  []string{"Deployed Application", "Monitoring Dashboard", "Documentation"},
			ApproverRoles: []string{"DevOps Lead", "Technical Lead", "Product Owner"},
		},
	}
}

// LoadPhaseTemplates resolves the phase catalog: the compiled-in defaults,
// optionally overlaid by entries from a YAML file. File entries replace the
// default with the same phase number; numbers outside 1..6 are rejected.
func LoadPhaseTemplates(filePath string) ([]*model.PhaseTemplate, error) {
	templates := DefaultPhaseTemplates()
	if strings.TrimSpace(filePath) == "" {
		return templates, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read phase template file %s: %w", filePath, err)
	}

	var doc phaseTemplateFileYAML
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse phase template file %s: %w", filePath, err)
	}

	byNumber := make(map[int]*model.PhaseTemplate, len(templates))
	for _, t := range templates {
		byNumber[t.PhaseNumber] = t
	}

	for _, entry := range doc.Phases {
		if entry.PhaseNumber < 1 || entry.PhaseNumber > constants.PhaseCount {
			return nil, fmt.Errorf("phase template file %s has invalid phaseNumber %d", filePath, entry.PhaseNumber)
		}
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("phase template file %s is missing name for phase %d", filePath, entry.PhaseNumber)
		}

		tpl := byNumber[entry.PhaseNumber]
		tpl.Name = entry.Name
		if entry.Description != "" {
			tpl.Description = entry.Description
		}
		if len(entry.KeyActivities) > 0 {
			tpl.KeyActivities = entry.KeyActivities
		}
		if len(entry.Deliverables) > 0 {
			tpl.Deliverables = entry.Deliverables
		}
		if len(entry.ApproverRoles) > 0 {
			tpl.ApproverRoles = entry.ApproverRoles
		}
		if len(entry.RequiredFields) > 0 {
			tpl.RequiredFields = entry.RequiredFields
		}
	}

	return templates, nil
}
