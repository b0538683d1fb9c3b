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

import (
	"time"
)

// PhaseResponse represents a phase in API responses
type PhaseResponse struct {
	ID                string                 `json:"id"`
	ProjectID         string                 `json:"project_id"`
	PhaseNumber       int                    `json:"phase_number"`
	PhaseName         string                 `json:"phase_name"`
	Status            string                 `json:"status"`
	Data              map[string]interface{} `json:"data"`
	AIConfidenceScore *int                   `json:"ai_confidence_score"`
	StartedAt         *time.Time             `json:"started_at,omitempty"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// PhaseListResponse represents the fixed set of phases of one project.
// Phases are not paginated; a project always owns exactly six.
type PhaseListResponse struct {
	Count int             `json:"count"`
	List  []PhaseResponse `json:"list"`
}

// UpdatePhaseRequest represents the PUT body for a partial phase update.
// Data keys are merged into the stored document top-level key by top-level
// key; omitted fields are left untouched.
type UpdatePhaseRequest struct {
	Status            *string                `json:"status"`
	Data              map[string]interface{} `json:"data"`
	AIConfidenceScore *int                   `json:"ai_confidence_score"`
}

// SaveDraftRequest represents the body for saving a single named draft field
type SaveDraftRequest struct {
	Field   string      `json:"field" binding:"required"`
	Content interface{} `json:"content"`
}

// StakeholderInput identifies one approver selected at submission time
type StakeholderInput struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// SubmitForApprovalRequest represents the body for submitting a phase for
// stakeholder approval
type SubmitForApprovalRequest struct {
	RequiredFields []string           `json:"required_fields"`
	Stakeholders   []StakeholderInput `json:"stakeholders" binding:"required"`
}

// PhaseTemplate describes one catalog phase exposed via the template endpoint
type PhaseTemplate struct {
	PhaseNumber    int      `json:"phase_number"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	KeyActivities  []string `json:"key_activities"`
	Deliverables   []string `json:"deliverables"`
	ApproverRoles  []string `json:"approver_roles"`
	RequiredFields []string `json:"required_fields"`
}

// PhaseTemplateListResponse represents the phase template catalog
type PhaseTemplateListResponse struct {
	Count int             `json:"count"`
	List  []PhaseTemplate `json:"list"`
}
