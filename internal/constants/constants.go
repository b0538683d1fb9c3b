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

package constants

// Phase Status Constants
const (
	PhaseStatusNotStarted      = "not_started"
	PhaseStatusInProgress      = "in_progress"
	PhaseStatusPendingApproval = "pending_approval"
	PhaseStatusApproved        = "approved"
	PhaseStatusRejected        = "rejected"
)

// ValidPhaseStatuses Valid phase statuses
var ValidPhaseStatuses = map[string]bool{
	PhaseStatusNotStarted:      true,
	PhaseStatusInProgress:      true,
	PhaseStatusPendingApproval: true,
	PhaseStatusApproved:        true,
	PhaseStatusRejected:        true,
}

// ValidPhaseTransitions Directed edges of the phase status state machine.
// A status transition is legal only if it appears here; approved is terminal.
var ValidPhaseTransitions = map[string][]string{
	PhaseStatusNotStarted:      {PhaseStatusInProgress},
	PhaseStatusInProgress:      {PhaseStatusPendingApproval},
	PhaseStatusPendingApproval: {PhaseStatusApproved, PhaseStatusRejected},
	PhaseStatusRejected:        {PhaseStatusPendingApproval},
	PhaseStatusApproved:        {},
}

// Approval Status Constants
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// ValidApprovalStatuses Valid approval statuses
var ValidApprovalStatuses = map[string]bool{
	ApprovalStatusPending:  true,
	ApprovalStatusApproved: true,
	ApprovalStatusRejected: true,
}

// ValidApprovalDecisions Statuses a pending approval may be moved to
var ValidApprovalDecisions = map[string]bool{
	ApprovalStatusApproved: true,
	ApprovalStatusRejected: true,
}

// Content Type Constants for AI generation
const (
	ContentTypePRD          = "prd"
	ContentTypeBRD          = "brd"
	ContentTypeEpics        = "epics"
	ContentTypeUserStories  = "user_stories"
	ContentTypeArchitecture = "architecture"
	ContentTypeRisks        = "risks"
)

// ValidContentTypes Valid AI generation content types
var ValidContentTypes = map[string]bool{
	ContentTypePRD:          true,
	ContentTypeBRD:          true,
	ContentTypeEpics:        true,
	ContentTypeUserStories:  true,
	ContentTypeArchitecture: true,
	ContentTypeRisks:        true,
}

// ContentTypeDataKeys maps a content type to the top-level phase data key the
// generated artifact is stored under.
var ContentTypeDataKeys = map[string]string{
	ContentTypePRD:          "prd",
	ContentTypeBRD:          "brd",
	ContentTypeEpics:        "epics",
	ContentTypeUserStories:  "userStories",
	ContentTypeArchitecture: "architecture",
	ContentTypeRisks:        "risks",
}

// Phase numbering
const (
	PhaseCount = 6

	PhaseNumberRequirements = 1
	PhaseNumberPlanning     = 2
	PhaseNumberArchitecture = 3
	PhaseNumberDevelopment  = 4
	PhaseNumberTesting      = 5
	PhaseNumberDeployment   = 6
)

// DefaultConfidenceScore is the confidence applied to generated content when the
// provider response omits a score. Policy constant; do not inline per call site.
const DefaultConfidenceScore = 85

// AI Interaction Type Constants
const (
	InteractionTypeGenerate     = "generate"
	InteractionTypeAnalyzeRisks = "analyze_risks"
	InteractionTypeChat         = "chat"
)

// Chat Context Type Constants
const (
	ChatContextDashboard = "dashboard"
	ChatContextProject   = "project"
)

// ValidChatContextTypes Valid chat context types
var ValidChatContextTypes = map[string]bool{
	ChatContextDashboard: true,
	ChatContextProject:   true,
}

// Project Status Constants
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// DefaultUserRole Role assigned to signed-up users when none is provided
const DefaultUserRole = "Developer"

// Demo account credentials, provisioned on first demo login
const (
	DemoUserEmail    = "demo@lifecycle.dev"
	DemoUserName     = "demo"
	DemoUserFullName = "Demo User"
	DemoUserPassword = "demo123"
	DemoUserRole     = "Product Manager"
)

// Event Type Constants published on the project event stream
const (
	EventProjectCreated     = "project.created"
	EventProjectDeleted     = "project.deleted"
	EventPhaseStatusChanged = "phase.status_changed"
	EventApprovalDecided    = "approval.decided"
)
