/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dto

// EventDTO represents the wire format for events pushed to connected clients.
// This DTO separates the internal model from the JSON structure sent over WebSocket.
type EventDTO struct {
	// Type identifies the event category
	Type string `json:"type"`

	// Payload contains event-specific data (structure varies by type)
	Payload interface{} `json:"payload"`

	// Timestamp records when the event was created (ISO 8601 format)
	Timestamp string `json:"timestamp"`

	// CorrelationID provides request tracing identifier
	CorrelationID string `json:"correlation_id"`
}

// ConnectionAckDTO represents the acknowledgment message sent when a client connects.
type ConnectionAckDTO struct {
	// Type is always "connection.ack"
	Type string `json:"type"`

	// UserID confirms the authenticated user identity
	UserID string `json:"user_id"`

	// ConnectionID provides a unique identifier for this connection instance
	ConnectionID string `json:"connection_id"`

	// Timestamp records when the connection was established
	Timestamp string `json:"timestamp"`
}

// ProjectCreatedEventDTO is the wire format for project creation notifications.
type ProjectCreatedEventDTO struct {
	// ProjectID identifies the new project
	ProjectID string `json:"project_id"`

	// Name is the project display name
	Name string `json:"name"`

	// CurrentPhase is the phase the project starts in (always 1)
	CurrentPhase int `json:"current_phase"`
}

// ProjectDeletedEventDTO is the wire format for project deletion notifications.
type ProjectDeletedEventDTO struct {
	// ProjectID identifies the removed project
	ProjectID string `json:"project_id"`
}

// PhaseStatusChangedEventDTO is the wire format for phase workflow transitions.
type PhaseStatusChangedEventDTO struct {
	// ProjectID identifies the owning project
	ProjectID string `json:"project_id"`

	// PhaseID identifies the phase that changed
	PhaseID string `json:"phase_id"`

	// PhaseNumber is the ordinal position of the phase (1-6)
	PhaseNumber int `json:"phase_number"`

	// PhaseName is the display name of the phase
	PhaseName string `json:"phase_name"`

	// Status is the new workflow status
	Status string `json:"status"`

	// PreviousStatus is the workflow status before the transition
	PreviousStatus string `json:"previous_status"`
}

// ApprovalDecidedEventDTO is the wire format for stakeholder decision notifications.
type ApprovalDecidedEventDTO struct {
	// ProjectID identifies the owning project
	ProjectID string `json:"project_id"`

	// PhaseID identifies the phase under review
	PhaseID string `json:"phase_id"`

	// ApprovalID identifies the decided approval record
	ApprovalID string `json:"approval_id"`

	// ApproverName is the stakeholder who decided
	ApproverName string `json:"approver_name"`

	// ApproverRole is the stakeholder role
	ApproverRole string `json:"approver_role"`

	// Status is the recorded decision ("approved" or "rejected")
	Status string `json:"status"`

	// PhaseStatus is the phase workflow status after re-evaluation
	PhaseStatus string `json:"phase_status"`
}
