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

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/utils"
	ws "lifecycle-api/internal/websocket"

	"github.com/google/uuid"
)

const (
	// Maximum event payload size (1MB)
	MaxEventPayloadSize = 1024 * 1024
)

// EventsService broadcasts workflow events to connected dashboard clients.
// Delivery is best effort: a failed or skipped broadcast never fails the
// domain operation that triggered it.
type EventsService struct {
	manager *ws.Manager
}

// NewEventsService creates a new events service
func NewEventsService(manager *ws.Manager) *EventsService {
	return &EventsService{
		manager: manager,
	}
}

// PublishProjectCreated notifies clients that a project was created
func (s *EventsService) PublishProjectCreated(project *model.Project) {
	s.broadcast(constants.EventProjectCreated, dto.ProjectCreatedEventDTO{
		ProjectID:    project.UUID,
		Name:         project.Name,
		CurrentPhase: project.CurrentPhase,
	})
}

// PublishProjectDeleted notifies clients that a project was removed
func (s *EventsService) PublishProjectDeleted(projectID string) {
	s.broadcast(constants.EventProjectDeleted, dto.ProjectDeletedEventDTO{
		ProjectID: projectID,
	})
}

// PublishPhaseStatusChanged notifies clients that a phase moved through the
// workflow (draft saved on a fresh phase, submission, approval, rejection)
func (s *EventsService) PublishPhaseStatusChanged(phase *model.Phase, previousStatus string) {
	s.broadcast(constants.EventPhaseStatusChanged, dto.PhaseStatusChangedEventDTO{
		ProjectID:      phase.ProjectUUID,
		PhaseID:        phase.UUID,
		PhaseNumber:    phase.PhaseNumber,
		PhaseName:      phase.PhaseName,
		Status:         phase.Status,
		PreviousStatus: previousStatus,
	})
}

// PublishApprovalDecided notifies clients that a stakeholder recorded a decision
func (s *EventsService) PublishApprovalDecided(approval *model.Approval, projectID, phaseStatus string) {
	s.broadcast(constants.EventApprovalDecided, dto.ApprovalDecidedEventDTO{
		ProjectID:    projectID,
		PhaseID:      approval.PhaseUUID,
		ApprovalID:   approval.UUID,
		ApproverName: approval.ApproverName,
		ApproverRole: approval.ApproverRole,
		Status:       approval.Status,
		PhaseStatus:  phaseStatus,
	})
}

// broadcast serializes an event envelope and delivers it to every connected
// client. This method handles:
// - Correlation ID assignment for tracing
// - Payload size validation
// - Delivery statistics tracking (per connection, inside the manager)
// - Failure logging
func (s *EventsService) broadcast(eventType string, payload interface{}) {
	if s == nil || s.manager == nil {
		// Event delivery is not wired (tests, CLI tools); skip silently
		return
	}

	correlationID := uuid.New().String()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		utils.LogErrorWithContext("Failed to serialize event payload", err,
			map[string]interface{}{"type": eventType, "correlationId": correlationID})
		return
	}

	if len(payloadJSON) > MaxEventPayloadSize {
		utils.LogWarningf("Event payload exceeds maximum size: type=%s correlationId=%s size=%d limit=%d",
			eventType, correlationID, len(payloadJSON), MaxEventPayloadSize)
		return
	}

	eventDTO := dto.EventDTO{
		Type:          eventType,
		Payload:       payload,
		Timestamp:     time.Now().Format(time.RFC3339),
		CorrelationID: correlationID,
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		utils.LogErrorWithContext("Failed to marshal event", err,
			map[string]interface{}{"type": eventType, "correlationId": correlationID})
		return
	}

	delivered := s.manager.BroadcastToAll(eventJSON)
	utils.LogInfof("Event broadcast: type=%s correlationId=%s delivered=%d",
		eventType, correlationID, delivered)
}

// ConnectionAck builds the acknowledgment message sent to a client right
// after its WebSocket session is registered.
func ConnectionAck(userID, connectionID string) ([]byte, error) {
	ack := dto.ConnectionAckDTO{
		Type:         "connection.ack",
		UserID:       userID,
		ConnectionID: connectionID,
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	data, err := json.Marshal(ack)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connection ack: %w", err)
	}
	return data, nil
}
