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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lifecycle-api/internal/client/llm_client"
	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/repository"
	"lifecycle-api/internal/utils"
)

// AIService fronts the generation gateway for the copilot surface: phase
// content generation, requirement risk analysis and conversational queries.
// Every provider round-trip is recorded in the ai_interactions audit log,
// successful or not.
type AIService struct {
	gateway     llm_client.Gateway
	phases      *PhaseService
	phaseRepo   repository.PhaseRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AIInteractionRepository
	events      *EventsService
}

func NewAIService(gateway llm_client.Gateway, phases *PhaseService, phaseRepo repository.PhaseRepository,
	projectRepo repository.ProjectRepository, auditRepo repository.AIInteractionRepository,
	events *EventsService) *AIService {
	return &AIService{
		gateway:     gateway,
		phases:      phases,
		phaseRepo:   phaseRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		events:      events,
	}
}

// GenerateContent delegates to the phase workflow and records the provider
// round-trip. Validation short-circuits (unknown phase, locked phase, failed
// preconditions) never reach the provider and are not audited.
func (s *AIService) GenerateContent(ctx context.Context, userUUID, phaseUUID, contentType string,
	payload map[string]interface{}) (*dto.GenerateContentResponse, error) {

	var projectUUID *string
	if phase, err := s.phaseRepo.GetPhaseByUUID(phaseUUID); err == nil && phase != nil {
		projectUUID = &phase.ProjectUUID
	}
	prompt := marshalForAudit(payload)

	resp, err := s.phases.GenerateContent(ctx, phaseUUID, contentType, payload)
	if err != nil {
		if isGenerationFailure(err) {
			s.audit(userUUID, projectUUID, &phaseUUID, constants.InteractionTypeGenerate, prompt, err.Error(), nil)
		}
		return nil, err
	}

	s.audit(userUUID, projectUUID, &phaseUUID, constants.InteractionTypeGenerate,
		prompt, marshalForAudit(resp.Content), &resp.ConfidenceScore)
	return resp, nil
}

// AnalyzeRisks runs a risk assessment over the phase's requirements and stores
// the identified risks in the phase data. A phase without requirements yields
// a warning response instead of an error, and no provider call is made.
func (s *AIService) AnalyzeRisks(ctx context.Context, userUUID, phaseUUID string) (*dto.AnalyzeRisksResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if phase.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	key, requirements := requirementsFromData(phase.Data)
	if len(requirements) == 0 {
		return &dto.AnalyzeRisksResponse{
			Status:  "warning",
			Risks:   []interface{}{},
			Count:   0,
			Message: "No requirements found. Please extract requirements first.",
		}, nil
	}

	payload := map[string]interface{}{key: requirements}
	if project, err := s.projectRepo.GetProjectByUUID(phase.ProjectUUID); err == nil && project != nil {
		payload["project"] = map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		}
	}
	prompt := marshalForAudit(payload)

	result, err := s.gateway.AnalyzeRisks(ctx, payload)
	if err != nil {
		err = translateGatewayError(err)
		s.audit(userUUID, &phase.ProjectUUID, &phaseUUID, constants.InteractionTypeAnalyzeRisks, prompt, err.Error(), nil)
		return nil, err
	}

	risks := result.Risks
	if risks == nil {
		risks = []interface{}{}
	}

	// Reload before persisting: a phase approved while the analysis was in
	// flight discards the late result.
	fresh, err := s.phaseRepo.GetPhaseByUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if fresh.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	previousStatus := fresh.Status
	mergePhaseData(fresh, map[string]interface{}{
		constants.ContentTypeDataKeys[constants.ContentTypeRisks]: risks,
	})
	if fresh.Status == constants.PhaseStatusNotStarted {
		applyStatus(fresh, constants.PhaseStatusInProgress)
	}
	if err := s.phaseRepo.UpdatePhase(fresh); err != nil {
		return nil, err
	}
	if fresh.Status != previousStatus {
		s.events.PublishPhaseStatusChanged(fresh, previousStatus)
	}

	s.audit(userUUID, &fresh.ProjectUUID, &phaseUUID, constants.InteractionTypeAnalyzeRisks,
		prompt, marshalForAudit(risks), nil)

	return &dto.AnalyzeRisksResponse{
		Status:  "success",
		Risks:   risks,
		Count:   len(risks),
		Message: fmt.Sprintf("Successfully identified %d risks with mitigation strategies.", len(risks)),
	}, nil
}

// Chat answers a copilot query against a dashboard-wide or project-scoped
// context document assembled from the repository.
func (s *AIService) Chat(ctx context.Context, userUUID string, req *dto.ChatQueryRequest) (*dto.ChatQueryResponse, error) {
	if !constants.ValidChatContextTypes[req.ContextType] {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidChatContext, req.ContextType)
	}

	contextDoc, projectUUID, phaseUUID, err := s.assembleChatContext(req)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Chat(ctx, &llm_client.ChatRequest{
		Query:       req.Query,
		ContextType: req.ContextType,
		Context:     contextDoc,
	})
	if err != nil {
		err = translateGatewayError(err)
		s.audit(userUUID, projectUUID, phaseUUID, constants.InteractionTypeChat, req.Query, err.Error(), nil)
		return nil, err
	}

	score := constants.DefaultConfidenceScore
	if result.ConfidenceScore != nil {
		score = *result.ConfidenceScore
	}
	alternatives := result.Alternatives
	if alternatives == nil {
		alternatives = []string{}
	}

	s.audit(userUUID, projectUUID, phaseUUID, constants.InteractionTypeChat, req.Query, result.Response, &score)

	return &dto.ChatQueryResponse{
		Response:        result.Response,
		ConfidenceScore: score,
		Alternatives:    alternatives,
		ContextType:     req.ContextType,
	}, nil
}

// ---- helpers ----

// assembleChatContext builds the context document for a chat query along with
// the project/phase references recorded in the audit log.
func (s *AIService) assembleChatContext(req *dto.ChatQueryRequest) (map[string]interface{}, *string, *string, error) {
	switch req.ContextType {
	case constants.ChatContextDashboard:
		projects, err := s.projectRepo.ListProjects(50, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		summaries := make([]map[string]interface{}, 0, len(projects))
		for _, project := range projects {
			summaries = append(summaries, map[string]interface{}{
				"name":          project.Name,
				"status":        project.Status,
				"current_phase": project.CurrentPhase,
			})
		}
		return map[string]interface{}{
			"total_projects": len(summaries),
			"projects":       summaries,
		}, nil, nil, nil

	case constants.ChatContextProject:
		if req.ProjectID == nil || *req.ProjectID == "" {
			return nil, nil, nil, fmt.Errorf("%w: project_id is required for project context", constants.ErrInvalidInput)
		}
		project, err := s.projectRepo.GetProjectByUUID(*req.ProjectID)
		if err != nil {
			return nil, nil, nil, err
		}
		if project == nil {
			return nil, nil, nil, constants.ErrProjectNotFound
		}

		doc := map[string]interface{}{
			"project": map[string]interface{}{
				"name":          project.Name,
				"description":   project.Description,
				"status":        project.Status,
				"current_phase": project.CurrentPhase,
			},
		}

		phases, err := s.phaseRepo.GetPhasesByProjectUUID(project.UUID)
		if err != nil {
			return nil, nil, nil, err
		}
		digests := make([]map[string]interface{}, 0, len(phases))
		for _, phase := range phases {
			digests = append(digests, map[string]interface{}{
				"phase_number": phase.PhaseNumber,
				"phase_name":   phase.PhaseName,
				"status":       phase.Status,
			})
		}
		doc["phases"] = digests

		var phaseRef *string
		if req.PhaseID != nil && *req.PhaseID != "" {
			phase, err := s.phaseRepo.GetPhaseByUUID(*req.PhaseID)
			if err != nil {
				return nil, nil, nil, err
			}
			if phase == nil {
				return nil, nil, nil, constants.ErrPhaseNotFound
			}
			doc["current_phase_data"] = phase.Data
			phaseRef = req.PhaseID
		}
		return doc, &project.UUID, phaseRef, nil
	}

	return map[string]interface{}{}, nil, nil, nil
}

// audit writes one interaction row; failures are logged and never break the
// calling flow.
func (s *AIService) audit(userUUID string, projectUUID, phaseUUID *string,
	interactionType, prompt, response string, confidence *int) {

	if s == nil || s.auditRepo == nil {
		return
	}
	interaction := &model.AIInteraction{
		UserUUID:        userUUID,
		ProjectUUID:     projectUUID,
		PhaseUUID:       phaseUUID,
		InteractionType: interactionType,
		Prompt:          prompt,
		Response:        response,
		ConfidenceScore: confidence,
	}
	if err := s.auditRepo.CreateInteraction(interaction); err != nil {
		utils.LogError("Failed to record AI interaction", err)
	}
}

// requirementsFromData finds the non-empty requirement list in the phase data,
// preferring gherkin requirements over the legacy key.
func requirementsFromData(data map[string]interface{}) (string, []interface{}) {
	for _, key := range []string{"gherkinRequirements", "requirements"} {
		if list, ok := data[key].([]interface{}); ok && len(list) > 0 {
			return key, list
		}
	}
	return "requirements", nil
}

// translateGatewayError maps provider sentinels onto the error taxonomy the
// handlers surface: timeouts, malformed responses and everything else as a
// plain generation failure. Retrying is left to the user.
func translateGatewayError(err error) error {
	switch {
	case errors.Is(err, llm_client.ErrProviderTimeout):
		return fmt.Errorf("%w: %v", constants.ErrGenerationTimeout, err)
	case errors.Is(err, llm_client.ErrMalformedResponse), errors.Is(err, llm_client.ErrEmptyCompletion):
		return fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", constants.ErrGenerationFailed, err)
	}
}

func isGenerationFailure(err error) bool {
	return errors.Is(err, constants.ErrGenerationFailed) ||
		errors.Is(err, constants.ErrGenerationTimeout) ||
		errors.Is(err, constants.ErrMalformedResponse)
}

func marshalForAudit(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
