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
	"fmt"
	"sort"
	"strings"
	"time"

	"lifecycle-api/internal/client/llm_client"
	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/repository"
	"lifecycle-api/internal/utils"
)

// PhaseService is the workflow controller for the six fixed phases. It owns
// every phase mutation: partial updates, draft saves, content generation and
// submission for approval. All writes respect the phase status state machine
// and the approved-is-terminal lock.
type PhaseService struct {
	phaseRepo   repository.PhaseRepository
	projectRepo repository.ProjectRepository
	gateway     llm_client.Gateway
	approvals   *ApprovalService
	templates   []*model.PhaseTemplate
	events      *EventsService
}

func NewPhaseService(phaseRepo repository.PhaseRepository, projectRepo repository.ProjectRepository,
	gateway llm_client.Gateway, approvals *ApprovalService, templates []*model.PhaseTemplate,
	events *EventsService) *PhaseService {
	return &PhaseService{
		phaseRepo:   phaseRepo,
		projectRepo: projectRepo,
		gateway:     gateway,
		approvals:   approvals,
		templates:   templates,
		events:      events,
	}
}

// GetPhaseByID returns one phase with its decoded data document
func (s *PhaseService) GetPhaseByID(uuid string) (*dto.PhaseResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	return toPhaseResponse(phase), nil
}

// GetPhasesByProject returns all six phases of a project ordered by number
func (s *PhaseService) GetPhasesByProject(projectUUID string) (*dto.PhaseListResponse, error) {
	project, err := s.projectRepo.GetProjectByUUID(projectUUID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, constants.ErrProjectNotFound
	}

	phases, err := s.phaseRepo.GetPhasesByProjectUUID(projectUUID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.PhaseResponse, 0, len(phases))
	for _, phase := range phases {
		list = append(list, *toPhaseResponse(phase))
	}
	return &dto.PhaseListResponse{Count: len(list), List: list}, nil
}

// GetPhaseByNumber returns one phase addressed by (project, phase number).
// Phases are created with the project, so absence is a data fault reported as
// not-found, never papered over with a fabricated record.
func (s *PhaseService) GetPhaseByNumber(projectUUID string, phaseNumber int) (*dto.PhaseResponse, error) {
	if phaseNumber < 1 || phaseNumber > constants.PhaseCount {
		return nil, constants.ErrInvalidPhaseNumber
	}

	phase, err := s.phaseRepo.GetPhaseByProjectAndNumber(projectUUID, phaseNumber)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	return toPhaseResponse(phase), nil
}

// UpdatePhase applies a partial update: an optional status transition, an
// optional data patch merged key by key, and an optional confidence score.
// Approved phases reject every write.
func (s *PhaseService) UpdatePhase(uuid string, req *dto.UpdatePhaseRequest) (*dto.PhaseResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if phase.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	previousStatus := phase.Status

	if req.Status != nil && *req.Status != phase.Status {
		if !constants.ValidPhaseStatuses[*req.Status] {
			return nil, constants.ErrInvalidPhaseStatus
		}
		if !isLegalTransition(phase.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s to %s", constants.ErrInvalidTransition, phase.Status, *req.Status)
		}
		applyStatus(phase, *req.Status)
	}

	if len(req.Data) > 0 {
		if err := utils.ValidatePhaseData(phase.PhaseNumber, req.Data); err != nil {
			return nil, err
		}
		mergePhaseData(phase, req.Data)
	}

	if req.AIConfidenceScore != nil {
		if *req.AIConfidenceScore < 0 || *req.AIConfidenceScore > 100 {
			return nil, fmt.Errorf("%w: ai_confidence_score must be between 0 and 100", constants.ErrInvalidInput)
		}
		phase.AIConfidenceScore = req.AIConfidenceScore
	}

	if err := s.phaseRepo.UpdatePhase(phase); err != nil {
		return nil, err
	}

	if phase.Status != previousStatus {
		s.events.PublishPhaseStatusChanged(phase, previousStatus)

		// Approving a phase through the raw update path advances the
		// project pointer and unlocks the next phase the same way an
		// approval decision does.
		if phase.Status == constants.PhaseStatusApproved {
			s.advanceProject(phase)
			s.unlockNextPhase(phase)
		}
	}

	return toPhaseResponse(phase), nil
}

// SaveDraft merges one named field into the phase data without requiring a
// status in the request. The first edit moves a fresh phase into in_progress.
func (s *PhaseService) SaveDraft(uuid string, req *dto.SaveDraftRequest) (*dto.PhaseResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if phase.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	field := strings.TrimSpace(req.Field)
	if field == "" {
		return nil, fmt.Errorf("%w: field name is required", constants.ErrInvalidInput)
	}
	if isBlankContent(req.Content) {
		return nil, fmt.Errorf("%w: field %q", constants.ErrEmptyContent, field)
	}

	patch := map[string]interface{}{field: req.Content}
	if err := utils.ValidatePhaseData(phase.PhaseNumber, patch); err != nil {
		return nil, err
	}

	previousStatus := phase.Status
	mergePhaseData(phase, patch)
	if phase.Status == constants.PhaseStatusNotStarted {
		applyStatus(phase, constants.PhaseStatusInProgress)
	}

	if err := s.phaseRepo.UpdatePhase(phase); err != nil {
		return nil, err
	}

	if phase.Status != previousStatus {
		s.events.PublishPhaseStatusChanged(phase, previousStatus)
	}

	return toPhaseResponse(phase), nil
}

// GenerateContent produces one AI artifact for the phase. The context payload
// is merged into the phase data and persisted before the gateway round-trip,
// so a generation failure never loses user-entered upstream data. Generation
// preconditions are checked first; a violation fails fast without touching
// the gateway.
func (s *PhaseService) GenerateContent(ctx context.Context, uuid, contentType string,
	payload map[string]interface{}) (*dto.GenerateContentResponse, error) {

	phase, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if phase.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}
	if !constants.ValidContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidContentType, contentType)
	}

	// Split the context payload: everything except the project digest is
	// phase data and is persisted with the phase.
	dataPatch := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		if key == "project" || value == nil {
			continue
		}
		dataPatch[key] = value
	}

	if len(dataPatch) > 0 {
		if err := utils.ValidatePhaseData(phase.PhaseNumber, dataPatch); err != nil {
			return nil, err
		}
		mergePhaseData(phase, dataPatch)
	}

	gatewayPayload, err := s.buildGenerationPayload(phase, contentType, payload)
	if err != nil {
		return nil, err
	}

	previousStatus := phase.Status
	if phase.Status == constants.PhaseStatusNotStarted {
		applyStatus(phase, constants.PhaseStatusInProgress)
	}

	// Persist-then-generate: the upstream context survives even when the
	// gateway call below fails.
	if err := s.phaseRepo.UpdatePhase(phase); err != nil {
		return nil, err
	}
	if phase.Status != previousStatus {
		s.events.PublishPhaseStatusChanged(phase, previousStatus)
	}

	result, err := s.gateway.GenerateContent(ctx, contentType, gatewayPayload)
	if err != nil {
		return nil, translateGatewayError(err)
	}

	score := constants.DefaultConfidenceScore
	if result.ConfidenceScore != nil {
		score = *result.ConfidenceScore
	}

	// Reload before merging the artifact: the phase may have been approved
	// while the gateway call was in flight, in which case the late result
	// is discarded.
	fresh, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if fresh.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	mergePhaseData(fresh, map[string]interface{}{
		constants.ContentTypeDataKeys[contentType]: result.Content,
	})
	fresh.AIConfidenceScore = &score

	if err := s.phaseRepo.UpdatePhase(fresh); err != nil {
		return nil, err
	}

	return &dto.GenerateContentResponse{
		Content:         result.Content,
		ConfidenceScore: score,
	}, nil
}

// SubmitForApproval validates the phase content, atomically flips the status
// to pending_approval and materializes one approval per stakeholder. The
// atomic status write is what rejects the loser of two concurrent submissions.
func (s *PhaseService) SubmitForApproval(uuid string, req *dto.SubmitForApprovalRequest) (*dto.PhaseResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	switch phase.Status {
	case constants.PhaseStatusApproved:
		return nil, constants.ErrPhaseLocked
	case constants.PhaseStatusPendingApproval:
		return nil, constants.ErrAlreadySubmitted
	case constants.PhaseStatusInProgress, constants.PhaseStatusRejected:
		// submittable
	default:
		return nil, fmt.Errorf("%w: %s to %s", constants.ErrInvalidTransition,
			phase.Status, constants.PhaseStatusPendingApproval)
	}

	requiredFields := req.RequiredFields
	if len(requiredFields) == 0 {
		requiredFields = s.requiredFieldsForPhase(phase.PhaseNumber)
	}

	// Batch validation: every missing field is reported in one error so the
	// caller can prompt the user once.
	var missing []string
	for _, field := range requiredFields {
		if isBlankContent(phase.Data[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", constants.ErrValidation, strings.Join(missing, ", "))
	}

	if len(req.Stakeholders) == 0 {
		return nil, constants.ErrNoStakeholders
	}

	previousStatus := phase.Status
	updated, err := s.phaseRepo.UpdatePhaseStatusIf(uuid,
		[]string{constants.PhaseStatusInProgress, constants.PhaseStatusRejected},
		constants.PhaseStatusPendingApproval)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Another submission won the race between our read and the write.
		return nil, constants.ErrAlreadySubmitted
	}

	if _, err := s.approvals.CreateApprovals(uuid, req.Stakeholders); err != nil {
		return nil, err
	}

	phase, err = s.phaseRepo.GetPhaseByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	s.events.PublishPhaseStatusChanged(phase, previousStatus)

	return toPhaseResponse(phase), nil
}

// ---- helpers ----

// buildGenerationPayload enforces the per-content-type preconditions and
// assembles the context document handed to the gateway. Upstream artifacts
// are resolved from the request payload first, then the phase's own data,
// then the owning upstream phase.
func (s *PhaseService) buildGenerationPayload(phase *model.Phase, contentType string,
	payload map[string]interface{}) (map[string]interface{}, error) {

	out := map[string]interface{}{}

	switch contentType {
	case constants.ContentTypePRD, constants.ContentTypeBRD, constants.ContentTypeRisks, constants.ContentTypeEpics:
		key, reqs := s.resolveRequirements(phase, payload)
		if len(reqs) == 0 {
			return nil, fmt.Errorf("%w: requirements or gherkinRequirements must be non-empty", constants.ErrPrecondition)
		}
		out[key] = reqs

	case constants.ContentTypeUserStories:
		epics := s.resolveUpstreamList(phase, payload, "epics", constants.PhaseNumberPlanning)
		if len(epics) == 0 {
			return nil, fmt.Errorf("%w: epics must be non-empty", constants.ErrPrecondition)
		}
		out["epics"] = epics
		if key, reqs := s.resolveRequirements(phase, payload); len(reqs) > 0 {
			out[key] = reqs
		}

	case constants.ContentTypeArchitecture:
		epics := s.resolveUpstreamList(phase, payload, "epics", constants.PhaseNumberPlanning)
		if len(epics) == 0 {
			return nil, fmt.Errorf("%w: epics must be non-empty", constants.ErrPrecondition)
		}
		out["epics"] = epics
	}

	for _, key := range []string{"prd", "brd"} {
		if v, ok := payload[key]; ok && !isBlankContent(v) {
			out[key] = v
		} else if v, ok := phase.Data[key]; ok && !isBlankContent(v) {
			out[key] = v
		}
	}

	out["project"] = s.projectDigest(phase, payload)

	return out, nil
}

// resolveRequirements finds the non-empty requirement list closest to the
// caller: gherkinRequirements are preferred over the legacy requirements key.
func (s *PhaseService) resolveRequirements(phase *model.Phase, payload map[string]interface{}) (string, []interface{}) {
	for _, key := range []string{"gherkinRequirements", "requirements"} {
		if reqs := s.resolveUpstreamList(phase, payload, key, constants.PhaseNumberRequirements); len(reqs) > 0 {
			return key, reqs
		}
	}
	return "requirements", nil
}

// resolveUpstreamList looks up a list-valued artifact in the request payload,
// then the phase's own data, then the given upstream phase of the project.
func (s *PhaseService) resolveUpstreamList(phase *model.Phase, payload map[string]interface{},
	key string, upstreamPhase int) []interface{} {

	if list, ok := payload[key].([]interface{}); ok && len(list) > 0 {
		return list
	}
	if list, ok := phase.Data[key].([]interface{}); ok && len(list) > 0 {
		return list
	}
	if phase.PhaseNumber == upstreamPhase {
		return nil
	}

	upstream, err := s.phaseRepo.GetPhaseByProjectAndNumber(phase.ProjectUUID, upstreamPhase)
	if err != nil || upstream == nil {
		return nil
	}
	if list, ok := upstream.Data[key].([]interface{}); ok && len(list) > 0 {
		return list
	}
	return nil
}

// projectDigest returns the {name, description} document the prompt templates
// expect, preferring the caller-provided digest over a repository lookup.
func (s *PhaseService) projectDigest(phase *model.Phase, payload map[string]interface{}) map[string]interface{} {
	if digest, ok := payload["project"].(map[string]interface{}); ok {
		return digest
	}

	project, err := s.projectRepo.GetProjectByUUID(phase.ProjectUUID)
	if err != nil || project == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
	}
}

func (s *PhaseService) requiredFieldsForPhase(phaseNumber int) []string {
	for _, tpl := range s.templates {
		if tpl.PhaseNumber == phaseNumber {
			return tpl.RequiredFields
		}
	}
	return nil
}

// advanceProject moves the project's phase pointer past the phase just
// approved, capped at the last phase. The pointer never moves backwards.
func (s *PhaseService) advanceProject(phase *model.Phase) {
	project, err := s.projectRepo.GetProjectByUUID(phase.ProjectUUID)
	if err != nil || project == nil {
		return
	}

	next := phase.PhaseNumber + 1
	if next > constants.PhaseCount {
		next = constants.PhaseCount
	}
	if next <= project.CurrentPhase {
		return
	}
	_ = s.projectRepo.UpdateCurrentPhase(project.UUID, next)
}

// unlockNextPhase moves the following phase out of not_started after an
// approval. A no-op when the approved phase is the last one or the next
// phase has already been started.
func (s *PhaseService) unlockNextPhase(phase *model.Phase) {
	if phase.PhaseNumber >= constants.PhaseCount {
		return
	}

	next, err := s.phaseRepo.GetPhaseByProjectAndNumber(phase.ProjectUUID, phase.PhaseNumber+1)
	if err != nil || next == nil {
		return
	}
	if next.Status != constants.PhaseStatusNotStarted {
		return
	}

	updated, err := s.phaseRepo.UpdatePhaseStatusIf(next.UUID,
		[]string{constants.PhaseStatusNotStarted}, constants.PhaseStatusInProgress)
	if err != nil || !updated {
		return
	}
	next.Status = constants.PhaseStatusInProgress
	s.events.PublishPhaseStatusChanged(next, constants.PhaseStatusNotStarted)
}

func isLegalTransition(from, to string) bool {
	for _, allowed := range constants.ValidPhaseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// applyStatus sets the status together with its timestamp side effects
func applyStatus(phase *model.Phase, status string) {
	phase.Status = status
	now := time.Now()
	switch status {
	case constants.PhaseStatusInProgress:
		if phase.StartedAt == nil {
			phase.StartedAt = &now
		}
	case constants.PhaseStatusApproved:
		phase.CompletedAt = &now
	}
}

// mergePhaseData merges a patch into the phase data one top-level key at a
// time, last write wins. The document is never replaced wholesale so that
// concurrently edited sibling keys survive.
func mergePhaseData(phase *model.Phase, patch map[string]interface{}) {
	if phase.Data == nil {
		phase.Data = map[string]interface{}{}
	}
	for key, value := range patch {
		phase.Data[key] = value
	}
}

// isBlankContent reports whether a draft value is considered empty: nil, a
// whitespace-only string, or an empty collection.
func isBlankContent(content interface{}) bool {
	switch v := content.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func toPhaseResponse(phase *model.Phase) *dto.PhaseResponse {
	if phase == nil {
		return nil
	}

	data := phase.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	return &dto.PhaseResponse{
		ID:                phase.UUID,
		ProjectID:         phase.ProjectUUID,
		PhaseNumber:       phase.PhaseNumber,
		PhaseName:         phase.PhaseName,
		Status:            phase.Status,
		Data:              data,
		AIConfidenceScore: phase.AIConfidenceScore,
		StartedAt:         phase.StartedAt,
		CompletedAt:       phase.CompletedAt,
		CreatedAt:         phase.CreatedAt,
		UpdatedAt:         phase.UpdatedAt,
	}
}
