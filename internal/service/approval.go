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
	"strings"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/repository"

	"github.com/google/uuid"
)

// ApprovalService materializes stakeholder approvals for submitted phases and
// records decisions. It owns the re-evaluation that flips a phase to approved
// or rejected once the decisions are in.
type ApprovalService struct {
	approvalRepo repository.ApprovalRepository
	phaseRepo    repository.PhaseRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	events       *EventsService
}

func NewApprovalService(approvalRepo repository.ApprovalRepository, phaseRepo repository.PhaseRepository,
	projectRepo repository.ProjectRepository, userRepo repository.UserRepository,
	events *EventsService) *ApprovalService {
	return &ApprovalService{
		approvalRepo: approvalRepo,
		phaseRepo:    phaseRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		events:       events,
	}
}

// CreateApprovals materializes one pending approval per stakeholder for a
// phase. The operation is idempotent on (phase, approver identity): an
// existing pending approval is left untouched, and a decided approval from an
// earlier review round is reset to pending so the stakeholder reviews the
// resubmitted content again.
func (s *ApprovalService) CreateApprovals(phaseUUID string, stakeholders []dto.StakeholderInput) (*dto.ApprovalListResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if len(stakeholders) == 0 {
		return nil, constants.ErrNoStakeholders
	}

	existing, err := s.approvalRepo.GetApprovalsByPhaseUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	byApprover := make(map[string]*model.Approval, len(existing))
	for _, approval := range existing {
		byApprover[approval.ApproverUserUUID] = approval
	}

	seen := make(map[string]bool, len(stakeholders))
	for _, stakeholder := range stakeholders {
		approverUUID := s.resolveApproverIdentity(stakeholder.Name, stakeholder.Role)
		if seen[approverUUID] {
			continue
		}
		seen[approverUUID] = true

		if prior, ok := byApprover[approverUUID]; ok {
			if prior.Status == constants.ApprovalStatusPending {
				continue
			}
			prior.Status = constants.ApprovalStatusPending
			prior.Comments = nil
			prior.DecidedAt = nil
			if err := s.approvalRepo.UpdateApproval(prior); err != nil {
				return nil, err
			}
			continue
		}

		approval := &model.Approval{
			PhaseUUID:        phaseUUID,
			ApproverUserUUID: approverUUID,
			ApproverName:     stakeholder.Name,
			ApproverRole:     stakeholder.Role,
			Status:           constants.ApprovalStatusPending,
		}
		if err := s.approvalRepo.CreateApproval(approval); err != nil {
			// The unique index on (phase, approver) backstops a concurrent
			// materialization of the same stakeholder.
			if isDuplicateKeyError(err) {
				continue
			}
			return nil, err
		}
	}

	return s.GetApprovalsByPhase(phaseUUID)
}

// GetApprovalsByPhase returns every approval attached to a phase
func (s *ApprovalService) GetApprovalsByPhase(phaseUUID string) (*dto.ApprovalListResponse, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	approvals, err := s.approvalRepo.GetApprovalsByPhaseUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	return approvalListResponse(approvals), nil
}

// GetPendingApprovals returns an approver's open decisions across all phases.
// The approver may be a registered user or a roster-only stakeholder, so no
// user lookup is performed.
func (s *ApprovalService) GetPendingApprovals(approverUserUUID string) (*dto.ApprovalListResponse, error) {
	approvals, err := s.approvalRepo.GetPendingApprovalsByApprover(approverUserUUID)
	if err != nil {
		return nil, err
	}
	return approvalListResponse(approvals), nil
}

// RecordDecision records one stakeholder's decision and re-evaluates the
// owning phase: all approvals approved flips the phase to approved, advances
// the project pointer and unlocks the next phase; any rejection flips the
// phase to rejected. A decision on a terminal approval is rejected.
func (s *ApprovalService) RecordDecision(approvalUUID string, req *dto.ApprovalDecisionRequest) (*dto.ApprovalResponse, error) {
	approval, err := s.approvalRepo.GetApprovalByUUID(approvalUUID)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, constants.ErrApprovalNotFound
	}
	if approval.Status != constants.ApprovalStatusPending {
		return nil, constants.ErrApprovalDecided
	}
	if !constants.ValidApprovalDecisions[req.Status] {
		return nil, constants.ErrInvalidApprovalState
	}

	now := time.Now()
	approval.Status = req.Status
	approval.Comments = req.Comments
	approval.DecidedAt = &now
	if err := s.approvalRepo.UpdateApproval(approval); err != nil {
		return nil, err
	}

	phase, err := s.reevaluatePhase(approval.PhaseUUID)
	if err != nil {
		return nil, err
	}
	if phase != nil {
		s.events.PublishApprovalDecided(approval, phase.ProjectUUID, phase.Status)
	}

	return toApprovalResponse(approval), nil
}

// ---- helpers ----

// reevaluatePhase applies the decision outcome to the owning phase. The
// conditional status writes make re-evaluation safe to run after every
// decision: only the decision that completes or breaks the set moves the
// phase, later calls are no-ops.
func (s *ApprovalService) reevaluatePhase(phaseUUID string) (*model.Phase, error) {
	phase, err := s.phaseRepo.GetPhaseByUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	approvals, err := s.approvalRepo.GetApprovalsByPhaseUUID(phaseUUID)
	if err != nil {
		return nil, err
	}
	if len(approvals) == 0 {
		return phase, nil
	}

	anyRejected := false
	allApproved := true
	for _, a := range approvals {
		switch a.Status {
		case constants.ApprovalStatusRejected:
			anyRejected = true
			allApproved = false
		case constants.ApprovalStatusPending:
			allApproved = false
		}
	}

	switch {
	case anyRejected:
		updated, err := s.phaseRepo.UpdatePhaseStatusIf(phase.UUID,
			[]string{constants.PhaseStatusPendingApproval}, constants.PhaseStatusRejected)
		if err != nil {
			return nil, err
		}
		if updated {
			phase.Status = constants.PhaseStatusRejected
			s.events.PublishPhaseStatusChanged(phase, constants.PhaseStatusPendingApproval)
		}

	case allApproved:
		updated, err := s.phaseRepo.UpdatePhaseStatusIf(phase.UUID,
			[]string{constants.PhaseStatusPendingApproval}, constants.PhaseStatusApproved)
		if err != nil {
			return nil, err
		}
		if updated {
			phase.Status = constants.PhaseStatusApproved
			s.events.PublishPhaseStatusChanged(phase, constants.PhaseStatusPendingApproval)
			s.advanceProject(phase)
			s.unlockNextPhase(phase)
		}
	}

	return phase, nil
}

// advanceProject moves the project's phase pointer to the phase after the one
// just approved, capped at the last phase. The pointer never moves backwards.
func (s *ApprovalService) advanceProject(phase *model.Phase) {
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

// unlockNextPhase starts the phase following an approved one
func (s *ApprovalService) unlockNextPhase(phase *model.Phase) {
	if phase.PhaseNumber >= constants.PhaseCount {
		return
	}

	next, err := s.phaseRepo.GetPhaseByProjectAndNumber(phase.ProjectUUID, phase.PhaseNumber+1)
	if err != nil || next == nil || next.Status != constants.PhaseStatusNotStarted {
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

// resolveApproverIdentity maps a stakeholder to a stable approver id: a
// registered user's UUID when the name matches an account, otherwise a
// deterministic UUID derived from the (role, name) pair so repeated
// materializations dedupe to the same identity.
func (s *ApprovalService) resolveApproverIdentity(name, role string) string {
	if user, err := s.userRepo.GetUserByIdentifier(name); err == nil && user != nil {
		return user.UUID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(role+":"+name)).String()
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func approvalListResponse(approvals []*model.Approval) *dto.ApprovalListResponse {
	list := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, approval := range approvals {
		list = append(list, *toApprovalResponse(approval))
	}
	return &dto.ApprovalListResponse{Count: len(list), List: list}
}

func toApprovalResponse(approval *model.Approval) *dto.ApprovalResponse {
	return &dto.ApprovalResponse{
		ID:             approval.UUID,
		PhaseID:        approval.PhaseUUID,
		ApproverUserID: approval.ApproverUserUUID,
		ApproverName:   approval.ApproverName,
		ApproverRole:   approval.ApproverRole,
		Status:         approval.Status,
		Comments:       approval.Comments,
		DecidedAt:      approval.DecidedAt,
		CreatedAt:      approval.CreatedAt,
	}
}
