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

package service

import (
	"errors"
	"testing"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
)

// approvalFixture wires an ApprovalService to the in-memory repositories
type approvalFixture struct {
	approvalRepo *mockApprovalRepository
	phaseRepo    *mockPhaseRepository
	projectRepo  *mockProjectRepository
	userRepo     *mockUserRepository
	service      *ApprovalService
}

func newApprovalFixture(currentPhase int, phases ...*model.Phase) *approvalFixture {
	phaseRepo := newMockPhaseRepository(phases...)
	projectRepo := newMockProjectRepository(phaseRepo, &model.Project{
		UUID:         "project-1",
		Name:         "Checkout Revamp",
		Status:       constants.ProjectStatusActive,
		CurrentPhase: currentPhase,
		OwnerUUID:    "user-owner",
	})
	approvalRepo := newMockApprovalRepository()
	userRepo := newMockUserRepository()

	return &approvalFixture{
		approvalRepo: approvalRepo,
		phaseRepo:    phaseRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		service: &ApprovalService{
			approvalRepo: approvalRepo,
			phaseRepo:    phaseRepo,
			projectRepo:  projectRepo,
			userRepo:     userRepo,
		},
	}
}

func (f *approvalFixture) seedApproval(phaseUUID, approverUUID, name, role, status string) *model.Approval {
	approval := &model.Approval{
		PhaseUUID:        phaseUUID,
		ApproverUserUUID: approverUUID,
		ApproverName:     name,
		ApproverRole:     role,
		Status:           status,
	}
	if status != constants.ApprovalStatusPending {
		now := time.Now()
		approval.DecidedAt = &now
		approval.Comments = ptr("earlier round")
	}
	if err := f.approvalRepo.CreateApproval(approval); err != nil {
		panic(err)
	}
	return approval
}

func TestCreateApprovals(t *testing.T) {
	tests := []struct {
		name         string
		phaseID      string
		stakeholders []dto.StakeholderInput
		wantErr      bool
		expectedErr  error
		wantCount    int
	}{
		{
			name:    "one pending approval per stakeholder",
			phaseID: "phase-req",
			stakeholders: []dto.StakeholderInput{
				{Name: "Maya", Role: "Product Owner"},
				{Name: "Noor", Role: "BR Owner"},
			},
			wantCount: 2,
		},
		{
			name:    "duplicate stakeholders in one request collapse",
			phaseID: "phase-req",
			stakeholders: []dto.StakeholderInput{
				{Name: "Maya", Role: "Product Owner"},
				{Name: "Maya", Role: "Product Owner"},
			},
			wantCount: 1,
		},
		{
			name:    "same name under a different role is a distinct approver",
			phaseID: "phase-req",
			stakeholders: []dto.StakeholderInput{
				{Name: "Maya", Role: "Product Owner"},
				{Name: "Maya", Role: "BR Owner"},
			},
			wantCount: 2,
		},
		{
			name:         "phase not found",
			phaseID:      "phase-missing",
			stakeholders: []dto.StakeholderInput{{Name: "Maya", Role: "Product Owner"}},
			wantErr:      true,
			expectedErr:  constants.ErrPhaseNotFound,
		},
		{
			name:         "empty stakeholder list",
			phaseID:      "phase-req",
			stakeholders: nil,
			wantErr:      true,
			expectedErr:  constants.ErrNoStakeholders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))

			resp, err := f.service.CreateApprovals(tt.phaseID, tt.stakeholders)

			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateApprovals() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("CreateApprovals() error = %v, expectedErr %v", err, tt.expectedErr)
				}
				return
			}
			if resp.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", resp.Count, tt.wantCount)
			}
			for _, approval := range resp.List {
				if approval.Status != constants.ApprovalStatusPending {
					t.Errorf("approval status = %q, want %q", approval.Status, constants.ApprovalStatusPending)
				}
			}
		})
	}
}

func TestCreateApprovalsIsIdempotentPerApprover(t *testing.T) {
	f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
	stakeholders := []dto.StakeholderInput{{Name: "Maya", Role: "Product Owner"}}

	first, err := f.service.CreateApprovals("phase-req", stakeholders)
	if err != nil {
		t.Fatalf("CreateApprovals() error = %v", err)
	}
	second, err := f.service.CreateApprovals("phase-req", stakeholders)
	if err != nil {
		t.Fatalf("CreateApprovals() second call error = %v", err)
	}

	if first.Count != 1 || second.Count != 1 {
		t.Errorf("approval counts = %d then %d, want 1 and 1", first.Count, second.Count)
	}
	if first.List[0].ID != second.List[0].ID {
		t.Errorf("approval row changed across materializations: %q then %q", first.List[0].ID, second.List[0].ID)
	}
}

func TestCreateApprovalsResetsDecidedRowsOnResubmission(t *testing.T) {
	f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
	// Maya rejected the previous round; the stakeholder identity is the
	// deterministic one CreateApprovals derives for unregistered approvers.
	prior, err := f.service.CreateApprovals("phase-req", []dto.StakeholderInput{{Name: "Maya", Role: "Product Owner"}})
	if err != nil {
		t.Fatalf("CreateApprovals() error = %v", err)
	}
	if _, err := f.service.RecordDecision(prior.List[0].ID, &dto.ApprovalDecisionRequest{
		Status:   constants.ApprovalStatusRejected,
		Comments: ptr("needs rework"),
	}); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	resp, err := f.service.CreateApprovals("phase-req", []dto.StakeholderInput{{Name: "Maya", Role: "Product Owner"}})
	if err != nil {
		t.Fatalf("CreateApprovals() after decision error = %v", err)
	}

	if resp.Count != 1 {
		t.Fatalf("Count = %d, want the same row reused", resp.Count)
	}
	reset := resp.List[0]
	if reset.ID != prior.List[0].ID {
		t.Errorf("approval ID = %q, want reused %q", reset.ID, prior.List[0].ID)
	}
	if reset.Status != constants.ApprovalStatusPending {
		t.Errorf("Status = %q, want reset to %q", reset.Status, constants.ApprovalStatusPending)
	}
	if reset.Comments != nil {
		t.Errorf("Comments = %v, want cleared", *reset.Comments)
	}
	if reset.DecidedAt != nil {
		t.Error("DecidedAt not cleared on reset")
	}
}

func TestCreateApprovalsResolvesRegisteredUsers(t *testing.T) {
	f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
	f.userRepo = newMockUserRepository(&model.User{
		UUID:     "user-maya",
		Email:    "maya@example.com",
		Username: "maya",
		FullName: "Maya Srinivasan",
		Role:     "Product Owner",
		IsActive: true,
	})
	f.service.userRepo = f.userRepo

	resp, err := f.service.CreateApprovals("phase-req", []dto.StakeholderInput{{Name: "maya", Role: "Product Owner"}})
	if err != nil {
		t.Fatalf("CreateApprovals() error = %v", err)
	}

	if resp.List[0].ApproverUserID != "user-maya" {
		t.Errorf("ApproverUserID = %q, want the registered account UUID", resp.List[0].ApproverUserID)
	}
}

func TestRecordDecisionValidation(t *testing.T) {
	tests := []struct {
		name        string
		seedStatus  string
		approvalID  string
		decision    string
		expectedErr error
	}{
		{
			name:        "approval not found",
			seedStatus:  constants.ApprovalStatusPending,
			approvalID:  "approval-missing",
			decision:    constants.ApprovalStatusApproved,
			expectedErr: constants.ErrApprovalNotFound,
		},
		{
			name:        "decision is terminal",
			seedStatus:  constants.ApprovalStatusApproved,
			approvalID:  "approval-1",
			decision:    constants.ApprovalStatusRejected,
			expectedErr: constants.ErrApprovalDecided,
		},
		{
			name:        "pending is not a decision",
			seedStatus:  constants.ApprovalStatusPending,
			approvalID:  "approval-1",
			decision:    constants.ApprovalStatusPending,
			expectedErr: constants.ErrInvalidApprovalState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
			f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", tt.seedStatus)

			_, err := f.service.RecordDecision(tt.approvalID, &dto.ApprovalDecisionRequest{Status: tt.decision})

			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("RecordDecision() error = %v, expectedErr %v", err, tt.expectedErr)
			}
		})
	}
}

func TestRecordDecisionKeepsPhasePendingWhileOthersUndecided(t *testing.T) {
	f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)
	f.seedApproval("phase-req", "approver-b", "Noor", "BR Owner", constants.ApprovalStatusPending)

	resp, err := f.service.RecordDecision("approval-1", &dto.ApprovalDecisionRequest{
		Status:   constants.ApprovalStatusApproved,
		Comments: ptr("looks good"),
	})
	if err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	if resp.Status != constants.ApprovalStatusApproved {
		t.Errorf("Status = %q, want %q", resp.Status, constants.ApprovalStatusApproved)
	}
	if resp.DecidedAt == nil {
		t.Error("DecidedAt not set")
	}
	if resp.Comments == nil || *resp.Comments != "looks good" {
		t.Errorf("Comments = %v, want recorded", resp.Comments)
	}

	phase := f.phaseRepo.stored("phase-req")
	if phase.Status != constants.PhaseStatusPendingApproval {
		t.Errorf("phase status = %q, want still %q", phase.Status, constants.PhaseStatusPendingApproval)
	}
	if len(f.projectRepo.currentPhaseWrites) != 0 {
		t.Errorf("project pointer moved on a partial approval set: %v", f.projectRepo.currentPhaseWrites)
	}
}

func TestRecordDecisionLastApprovalApprovesPhase(t *testing.T) {
	f := newApprovalFixture(1,
		requirementsPhase(constants.PhaseStatusPendingApproval, map[string]interface{}{"prd": "# PRD", "brd": "# BRD"}),
		planningPhase(constants.PhaseStatusNotStarted, nil),
	)
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusApproved)
	f.seedApproval("phase-req", "approver-b", "Noor", "BR Owner", constants.ApprovalStatusPending)

	if _, err := f.service.RecordDecision("approval-2", &dto.ApprovalDecisionRequest{
		Status: constants.ApprovalStatusApproved,
	}); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	phase := f.phaseRepo.stored("phase-req")
	if phase.Status != constants.PhaseStatusApproved {
		t.Fatalf("phase status = %q, want %q", phase.Status, constants.PhaseStatusApproved)
	}
	if phase.CompletedAt == nil {
		t.Error("CompletedAt not set when the approval set completed")
	}

	project, _ := f.projectRepo.GetProjectByUUID("project-1")
	if project.CurrentPhase != constants.PhaseNumberPlanning {
		t.Errorf("project CurrentPhase = %d, want advanced to %d", project.CurrentPhase, constants.PhaseNumberPlanning)
	}

	next := f.phaseRepo.stored("phase-plan")
	if next.Status != constants.PhaseStatusInProgress {
		t.Errorf("next phase status = %q, want unlocked %q", next.Status, constants.PhaseStatusInProgress)
	}
}

func TestRecordDecisionSingleRejectionRejectsPhase(t *testing.T) {
	f := newApprovalFixture(1,
		requirementsPhase(constants.PhaseStatusPendingApproval, nil),
		planningPhase(constants.PhaseStatusNotStarted, nil),
	)
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)
	f.seedApproval("phase-req", "approver-b", "Noor", "BR Owner", constants.ApprovalStatusPending)

	if _, err := f.service.RecordDecision("approval-1", &dto.ApprovalDecisionRequest{
		Status:   constants.ApprovalStatusRejected,
		Comments: ptr("scope is wrong"),
	}); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	phase := f.phaseRepo.stored("phase-req")
	if phase.Status != constants.PhaseStatusRejected {
		t.Errorf("phase status = %q, want %q (one rejection breaks the set)", phase.Status, constants.PhaseStatusRejected)
	}

	next := f.phaseRepo.stored("phase-plan")
	if next.Status != constants.PhaseStatusNotStarted {
		t.Errorf("next phase status = %q, want untouched %q", next.Status, constants.PhaseStatusNotStarted)
	}
	if len(f.projectRepo.currentPhaseWrites) != 0 {
		t.Errorf("project pointer moved on a rejection: %v", f.projectRepo.currentPhaseWrites)
	}
}

func TestRecordDecisionProjectPointerNeverMovesBackwards(t *testing.T) {
	f := newApprovalFixture(constants.PhaseNumberTesting,
		requirementsPhase(constants.PhaseStatusPendingApproval, nil),
		planningPhase(constants.PhaseStatusInProgress, nil),
	)
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)

	// Re-approval of an early phase after a later resubmission round must not
	// drag the pointer back.
	if _, err := f.service.RecordDecision("approval-1", &dto.ApprovalDecisionRequest{
		Status: constants.ApprovalStatusApproved,
	}); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	project, _ := f.projectRepo.GetProjectByUUID("project-1")
	if project.CurrentPhase != constants.PhaseNumberTesting {
		t.Errorf("project CurrentPhase = %d, want unchanged %d", project.CurrentPhase, constants.PhaseNumberTesting)
	}
	if len(f.projectRepo.currentPhaseWrites) != 0 {
		t.Errorf("project pointer writes = %v, want none", f.projectRepo.currentPhaseWrites)
	}
}

func TestRecordDecisionLastPhaseCapsProjectPointer(t *testing.T) {
	lastPhase := &model.Phase{
		UUID:        "phase-deploy",
		ProjectUUID: "project-1",
		PhaseNumber: constants.PhaseNumberDeployment,
		PhaseName:   "Deployment, Release & Operations",
		Status:      constants.PhaseStatusPendingApproval,
		Data:        map[string]interface{}{},
	}
	f := newApprovalFixture(constants.PhaseNumberDeployment, lastPhase)
	f.seedApproval("phase-deploy", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)

	if _, err := f.service.RecordDecision("approval-1", &dto.ApprovalDecisionRequest{
		Status: constants.ApprovalStatusApproved,
	}); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	phase := f.phaseRepo.stored("phase-deploy")
	if phase.Status != constants.PhaseStatusApproved {
		t.Errorf("phase status = %q, want %q", phase.Status, constants.PhaseStatusApproved)
	}
	project, _ := f.projectRepo.GetProjectByUUID("project-1")
	if project.CurrentPhase != constants.PhaseNumberDeployment {
		t.Errorf("project CurrentPhase = %d, want capped at %d", project.CurrentPhase, constants.PhaseNumberDeployment)
	}
}

func TestGetPendingApprovals(t *testing.T) {
	f := newApprovalFixture(1,
		requirementsPhase(constants.PhaseStatusPendingApproval, nil),
		planningPhase(constants.PhaseStatusPendingApproval, nil),
	)
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)
	f.seedApproval("phase-plan", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusApproved)
	f.seedApproval("phase-req", "approver-b", "Noor", "BR Owner", constants.ApprovalStatusPending)

	resp, err := f.service.GetPendingApprovals("approver-a")
	if err != nil {
		t.Fatalf("GetPendingApprovals() error = %v", err)
	}

	if resp.Count != 1 {
		t.Fatalf("Count = %d, want only the undecided approval", resp.Count)
	}
	got := resp.List[0]
	if got.ApproverUserID != "approver-a" || got.Status != constants.ApprovalStatusPending || got.PhaseID != "phase-req" {
		t.Errorf("unexpected approval returned: %+v", got)
	}
}

func TestGetApprovalsByPhase(t *testing.T) {
	f := newApprovalFixture(1, requirementsPhase(constants.PhaseStatusPendingApproval, nil))
	f.seedApproval("phase-req", "approver-a", "Maya", "Product Owner", constants.ApprovalStatusPending)
	f.seedApproval("phase-req", "approver-b", "Noor", "BR Owner", constants.ApprovalStatusRejected)

	resp, err := f.service.GetApprovalsByPhase("phase-req")
	if err != nil {
		t.Fatalf("GetApprovalsByPhase() error = %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}

	if _, err := f.service.GetApprovalsByPhase("phase-missing"); !errors.Is(err, constants.ErrPhaseNotFound) {
		t.Errorf("GetApprovalsByPhase() error = %v, expectedErr %v", err, constants.ErrPhaseNotFound)
	}
}
