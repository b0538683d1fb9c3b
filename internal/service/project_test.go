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
	"fmt"
	"testing"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/utils"
)

func newProjectService() (*ProjectService, *mockProjectRepository, *mockPhaseRepository) {
	phaseRepo := newMockPhaseRepository()
	projectRepo := newMockProjectRepository(phaseRepo)
	service := &ProjectService{
		projectRepo: projectRepo,
		phaseRepo:   phaseRepo,
		templates:   utils.DefaultPhaseTemplates(),
	}
	return service, projectRepo, phaseRepo
}

func TestCreateProjectSeedsSixPhases(t *testing.T) {
	service, _, _ := newProjectService()

	resp, err := service.CreateProject(&dto.CreateProjectRequest{
		Name:        "Checkout Revamp",
		Description: "Rebuild the checkout flow",
	}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	if resp.Status != constants.ProjectStatusActive {
		t.Errorf("Status = %q, want %q", resp.Status, constants.ProjectStatusActive)
	}
	if resp.CurrentPhase != constants.PhaseNumberRequirements {
		t.Errorf("CurrentPhase = %d, want %d", resp.CurrentPhase, constants.PhaseNumberRequirements)
	}
	if resp.OwnerID != "user-owner" {
		t.Errorf("OwnerID = %q, want the creator", resp.OwnerID)
	}

	if len(resp.Phases) != constants.PhaseCount {
		t.Fatalf("phases = %d, want %d", len(resp.Phases), constants.PhaseCount)
	}
	catalog := utils.DefaultPhaseTemplates()
	for i, phase := range resp.Phases {
		if phase.PhaseNumber != i+1 {
			t.Errorf("phase[%d].PhaseNumber = %d, want %d", i, phase.PhaseNumber, i+1)
		}
		if phase.PhaseName != catalog[i].Name {
			t.Errorf("phase[%d].PhaseName = %q, want catalog name %q", i, phase.PhaseName, catalog[i].Name)
		}
		if phase.Status != constants.PhaseStatusNotStarted {
			t.Errorf("phase[%d].Status = %q, want %q", i, phase.Status, constants.PhaseStatusNotStarted)
		}
		if len(phase.Data) != 0 {
			t.Errorf("phase[%d].Data = %v, want empty document", i, phase.Data)
		}
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	service, _, _ := newProjectService()

	_, err := service.CreateProject(&dto.CreateProjectRequest{Name: "   "}, "user-owner")
	if !errors.Is(err, constants.ErrInvalidProjectName) {
		t.Errorf("CreateProject() error = %v, expectedErr %v", err, constants.ErrInvalidProjectName)
	}
}

func TestGetProjectByIDExpandsPhases(t *testing.T) {
	service, _, _ := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	resp, err := service.GetProjectByID(created.ID)
	if err != nil {
		t.Fatalf("GetProjectByID() error = %v", err)
	}
	if resp.Name != "Checkout Revamp" {
		t.Errorf("Name = %q, want %q", resp.Name, "Checkout Revamp")
	}
	if len(resp.Phases) != constants.PhaseCount {
		t.Errorf("phases = %d, want %d", len(resp.Phases), constants.PhaseCount)
	}

	if _, err := service.GetProjectByID("project-missing"); !errors.Is(err, constants.ErrProjectNotFound) {
		t.Errorf("GetProjectByID() error = %v, expectedErr %v", err, constants.ErrProjectNotFound)
	}
}

func TestListProjectsPagination(t *testing.T) {
	service, _, _ := newProjectService()
	for i := 1; i <= 3; i++ {
		if _, err := service.CreateProject(&dto.CreateProjectRequest{
			Name: fmt.Sprintf("Project %d", i),
		}, "user-owner"); err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
	}

	resp, err := service.ListProjects(2, 0)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}

	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
	if resp.Pagination.Total != 3 {
		t.Errorf("Pagination.Total = %d, want 3", resp.Pagination.Total)
	}
	if resp.List[0].Name != "Project 3" {
		t.Errorf("List[0].Name = %q, want the most recent project first", resp.List[0].Name)
	}
	if len(resp.List[0].Phases) != 0 {
		t.Error("list view must not expand phases")
	}

	// limits are clamped rather than rejected
	resp, err = service.ListProjects(0, -5)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if resp.Pagination.Limit != 20 || resp.Pagination.Offset != 0 {
		t.Errorf("clamped pagination = %+v, want limit 20 offset 0", resp.Pagination)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	service, _, phaseRepo := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	if err := service.DeleteProject(created.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	phases, _ := phaseRepo.GetPhasesByProjectUUID(created.ID)
	if len(phases) != 0 {
		t.Errorf("phases after delete = %d, want 0", len(phases))
	}

	if err := service.DeleteProject(created.ID); !errors.Is(err, constants.ErrProjectNotFound) {
		t.Errorf("DeleteProject() second call error = %v, expectedErr %v", err, constants.ErrProjectNotFound)
	}
}

func TestAddStakeholder(t *testing.T) {
	service, _, phaseRepo := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	roster, err := service.AddStakeholder(created.ID, &dto.AddStakeholderRequest{
		Name: "Maya",
		Role: "Product Owner",
	})
	if err != nil {
		t.Fatalf("AddStakeholder() error = %v", err)
	}

	if len(roster) != 1 {
		t.Fatalf("roster = %d entries, want 1", len(roster))
	}
	if roster[0].Name != "Maya" || roster[0].Role != "Product Owner" {
		t.Errorf("roster[0] = %+v, want the added stakeholder", roster[0])
	}
	if roster[0].Status != constants.ApprovalStatusPending {
		t.Errorf("roster[0].Status = %q, want %q", roster[0].Status, constants.ApprovalStatusPending)
	}

	// the roster lives in the requirements phase data
	reqPhase, _ := phaseRepo.GetPhaseByProjectAndNumber(created.ID, constants.PhaseNumberRequirements)
	if _, ok := reqPhase.Data["stakeholders"]; !ok {
		t.Error("stakeholders not persisted into the requirements phase data")
	}
}

func TestAddStakeholderRejectsDuplicates(t *testing.T) {
	service, _, _ := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	req := &dto.AddStakeholderRequest{Name: "Maya", Role: "Product Owner"}
	if _, err := service.AddStakeholder(created.ID, req); err != nil {
		t.Fatalf("AddStakeholder() error = %v", err)
	}
	if _, err := service.AddStakeholder(created.ID, req); !errors.Is(err, constants.ErrStakeholderExists) {
		t.Errorf("AddStakeholder() duplicate error = %v, expectedErr %v", err, constants.ErrStakeholderExists)
	}

	// same name under another role is allowed
	if _, err := service.AddStakeholder(created.ID, &dto.AddStakeholderRequest{
		Name: "Maya",
		Role: "BR Owner",
	}); err != nil {
		t.Errorf("AddStakeholder() with distinct role error = %v", err)
	}
}

func TestAddStakeholderRejectsApprovedPhase(t *testing.T) {
	service, _, phaseRepo := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	reqPhase, _ := phaseRepo.GetPhaseByProjectAndNumber(created.ID, constants.PhaseNumberRequirements)
	reqPhase.Status = constants.PhaseStatusApproved
	if err := phaseRepo.UpdatePhase(reqPhase); err != nil {
		t.Fatalf("UpdatePhase() error = %v", err)
	}

	_, err = service.AddStakeholder(created.ID, &dto.AddStakeholderRequest{
		Name: "Ann",
		Role: "Lead",
	})
	if !errors.Is(err, constants.ErrPhaseLocked) {
		t.Fatalf("AddStakeholder() error = %v, expectedErr %v", err, constants.ErrPhaseLocked)
	}

	// the approved phase data must stay untouched
	reqPhase, _ = phaseRepo.GetPhaseByProjectAndNumber(created.ID, constants.PhaseNumberRequirements)
	if _, ok := reqPhase.Data["stakeholders"]; ok {
		t.Error("stakeholders written into an approved phase")
	}
}

func TestGetStakeholdersSkipsMalformedEntries(t *testing.T) {
	service, _, phaseRepo := newProjectService()
	created, err := service.CreateProject(&dto.CreateProjectRequest{Name: "Checkout Revamp"}, "user-owner")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	// the data document is user-edited JSON; unexpected entry shapes must not
	// fail the read
	reqPhase, _ := phaseRepo.GetPhaseByProjectAndNumber(created.ID, constants.PhaseNumberRequirements)
	reqPhase.Data["stakeholders"] = []interface{}{
		map[string]interface{}{"name": "Maya", "role": "Product Owner", "status": "pending"},
		"free-form note",
		map[string]interface{}{"comment": "no identity"},
	}
	if err := phaseRepo.UpdatePhase(reqPhase); err != nil {
		t.Fatalf("UpdatePhase() error = %v", err)
	}

	roster, err := service.GetStakeholders(created.ID)
	if err != nil {
		t.Fatalf("GetStakeholders() error = %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("roster = %d entries, want only the well-formed one", len(roster))
	}
	if roster[0].Name != "Maya" {
		t.Errorf("roster[0].Name = %q, want %q", roster[0].Name, "Maya")
	}
}
