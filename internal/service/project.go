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

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
	"lifecycle-api/internal/repository"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
	phaseRepo   repository.PhaseRepository
	templates   []*model.PhaseTemplate
	events      *EventsService
}

func NewProjectService(projectRepo repository.ProjectRepository, phaseRepo repository.PhaseRepository,
	templates []*model.PhaseTemplate, events *EventsService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		phaseRepo:   phaseRepo,
		templates:   templates,
		events:      events,
	}
}

// CreateProject creates a project together with its six phases, seeded from
// the phase template catalog. Every phase starts out not_started with an
// empty data document.
func (s *ProjectService) CreateProject(req *dto.CreateProjectRequest, ownerUUID string) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, constants.ErrInvalidProjectName
	}

	project := &model.Project{
		Name:         name,
		Description:  req.Description,
		Status:       constants.ProjectStatusActive,
		CurrentPhase: constants.PhaseNumberRequirements,
		OwnerUUID:    ownerUUID,
	}

	phases := make([]*model.Phase, 0, len(s.templates))
	for _, tpl := range s.templates {
		phases = append(phases, &model.Phase{
			PhaseNumber: tpl.PhaseNumber,
			PhaseName:   tpl.Name,
			Status:      constants.PhaseStatusNotStarted,
			Data:        map[string]interface{}{},
		})
	}

	if err := s.projectRepo.CreateProject(project, phases); err != nil {
		return nil, err
	}

	s.events.PublishProjectCreated(project)

	return s.toProjectResponse(project, phases), nil
}

// GetProjectByID returns one project with all of its phases
func (s *ProjectService) GetProjectByID(uuid string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.GetProjectByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, constants.ErrProjectNotFound
	}

	phases, err := s.phaseRepo.GetPhasesByProjectUUID(uuid)
	if err != nil {
		return nil, err
	}

	return s.toProjectResponse(project, phases), nil
}

// ListProjects returns a page of projects ordered most recent first. Phases
// are not expanded on the list view.
func (s *ProjectService) ListProjects(limit, offset int) (*dto.ProjectListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.projectRepo.CountProjects()
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListProjects(limit, offset)
	if err != nil {
		return nil, err
	}

	list := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		list = append(list, *s.toProjectResponse(project, nil))
	}

	return &dto.ProjectListResponse{
		Count: len(list),
		List:  list,
		Pagination: dto.PaginationInfo{
			Total:  total,
			Offset: offset,
			Limit:  limit,
		},
	}, nil
}

// DeleteProject removes a project and cascades to its phases, approvals and
// interaction log
func (s *ProjectService) DeleteProject(uuid string) error {
	project, err := s.projectRepo.GetProjectByUUID(uuid)
	if err != nil {
		return err
	}
	if project == nil {
		return constants.ErrProjectNotFound
	}

	if err := s.projectRepo.DeleteProject(uuid); err != nil {
		return err
	}

	s.events.PublishProjectDeleted(uuid)
	return nil
}

// AddStakeholder appends an approver entry to the requirements phase data.
// Duplicate (name, role) pairs are rejected.
func (s *ProjectService) AddStakeholder(projectID string, req *dto.AddStakeholderRequest) ([]dto.StakeholderResponse, error) {
	project, err := s.projectRepo.GetProjectByUUID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, constants.ErrProjectNotFound
	}

	phase, err := s.phaseRepo.GetPhaseByProjectAndNumber(projectID, constants.PhaseNumberRequirements)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}
	if phase.Status == constants.PhaseStatusApproved {
		return nil, constants.ErrPhaseLocked
	}

	stakeholders := stakeholdersFromData(phase.Data)
	for _, existing := range stakeholders {
		if existing.Name == req.Name && existing.Role == req.Role {
			return nil, constants.ErrStakeholderExists
		}
	}

	stakeholders = append(stakeholders, model.Stakeholder{
		Role:   req.Role,
		Name:   req.Name,
		Status: constants.ApprovalStatusPending,
	})

	if phase.Data == nil {
		phase.Data = map[string]interface{}{}
	}
	phase.Data["stakeholders"] = stakeholderDocuments(stakeholders)

	if err := s.phaseRepo.UpdatePhase(phase); err != nil {
		return nil, err
	}

	return stakeholderResponses(stakeholders), nil
}

// GetStakeholders lists the approver entries recorded on the requirements phase
func (s *ProjectService) GetStakeholders(projectID string) ([]dto.StakeholderResponse, error) {
	project, err := s.projectRepo.GetProjectByUUID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, constants.ErrProjectNotFound
	}

	phase, err := s.phaseRepo.GetPhaseByProjectAndNumber(projectID, constants.PhaseNumberRequirements)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	return stakeholderResponses(stakeholdersFromData(phase.Data)), nil
}

// ---- helpers ----

func (s *ProjectService) toProjectResponse(project *model.Project, phases []*model.Phase) *dto.ProjectResponse {
	if project == nil {
		return nil
	}

	resp := &dto.ProjectResponse{
		ID:           project.UUID,
		Name:         project.Name,
		Description:  project.Description,
		Status:       project.Status,
		CurrentPhase: project.CurrentPhase,
		OwnerID:      project.OwnerUUID,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}

	for _, phase := range phases {
		resp.Phases = append(resp.Phases, *toPhaseResponse(phase))
	}

	return resp
}

// stakeholdersFromData decodes the stakeholders array out of a phase data
// document. Entries with unexpected shapes are skipped rather than failing
// the whole read; the document is user-edited JSON.
func stakeholdersFromData(data map[string]interface{}) []model.Stakeholder {
	if data == nil {
		return nil
	}
	raw, ok := data["stakeholders"].([]interface{})
	if !ok {
		return nil
	}

	stakeholders := make([]model.Stakeholder, 0, len(raw))
	for _, entry := range raw {
		doc, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := doc["name"].(string)
		role, _ := doc["role"].(string)
		status, _ := doc["status"].(string)
		if name == "" && role == "" {
			continue
		}
		stakeholders = append(stakeholders, model.Stakeholder{
			Role:   role,
			Name:   name,
			Status: status,
		})
	}
	return stakeholders
}

// stakeholderDocuments converts stakeholder entries back into the generic
// document form stored inside phase data
func stakeholderDocuments(stakeholders []model.Stakeholder) []interface{} {
	docs := make([]interface{}, 0, len(stakeholders))
	for _, sh := range stakeholders {
		docs = append(docs, map[string]interface{}{
			"role":   sh.Role,
			"name":   sh.Name,
			"status": sh.Status,
		})
	}
	return docs
}

func stakeholderResponses(stakeholders []model.Stakeholder) []dto.StakeholderResponse {
	responses := make([]dto.StakeholderResponse, 0, len(stakeholders))
	for _, sh := range stakeholders {
		responses = append(responses, dto.StakeholderResponse{
			Role:   sh.Role,
			Name:   sh.Name,
			Status: sh.Status,
		})
	}
	return responses
}
