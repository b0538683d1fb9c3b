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
	"strings"

	"lifecycle-api/internal/client/jira_client"
	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/repository"
)

// IssueExporter is the external tracker boundary: it creates one tracker
// issue per epic document and reports the created references.
type IssueExporter interface {
	ExportEpics(ctx context.Context, projectName string, epics []map[string]interface{}) ([]dto.ExportedIssue, error)
}

// ExportService hands a project's planning epics to the configured tracker
type ExportService struct {
	projectRepo repository.ProjectRepository
	phaseRepo   repository.PhaseRepository
	exporter    IssueExporter
}

func NewExportService(projectRepo repository.ProjectRepository, phaseRepo repository.PhaseRepository,
	exporter IssueExporter) *ExportService {
	return &ExportService{
		projectRepo: projectRepo,
		phaseRepo:   phaseRepo,
		exporter:    exporter,
	}
}

// ExportIssues exports the project's planning epics to the external tracker.
// Issues created before a failure are not rolled back.
func (s *ExportService) ExportIssues(ctx context.Context, projectUUID string) (*dto.ExportIssuesResponse, error) {
	project, err := s.projectRepo.GetProjectByUUID(projectUUID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, constants.ErrProjectNotFound
	}

	phase, err := s.phaseRepo.GetPhaseByProjectAndNumber(projectUUID, constants.PhaseNumberPlanning)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, constants.ErrPhaseNotFound
	}

	epics := epicDocuments(phase.Data)
	if len(epics) == 0 {
		return nil, fmt.Errorf("%w: epics must be generated before export", constants.ErrPrecondition)
	}

	issues, err := s.exporter.ExportEpics(ctx, project.Name, epics)
	if err != nil {
		return nil, err
	}

	return &dto.ExportIssuesResponse{
		Status:   "success",
		Exported: len(issues),
		Issues:   issues,
		Message:  fmt.Sprintf("Exported %d epics to the issue tracker.", len(issues)),
	}, nil
}

func epicDocuments(data map[string]interface{}) []map[string]interface{} {
	raw, ok := data["epics"].([]interface{})
	if !ok {
		return nil
	}
	epics := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if doc, ok := item.(map[string]interface{}); ok {
			epics = append(epics, doc)
		}
	}
	return epics
}

// jiraExporter exports epics as Jira Epic issues
type jiraExporter struct {
	client  *jira_client.JiraClient
	baseURL string
}

// NewJiraExporter wires the Jira client behind the IssueExporter boundary
func NewJiraExporter(cfg jira_client.JiraConfig) IssueExporter {
	if !cfg.IsConfigured() {
		return notConfiguredExporter{}
	}
	return &jiraExporter{
		client:  jira_client.NewJiraClient(cfg),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (e *jiraExporter) ExportEpics(ctx context.Context, projectName string, epics []map[string]interface{}) ([]dto.ExportedIssue, error) {
	issues := make([]dto.ExportedIssue, 0, len(epics))
	for i, epic := range epics {
		if err := ctx.Err(); err != nil {
			return issues, fmt.Errorf("%w: %v", constants.ErrExportFailed, err)
		}

		title, _ := epic["title"].(string)
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("%s epic %d", projectName, i+1)
		}
		description, _ := epic["description"].(string)

		created, err := e.client.CreateEpic(title, description)
		if err != nil {
			return issues, fmt.Errorf("%w: epic %q: %v", constants.ErrExportFailed, title, err)
		}
		issues = append(issues, dto.ExportedIssue{
			Title:    title,
			IssueKey: created.Key,
			IssueURL: e.baseURL + "/browse/" + created.Key,
		})
	}
	return issues, nil
}

// notConfiguredExporter rejects every export until the tracker is configured
type notConfiguredExporter struct{}

func (notConfiguredExporter) ExportEpics(context.Context, string, []map[string]interface{}) ([]dto.ExportedIssue, error) {
	return nil, constants.ErrExportNotConfigured
}
