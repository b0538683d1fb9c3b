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
	"context"
	"errors"
	"testing"

	"lifecycle-api/internal/client/jira_client"
	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
)

func newExportFixture(planningData map[string]interface{}) (*ExportService, *mockExporter) {
	phaseRepo := newMockPhaseRepository(planningPhase(constants.PhaseStatusInProgress, planningData))
	projectRepo := newMockProjectRepository(phaseRepo, &model.Project{
		UUID:         "project-1",
		Name:         "Checkout Revamp",
		Status:       constants.ProjectStatusActive,
		CurrentPhase: constants.PhaseNumberPlanning,
	})
	exporter := &mockExporter{}
	return NewExportService(projectRepo, phaseRepo, exporter), exporter
}

func TestExportIssuesUnknownProject(t *testing.T) {
	svc, exporter := newExportFixture(nil)

	_, err := svc.ExportIssues(context.Background(), "missing")
	if !errors.Is(err, constants.ErrProjectNotFound) {
		t.Fatalf("ExportIssues() error = %v, want ErrProjectNotFound", err)
	}
	if exporter.exportCalls != 0 {
		t.Errorf("exportCalls = %d, want 0", exporter.exportCalls)
	}
}

func TestExportIssuesRequiresEpics(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
	}{
		{name: "no planning data", data: nil},
		{name: "empty epics", data: map[string]interface{}{"epics": []interface{}{}}},
		{name: "epics of the wrong shape", data: map[string]interface{}{"epics": []interface{}{"not a document"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, exporter := newExportFixture(tt.data)

			_, err := svc.ExportIssues(context.Background(), "project-1")
			if !errors.Is(err, constants.ErrPrecondition) {
				t.Fatalf("ExportIssues() error = %v, want ErrPrecondition", err)
			}
			if exporter.exportCalls != 0 {
				t.Errorf("exportCalls = %d, want 0", exporter.exportCalls)
			}
		})
	}
}

func TestExportIssuesHandsEpicsToTheTracker(t *testing.T) {
	svc, exporter := newExportFixture(map[string]interface{}{
		"epics": []interface{}{
			map[string]interface{}{"title": "Payment flow", "description": "Rework the payment step"},
			map[string]interface{}{"title": "Cart recovery"},
		},
	})
	exporter.issues = []dto.ExportedIssue{
		{Title: "Payment flow", IssueKey: "CR-1", IssueURL: "https://tracker/browse/CR-1"},
		{Title: "Cart recovery", IssueKey: "CR-2", IssueURL: "https://tracker/browse/CR-2"},
	}

	resp, err := svc.ExportIssues(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("ExportIssues() error = %v", err)
	}

	if resp.Status != "success" || resp.Exported != 2 {
		t.Errorf("Status = %q Exported = %d, want success/2", resp.Status, resp.Exported)
	}
	if exporter.exportCalls != 1 {
		t.Errorf("exportCalls = %d, want 1", exporter.exportCalls)
	}
	if exporter.lastProjectName != "Checkout Revamp" {
		t.Errorf("lastProjectName = %q, want the project name", exporter.lastProjectName)
	}
	if len(exporter.lastEpics) != 2 || exporter.lastEpics[0]["title"] != "Payment flow" {
		t.Errorf("lastEpics = %v, want the two epic documents", exporter.lastEpics)
	}
}

func TestExportIssuesTrackerFailurePropagates(t *testing.T) {
	svc, exporter := newExportFixture(map[string]interface{}{
		"epics": []interface{}{map[string]interface{}{"title": "Payment flow"}},
	})
	exporter.err = constants.ErrExportFailed

	_, err := svc.ExportIssues(context.Background(), "project-1")
	if !errors.Is(err, constants.ErrExportFailed) {
		t.Fatalf("ExportIssues() error = %v, want ErrExportFailed", err)
	}
}

func TestNewJiraExporterWithoutCredentials(t *testing.T) {
	exporter := NewJiraExporter(jira_client.JiraConfig{})

	_, err := exporter.ExportEpics(context.Background(), "Checkout Revamp", []map[string]interface{}{
		{"title": "Payment flow"},
	})
	if !errors.Is(err, constants.ErrExportNotConfigured) {
		t.Fatalf("ExportEpics() error = %v, want ErrExportNotConfigured", err)
	}
}
