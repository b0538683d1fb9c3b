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

package utils

import (
	"errors"
	"strings"
	"testing"

	"lifecycle-api/internal/constants"
)

const validAPIDesign = `
openapi: 3.0.3
info:
  title: Checkout API
  version: 1.0.0
paths:
  /orders:
    get:
      responses:
        "200":
          description: order list
`

func TestValidatePhaseData(t *testing.T) {
	tests := []struct {
		name        string
		phaseNumber int
		patch       map[string]interface{}
		wantErr     bool
		errContains string
	}{
		{
			name:        "requirements phase accepts declared shapes",
			phaseNumber: constants.PhaseNumberRequirements,
			patch: map[string]interface{}{
				"prd":          "# PRD",
				"requirements": []interface{}{"req-1"},
				"stakeholders": []interface{}{map[string]interface{}{"name": "Ann", "role": "Lead"}},
			},
		},
		{
			name:        "string where an array is declared",
			phaseNumber: constants.PhaseNumberRequirements,
			patch:       map[string]interface{}{"requirements": "not a list"},
			wantErr:     true,
			errContains: "requirements must be an array",
		},
		{
			name:        "every violation is reported",
			phaseNumber: constants.PhaseNumberRequirements,
			patch: map[string]interface{}{
				"requirements": "not a list",
				"prd":          []interface{}{"not a string"},
			},
			wantErr:     true,
			errContains: "prd must be a string; requirements must be an array",
		},
		{
			name:        "undeclared keys pass through",
			phaseNumber: constants.PhaseNumberRequirements,
			patch:       map[string]interface{}{"customNotes": 42},
		},
		{
			name:        "nil values are ignored",
			phaseNumber: constants.PhaseNumberRequirements,
			patch:       map[string]interface{}{"requirements": nil},
		},
		{
			name:        "phases without a declared shape accept anything",
			phaseNumber: constants.PhaseNumberDeployment,
			patch:       map[string]interface{}{"runbook": 7},
		},
		{
			name:        "planning phase epics must be an array",
			phaseNumber: constants.PhaseNumberPlanning,
			patch:       map[string]interface{}{"epics": map[string]interface{}{}},
			wantErr:     true,
			errContains: "epics must be an array",
		},
		{
			name:        "architecture document must be an object",
			phaseNumber: constants.PhaseNumberArchitecture,
			patch:       map[string]interface{}{"architecture": "diagram"},
			wantErr:     true,
			errContains: "architecture must be an object",
		},
		{
			name:        "architecture phase accepts declared shapes",
			phaseNumber: constants.PhaseNumberArchitecture,
			patch: map[string]interface{}{
				"architectureComponents": []interface{}{map[string]interface{}{"name": "checkout-api"}},
				"technologyStack":        map[string]interface{}{"backend": "Go"},
				"databaseSchema":         map[string]interface{}{"orders": []interface{}{"id"}},
				"jiraIntegration":        map[string]interface{}{"projectKey": "CHK"},
			},
		},
		{
			name:        "architecture components must be an array",
			phaseNumber: constants.PhaseNumberArchitecture,
			patch: map[string]interface{}{
				"architectureComponents": map[string]interface{}{},
				"technologyStack":        "Go",
			},
			wantErr:     true,
			errContains: "architectureComponents must be an array; technologyStack must be an object",
		},
		{
			name:        "valid api design document",
			phaseNumber: constants.PhaseNumberArchitecture,
			patch:       map[string]interface{}{"apiDesign": validAPIDesign},
		},
		{
			name:        "broken api design document",
			phaseNumber: constants.PhaseNumberArchitecture,
			patch:       map[string]interface{}{"apiDesign": "openapi: 3.0.3\ninfo:\n  title: Broken\npaths: {}\n"},
			wantErr:     true,
			errContains: "apiDesign",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhaseData(tt.phaseNumber, tt.patch)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePhaseData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, constants.ErrInvalidPhaseData) {
				t.Errorf("error = %v, want ErrInvalidPhaseData", err)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateOpenAPIDefinitionAcceptsSwagger2(t *testing.T) {
	doc := `
swagger: "2.0"
info:
  title: Legacy API
  version: "1.0"
paths: {}
`
	if err := ValidateOpenAPIDefinition([]byte(doc)); err != nil {
		t.Fatalf("ValidateOpenAPIDefinition() error = %v", err)
	}
}

func TestValidateOpenAPIDefinitionRejectsGarbage(t *testing.T) {
	if err := ValidateOpenAPIDefinition([]byte("just some text")); err == nil {
		t.Fatal("ValidateOpenAPIDefinition() expected an error for a non-API document")
	}
}
