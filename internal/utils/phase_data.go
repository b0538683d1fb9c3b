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
	"fmt"
	"sort"
	"strings"

	"lifecycle-api/internal/constants"
)

type dataKind int

const (
	kindString dataKind = iota
	kindArray
	kindObject
)

func (k dataKind) String() string {
	switch k {
	case kindString:
		return "a string"
	case kindArray:
		return "an array"
	case kindObject:
		return "an object"
	default:
		return "a value"
	}
}

// phaseDataShapes declares the JSON kind of every workflow-relevant top-level
// key per phase. The documents stay open: keys not listed here are preserved
// untouched, listed keys must carry the declared kind when present.
var phaseDataShapes = map[int]map[string]dataKind{
	constants.PhaseNumberRequirements: {
		"requirements":        kindArray,
		"gherkinRequirements": kindArray,
		"stakeholders":        kindArray,
		"prd":                 kindString,
		"brd":                 kindString,
		"risks":               kindArray,
	},
	constants.PhaseNumberPlanning: {
		"epics":       kindArray,
		"userStories": kindArray,
		"sprints":     kindArray,
	},
	constants.PhaseNumberArchitecture: {
		"architecture":           kindObject,
		"architectureComponents": kindArray,
		"technologyStack":        kindObject,
		"databaseSchema":         kindObject,
		"jiraIntegration":        kindObject,
		// apiDesign carries the serialized OpenAPI document, validated below
		"apiDesign": kindString,
	},
}

// ValidatePhaseData checks a phase data patch against the declared payload
// shape for the phase before it is merged. The phase 3 apiDesign document is
// additionally validated as an OpenAPI definition.
func ValidatePhaseData(phaseNumber int, patch map[string]interface{}) error {
	shape, ok := phaseDataShapes[phaseNumber]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var violations []string
	for _, key := range keys {
		kind, declared := shape[key]
		value := patch[key]
		if !declared || value == nil {
			continue
		}
		if !matchesKind(value, kind) {
			violations = append(violations, fmt.Sprintf("%s must be %s", key, kind))
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", constants.ErrInvalidPhaseData, strings.Join(violations, "; "))
	}

	if phaseNumber == constants.PhaseNumberArchitecture {
		if design, ok := patch["apiDesign"].(string); ok && strings.TrimSpace(design) != "" {
			if err := ValidateOpenAPIDefinition([]byte(design)); err != nil {
				return fmt.Errorf("%w: apiDesign: %s", constants.ErrInvalidPhaseData, err.Error())
			}
		}
	}
	return nil
}

func matchesKind(value interface{}, kind dataKind) bool {
	switch kind {
	case kindString:
		_, ok := value.(string)
		return ok
	case kindArray:
		_, ok := value.([]interface{})
		return ok
	case kindObject:
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return true
	}
}
