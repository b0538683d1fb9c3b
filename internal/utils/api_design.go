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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-openapi/loads"
	"gopkg.in/yaml.v3"
)

// ValidateOpenAPIDefinition validates an API definition document (YAML or
// JSON) captured in the architecture phase. OpenAPI 3.x and Swagger 2.0 are
// accepted; anything else is rejected.
func ValidateOpenAPIDefinition(content []byte) error {
	var probe map[string]interface{}
	if err := yaml.Unmarshal(content, &probe); err != nil {
		return fmt.Errorf("failed to parse document: %s", err.Error())
	}

	openapiVersion, _ := probe["openapi"].(string)
	swaggerVersion, _ := probe["swagger"].(string)

	switch {
	case strings.HasPrefix(openapiVersion, "3."):
		return validateOpenAPI3Definition(content)
	case strings.HasPrefix(swaggerVersion, "2."):
		return validateSwagger2Definition(content)
	default:
		// Version field absent or unusual; try both models
		return validateDefinitionByStructure(content)
	}
}

// validateDefinitionByStructure tries to validate by attempting both models.
func validateDefinitionByStructure(content []byte) error {
	v3Err := validateOpenAPI3Definition(content)
	if v3Err == nil {
		return nil
	}
	v2Err := validateSwagger2Definition(content)
	if v2Err == nil {
		return nil
	}
	return fmt.Errorf("document validation failed: OpenAPI 3.x: %s; Swagger 2.0: %s", v3Err.Error(), v2Err.Error())
}

// validateOpenAPI3Definition validates OpenAPI 3.x documents
func validateOpenAPI3Definition(content []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(content)
	if err != nil {
		return fmt.Errorf("OpenAPI 3.x model build error: %s", err.Error())
	}

	if doc.Info == nil {
		return fmt.Errorf("missing required field: info")
	}
	if doc.Info.Title == "" {
		return fmt.Errorf("missing required field: info.title")
	}
	if doc.Info.Version == "" {
		return fmt.Errorf("missing required field: info.version")
	}

	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("OpenAPI 3.x validation failed: %s", err.Error())
	}
	return nil
}

// validateSwagger2Definition validates Swagger 2.0 documents
func validateSwagger2Definition(content []byte) error {
	jsonContent, err := definitionToJSON(content)
	if err != nil {
		return fmt.Errorf("failed to parse document: %s", err.Error())
	}

	doc, err := loads.Analyzed(jsonContent, "2.0")
	if err != nil {
		return fmt.Errorf("Swagger 2.0 model build error: %s", err.Error())
	}

	swagger := doc.Spec()
	if swagger.Info == nil {
		return fmt.Errorf("missing required field: info")
	}
	if swagger.Info.Title == "" {
		return fmt.Errorf("missing required field: info.title")
	}
	if swagger.Info.Version == "" {
		return fmt.Errorf("missing required field: info.version")
	}
	if swagger.Swagger == "" {
		return fmt.Errorf("missing required field: swagger version")
	}
	if !strings.HasPrefix(swagger.Swagger, "2.") {
		return fmt.Errorf("invalid swagger version: %s, expected 2.x", swagger.Swagger)
	}
	return nil
}

// definitionToJSON converts a YAML document to JSON bytes; JSON input passes
// through the same path unchanged since JSON is a YAML subset.
func definitionToJSON(content []byte) (json.RawMessage, error) {
	var doc interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAMLValue(doc))
}

// normalizeYAMLValue rewrites map[interface{}]interface{} trees into
// map[string]interface{} so they can be marshalled to JSON.
func normalizeYAMLValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeYAMLValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}
