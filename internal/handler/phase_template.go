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

package handler

import (
	"net/http"

	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"

	"github.com/gin-gonic/gin"
)

// PhaseTemplateHandler serves the static phase catalog loaded at startup
type PhaseTemplateHandler struct {
	templates []*model.PhaseTemplate
}

func NewPhaseTemplateHandler(templates []*model.PhaseTemplate) *PhaseTemplateHandler {
	return &PhaseTemplateHandler{
		templates: templates,
	}
}

// ListPhaseTemplates handles GET /api/v1/phase-templates
func (h *PhaseTemplateHandler) ListPhaseTemplates(c *gin.Context) {
	list := make([]dto.PhaseTemplate, 0, len(h.templates))
	for _, tpl := range h.templates {
		list = append(list, dto.PhaseTemplate{
			PhaseNumber:    tpl.PhaseNumber,
			Name:           tpl.Name,
			Description:    tpl.Description,
			KeyActivities:  tpl.KeyActivities,
			Deliverables:   tpl.Deliverables,
			ApproverRoles:  tpl.ApproverRoles,
			RequiredFields: tpl.RequiredFields,
		})
	}

	c.JSON(http.StatusOK, dto.PhaseTemplateListResponse{
		Count: len(list),
		List:  list,
	})
}

func (h *PhaseTemplateHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/phase-templates", h.ListPhaseTemplates)
}
