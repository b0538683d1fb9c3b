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
	"lifecycle-api/internal/service"
	"lifecycle-api/internal/utils"

	"github.com/gin-gonic/gin"
)

type PhaseHandler struct {
	phaseService *service.PhaseService
}

func NewPhaseHandler(phaseService *service.PhaseService) *PhaseHandler {
	return &PhaseHandler{
		phaseService: phaseService,
	}
}

// GetProjectPhases handles GET /api/v1/phases/project/:projectId
func (h *PhaseHandler) GetProjectPhases(c *gin.Context) {
	projectID := c.Param("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Project ID is required"))
		return
	}

	phases, err := h.phaseService.GetPhasesByProject(projectID)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, phases)
}

// GetPhase handles GET /api/v1/phases/:phaseId
func (h *PhaseHandler) GetPhase(c *gin.Context) {
	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	phase, err := h.phaseService.GetPhaseByID(phaseID)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, phase)
}

// UpdatePhase handles PUT /api/v1/phases/:phaseId
func (h *PhaseHandler) UpdatePhase(c *gin.Context) {
	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	var req dto.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	phase, err := h.phaseService.UpdatePhase(phaseID, &req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, phase)
}

// SaveDraft handles POST /api/v1/phases/:phaseId/save-draft
func (h *PhaseHandler) SaveDraft(c *gin.Context) {
	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	phase, err := h.phaseService.SaveDraft(phaseID, &req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, phase)
}

// SubmitForApproval handles POST /api/v1/phases/:phaseId/submit-for-approval
func (h *PhaseHandler) SubmitForApproval(c *gin.Context) {
	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	var req dto.SubmitForApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	phase, err := h.phaseService.SubmitForApproval(phaseID, &req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, phase)
}

func (h *PhaseHandler) RegisterRoutes(r *gin.Engine) {
	phaseGroup := r.Group("/api/v1/phases")
	{
		phaseGroup.GET("/project/:projectId", h.GetProjectPhases)
		phaseGroup.GET("/:phaseId", h.GetPhase)
		phaseGroup.PUT("/:phaseId", h.UpdatePhase)
		phaseGroup.POST("/:phaseId/save-draft", h.SaveDraft)
		phaseGroup.POST("/:phaseId/submit-for-approval", h.SubmitForApproval)
	}
}
