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

type ApprovalHandler struct {
	approvalService *service.ApprovalService
}

func NewApprovalHandler(approvalService *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
	}
}

// CreateApprovals handles POST /api/v1/approvals
func (h *ApprovalHandler) CreateApprovals(c *gin.Context) {
	var req dto.CreateApprovalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	approvals, err := h.approvalService.CreateApprovals(req.PhaseID, req.Stakeholders)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, approvals)
}

// GetPhaseApprovals handles GET /api/v1/approvals/phase/:phaseId
func (h *ApprovalHandler) GetPhaseApprovals(c *gin.Context) {
	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	approvals, err := h.approvalService.GetApprovalsByPhase(phaseID)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, approvals)
}

// GetPendingApprovals handles GET /api/v1/approvals/pending/:userId
func (h *ApprovalHandler) GetPendingApprovals(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"User ID is required"))
		return
	}

	approvals, err := h.approvalService.GetPendingApprovals(userID)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, approvals)
}

// RecordDecision handles PUT /api/v1/approvals/:approvalId
func (h *ApprovalHandler) RecordDecision(c *gin.Context) {
	approvalID := c.Param("approvalId")
	if approvalID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Approval ID is required"))
		return
	}

	var req dto.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	approval, err := h.approvalService.RecordDecision(approvalID, &req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, approval)
}

func (h *ApprovalHandler) RegisterRoutes(r *gin.Engine) {
	approvalGroup := r.Group("/api/v1/approvals")
	{
		approvalGroup.POST("", h.CreateApprovals)
		approvalGroup.GET("/phase/:phaseId", h.GetPhaseApprovals)
		approvalGroup.GET("/pending/:userId", h.GetPendingApprovals)
		approvalGroup.PUT("/:approvalId", h.RecordDecision)
	}
}
