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
	"strings"

	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/service"
	"lifecycle-api/internal/utils"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// GenerateContent handles POST /api/v1/ai/generate/:phaseId
//
// The body carries content_type plus a free-form context payload; everything
// besides content_type is forwarded to the generator as context.
func (h *AIHandler) GenerateContent(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	contentType, _ := body["content_type"].(string)
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"content_type is required"))
		return
	}
	delete(body, "content_type")

	result, err := h.aiService.GenerateContent(c.Request.Context(), userID, phaseID, contentType, body)
	if err != nil {
		status, resp := utils.GetErrorResponse(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeRisks handles POST /api/v1/ai/analyze-risks/:phaseId
func (h *AIHandler) AnalyzeRisks(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	phaseID := c.Param("phaseId")
	if phaseID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Phase ID is required"))
		return
	}

	result, err := h.aiService.AnalyzeRisks(c.Request.Context(), userID, phaseID)
	if err != nil {
		status, resp := utils.GetErrorResponse(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) RegisterRoutes(r *gin.Engine) {
	aiGroup := r.Group("/api/v1/ai")
	{
		aiGroup.POST("/generate/:phaseId", h.GenerateContent)
		aiGroup.POST("/analyze-risks/:phaseId", h.AnalyzeRisks)
	}
}
