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
	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/service"
	"lifecycle-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the assistant chat endpoint backed by the AI gateway
type ChatHandler struct {
	aiService *service.AIService
}

func NewChatHandler(aiService *service.AIService) *ChatHandler {
	return &ChatHandler{
		aiService: aiService,
	}
}

// Query handles POST /api/v1/chat/query
func (h *ChatHandler) Query(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	var req dto.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	result, err := h.aiService.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		status, resp := utils.GetErrorResponse(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ChatHandler) RegisterRoutes(r *gin.Engine) {
	chatGroup := r.Group("/api/v1/chat")
	{
		chatGroup.POST("/query", h.Query)
	}
}
