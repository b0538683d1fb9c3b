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

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	token, err := h.userService.Signup(&req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, token)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			utils.FormatValidationError(err)))
		return
	}

	token, err := h.userService.Login(&req)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, token)
}

// DemoLogin handles POST /api/v1/auth/demo
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	token, err := h.userService.DemoLogin()
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	user, err := h.userService.GetUserByUUID(userID)
	if err != nil {
		status, body := utils.GetErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/demo", h.DemoLogin)
		authGroup.GET("/me", h.Me)
	}
}
