/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/service"
	"lifecycle-api/internal/utils"
	ws "lifecycle-api/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventsHandler upgrades dashboard clients to WebSocket sessions and keeps
// them registered with the connection manager for event fan-out.
type EventsHandler struct {
	manager    *ws.Manager
	authConfig middleware.AuthConfig
	upgrader   websocket.Upgrader

	// Rate limiting: track connection attempts per IP
	rateLimitMu    sync.RWMutex
	rateLimitMap   map[string][]time.Time // IP -> timestamps of connection attempts
	rateLimitCount int                    // Attempts allowed per minute
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(manager *ws.Manager, authConfig middleware.AuthConfig, rateLimitCount int) *EventsHandler {
	return &EventsHandler{
		manager:    manager,
		authConfig: authConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Implement proper origin checking in production
				return true
			},
			HandshakeTimeout: 10 * time.Second,
		},
		rateLimitMap:   make(map[string][]time.Time),
		rateLimitCount: rateLimitCount,
	}
}

// Connect handles WebSocket upgrade requests at /api/v1/ws/events.
// This is the entry point for dashboard event subscriptions.
func (h *EventsHandler) Connect(c *gin.Context) {
	// Extract client IP for rate limiting
	clientIP := c.ClientIP()

	// Check rate limit
	if !h.checkRateLimit(clientIP) {
		utils.LogWarningf("Rate limit exceeded for IP: %s", clientIP)
		c.JSON(http.StatusTooManyRequests, utils.NewErrorResponse(429, "Too Many Requests",
			"Connection rate limit exceeded. Please try again later."))
		return
	}

	// Browsers cannot set an Authorization header on the WebSocket handshake,
	// so the bearer token is accepted as a query parameter with the header as
	// fallback for non-browser clients.
	token := h.extractToken(c)
	if token == "" {
		utils.LogWarningf("WebSocket connection attempt without token from IP: %s", clientIP)
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Bearer token is required. Provide a 'token' query parameter or Authorization header."))
		return
	}

	claims, err := middleware.ParseAccessToken(h.authConfig, token)
	if err != nil {
		utils.LogWarningf("WebSocket authentication failed: ip=%s error=%v", clientIP, err)
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Invalid or expired token"))
		return
	}
	userID := claims.Subject

	// Check per-user session limit before upgrading to WebSocket
	if !h.manager.CanAcceptUserConnection(userID) {
		stats := h.manager.GetUserConnectionStats(userID)
		utils.LogWarningf("User connection limit exceeded: userID=%s count=%d max=%d",
			userID, stats.CurrentCount, stats.MaxAllowed)
		c.JSON(http.StatusTooManyRequests, utils.NewErrorResponse(429, "Too Many Requests",
			"Session limit reached. Maximum allowed connections: "+
				fmt.Sprintf("%d", stats.MaxAllowed)))
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogErrorWithContext("WebSocket upgrade failed", err, map[string]interface{}{"userID": userID})
		// Upgrade error is already sent by upgrader
		return
	}

	// Create WebSocket transport
	transport := ws.NewWebSocketTransport(conn)

	// Register connection with manager
	connection, err := h.manager.Register(userID, transport, token)
	if err != nil {
		utils.LogErrorWithContext("Connection registration failed", err, map[string]interface{}{"userID": userID})

		// Check if this is a per-user session limit error
		if limitErr, ok := err.(*ws.UserConnectionLimitError); ok {
			errorMsg := map[string]interface{}{
				"type":         "error",
				"code":         "USER_CONNECTION_LIMIT_EXCEEDED",
				"message":      "Session limit reached",
				"currentCount": limitErr.CurrentCount,
				"maxAllowed":   limitErr.MaxAllowed,
			}
			if payload, marshalErr := json.Marshal(errorMsg); marshalErr == nil {
				conn.WriteMessage(websocket.TextMessage, payload)
			}
		} else {
			// Generic error
			errorMsg := map[string]string{
				"type":    "error",
				"message": err.Error(),
			}
			if payload, marshalErr := json.Marshal(errorMsg); marshalErr == nil {
				conn.WriteMessage(websocket.TextMessage, payload)
			}
		}
		conn.Close()
		return
	}

	// Send connection acknowledgment
	ack, err := service.ConnectionAck(userID, connection.ConnectionID)
	if err != nil {
		utils.LogErrorWithContext("Failed to marshal connection ACK", err, map[string]interface{}{"userID": userID})
	} else {
		if err := connection.Send(ack); err != nil {
			utils.LogErrorWithContext("Failed to send connection ACK", err, map[string]interface{}{
				"userID": userID, "connectionID": connection.ConnectionID})
		}
	}

	utils.LogInfof("WebSocket connection established: userID=%s connectionID=%s",
		userID, connection.ConnectionID)

	// Start reading messages (blocks until connection closes)
	// This keeps the handler goroutine alive to maintain the connection
	h.readLoop(connection)

	// Connection closed - cleanup
	utils.LogInfof("WebSocket connection closed: userID=%s connectionID=%s",
		userID, connection.ConnectionID)
	h.manager.Unregister(userID, connection.ConnectionID)
}

// extractToken pulls the bearer token from the token query parameter or the
// Authorization header.
func (h *EventsHandler) extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// readLoop reads messages from the WebSocket connection.
// This is primarily for handling control frames (ping/pong) and detecting disconnections.
// Dashboard clients are not expected to send application messages upstream.
func (h *EventsHandler) readLoop(conn *ws.Connection) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogWarningf("Panic in WebSocket read loop: userID=%s connectionID=%s panic=%v",
				conn.UserID, conn.ConnectionID, r)
		}
	}()

	// Read messages until connection closes
	// The gorilla/websocket library handles ping/pong automatically via SetPongHandler
	for {
		// Check if connection is closed
		if conn.IsClosed() {
			return
		}

		// Read next message (blocks until message or error)
		// We don't expect clients to send messages, but we need to read
		// to detect disconnections and handle control frames
		wsTransport, ok := conn.Transport.(*ws.WebSocketTransport)
		if !ok {
			utils.LogWarningf("Invalid transport type for connection: userID=%s connectionID=%s",
				conn.UserID, conn.ConnectionID)
			return
		}

		_, _, err := wsTransport.ReadMessage()
		if err != nil {
			// Connection closed or error occurred
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.LogErrorWithContext("WebSocket read error", err, map[string]interface{}{
					"userID": conn.UserID, "connectionID": conn.ConnectionID})
			}
			return
		}
	}
}

// checkRateLimit verifies if the client IP is within rate limits.
// Returns true if connection is allowed, false if rate limit exceeded.
//
// Rate limit: rateLimitCount connections per minute per IP
func (h *EventsHandler) checkRateLimit(clientIP string) bool {
	h.rateLimitMu.Lock()
	defer h.rateLimitMu.Unlock()

	now := time.Now()
	oneMinuteAgo := now.Add(-1 * time.Minute)

	// Get recent connection attempts for this IP
	attempts, exists := h.rateLimitMap[clientIP]
	if !exists {
		attempts = []time.Time{}
	}

	// Filter out attempts older than 1 minute
	var recentAttempts []time.Time
	for _, t := range attempts {
		if t.After(oneMinuteAgo) {
			recentAttempts = append(recentAttempts, t)
		}
	}

	// Check if rate limit exceeded
	if len(recentAttempts) >= h.rateLimitCount {
		return false // Rate limit exceeded
	}

	// Add current attempt
	recentAttempts = append(recentAttempts, now)
	h.rateLimitMap[clientIP] = recentAttempts

	return true // Connection allowed
}

// RegisterRoutes registers WebSocket routes with the router
func (h *EventsHandler) RegisterRoutes(r *gin.Engine) {
	wsGroup := r.Group("/api/v1/ws")
	{
		wsGroup.GET("/events", h.Connect)
	}
}
