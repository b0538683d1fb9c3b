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

package websocket

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager handles the lifecycle of client WebSocket connections.
// It maintains an in-memory registry of active connections, manages heartbeats,
// and handles graceful/ungraceful disconnections.
//
// Design rationale: sync.Map provides thread-safe concurrent access optimized
// for read-heavy workloads (event delivery lookups). The registry maps user IDs
// to slices of connections to support multiple sessions per user (multiple tabs).
type Manager struct {
	// connections maps userID -> []*Connection
	// Supports multiple connections per user ID for multi-tab scenarios
	connections sync.Map

	// mu protects the connectionCount and maxConnections fields
	mu sync.RWMutex

	// connectionCount tracks the total number of active connections across all users
	connectionCount int

	// maxConnections enforces a limit on concurrent connections (default 1000)
	maxConnections int

	// heartbeatInterval specifies how often to send ping frames (default 20s)
	heartbeatInterval time.Duration

	// heartbeatTimeout specifies when to consider a connection dead (default 30s)
	heartbeatTimeout time.Duration

	// maxConnectionsPerUser enforces per-user session limits
	maxConnectionsPerUser int

	// shutdownCtx is used to signal graceful shutdown to all connection goroutines
	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	// wg tracks active connection handler goroutines for graceful shutdown
	wg sync.WaitGroup
}

// ManagerConfig contains configuration parameters for the connection manager
type ManagerConfig struct {
	MaxConnections        int           // Maximum concurrent connections (default 1000)
	HeartbeatInterval     time.Duration // Ping interval (default 20s)
	HeartbeatTimeout      time.Duration // Pong timeout (default 30s)
	MaxConnectionsPerUser int           // Maximum sessions per user (default 3)
}

// UserConnectionStats reports session counts for a single user
type UserConnectionStats struct {
	UserID       string `json:"userId"`
	CurrentCount int    `json:"currentCount"`
	MaxAllowed   int    `json:"maxAllowed"`
}

// DefaultManagerConfig returns sensible default configuration values
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxConnections:        1000,
		HeartbeatInterval:     20 * time.Second,
		HeartbeatTimeout:      30 * time.Second,
		MaxConnectionsPerUser: 3,
	}
}

// NewManager creates a new connection manager with the provided configuration
func NewManager(config ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		connections:           sync.Map{},
		connectionCount:       0,
		maxConnections:        config.MaxConnections,
		heartbeatInterval:     config.HeartbeatInterval,
		heartbeatTimeout:      config.HeartbeatTimeout,
		maxConnectionsPerUser: config.MaxConnectionsPerUser,
		shutdownCtx:           ctx,
		shutdownFn:            cancel,
	}
}

// Register adds a new connection to the registry and starts heartbeat monitoring.
// Returns an error if the maximum connection limit is reached.
//
// Parameters:
//   - userID: UUID of the authenticated user
//   - transport: Transport implementation for message delivery
//   - authToken: Bearer token used for authentication
//
// Returns the Connection instance and any error encountered.
//
// Design decision: Support multiple connections per user ID by storing
// connections in a slice. This lets a user keep the dashboard open in
// several tabs and receive events in all of them.
func (m *Manager) Register(userID string, transport Transport, authToken string) (*Connection, error) {
	// Check per-user limit first (count from main connections map)
	userCount := m.countUserConnections(userID)
	if userCount >= m.maxConnectionsPerUser {
		return nil, &UserConnectionLimitError{
			UserID:       userID,
			CurrentCount: userCount,
			MaxAllowed:   m.maxConnectionsPerUser,
		}
	}

	// Check global connection limit
	m.mu.Lock()
	if m.connectionCount >= m.maxConnections {
		m.mu.Unlock()
		return nil, fmt.Errorf("maximum connection limit reached (%d)", m.maxConnections)
	}
	m.connectionCount++
	m.mu.Unlock()

	// Create connection
	connectionID := uuid.New().String()
	conn := NewConnection(userID, connectionID, transport, authToken)

	// Add connection to registry
	connsInterface, _ := m.connections.LoadOrStore(userID, []*Connection{})
	conns := connsInterface.([]*Connection)
	conns = append(conns, conn)
	m.connections.Store(userID, conns)

	// Start heartbeat monitoring in background
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.monitorHeartbeat(conn)
	}()

	log.Printf("[INFO] Client connected: userID=%s connectionID=%s totalConnections=%d userConnections=%d",
		userID, connectionID, m.GetConnectionCount(), m.countUserConnections(userID))

	return conn, nil
}

// Unregister removes a connection from the registry and closes it gracefully.
// This method is idempotent - calling it multiple times is safe.
//
// Parameters:
//   - userID: UUID of the user
//   - connectionID: Unique identifier of the connection to remove
func (m *Manager) Unregister(userID, connectionID string) {
	connsInterface, ok := m.connections.Load(userID)
	if !ok {
		return // User not found
	}

	conns := connsInterface.([]*Connection)
	var updatedConns []*Connection
	var removed *Connection

	// Filter out the connection to remove
	for _, conn := range conns {
		if conn.ConnectionID == connectionID {
			removed = conn
		} else {
			updatedConns = append(updatedConns, conn)
		}
	}

	if removed == nil {
		return // Connection not found
	}

	// Update or delete the user entry
	if len(updatedConns) == 0 {
		m.connections.Delete(userID)
	} else {
		m.connections.Store(userID, updatedConns)
	}

	// Close the connection gracefully
	if err := removed.Close(1000, "normal closure"); err != nil {
		log.Printf("[ERROR] Failed to close connection: userID=%s connectionID=%s error=%v",
			userID, connectionID, err)
	}

	// Decrement connection count
	m.mu.Lock()
	m.connectionCount--
	m.mu.Unlock()

	log.Printf("[INFO] Client disconnected: userID=%s connectionID=%s totalConnections=%d",
		userID, connectionID, m.GetConnectionCount())
}

// GetConnections retrieves all connections for a specific user ID.
// Returns an empty slice if the user has no active connections.
//
// Thread-safe for concurrent access.
func (m *Manager) GetConnections(userID string) []*Connection {
	connsInterface, ok := m.connections.Load(userID)
	if !ok {
		return []*Connection{}
	}
	return connsInterface.([]*Connection)
}

// GetAllConnections returns all active connections across all users.
// Used by the stats API to provide operational visibility.
//
// Returns a map of userID -> []*Connection
func (m *Manager) GetAllConnections() map[string][]*Connection {
	result := make(map[string][]*Connection)
	m.connections.Range(func(key, value interface{}) bool {
		userID := key.(string)
		conns := value.([]*Connection)
		result[userID] = conns
		return true // Continue iteration
	})
	return result
}

// GetConnectionCount returns the total number of active connections
func (m *Manager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectionCount
}

// BroadcastToAll delivers a message to every live connection in the registry.
// Failed sends are recorded in per-connection stats and do not stop delivery
// to the remaining connections.
//
// Returns the number of connections the message was delivered to.
func (m *Manager) BroadcastToAll(message []byte) int {
	delivered := 0
	m.connections.Range(func(key, value interface{}) bool {
		conns := value.([]*Connection)
		for _, conn := range conns {
			if conn.IsClosed() {
				continue
			}
			if err := conn.Send(message); err != nil {
				conn.DeliveryStats.IncrementFailed(err.Error())
				log.Printf("[ERROR] Failed to deliver event: userID=%s connectionID=%s error=%v",
					conn.UserID, conn.ConnectionID, err)
				continue
			}
			conn.DeliveryStats.IncrementTotalSent()
			delivered++
		}
		return true
	})
	return delivered
}

// BroadcastToUser delivers a message to every live session of a single user.
// Returns the number of connections the message was delivered to.
func (m *Manager) BroadcastToUser(userID string, message []byte) int {
	delivered := 0
	for _, conn := range m.GetConnections(userID) {
		if conn.IsClosed() {
			continue
		}
		if err := conn.Send(message); err != nil {
			conn.DeliveryStats.IncrementFailed(err.Error())
			log.Printf("[ERROR] Failed to deliver event: userID=%s connectionID=%s error=%v",
				conn.UserID, conn.ConnectionID, err)
			continue
		}
		conn.DeliveryStats.IncrementTotalSent()
		delivered++
	}
	return delivered
}

// countUserConnections counts the number of connections for a specific user
// by iterating through the main connections map.
func (m *Manager) countUserConnections(userID string) int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		conns := value.([]*Connection)
		for _, conn := range conns {
			if conn.UserID == userID {
				count++
			}
		}
		return true
	})
	return count
}

// monitorHeartbeat periodically sends ping frames and detects connection death.
// Runs in a background goroutine for each connection.
//
// Parameters:
//   - conn: The connection to monitor
//
// The goroutine exits when:
//   - The connection is explicitly closed
//   - Heartbeat timeout is detected (no pong received)
//   - Manager shutdown is triggered
func (m *Manager) monitorHeartbeat(conn *Connection) {
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	// Configure pong handler to update heartbeat timestamp
	conn.Transport.EnablePongHandler(func(appData string) error {
		conn.UpdateHeartbeat()
		return nil
	})

	for {
		select {
		case <-m.shutdownCtx.Done():
			// Graceful shutdown triggered
			return

		case <-ticker.C:
			// Check if connection is already closed
			if conn.IsClosed() {
				return
			}

			// Check for heartbeat timeout
			if time.Since(conn.GetLastHeartbeat()) > m.heartbeatTimeout {
				log.Printf("[WARN] Heartbeat timeout detected: userID=%s connectionID=%s lastHeartbeat=%v",
					conn.UserID, conn.ConnectionID, conn.GetLastHeartbeat())
				m.Unregister(conn.UserID, conn.ConnectionID)
				return
			}

			// Send ping frame
			if err := conn.Transport.SendPing(); err != nil {
				log.Printf("[ERROR] Failed to send ping: userID=%s connectionID=%s error=%v",
					conn.UserID, conn.ConnectionID, err)
				m.Unregister(conn.UserID, conn.ConnectionID)
				return
			}
		}
	}
}

// Shutdown gracefully closes all connections and stops heartbeat monitoring.
// Waits for all connection handler goroutines to exit before returning.
//
// This method should be called during server shutdown to cleanly terminate
// all client connections with a normal closure code.
func (m *Manager) Shutdown() {
	log.Println("[INFO] Shutting down WebSocket manager...")

	// Signal shutdown to all monitoring goroutines
	m.shutdownFn()

	// Close all connections
	m.connections.Range(func(key, value interface{}) bool {
		userID := key.(string)
		conns := value.([]*Connection)
		for _, conn := range conns {
			if err := conn.Close(1000, "server shutdown"); err != nil {
				log.Printf("[ERROR] Failed to close connection during shutdown: userID=%s connectionID=%s error=%v",
					userID, conn.ConnectionID, err)
			}
		}
		return true // Continue iteration
	})

	// Wait for all goroutines to exit
	m.wg.Wait()

	log.Println("[INFO] WebSocket manager shutdown complete")
}

// GetUserConnectionStats returns connection statistics for a specific user
func (m *Manager) GetUserConnectionStats(userID string) UserConnectionStats {
	return UserConnectionStats{
		UserID:       userID,
		CurrentCount: m.countUserConnections(userID),
		MaxAllowed:   m.maxConnectionsPerUser,
	}
}

// CanAcceptUserConnection checks if the user can accept a new connection
// without actually adding it. Use this for pre-upgrade validation.
func (m *Manager) CanAcceptUserConnection(userID string) bool {
	return m.countUserConnections(userID) < m.maxConnectionsPerUser
}
