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

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"DEBUG"`

	// Server configurations
	Port string `envconfig:"PORT" default:"9343"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./internal/database/schema.sql"`

	// Phase catalog overlay (optional YAML file; empty uses the compiled-in catalog)
	PhaseTemplatePath string `envconfig:"PHASE_TEMPLATE_PATH" default:""`

	// JWT Authentication configurations
	JWT JWT `envconfig:"JWT"`

	// AI generation provider configurations
	AIProvider AIProvider `envconfig:"AI_PROVIDER"`

	// Jira issue export configurations
	Jira Jira `envconfig:"JIRA"`

	// WebSocket configurations
	WebSocket WebSocket `envconfig:"WEBSOCKET"`

	// TLS configurations
	TLS TLS `envconfig:"TLS"`
}

// TLS holds TLS certificate configuration
type TLS struct {
	CertDir string `envconfig:"CERT_DIR" default:"./data/certs"`
}

// JWT holds JWT-specific configuration
type JWT struct {
	SecretKey   string `envconfig:"SECRET_KEY" default:"your-secret-key-change-in-production"`
	Issuer      string `envconfig:"ISSUER" default:"lifecycle-api"`
	ExpiryHours int    `envconfig:"EXPIRY_HOURS" default:"24"`
	// Paths served without a bearer token. The event stream path is listed
	// because browser WebSocket clients cannot set an Authorization header;
	// the events handler validates the token itself.
	SkipPaths []string `envconfig:"SKIP_PATHS" default:"/health,/api/v1/auth/signup,/api/v1/auth/login,/api/v1/auth/demo,/api/v1/ws/events"`
}

// AIProvider holds the connection settings for the OpenAI-compatible
// generation provider. An empty APIKey selects the offline template gateway,
// which produces deterministic artifacts without a provider round-trip.
type AIProvider struct {
	BaseURL        string `envconfig:"BASE_URL" default:"https://api.openai.com/v1"`
	APIKey         string `envconfig:"API_KEY" default:""`
	Model          string `envconfig:"MODEL" default:"gpt-4o-mini"`
	TimeoutSeconds int    `envconfig:"TIMEOUT" default:"60"`
	MaxRetries     int    `envconfig:"MAX_RETRIES" default:"0"`
}

// Jira holds the Jira Cloud settings for epic export. Export stays disabled
// until all four connection fields are provided.
type Jira struct {
	BaseURL        string `envconfig:"BASE_URL" default:""`
	Email          string `envconfig:"EMAIL" default:""`
	APIToken       string `envconfig:"API_TOKEN" default:""`
	ProjectKey     string `envconfig:"PROJECT_KEY" default:""`
	TimeoutSeconds int    `envconfig:"TIMEOUT" default:"10"`
	MaxRetries     int    `envconfig:"MAX_RETRIES" default:"3"`
}

// WebSocket holds WebSocket-specific configuration
type WebSocket struct {
	MaxConnections        int `envconfig:"MAX_CONNECTIONS" default:"1000"`
	HeartbeatInterval     int `envconfig:"HEARTBEAT_INTERVAL" default:"20"` // seconds
	HeartbeatTimeout      int `envconfig:"HEARTBEAT_TIMEOUT" default:"30"`  // seconds
	MaxConnectionsPerUser int `envconfig:"MAX_CONNECTIONS_PER_USER" default:"3"`
	RateLimitPerMin       int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// DBPath is the file path for SQLite databases.
	// Use DATABASE_DB_PATH to override; keeping it distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/lifecycle.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"lifecycle"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	// Env: DATABASE_EXECUTE_SCHEMA_DDL (default: true)
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Settings struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
//
// Returns:
//
//	*Settings - A pointer to the singleton instance of the Settings struct. from environment variables.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validateJiraConfig(&settingInstance.Jira)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validateJiraConfig validates the Jira export configuration
//
// Export is optional: either all connection fields are empty (export
// disabled) or all of them are provided. A partially filled configuration is
// almost always a deployment mistake, so it is rejected at startup.
//
// Parameters:
//   - cfg: Jira configuration to validate
//
// Returns:
//   - error: Validation error if configuration is invalid, nil otherwise
func validateJiraConfig(cfg *Jira) error {
	if cfg.BaseURL == "" && cfg.Email == "" && cfg.APIToken == "" && cfg.ProjectKey == "" {
		return nil
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("jira export is partially configured: JIRA_BASE_URL is not set")
	}
	if cfg.Email == "" {
		return fmt.Errorf("jira export is partially configured: JIRA_EMAIL is not set")
	}
	if cfg.APIToken == "" {
		return fmt.Errorf("jira export is partially configured: JIRA_API_TOKEN is not set")
	}
	if cfg.ProjectKey == "" {
		return fmt.Errorf("jira export is partially configured: JIRA_PROJECT_KEY is not set")
	}

	return nil
}
