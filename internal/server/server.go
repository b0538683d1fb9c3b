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

package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"log"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lifecycle-api/config"
	"lifecycle-api/internal/client/jira_client"
	"lifecycle-api/internal/client/llm_client"
	"lifecycle-api/internal/database"
	"lifecycle-api/internal/handler"
	"lifecycle-api/internal/middleware"
	"lifecycle-api/internal/repository"
	"lifecycle-api/internal/service"
	"lifecycle-api/internal/utils"
	"lifecycle-api/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router    *gin.Engine
	wsManager *websocket.Manager // WebSocket connection manager
}

// StartLifecycleAPIServer creates a new server instance with all dependencies initialized
func StartLifecycleAPIServer(cfg *config.Server) (*Server, error) {
	// Initialize database using configuration
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Initialize schema (skip when ExecuteSchemaDDL is false, e.g. deployed Postgres without DDL access)
	if cfg.Database.ExecuteSchemaDDL {
		if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
			return nil, err
		}
	} else {
		log.Printf("Skipping schema DDL execution (DATABASE_EXECUTE_SCHEMA_DDL=false)\n")
	}

	// Initialize repositories
	projectRepo := repository.NewProjectRepo(db)
	phaseRepo := repository.NewPhaseRepo(db)
	approvalRepo := repository.NewApprovalRepo(db)
	userRepo := repository.NewUserRepo(db)
	interactionRepo := repository.NewAIInteractionRepo(db)

	// Load the phase catalog. A configured-but-broken catalog file is a startup
	// failure: project creation seeds its phases from this catalog.
	templates, err := utils.LoadPhaseTemplates(cfg.PhaseTemplatePath)
	if err != nil {
		return nil, err
	}

	// Initialize WebSocket manager first (needed for EventsService)
	wsConfig := websocket.ManagerConfig{
		MaxConnections:        cfg.WebSocket.MaxConnections,
		HeartbeatInterval:     time.Duration(cfg.WebSocket.HeartbeatInterval) * time.Second,
		HeartbeatTimeout:      time.Duration(cfg.WebSocket.HeartbeatTimeout) * time.Second,
		MaxConnectionsPerUser: cfg.WebSocket.MaxConnectionsPerUser,
	}
	wsManager := websocket.NewManager(wsConfig)
	eventsService := service.NewEventsService(wsManager)

	// Select the AI gateway: a hosted provider when credentials are configured,
	// the built-in template gateway otherwise (demos, local development)
	var gateway llm_client.Gateway
	if cfg.AIProvider.APIKey == "" {
		log.Println("[INFO] No AI provider API key configured; using the built-in template gateway")
		gateway = llm_client.NewTemplateClient()
	} else {
		gateway = llm_client.NewLLMClient(llm_client.LLMConfig{
			BaseURL:    cfg.AIProvider.BaseURL,
			APIKey:     cfg.AIProvider.APIKey,
			Model:      cfg.AIProvider.Model,
			Timeout:    time.Duration(cfg.AIProvider.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.AIProvider.MaxRetries,
		})
		log.Printf("[INFO] AI gateway configured: baseURL=%s model=%s timeout=%ds",
			cfg.AIProvider.BaseURL, cfg.AIProvider.Model, cfg.AIProvider.TimeoutSeconds)
	}

	// Auth configuration is shared by the middleware (token validation) and the
	// user service (token issuance)
	authConfig := middleware.AuthConfig{
		SecretKey:   cfg.JWT.SecretKey,
		TokenIssuer: cfg.JWT.Issuer,
		SkipPaths:   cfg.JWT.SkipPaths,
	}

	// Initialize services
	approvalService := service.NewApprovalService(approvalRepo, phaseRepo, projectRepo, userRepo, eventsService)
	phaseService := service.NewPhaseService(phaseRepo, projectRepo, gateway, approvalService, templates, eventsService)
	projectService := service.NewProjectService(projectRepo, phaseRepo, templates, eventsService)
	aiService := service.NewAIService(gateway, phaseService, phaseRepo, projectRepo, interactionRepo, eventsService)
	userService := service.NewUserService(userRepo, authConfig, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	exporter := service.NewJiraExporter(jira_client.JiraConfig{
		BaseURL:    cfg.Jira.BaseURL,
		Email:      cfg.Jira.Email,
		APIToken:   cfg.Jira.APIToken,
		ProjectKey: cfg.Jira.ProjectKey,
		Timeout:    time.Duration(cfg.Jira.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Jira.MaxRetries,
	})
	exportService := service.NewExportService(projectRepo, phaseRepo, exporter)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService, exportService)
	phaseHandler := handler.NewPhaseHandler(phaseService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	aiHandler := handler.NewAIHandler(aiService)
	chatHandler := handler.NewChatHandler(aiService)
	phaseTemplateHandler := handler.NewPhaseTemplateHandler(templates)
	eventsHandler := handler.NewEventsHandler(wsManager, authConfig, cfg.WebSocket.RateLimitPerMin)

	// Setup router
	router := gin.Default()

	// Configure and apply CORS middleware first (before auth middleware)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Configure and apply JWT authentication middleware
	router.Use(middleware.AuthMiddleware(authConfig))

	// Register routes
	authHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	projectHandler.RegisterRoutes(router)
	phaseHandler.RegisterRoutes(router)
	approvalHandler.RegisterRoutes(router)
	aiHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)
	phaseTemplateHandler.RegisterRoutes(router)
	eventsHandler.RegisterRoutes(router)

	log.Printf("[INFO] WebSocket manager initialized: maxConnections=%d perUser=%d heartbeat=%ds/%ds rateLimitPerMin=%d",
		cfg.WebSocket.MaxConnections, cfg.WebSocket.MaxConnectionsPerUser,
		cfg.WebSocket.HeartbeatInterval, cfg.WebSocket.HeartbeatTimeout, cfg.WebSocket.RateLimitPerMin)

	return &Server{
		router:    router,
		wsManager: wsManager,
	}, nil
}

// generateSelfSignedCert creates a self-signed certificate for development and saves it to disk
func generateSelfSignedCert(certPath, keyPath string) (tls.Certificate, error) {
	// Generate private key
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	// Create certificate template
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization:  []string{"Lifecycle API Dev"},
			Country:       []string{"US"},
			Province:      []string{""},
			Locality:      []string{""},
			StreetAddress: []string{""},
			PostalCode:    []string{""},
		},
		NotBefore:   time.Now(),
		NotAfter:    time.Now().Add(365 * 24 * time.Hour), // Valid for 1 year
		KeyUsage:    x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:    []string{"localhost"},
	}

	// Create certificate
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	// Create PEM blocks
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	// Save certificate and key to disk for persistence
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save certificate: %v", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save private key: %v", err)
	}
	log.Printf("Saved certificate to %s and key to %s", certPath, keyPath)

	// Create TLS certificate
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, err
	}

	return cert, nil
}

// Start starts the HTTPS server and blocks until shutdown.
// On SIGINT/SIGTERM the HTTP listener is drained and every WebSocket session
// is closed before Start returns.
func (s *Server) Start(port string, certDir string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	// Build certificate paths
	certPath := filepath.Join(certDir, "cert.pem")
	keyPath := filepath.Join(certDir, "key.pem")

	var cert tls.Certificate

	// Try to load existing certificates first
	if _, certErr := os.Stat(certPath); certErr == nil {
		if _, keyErr := os.Stat(keyPath); keyErr == nil {
			loadedCert, err := tls.LoadX509KeyPair(certPath, keyPath)
			if err != nil {
				log.Printf("Failed to load certificates: %v", err)
			} else {
				log.Printf("Using existing certificates from %s", certDir)
				cert = loadedCert
			}
		}
	}

	// Generate new certificate if not loaded
	if cert.Certificate == nil {
		log.Println("Generating self-signed certificate for development...")
		// Ensure cert directory exists
		if err := os.MkdirAll(certDir, 0755); err != nil {
			return fmt.Errorf("failed to create cert directory: %v", err)
		}
		generatedCert, err := generateSelfSignedCert(certPath, keyPath)
		if err != nil {
			return fmt.Errorf("failed to generate self-signed certificate: %v", err)
		}
		cert = generatedCert
	}

	// Add a health endpoint that works with self-signed certs
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Create TLS configuration
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	address := fmt.Sprintf(":%s", port)
	server := &http.Server{
		Addr:      address,
		Handler:   s.router,
		TLSConfig: tlsConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTPS server on https://localhost:%s", port)
		log.Println("Note: Using self-signed certificate for development. Browsers will show security warnings.")
		errCh <- server.ListenAndServeTLS("", "")
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] HTTP server shutdown: %v", err)
	}
	s.wsManager.Shutdown()

	log.Println("Server stopped")
	return nil
}

// GetRouter returns the gin router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
