package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/api/middleware"
	"github.com/ascribe/spool-engine/internal/api/rest"
	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/ownership"
	"github.com/ascribe/spool-engine/internal/providers/temporal"
	"github.com/ascribe/spool-engine/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug                 bool
	Host                  string
	Port                  int
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	OrchestratorTaskQueue string
	WebhookSecret         string
	Auth                  middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config       Config
	store        store.Store
	ownership    *ownership.Service
	broadcaster  *broadcaster.Broadcaster
	orchestrator temporal.TemporalOrchestrator
	httpServer   *http.Server
}

// New creates a new API server
func New(
	cfg Config,
	st store.Store,
	svc *ownership.Service,
	bc *broadcaster.Broadcaster,
	orchestrator temporal.TemporalOrchestrator,
) *Server {
	return &Server{
		config:       cfg,
		store:        st,
		ownership:    svc,
		broadcaster:  bc,
		orchestrator: orchestrator,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Create REST handler
	restHandler := rest.NewHandler(
		s.ownership,
		s.store,
		s.broadcaster,
		s.orchestrator,
		s.config.OrchestratorTaskQueue,
		s.config.WebhookSecret,
	)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
