// Package server provides HTTP server initialization and management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/application/container"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/routes"
	"github.com/AtRiskMedia/landingkit/pkg/config"
)

// Server wraps the HTTP server and ends the long-lived preview streams it
// serves when it shuts down
type Server struct {
	httpServer *http.Server
	container  *container.Container
	logger     *logging.ChanneledLogger
}

// New creates the HTTP server for the editor API
func New(port string, container *container.Container, logger *logging.ChanneledLogger) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      routes.SetupRoutes(container),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		container: container,
		logger:    logger,
	}
	// SSE handlers only return once their channel closes, and hijacked
	// websockets are invisible to Shutdown.
	s.httpServer.RegisterOnShutdown(s.closeSurfaces)
	return s
}

func (s *Server) closeSurfaces() {
	streams := s.container.SSEBroadcaster.CloseAll()
	sockets := s.container.PreviewHub.CloseAll()
	s.logger.Shutdown().Info("Closed rendering surfaces", "sse", streams, "websocket", sockets)
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.System().Info("HTTP server listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	start := time.Now()
	s.logger.Shutdown().Info("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.logger.Shutdown().Debug("HTTP server drained", "duration", time.Since(start))
	return nil
}
