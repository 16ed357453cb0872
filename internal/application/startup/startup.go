// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/container"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/server"
	"github.com/AtRiskMedia/landingkit/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until the
// process is asked to stop
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  ╷                   ╷ ╷       ╷
  │  ┌─┐ ┌┐┌ ┌┬┐ ┬ ┌┐┌ │ │┌ ┬ ┌┼┐
  │  ├─┤ │││  ││ │ │││ │ ├┴┐│  │
  └─ ┴ ┴ ┘└┘ ─┴┘ ┴ ┘└┘ ┴ ┴ ┴┴  ┴
` + "\033[97m" + `
  product landing page editor
` + "\033[0m")

	// Step 1: Initialize channeled logging
	log.Println("Initializing logging...")
	logger, err := logging.NewChanneledLogger(loggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.LogStartupPhase("logging", time.Since(start), true)

	// Step 2: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	phaseStart := time.Now()
	appContainer := container.NewContainer(logger)
	logger.LogStartupPhase("container", time.Since(phaseStart), true)

	// Step 3: Start background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	phaseStart = time.Now()
	cleanupWorker := cleanup.NewWorker(appContainer.Sessions, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)
	logger.LogStartupPhase("cleanup worker", time.Since(phaseStart), true)

	// Step 4: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	phaseStart = time.Now()
	port := config.Port
	httpServer := server.New(port, appContainer, logger)
	logger.Startup().Info("HTTP server initialized", "port", port, "duration", time.Since(phaseStart))

	// Step 5: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			serverErr <- err
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"maxSessions", config.MaxSessions,
		"port", port)

	// Wait for shutdown signal or a fatal server error
	var runErr error
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case runErr = <-serverErr:
		logger.Shutdown().Error("HTTP server stopped unexpectedly, shutting down", "error", runErr.Error())
	}

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Surfaces were closed by the server shutdown hook; drop the sessions themselves
	logger.Shutdown().Info("Closing editing sessions...")
	for _, id := range appContainer.Sessions.IDs() {
		appContainer.Sessions.Delete(id)
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return runErr
}

func loggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return cfg
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
