// Package cleanup provides the background session expiry worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

// Worker purges idle editing sessions on a fixed interval
type Worker struct {
	sessions *stores.SessionsStore
	config   *Config
	logger   *logging.ChanneledLogger
	reporter *Reporter
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(sessions *stores.SessionsStore, config *Config, logger *logging.ChanneledLogger) *Worker {
	if config == nil {
		config = NewConfig()
	}
	return &Worker{
		sessions: sessions,
		config:   config,
		logger:   logger,
		reporter: NewReporter(sessions),
	}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Session().Info("Session cleanup worker started",
		"interval", w.config.CleanupInterval,
		"idleTTL", w.config.SessionIdleTTL,
		"verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Session().Info("Session cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single purge pass and returns the purged session ids
func (w *Worker) RunOnce() []string {
	start := time.Now()

	if w.config.VerboseReporting {
		w.reporter.LogStage("PERIODIC SESSION CLEANUP")
		w.reporter.PrintSessionReport()
	}

	purged := w.sessions.PurgeIdle(w.config.SessionIdleTTL)
	duration := time.Since(start)

	if len(purged) > 0 {
		w.logger.Session().Info("Session cleanup finished",
			"purged", len(purged),
			"remaining", w.sessions.Count(),
			"duration", duration)
		if w.config.VerboseReporting {
			w.reporter.LogSuccess("Session cleanup finished: %d idle sessions removed in %v", len(purged), duration)
		}
	} else if w.config.VerboseReporting {
		w.reporter.LogInfo("Session cleanup completed - no idle sessions found (%v)", duration)
	}
	return purged
}
