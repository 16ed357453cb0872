// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/landingkit/internal/presentation/templates"
	"github.com/AtRiskMedia/landingkit/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	EditorService      *services.EditorService
	PreviewService     *services.PreviewService
	ExportService      *services.ExportService
	ImageIntakeService *services.ImageIntakeService

	// Infrastructure Dependencies
	Sessions       *stores.SessionsStore
	PreviewHub     *messaging.PreviewHub
	SSEBroadcaster *messaging.SSEBroadcaster
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker

	Catalog product.Catalog
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger) *Container {
	sessions := stores.NewSessionsStore(config.MaxSessions, logger)

	hub := messaging.NewPreviewHub(messaging.HubConfig{
		WriteTimeout:  config.PreviewWriteTimeout,
		PingInterval:  config.PreviewPingInterval,
		MaxPerSession: config.MaxSurfacesPerSession,
	}, logger)
	sse := messaging.NewSSEBroadcaster(logger)
	surfaces := messaging.Fanout{hub, sse}

	// Surfaces of a removed session are closed whether it was deleted,
	// evicted or expired.
	sessions.OnRemove(surfaces.CloseSession)

	generator := templates.NewGenerator()
	processor := media.NewImageProcessor(config.MediaMaxWidth, config.MediaWebPQuality)

	return &Container{
		EditorService:      services.NewEditorService(sessions, logger),
		PreviewService:     services.NewPreviewService(sessions, surfaces, generator, logger),
		ExportService:      services.NewExportService(sessions, generator, logger),
		ImageIntakeService: services.NewImageIntakeService(sessions, processor, config.MediaConcurrency, logger),

		Sessions:       sessions,
		PreviewHub:     hub,
		SSEBroadcaster: sse,
		Logger:         logger,
		PerfTracker: performance.NewTracker(&performance.TrackerConfig{
			SlowThreshold: performance.DefaultTrackerConfig().SlowThreshold,
			Logger:        logger.Perf(),
		}),

		Catalog: product.DefaultCatalog(),
	}
}
