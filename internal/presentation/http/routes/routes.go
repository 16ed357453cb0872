// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/container"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/landingkit/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = int64(config.MaxUploadMB) << 20

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(container.Logger.System()))
	r.Use(middleware.Recovery(container.Logger.System()))
	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))

	// Initialize handlers
	systemHandlers := handlers.NewSystemHandlers(container.Sessions, container.Catalog, container.Logger, container.PerfTracker)
	sessionHandlers := handlers.NewSessionHandlers(container.EditorService, container.Logger, container.PerfTracker)
	imageHandlers := handlers.NewImageHandlers(container.ImageIntakeService, int64(config.MaxUploadMB)<<20, container.Logger, container.PerfTracker)
	previewHandlers := handlers.NewPreviewHandlers(
		container.PreviewService,
		container.PreviewHub,
		container.SSEBroadcaster,
		container.Catalog,
		config.AllowedOrigins,
		container.Logger,
		container.PerfTracker,
	)
	exportHandlers := handlers.NewExportHandlers(container.ExportService, config.ExportMinifyDefault, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.GetHealth)
		api.GET("/catalog", systemHandlers.GetCatalog)
		api.POST("/render", previewHandlers.PostRender)

		logs := api.Group("/logs")
		{
			logs.GET("/levels", systemHandlers.GetLogLevels)
			logs.POST("/levels", systemHandlers.SetLogLevel)
			logs.GET("/performance", systemHandlers.GetPerformance)
		}

		api.POST("/sessions", sessionHandlers.PostSession)
		session := api.Group("/sessions/:id", middleware.SessionID("id"))
		{
			session.GET("", sessionHandlers.GetSession)
			session.DELETE("", sessionHandlers.DeleteSession)

			// Draft editing
			session.GET("/record", sessionHandlers.GetRecord)
			session.PUT("/record", sessionHandlers.PutRecord)
			session.POST("/commands", sessionHandlers.PostCommand)
			session.POST("/images", imageHandlers.PostImages)

			// Preview and rendering surfaces
			session.POST("/preview", previewHandlers.PostPreview)
			session.GET("/preview", previewHandlers.GetPreview)
			session.POST("/refresh", previewHandlers.PostRefresh)
			session.GET("/surface", previewHandlers.GetSurface)
			session.GET("/ws", previewHandlers.ServeSurface)
			session.GET("/events", previewHandlers.GetEvents)

			session.GET("/export", exportHandlers.GetExport)
		}
	}

	return r
}
