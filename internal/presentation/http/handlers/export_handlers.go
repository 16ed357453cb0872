package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
)

// ExportHandlers serves downloadable artifacts
type ExportHandlers struct {
	exportService *services.ExportService
	minifyDefault bool
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewExportHandlers creates export handlers with injected dependencies
func NewExportHandlers(exportService *services.ExportService, minifyDefault bool, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ExportHandlers {
	return &ExportHandlers{
		exportService: exportService,
		minifyDefault: minifyDefault,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetExport downloads the session record as html or component source
func (h *ExportHandlers) GetExport(c *gin.Context) {
	start := time.Now()
	sessionID := c.Param("id")
	h.logger.Export().Debug("Received export request", "sessionId", sessionID, "query", c.Request.URL.RawQuery)

	marker := h.perfTracker.StartOperation("export_request", sessionID)
	defer marker.Complete()

	format, err := product.ParseExportFormat(c.DefaultQuery("format", string(product.FormatHTML)))
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	source, err := services.ParseExportSource(c.Query("source"))
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	minify := h.minifyDefault
	if raw := c.Query("minify"); raw != "" {
		if minify, err = strconv.ParseBool(raw); err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "minify must be a boolean"})
			return
		}
	}

	artifact, err := h.exportService.ExportSession(sessionID, format, services.ExportOptions{Source: source, Minify: minify})
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	h.logger.Export().Info("Export request completed",
		"sessionId", sessionID,
		"filename", artifact.Filename,
		"duration", time.Since(start))

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}
