package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
)

// SystemHandlers serves health, catalog and log level endpoints
type SystemHandlers struct {
	sessions    *stores.SessionsStore
	catalog     product.Catalog
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(sessions *stores.SessionsStore, catalog product.Catalog, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		sessions:    sessions,
		catalog:     catalog,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth reports liveness and a few counters
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"sessions":         h.sessions.Count(),
		"activeOperations": h.perfTracker.ActiveOperations(),
		"uptime":           h.perfTracker.Uptime().Round(time.Second).String(),
	})
}

// GetCatalog returns the editor option lists
func (h *SystemHandlers) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// GetLogLevels returns current log levels for all channels
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, h.logger.GetChannelLevels())
}

// SetLogLevel sets the log level for one channel
func (h *SystemHandlers) SetLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	level := logging.ParseLevel(req.Level)
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to set log level", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": fmt.Sprintf("Log level for channel '%s' set to '%s'", req.Channel, strings.ToUpper(req.Level)),
	})
}

// GetPerformance returns per-operation timing statistics
func (h *SystemHandlers) GetPerformance(c *gin.Context) {
	stats := h.perfTracker.Stats()
	out := make(map[string]gin.H, len(stats))
	for op, s := range stats {
		out[op] = gin.H{
			"count":    s.Count,
			"failures": s.Failures,
			"average":  s.Average().String(),
			"max":      s.Max.String(),
		}
	}
	c.JSON(http.StatusOK, out)
}
