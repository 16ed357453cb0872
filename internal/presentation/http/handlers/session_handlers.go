package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
)

// SessionHandlers contains editing session and record HTTP handlers
type SessionHandlers struct {
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(editorService *services.EditorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		editorService: editorService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// PostSession starts an editing session, optionally from a record body
func (h *SessionHandlers) PostSession(c *gin.Context) {
	start := time.Now()
	h.logger.Session().Debug("Received create session request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var initial *product.Record
	if c.Request.ContentLength != 0 {
		var record product.Record
		switch err := c.ShouldBindJSON(&record); {
		case errors.Is(err, io.EOF):
			// chunked requests report an unknown length even when empty
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		default:
			initial = &record
		}
	}

	snapshot := h.editorService.Create(initial)

	h.logger.Session().Info("Create session request completed", "sessionId", snapshot.ID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, snapshot)
}

// GetSession returns the draft, previewed record and revision of a session
func (h *SessionHandlers) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	snapshot, err := h.editorService.Get(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// DeleteSession ends a session and disconnects its surfaces
func (h *SessionHandlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	h.logger.Session().Debug("Received delete session request", "sessionId", sessionID)

	if err := h.editorService.Delete(sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": sessionID})
}

// GetRecord returns the draft record
func (h *SessionHandlers) GetRecord(c *gin.Context) {
	record, err := h.editorService.Draft(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// PutRecord replaces the draft record wholesale
func (h *SessionHandlers) PutRecord(c *gin.Context) {
	start := time.Now()
	sessionID := c.Param("id")
	h.logger.Editor().Debug("Received replace record request", "sessionId", sessionID)

	var record product.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	draft, err := h.editorService.Replace(sessionID, record)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Editor().Info("Replace record request completed", "sessionId", sessionID, "duration", time.Since(start))
	c.JSON(http.StatusOK, draft)
}

// PostCommand applies one reducer command to the draft
func (h *SessionHandlers) PostCommand(c *gin.Context) {
	start := time.Now()
	sessionID := c.Param("id")

	marker := h.perfTracker.StartOperation("apply_command_request", sessionID)
	defer marker.Complete()

	var cmd product.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	h.logger.Editor().Debug("Received command request", "sessionId", sessionID, "op", cmd.Op)

	draft, err := h.editorService.Apply(sessionID, cmd)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.AddMetadata("op", string(cmd.Op))
	h.logger.Editor().Info("Command request completed", "sessionId", sessionID, "op", cmd.Op, "duration", time.Since(start))
	c.JSON(http.StatusOK, draft)
}
