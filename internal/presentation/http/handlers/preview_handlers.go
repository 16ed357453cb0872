package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/middleware"
)

const documentContentType = "text/html; charset=utf-8"

// PreviewHandlers renders previews and serves rendering surfaces
type PreviewHandlers struct {
	previewService *services.PreviewService
	hub            *messaging.PreviewHub
	sse            *messaging.SSEBroadcaster
	catalog        product.Catalog
	upgrader       websocket.Upgrader
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewPreviewHandlers creates preview handlers. Websocket upgrades are
// accepted from same-host pages and from allowedOrigins.
func NewPreviewHandlers(previewService *services.PreviewService, hub *messaging.PreviewHub, sse *messaging.SSEBroadcaster, catalog product.Catalog, allowedOrigins []string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PreviewHandlers {
	return &PreviewHandlers{
		previewService: previewService,
		hub:            hub,
		sse:            sse,
		catalog:        catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

func (h *PreviewHandlers) respondRender(c *gin.Context, op string, render func(string) (messaging.RenderMessage, error)) {
	start := time.Now()
	sessionID := c.Param("id")
	h.logger.Preview().Debug("Received "+op+" request", "sessionId", sessionID)

	marker := h.perfTracker.StartOperation(op+"_request", sessionID)
	defer marker.Complete()

	msg, err := render(sessionID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	h.logger.Preview().Info("Preview "+op+" request completed",
		"sessionId", sessionID,
		"revision", msg.Revision,
		"duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"revision": msg.Revision,
		"surfaces": h.hub.SurfaceCount(sessionID) + h.sse.SurfaceCount(sessionID),
	})
}

// PostPreview snapshots the draft and renders it to every surface
func (h *PreviewHandlers) PostPreview(c *gin.Context) {
	h.respondRender(c, "update", h.previewService.Update)
}

// PostRefresh re-renders the previewed record
func (h *PreviewHandlers) PostRefresh(c *gin.Context) {
	h.respondRender(c, "refresh", h.previewService.Refresh)
}

// GetPreview returns the current document for direct iframe use
func (h *PreviewHandlers) GetPreview(c *gin.Context) {
	msg, err := h.previewService.Current(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header(middleware.HeaderPreviewRevision, strconv.FormatUint(msg.Revision, 10))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, documentContentType, []byte(msg.Document))
}

// GetSurface serves the sandboxed shell page that hosts a rendering surface
func (h *PreviewHandlers) GetSurface(c *gin.Context) {
	sessionID := c.Param("id")
	if !h.previewService.Exists(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	viewport := c.DefaultQuery("viewport", "desktop")

	names := make([]string, 0, len(h.catalog.Viewports))
	for _, v := range h.catalog.Viewports {
		names = append(names, v.Name)
	}
	page := surfacePage{
		SessionID:  sessionID,
		Viewport:   viewport,
		Width:      product.ViewportWidth(viewport),
		SocketPath: strings.TrimSuffix(c.Request.URL.Path, "/surface") + "/ws?viewport=" + url.QueryEscape(viewport),
		Viewports:  names,
	}

	var buf bytes.Buffer
	if err := surfaceTemplate.Execute(&buf, page); err != nil {
		h.logger.Preview().Error("Failed to render surface page", "sessionId", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render surface page"})
		return
	}
	c.Data(http.StatusOK, documentContentType, buf.Bytes())
}

// ServeSurface upgrades to a websocket rendering surface. The surface gets
// the current document immediately and every later render after it.
func (h *PreviewHandlers) ServeSurface(c *gin.Context) {
	sessionID := c.Param("id")
	viewport := c.DefaultQuery("viewport", "desktop")

	if !h.previewService.Exists(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Preview().Debug("Websocket upgrade failed", "sessionId", sessionID, "error", err)
		return
	}

	surface := messaging.NewSurface(conn, sessionID, viewport)
	err = h.previewService.Attach(sessionID, func(initial messaging.RenderMessage) error {
		payload, err := initial.Encode()
		if err != nil {
			return err
		}
		return h.hub.Register(surface, payload)
	})
	if err != nil {
		h.logger.Preview().Warn("Rendering surface rejected", "sessionId", sessionID, "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	h.logger.Preview().Info("Rendering surface connected", "sessionId", sessionID, "viewport", viewport)
	h.hub.Serve(surface, func(msg messaging.ClientMessage) {
		if msg.Type != messaging.MessageRefresh {
			return
		}
		if _, err := h.previewService.Refresh(sessionID); err != nil {
			h.logger.Preview().Debug("Surface refresh failed", "sessionId", sessionID, "error", err)
		}
	})
	h.logger.Preview().Info("Rendering surface disconnected", "sessionId", sessionID, "viewport", viewport)
}

// GetEvents streams render events over SSE for surfaces without websockets
func (h *PreviewHandlers) GetEvents(c *gin.Context) {
	sessionID := c.Param("id")
	h.logger.Preview().Debug("Received SSE connection request", "sessionId", sessionID)

	var events chan messaging.RenderMessage
	err := h.previewService.Attach(sessionID, func(initial messaging.RenderMessage) error {
		events = h.sse.AddClient(sessionID, &initial)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	defer h.sse.RemoveClient(events, sessionID)

	// Streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(msg.Type, msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// PostRender renders a record body without any session
func (h *PreviewHandlers) PostRender(c *gin.Context) {
	start := time.Now()
	var record product.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	document := h.previewService.RenderRecord(record)
	h.logger.Preview().Info("Render request completed", "bytes", len(document), "duration", time.Since(start))
	c.Data(http.StatusOK, documentContentType, []byte(document))
}
