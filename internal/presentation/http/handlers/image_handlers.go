package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/performance"
)

// ImageHandlers accepts image uploads for a session
type ImageHandlers struct {
	intakeService *services.ImageIntakeService
	maxBytes      int64
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewImageHandlers creates image handlers. maxBytes bounds the whole
// multipart body.
func NewImageHandlers(intakeService *services.ImageIntakeService, maxBytes int64, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ImageHandlers {
	return &ImageHandlers{
		intakeService: intakeService,
		maxBytes:      maxBytes,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// PostImages ingests the multipart "files" field into the session draft
func (h *ImageHandlers) PostImages(c *gin.Context) {
	start := time.Now()
	sessionID := c.Param("id")
	h.logger.Media().Debug("Received image upload request", "sessionId", sessionID, "contentLength", c.Request.ContentLength)

	marker := h.perfTracker.StartOperation("image_upload_request", sessionID)
	defer marker.Complete()

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		marker.SetError(err)
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", h.maxBytes)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	uploads := make([]services.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload", "details": err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload", "details": err.Error()})
			return
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Data: data})
	}

	result, err := h.intakeService.Ingest(c.Request.Context(), sessionID, uploads)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.AddMetadata("accepted", result.Accepted)
	h.logger.Media().Info("Image upload request completed",
		"sessionId", sessionID,
		"files", len(uploads),
		"accepted", result.Accepted,
		"duration", time.Since(start))
	c.JSON(http.StatusOK, result)
}
