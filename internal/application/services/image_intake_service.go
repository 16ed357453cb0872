package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

// Upload is one file handed to image intake
type Upload struct {
	Filename string
	Data     []byte
}

// Rejection explains why one upload was skipped
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// IntakeResult summarizes an upload batch
type IntakeResult struct {
	Accepted int            `json:"accepted"`
	Rejected []Rejection    `json:"rejected"`
	Record   product.Record `json:"record"`
}

// ImageIntakeService converts uploads into data URLs and appends them to a
// session draft
type ImageIntakeService struct {
	sessions    *stores.SessionsStore
	processor   *media.ImageProcessor
	concurrency int
	logger      *logging.ChanneledLogger
}

// NewImageIntakeService creates a new image intake service. concurrency
// bounds how many uploads are processed at once.
func NewImageIntakeService(sessions *stores.SessionsStore, processor *media.ImageProcessor, concurrency int, logger *logging.ChanneledLogger) *ImageIntakeService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ImageIntakeService{
		sessions:    sessions,
		processor:   processor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Ingest processes uploads concurrently. Each accepted image is appended to
// the draft as soon as it is ready, so the append order follows completion
// order rather than upload order. Rejected files never touch the draft.
func (s *ImageIntakeService) Ingest(ctx context.Context, sessionID string, uploads []Upload) (IntakeResult, error) {
	start := time.Now()
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return IntakeResult{}, err
	}

	rejected := make([]*Rejection, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, upload := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			processed, err := s.processor.Process(upload.Data)
			if err != nil {
				reason := err.Error()
				if errors.Is(err, media.ErrNotAnImage) {
					reason = media.ErrNotAnImage.Error()
				}
				rejected[i] = &Rejection{Filename: upload.Filename, Reason: reason}
				s.logger.Media().Debug("Upload rejected", "sessionId", sessionID, "filename", upload.Filename, "error", err)
				return nil
			}

			err = session.Update(func(state *stores.SessionState) error {
				next, err := product.Apply(state.Draft, product.Command{Op: product.OpAddImage, Value: processed.DataURL})
				if err != nil {
					return err
				}
				state.Draft = next
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to append %s: %w", upload.Filename, err)
			}
			s.logger.Media().Debug("Upload accepted",
				"sessionId", sessionID,
				"filename", upload.Filename,
				"mime", processed.MIME,
				"resized", processed.Resized,
				"bytes", processed.Bytes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return IntakeResult{}, err
	}

	result := IntakeResult{Rejected: []Rejection{}, Record: session.Snapshot().Draft}
	for i := range uploads {
		if rejected[i] != nil {
			result.Rejected = append(result.Rejected, *rejected[i])
			continue
		}
		result.Accepted++
	}

	s.logger.Media().Info("Image intake completed",
		"sessionId", sessionID,
		"accepted", result.Accepted,
		"rejected", len(result.Rejected),
		"duration", time.Since(start))
	return result, nil
}
