package services

import (
	"time"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/templates"
)

// PreviewService renders previewed records and pushes them to the rendering
// surfaces of a session
type PreviewService struct {
	sessions  *stores.SessionsStore
	surfaces  messaging.Surfaces
	generator *templates.Generator
	logger    *logging.ChanneledLogger
}

// NewPreviewService creates a new preview application service. A nil
// generator uses the wall clock.
func NewPreviewService(sessions *stores.SessionsStore, surfaces messaging.Surfaces, generator *templates.Generator, logger *logging.ChanneledLogger) *PreviewService {
	if generator == nil {
		generator = templates.NewGenerator()
	}
	return &PreviewService{
		sessions:  sessions,
		surfaces:  surfaces,
		generator: generator,
		logger:    logger,
	}
}

// Update snapshots the draft as the previewed record and renders it
func (s *PreviewService) Update(sessionID string) (messaging.RenderMessage, error) {
	return s.withSession(sessionID, func(state *stores.SessionState) {
		state.Previewed = state.Draft.Clone()
	})
}

// Refresh re-renders the previewed record without taking a new snapshot
func (s *PreviewService) Refresh(sessionID string) (messaging.RenderMessage, error) {
	return s.withSession(sessionID, nil)
}

func (s *PreviewService) withSession(sessionID string, prepare func(*stores.SessionState)) (messaging.RenderMessage, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return messaging.RenderMessage{}, err
	}

	var msg messaging.RenderMessage
	err = session.Update(func(state *stores.SessionState) error {
		if prepare != nil {
			prepare(state)
		}
		msg = s.renderLocked(sessionID, state)
		return nil
	})
	return msg, err
}

// renderLocked regenerates the document and broadcasts it. The caller holds
// the session lock so surfaces see revisions in order.
func (s *PreviewService) renderLocked(sessionID string, state *stores.SessionState) messaging.RenderMessage {
	start := time.Now()
	state.Document = s.generator.Generate(state.Previewed)
	state.Revision++
	msg := messaging.NewRenderMessage(state.Revision, state.Document)

	delivered := 0
	if s.surfaces != nil {
		delivered = s.surfaces.Broadcast(sessionID, msg)
	}
	s.logger.Preview().Debug("Preview rendered",
		"sessionId", sessionID,
		"revision", state.Revision,
		"surfaces", delivered,
		"bytes", len(state.Document),
		"duration", time.Since(start))
	return msg
}

// Current returns the latest render of a session. A session that has never
// rendered is rendered now, without touching its previewed record.
func (s *PreviewService) Current(sessionID string) (messaging.RenderMessage, error) {
	var msg messaging.RenderMessage
	err := s.Attach(sessionID, func(current messaging.RenderMessage) error {
		msg = current
		return nil
	})
	return msg, err
}

// Attach calls register with the latest render while holding the session
// lock, so a newly connected surface sees its initial document before any
// later revision.
func (s *PreviewService) Attach(sessionID string, register func(initial messaging.RenderMessage) error) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Update(func(state *stores.SessionState) error {
		var msg messaging.RenderMessage
		if state.Revision == 0 {
			msg = s.renderLocked(sessionID, state)
		} else {
			msg = messaging.NewRenderMessage(state.Revision, state.Document)
		}
		return register(msg)
	})
}

// RenderRecord generates a document without any session
func (s *PreviewService) RenderRecord(record product.Record) string {
	return s.generator.Generate(record)
}

// Exists reports whether a session is live without marking it active
func (s *PreviewService) Exists(sessionID string) bool {
	_, err := s.sessions.Peek(sessionID)
	return err == nil
}
