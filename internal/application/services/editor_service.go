// Package services provides application-level services that orchestrate
// editing sessions, previews, exports and image intake.
package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

// EditorService applies edits to the draft record of editing sessions
type EditorService struct {
	sessions *stores.SessionsStore
	logger   *logging.ChanneledLogger
}

// NewEditorService creates a new editor application service
func NewEditorService(sessions *stores.SessionsStore, logger *logging.ChanneledLogger) *EditorService {
	return &EditorService{
		sessions: sessions,
		logger:   logger,
	}
}

// Create starts an editing session. A nil initial record starts from the
// empty editor defaults.
func (s *EditorService) Create(initial *product.Record) stores.SessionSnapshot {
	record := product.NewRecord()
	if initial != nil {
		record = *initial
	}
	return s.sessions.Create(record).Snapshot()
}

// Get returns a copy of a session
func (s *EditorService) Get(sessionID string) (stores.SessionSnapshot, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return stores.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Delete ends a session and disconnects its surfaces
func (s *EditorService) Delete(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Draft returns the current draft record of a session
func (s *EditorService) Draft(sessionID string) (product.Record, error) {
	snapshot, err := s.Get(sessionID)
	if err != nil {
		return product.Record{}, err
	}
	return snapshot.Draft, nil
}

// Apply runs one reducer command against the session draft and returns the
// resulting draft. On error the draft is left unchanged.
func (s *EditorService) Apply(sessionID string, cmd product.Command) (product.Record, error) {
	start := time.Now()
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return product.Record{}, err
	}

	var result product.Record
	err = session.Update(func(state *stores.SessionState) error {
		next, err := product.Apply(state.Draft, cmd)
		if err != nil {
			return err
		}
		state.Draft = next
		result = next.Clone()
		return nil
	})
	if err != nil {
		s.logger.Editor().Debug("Command rejected", "sessionId", sessionID, "op", cmd.Op, "error", err)
		return product.Record{}, fmt.Errorf("failed to apply %s: %w", cmd.Op, err)
	}

	s.logger.Editor().Debug("Command applied", "sessionId", sessionID, "op", cmd.Op, "duration", time.Since(start))
	return result, nil
}

// Replace swaps the whole draft for record
func (s *EditorService) Replace(sessionID string, record product.Record) (product.Record, error) {
	return s.Apply(sessionID, product.Command{Op: product.OpReplace, Record: &record})
}
