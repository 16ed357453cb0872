// Package stores provides the in-memory editing session store
package stores

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/security"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// SessionState is the mutable part of a session. It is only reachable
// through Session.Update and Session.View, which hold the session lock.
type SessionState struct {
	Draft     product.Record
	Previewed product.Record
	Document  string
	Revision  uint64
}

// SessionSnapshot is a copy of a session safe to hand to callers
type SessionSnapshot struct {
	ID           string         `json:"id"`
	Draft        product.Record `json:"draft"`
	Previewed    product.Record `json:"previewed"`
	Revision     uint64         `json:"revision"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastActivity time.Time      `json:"lastActivity"`
}

// Session is one editing session. Its mutex serializes every edit, render
// and export against the session, so each session behaves like its own
// single event loop.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	state        SessionState
	lastActivity time.Time
	now          func() time.Time
	removed      bool
}

// Update runs fn with exclusive access to the session state. Once the
// session has left the store it returns ErrSessionNotFound without calling fn.
func (s *Session) Update(fn func(*SessionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return ErrSessionNotFound
	}
	s.lastActivity = s.now()
	return fn(&s.state)
}

// retire marks the session removed. It waits for a running Update, so remove
// hooks never race a surface that is registering under the session lock.
func (s *Session) retire() {
	s.mu.Lock()
	s.removed = true
	s.mu.Unlock()
}

// View runs fn with the session locked but does not count as activity
func (s *Session) View(fn func(SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Snapshot copies the session into a value safe to serialize
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ID:           s.ID,
		Draft:        s.state.Draft.Clone(),
		Previewed:    s.state.Previewed.Clone(),
		Revision:     s.state.Revision,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.lastActivity,
	}
}

// LastActivity returns the last time the session was updated or fetched
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = s.now()
	s.mu.Unlock()
}

// SessionsStore holds every live editing session
type SessionsStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	logger      *logging.ChanneledLogger
	now         func() time.Time
	onRemove    []func(id string)
}

// NewSessionsStore creates a store bounded to maxSessions entries.
// A non-positive bound means unlimited.
func NewSessionsStore(maxSessions int, logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Session().Info("Initializing sessions store", "maxSessions", maxSessions)
	}
	return &SessionsStore{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (ss *SessionsStore) SetClock(now func() time.Time) {
	ss.mu.Lock()
	ss.now = now
	for _, s := range ss.sessions {
		s.mu.Lock()
		s.now = now
		s.mu.Unlock()
	}
	ss.mu.Unlock()
}

// OnRemove registers a callback run after a session leaves the store for any
// reason (delete, eviction, expiry). Callbacks run without store locks held.
func (ss *SessionsStore) OnRemove(fn func(id string)) {
	ss.mu.Lock()
	ss.onRemove = append(ss.onRemove, fn)
	ss.mu.Unlock()
}

// Create starts a session whose draft and previewed records both start as
// initial. When the store is full the least recently active session is
// evicted first.
func (ss *SessionsStore) Create(initial product.Record) *Session {
	start := time.Now()

	ss.mu.Lock()
	var evicted string
	var evictedSession *Session
	if ss.maxSessions > 0 && len(ss.sessions) >= ss.maxSessions {
		evicted = ss.oldestLocked()
		evictedSession = ss.sessions[evicted]
		delete(ss.sessions, evicted)
	}

	now := ss.now()
	s := &Session{
		ID:           security.GenerateULID(),
		CreatedAt:    now,
		lastActivity: now,
		now:          ss.now,
	}
	draft := initial.Normalize()
	s.state = SessionState{Draft: draft, Previewed: draft.Clone()}
	ss.sessions[s.ID] = s
	count := len(ss.sessions)
	ss.mu.Unlock()

	if evictedSession != nil {
		evictedSession.retire()
		if ss.logger != nil {
			ss.logger.Session().Warn("Session store full, evicted least recently active session", "evicted", evicted)
		}
		ss.notifyRemoved(evicted)
	}
	if ss.logger != nil {
		ss.logger.Session().Info("Session created", "sessionId", s.ID, "sessions", count, "duration", time.Since(start))
	}
	return s
}

// oldestLocked returns the least recently active session id. Caller holds mu.
func (ss *SessionsStore) oldestLocked() string {
	var oldestID string
	var oldest time.Time
	for id, s := range ss.sessions {
		at := s.LastActivity()
		if oldestID == "" || at.Before(oldest) {
			oldestID, oldest = id, at
		}
	}
	return oldestID
}

// Get returns a session and marks it active
func (ss *SessionsStore) Get(id string) (*Session, error) {
	ss.mu.RLock()
	s, ok := ss.sessions[id]
	ss.mu.RUnlock()
	if !ok {
		if ss.logger != nil {
			ss.logger.Session().Debug("Session lookup", "sessionId", id, "hit", false)
		}
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Peek returns a session without marking it active
func (ss *SessionsStore) Peek(id string) (*Session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session
func (ss *SessionsStore) Delete(id string) error {
	ss.mu.Lock()
	s, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.retire()
	if ss.logger != nil {
		ss.logger.Session().Info("Session deleted", "sessionId", id)
	}
	ss.notifyRemoved(id)
	return nil
}

// PurgeIdle removes sessions idle for longer than ttl and returns their ids
func (ss *SessionsStore) PurgeIdle(ttl time.Duration) []string {
	ss.mu.Lock()
	cutoff := ss.now().Add(-ttl)
	var purged []string
	var retired []*Session
	for id, s := range ss.sessions {
		if s.LastActivity().Before(cutoff) {
			delete(ss.sessions, id)
			purged = append(purged, id)
			retired = append(retired, s)
		}
	}
	ss.mu.Unlock()

	for _, s := range retired {
		s.retire()
	}
	sort.Strings(purged)
	for _, id := range purged {
		ss.notifyRemoved(id)
	}
	return purged
}

// Count returns the number of live sessions
func (ss *SessionsStore) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// IDs returns the live session ids in sorted order
func (ss *SessionsStore) IDs() []string {
	ss.mu.RLock()
	ids := make([]string, 0, len(ss.sessions))
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	ss.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (ss *SessionsStore) notifyRemoved(id string) {
	ss.mu.RLock()
	hooks := append([]func(string){}, ss.onRemove...)
	ss.mu.RUnlock()
	for _, fn := range hooks {
		fn(id)
	}
}
