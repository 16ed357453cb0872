package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker hands out markers and aggregates them per operation once completed
type Tracker struct {
	mu            sync.RWMutex
	stats         map[string]*OperationStats
	active        int
	started       time.Time
	slowThreshold time.Duration
	logger        *slog.Logger
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	// SlowThreshold is the duration above which a completed operation is
	// logged at WARN. Zero disables the check.
	SlowThreshold time.Duration
	Logger        *slog.Logger
}

// DefaultTrackerConfig returns a 500ms slow threshold and no logger
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{SlowThreshold: 500 * time.Millisecond}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		stats:         make(map[string]*OperationStats),
		started:       time.Now(),
		slowThreshold: config.SlowThreshold,
		logger:        config.Logger,
	}
}

// StartOperation creates a marker for an operation. The marker is folded
// into the tracker's statistics when Complete is called.
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation:  operation,
		SessionID:  sessionID,
		StartTime:  time.Now(),
		Success:    true,
		Metadata:   make(map[string]any),
		onComplete: t.record,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.active--
	s, ok := t.stats[m.Operation]
	if !ok {
		s = &OperationStats{}
		t.stats[m.Operation] = s
	}
	s.Count++
	s.Total += m.Duration
	if m.Duration > s.Max {
		s.Max = m.Duration
	}
	if !m.Success {
		s.Failures++
	}
	t.mu.Unlock()

	if t.logger != nil && t.slowThreshold > 0 && m.Duration > t.slowThreshold {
		t.logger.Warn("Slow operation",
			"operation", m.Operation,
			"sessionId", m.SessionID,
			"duration", m.Duration,
			"threshold", t.slowThreshold)
	}
}

// Stats returns a copy of the per-operation statistics
func (t *Tracker) Stats() map[string]OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]OperationStats, len(t.stats))
	for op, s := range t.stats {
		out[op] = *s
	}
	return out
}

// ActiveOperations returns the number of markers not yet completed
func (t *Tracker) ActiveOperations() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
