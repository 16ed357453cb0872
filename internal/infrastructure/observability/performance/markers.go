// Package performance provides operation timing markers for landingkit
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	mu sync.Mutex

	Operation string         `json:"operation"` // e.g., "preview:render", "export:html"
	SessionID string         `json:"sessionId"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Completed bool           `json:"completed"`

	onComplete func(*Marker)
}

// Complete marks the operation as finished. Later calls are no-ops.
func (m *Marker) Complete() {
	m.mu.Lock()
	if m.Completed {
		m.mu.Unlock()
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	hook := m.onComplete
	m.mu.Unlock()

	if hook != nil {
		hook(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	m.Success = success
	m.mu.Unlock()
}

// SetError records an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	m.Error = err.Error()
	m.Success = false
	m.mu.Unlock()
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
	m.mu.Unlock()
}

// OperationStats aggregates completed markers for one operation
type OperationStats struct {
	Count    int           `json:"count"`
	Failures int           `json:"failures"`
	Total    time.Duration `json:"total"`
	Max      time.Duration `json:"max"`
}

// Average returns the mean duration, or zero when nothing completed
func (s OperationStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}
