package messaging

import (
	"sync"

	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

// SSEBroadcaster manages session-scoped server-sent event subscribers. It is
// the fallback transport for surfaces that cannot hold a websocket.
type SSEBroadcaster struct {
	sessions map[string][]chan RenderMessage
	mu       sync.Mutex
	logger   *logging.ChanneledLogger
}

// NewSSEBroadcaster creates an empty broadcaster
func NewSSEBroadcaster(logger *logging.ChanneledLogger) *SSEBroadcaster {
	return &SSEBroadcaster{
		sessions: make(map[string][]chan RenderMessage),
		logger:   logger,
	}
}

// AddClient registers a subscriber and queues initial as its first event
func (b *SSEBroadcaster) AddClient(sessionID string, initial *RenderMessage) chan RenderMessage {
	ch := make(chan RenderMessage, surfaceSendBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if initial != nil {
		ch <- *initial
	}
	b.sessions[sessionID] = append(b.sessions[sessionID], ch)

	b.logger.Preview().Debug("SSE client registered", "sessionId", sessionID)
	return ch
}

// RemoveClient unregisters a subscriber. The channel is closed unless the
// session was already closed.
func (b *SSEBroadcaster) RemoveClient(ch chan RenderMessage, sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, exists := b.sessions[sessionID]
	if !exists {
		return
	}
	remaining := make([]chan RenderMessage, 0, len(clients))
	for _, client := range clients {
		if client == ch {
			close(client)
			continue
		}
		remaining = append(remaining, client)
	}
	if len(remaining) == 0 {
		delete(b.sessions, sessionID)
	} else {
		b.sessions[sessionID] = remaining
	}
	b.logger.Preview().Debug("SSE client unregistered", "sessionId", sessionID)
}

// Broadcast sends a render event to every subscriber of a session
func (b *SSEBroadcaster) Broadcast(sessionID string, msg RenderMessage) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, ch := range b.sessions[sessionID] {
		select {
		case ch <- msg:
			delivered++
			continue
		default:
		}
		// Full buffer: replace the oldest pending render with this one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
			delivered++
		default:
			b.logger.Preview().Warn("SSE channel full, message dropped", "sessionId", sessionID)
		}
	}
	return delivered
}

// CloseSession closes every subscriber channel of a session
func (b *SSEBroadcaster) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.sessions[sessionID] {
		close(ch)
	}
	delete(b.sessions, sessionID)
}

// CloseAll closes every subscriber of every session and returns how many
// streams were ended
func (b *SSEBroadcaster) CloseAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := 0
	for sessionID, clients := range b.sessions {
		for _, ch := range clients {
			close(ch)
			closed++
		}
		delete(b.sessions, sessionID)
	}
	return closed
}

// SurfaceCount returns the subscriber count for a session
func (b *SSEBroadcaster) SurfaceCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions[sessionID])
}
