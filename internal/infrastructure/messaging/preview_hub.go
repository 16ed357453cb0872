package messaging

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

// ErrTooManySurfaces is returned when a session already has its maximum
// number of connected surfaces
var ErrTooManySurfaces = errors.New("too many rendering surfaces for session")

const (
	surfaceSendBuffer = 4
	maxClientMessage  = 4096
)

// Surface is one connected websocket rendering surface
type Surface struct {
	Conn      *websocket.Conn
	SessionID string
	Viewport  string
	Send      chan []byte

	closeOnce sync.Once
}

// NewSurface wraps an upgraded connection
func NewSurface(conn *websocket.Conn, sessionID, viewport string) *Surface {
	return &Surface{
		Conn:      conn,
		SessionID: sessionID,
		Viewport:  viewport,
		Send:      make(chan []byte, surfaceSendBuffer),
	}
}

func (s *Surface) closeSend() {
	s.closeOnce.Do(func() { close(s.Send) })
}

// enqueue delivers msg without blocking. When the buffer is full the oldest
// queued render is dropped; every render carries the full document so only
// the latest one matters.
func (s *Surface) enqueue(msg []byte) bool {
	select {
	case s.Send <- msg:
		return true
	default:
	}
	select {
	case <-s.Send:
	default:
	}
	select {
	case s.Send <- msg:
		return true
	default:
		return false
	}
}

// HubConfig tunes websocket timing
type HubConfig struct {
	WriteTimeout  time.Duration
	PingInterval  time.Duration
	MaxPerSession int
}

// PreviewHub manages websocket rendering surfaces per editing session
type PreviewHub struct {
	sessions map[string]map[*Surface]bool
	mu       sync.RWMutex
	config   HubConfig
	logger   *logging.ChanneledLogger
}

// NewPreviewHub creates an empty hub
func NewPreviewHub(config HubConfig, logger *logging.ChanneledLogger) *PreviewHub {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}
	if config.PingInterval <= 0 {
		config.PingInterval = 30 * time.Second
	}
	return &PreviewHub{
		sessions: make(map[string]map[*Surface]bool),
		config:   config,
		logger:   logger,
	}
}

// Register adds a surface and queues initial as its first message. Broadcasts
// issued after Register returns are delivered after initial.
func (h *PreviewHub) Register(s *Surface, initial []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sessions[s.SessionID]
	if h.config.MaxPerSession > 0 && len(clients) >= h.config.MaxPerSession {
		return ErrTooManySurfaces
	}
	if clients == nil {
		clients = make(map[*Surface]bool)
		h.sessions[s.SessionID] = clients
	}
	clients[s] = true
	if initial != nil {
		s.enqueue(initial)
	}

	h.logger.Preview().Debug("Rendering surface registered",
		"sessionId", s.SessionID, "viewport", s.Viewport, "surfaces", len(clients))
	return nil
}

// Unregister removes a surface and closes its send channel
func (h *PreviewHub) Unregister(s *Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.sessions[s.SessionID]; ok {
		if _, ok := clients[s]; ok {
			delete(clients, s)
			s.closeSend()
			if len(clients) == 0 {
				delete(h.sessions, s.SessionID)
			}
			h.logger.Preview().Debug("Rendering surface unregistered", "sessionId", s.SessionID)
		}
	}
}

// Broadcast sends a render message to every surface of a session and
// returns how many surfaces accepted it
func (h *PreviewHub) Broadcast(sessionID string, msg RenderMessage) int {
	payload, err := msg.Encode()
	if err != nil {
		h.logger.Preview().Error("Failed to encode render message", "sessionId", sessionID, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.sessions[sessionID] {
		if s.enqueue(payload) {
			delivered++
		} else {
			h.logger.Preview().Warn("Surface send buffer full, render dropped", "sessionId", sessionID)
		}
	}
	return delivered
}

// CloseSession disconnects every surface of a session
func (h *PreviewHub) CloseSession(sessionID string) {
	h.mu.Lock()
	clients := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	for s := range clients {
		s.closeSend()
	}
	h.mu.Unlock()

	if len(clients) > 0 {
		h.logger.Preview().Info("Closed rendering surfaces for session", "sessionId", sessionID, "surfaces", len(clients))
	}
}

// CloseAll disconnects every surface of every session
func (h *PreviewHub) CloseAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := 0
	for sessionID, clients := range h.sessions {
		for s := range clients {
			s.closeSend()
			closed++
		}
		delete(h.sessions, sessionID)
	}
	return closed
}

// SurfaceCount returns the number of surfaces connected to a session
func (h *PreviewHub) SurfaceCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Serve pumps messages for a registered surface until the connection ends.
// onMessage is called for every well-formed client message.
func (h *PreviewHub) Serve(s *Surface, onMessage func(ClientMessage)) {
	go h.writePump(s)
	h.readPump(s, onMessage)
}

func (h *PreviewHub) readPump(s *Surface, onMessage func(ClientMessage)) {
	defer func() {
		h.Unregister(s)
		s.Conn.Close()
	}()

	pongWait := h.config.PingInterval * 2
	s.Conn.SetReadLimit(maxClientMessage)
	s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		return s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Preview().Debug("Surface read ended", "sessionId", s.SessionID, "error", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Preview().Debug("Ignoring malformed surface message", "sessionId", s.SessionID, "error", err)
			continue
		}
		if onMessage != nil {
			onMessage(msg)
		}
	}
}

func (h *PreviewHub) writePump(s *Surface) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				s.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
