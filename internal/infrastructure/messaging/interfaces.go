// Package messaging defines interfaces for real-time communication.
package messaging

// Surfaces is a set of rendering surfaces grouped by editing session.
// Implementations must not block on slow receivers.
type Surfaces interface {
	Broadcast(sessionID string, msg RenderMessage) int
	CloseSession(sessionID string)
	SurfaceCount(sessionID string) int
}

// Fanout broadcasts to several surface sets as one
type Fanout []Surfaces

func (f Fanout) Broadcast(sessionID string, msg RenderMessage) int {
	delivered := 0
	for _, s := range f {
		delivered += s.Broadcast(sessionID, msg)
	}
	return delivered
}

func (f Fanout) CloseSession(sessionID string) {
	for _, s := range f {
		s.CloseSession(sessionID)
	}
}

func (f Fanout) SurfaceCount(sessionID string) int {
	n := 0
	for _, s := range f {
		n += s.SurfaceCount(sessionID)
	}
	return n
}
