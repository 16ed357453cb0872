package messaging

import "encoding/json"

const (
	MessageRender  = "render"
	MessageRefresh = "refresh"
)

// RenderMessage replaces the whole content of a rendering surface
type RenderMessage struct {
	Type     string `json:"type"`
	Revision uint64 `json:"revision"`
	Document string `json:"document"`
}

// NewRenderMessage builds a render message for a document revision
func NewRenderMessage(revision uint64, document string) RenderMessage {
	return RenderMessage{Type: MessageRender, Revision: revision, Document: document}
}

// Encode marshals the message for the wire
func (m RenderMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// ClientMessage is what a surface may send back
type ClientMessage struct {
	Type string `json:"type"`
}
