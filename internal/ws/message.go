package ws

import "time"

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageSample MessageType = "probe.sample"
	MessageAlert  MessageType = "sentry.alert"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}
