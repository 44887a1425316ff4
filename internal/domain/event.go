package domain

import "time"

// Realtime event types pushed to connected clients
const (
	EventMessageCreated      = "message.created"
	EventMessagesRead        = "messages.read"
	EventConnectionRequested = "connection.requested"
	EventConnectionAccepted  = "connection.accepted"
)

// RealtimeEvent envelope sent over the WebSocket and the pub/sub channel
type RealtimeEvent struct {
	CreatedAt time.Time   `json:"created_at"`
	Data      interface{} `json:"data,omitempty"`
	Type      string      `json:"type"`
	UserID    string      `json:"user_id"`
}
