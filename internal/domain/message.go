package domain

import "time"

// MaxMessageLength upper bound on message content, in runes
const MaxMessageLength = 5000

// Message one unit of communication within an accepted connection (messages table).
// IDs are UUIDv7 so that id order follows insertion order.
type Message struct {
	CreatedAt    time.Time `gorm:"column:created_at;index:idx_messages_conversation,priority:2" json:"created_at"`
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ConnectionID string    `gorm:"column:connection_id;type:varchar(36);not null;index:idx_messages_conversation,priority:1" json:"connection_id"`
	SenderID     string    `gorm:"column:sender_id;type:varchar(36);not null;index" json:"sender_id"`
	Content      string    `gorm:"column:content;type:text;not null" json:"content"`
	IsRead       bool      `gorm:"column:is_read;not null" json:"is_read"`
}

func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest body of a send call
type SendMessageRequest struct {
	Content string `json:"content"`
}

// MarkReadResponse number of messages flipped to read
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
