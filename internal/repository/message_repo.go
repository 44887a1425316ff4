package repository

import (
	"context"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByConnection(ctx context.Context, connectionID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, connectionID, readerID string) (int64, error)
	CountUnreadByConnection(ctx context.Context, readerID string, connectionIDs []string) (map[string]int64, error)
	CountUnreadFor(ctx context.Context, readerID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message
func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByConnection returns every message of a conversation in chronological order
func (r *messageRepository) ListByConnection(ctx context.Context, connectionID string) ([]*domain.Message, error) {
	messages := make([]*domain.Message, 0)
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips is_read on the reader's unread incoming messages.
// Messages sent by the reader are never touched.
func (r *messageRepository) MarkRead(ctx context.Context, connectionID, readerID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("connection_id = ? AND sender_id <> ? AND is_read = ?", connectionID, readerID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

type unreadCount struct {
	ConnectionID string
	Count        int64
}

// CountUnreadByConnection returns unread incoming messages per conversation
func (r *messageRepository) CountUnreadByConnection(ctx context.Context, readerID string, connectionIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(connectionIDs))
	if len(connectionIDs) == 0 {
		return counts, nil
	}

	var rows []unreadCount
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Select("connection_id, COUNT(*) AS count").
		Where("connection_id IN ? AND sender_id <> ? AND is_read = ?", connectionIDs, readerID, false).
		Group("connection_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ConnectionID] = row.Count
	}
	return counts, nil
}

// CountUnreadFor counts unread incoming messages across the reader's accepted connections
func (r *messageRepository) CountUnreadFor(ctx context.Context, readerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("messages AS m").
		Joins("JOIN connections AS c ON c.id = m.connection_id").
		Where("c.status = ? AND (c.requester_id = ? OR c.addressee_id = ?)", domain.ConnectionAccepted, readerID, readerID).
		Where("m.sender_id <> ? AND m.is_read = ?", readerID, false).
		Count(&n).Error
	return n, err
}
