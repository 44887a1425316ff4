package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/logger"
	"github.com/google/uuid"
)

// MessageService direct messaging between connected members.
// Every operation resolves the caller from ctx and passes the connection gate first.
type MessageService interface {
	SendMessage(ctx context.Context, connectionID, content string) (*domain.Message, error)
	FetchMessages(ctx context.Context, connectionID string) ([]*domain.Message, error)
	MarkMessagesAsRead(ctx context.Context, connectionID string) (int64, error)
	FetchConnections(ctx context.Context) ([]*domain.ConnectionSummary, error)
}

type messageService struct {
	repo     repository.MessageRepository
	connRepo repository.ConnectionRepository
	gate     *ConnectionGate
	sessions IdentityProvider
	notifier Notifier
	now      func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(
	repo repository.MessageRepository,
	connRepo repository.ConnectionRepository,
	gate *ConnectionGate,
	sessions IdentityProvider,
	notifier Notifier,
) MessageService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &messageService{
		repo:     repo,
		connRepo: connRepo,
		gate:     gate,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *messageService) caller(ctx context.Context) (*domain.Identity, error) {
	id := s.sessions.CurrentUser(ctx)
	if id == nil {
		return nil, common.ErrNoSession
	}
	return id, nil
}

// SendMessage stores a message from the caller on an accepted connection
func (s *messageService) SendMessage(ctx context.Context, connectionID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return nil, common.ErrMessageTooLong
	}

	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := s.gate.Authorize(ctx, connectionID, caller.ID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	msg := &domain.Message{
		ID:           id.String(),
		ConnectionID: conn.ID,
		SenderID:     caller.ID,
		Content:      content,
		IsRead:       false,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if err := s.connRepo.Touch(ctx, conn.ID, msg.CreatedAt); err != nil {
		logger.GetLogger().Warn().Err(err).Str("connection_id", conn.ID).Msg("conversation touch failed")
	}

	s.notifier.Notify(conn.Counterparty(caller.ID), domain.EventMessageCreated, msg)
	return msg, nil
}

// FetchMessages returns the conversation in chronological order
func (s *messageService) FetchMessages(ctx context.Context, connectionID string) ([]*domain.Message, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, connectionID, caller.ID); err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return msgs, nil
}

// MarkMessagesAsRead marks the counterparty's unread messages as read and
// returns how many changed. Calling it again with nothing new is a no-op.
func (s *messageService) MarkMessagesAsRead(ctx context.Context, connectionID string) (int64, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return 0, err
	}
	conn, err := s.gate.Authorize(ctx, connectionID, caller.ID)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.MarkRead(ctx, conn.ID, caller.ID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	if n > 0 {
		s.notifier.Notify(conn.Counterparty(caller.ID), domain.EventMessagesRead, map[string]interface{}{
			"connection_id": conn.ID,
			"reader_id":     caller.ID,
			"count":         n,
		})
	}
	return n, nil
}

// FetchConnections lists the caller's conversations, most recently active first
func (s *messageService) FetchConnections(ctx context.Context) ([]*domain.ConnectionSummary, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.connRepo.ListAccepted(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch connections: %w", err)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	unread, err := s.repo.CountUnreadByConnection(ctx, caller.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	summaries := make([]*domain.ConnectionSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.ToSummary(caller.ID)
		summaries[i].UnreadCount = unread[row.ID]
	}
	return summaries, nil
}
