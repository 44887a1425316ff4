package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectionService connection state machine
type ConnectionService interface {
	Connect(ctx context.Context, callerID, targetID string) (*domain.Connection, error)
	Accept(ctx context.Context, callerID, requesterID string) (*domain.Connection, error)
	Reject(ctx context.Context, callerID, requesterID string) error
	Remove(ctx context.Context, callerID, targetID string) error
	Status(ctx context.Context, callerID, targetID string) (*domain.ConnectionStatusResponse, error)
	PendingRequests(ctx context.Context, callerID string) ([]*domain.ConnectionRequest, error)
}

type connectionService struct {
	repo        repository.ConnectionRepository
	profileRepo repository.ProfileRepository
	notifier    Notifier
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(repo repository.ConnectionRepository, profileRepo repository.ProfileRepository, notifier Notifier) ConnectionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &connectionService{
		repo:        repo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

// Connect sends a connection request from caller to target
func (s *connectionService) Connect(ctx context.Context, callerID, targetID string) (*domain.Connection, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	if targetID == "" {
		return nil, fmt.Errorf("%w: target user is required", common.ErrInvalidInput)
	}
	if callerID == targetID {
		return nil, common.ErrSelfConnection
	}

	if _, err := s.profileRepo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find target profile: %w", err)
	}

	existing, err := s.repo.FindBetween(ctx, callerID, targetID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.create(ctx, callerID, targetID)
	case err != nil:
		return nil, fmt.Errorf("find connection: %w", err)
	}

	switch existing.Status {
	case domain.ConnectionPending, domain.ConnectionAccepted:
		return nil, common.ErrConnectionExists
	case domain.ConnectionRejected:
		return s.reopen(ctx, existing, callerID)
	}
	return nil, fmt.Errorf("connection %s has unknown status %q", existing.ID, existing.Status)
}

func (s *connectionService) create(ctx context.Context, callerID, targetID string) (*domain.Connection, error) {
	conn := domain.NewConnection(uuid.NewString(), callerID, targetID)
	if err := s.repo.Create(ctx, conn); err != nil {
		// lost the race against a request for the same pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrConnectionExists
		}
		return nil, fmt.Errorf("create connection: %w", err)
	}
	s.notifier.Notify(targetID, domain.EventConnectionRequested, conn)
	return conn, nil
}

func (s *connectionService) reopen(ctx context.Context, conn *domain.Connection, callerID string) (*domain.Connection, error) {
	if err := conn.Reopen(callerID); err != nil {
		return nil, common.ErrConnectionExists
	}
	n, err := s.repo.Reopen(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("reopen connection: %w", err)
	}
	if n == 0 {
		return nil, common.ErrConnectionExists
	}
	s.notifier.Notify(conn.AddresseeID, domain.EventConnectionRequested, conn)
	return conn, nil
}

// Accept accepts the pending request requesterID sent to caller
func (s *connectionService) Accept(ctx context.Context, callerID, requesterID string) (*domain.Connection, error) {
	conn, err := s.pendingFrom(ctx, callerID, requesterID)
	if err != nil {
		return nil, err
	}
	if err := conn.Accept(callerID); err != nil {
		return nil, common.ErrConnectionNotFound
	}

	n, err := s.repo.UpdateStatus(ctx, conn.ID, callerID, domain.ConnectionPending, domain.ConnectionAccepted)
	if err != nil {
		return nil, fmt.Errorf("accept connection: %w", err)
	}
	if n == 0 {
		return nil, common.ErrConnectionNotFound
	}

	s.notifier.Notify(requesterID, domain.EventConnectionAccepted, conn)
	return conn, nil
}

// Reject rejects the pending request requesterID sent to caller
func (s *connectionService) Reject(ctx context.Context, callerID, requesterID string) error {
	conn, err := s.pendingFrom(ctx, callerID, requesterID)
	if err != nil {
		return err
	}
	if err := conn.Reject(callerID); err != nil {
		return common.ErrConnectionNotFound
	}

	n, err := s.repo.UpdateStatus(ctx, conn.ID, callerID, domain.ConnectionPending, domain.ConnectionRejected)
	if err != nil {
		return fmt.Errorf("reject connection: %w", err)
	}
	if n == 0 {
		return common.ErrConnectionNotFound
	}
	return nil
}

// pendingFrom loads the row only if it is a request from requesterID to callerID
func (s *connectionService) pendingFrom(ctx context.Context, callerID, requesterID string) (*domain.Connection, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	conn, err := s.repo.FindBetween(ctx, callerID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("find connection: %w", err)
	}
	if conn.RequesterID != requesterID || conn.AddresseeID != callerID {
		return nil, common.ErrConnectionNotFound
	}
	return conn, nil
}

// Remove deletes a pending or accepted connection; either party may remove it
func (s *connectionService) Remove(ctx context.Context, callerID, targetID string) error {
	if callerID == "" {
		return common.ErrNoSession
	}
	conn, err := s.repo.FindBetween(ctx, callerID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrConnectionNotFound
		}
		return fmt.Errorf("find connection: %w", err)
	}
	if !conn.CanRemove(callerID) {
		return common.ErrConnectionNotFound
	}

	n, err := s.repo.DeleteBetween(ctx, callerID, targetID)
	if err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	if n == 0 {
		return common.ErrConnectionNotFound
	}
	return nil
}

// Status reports the connection between caller and target from the caller's side
func (s *connectionService) Status(ctx context.Context, callerID, targetID string) (*domain.ConnectionStatusResponse, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	if callerID == targetID {
		return &domain.ConnectionStatusResponse{State: domain.ViewerNone}, nil
	}

	conn, err := s.repo.FindBetween(ctx, callerID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.ConnectionStatusResponse{State: domain.ViewerNone}, nil
		}
		return nil, fmt.Errorf("find connection: %w", err)
	}

	resp := &domain.ConnectionStatusResponse{State: conn.ViewerState(callerID)}
	if resp.State != domain.ViewerNone {
		resp.ConnectionID = conn.ID
	}
	return resp, nil
}

// PendingRequests lists requests waiting for the caller's answer
func (s *connectionService) PendingRequests(ctx context.Context, callerID string) ([]*domain.ConnectionRequest, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	rows, err := s.repo.ListPendingFor(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}

	requests := make([]*domain.ConnectionRequest, len(rows))
	for i, row := range rows {
		summary := row.ToSummary(callerID)
		requests[i] = &domain.ConnectionRequest{
			ConnectionID: row.ID,
			CreatedAt:    row.CreatedAt,
			Requester:    summary.Requester,
		}
	}
	return requests, nil
}
