package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"gorm.io/gorm"
)

// ConnectionGate authorizes messaging on a connection.
// It reads the row on every call; nothing is cached.
type ConnectionGate struct {
	repo repository.ConnectionRepository
}

// NewConnectionGate creates a ConnectionGate
func NewConnectionGate(repo repository.ConnectionRepository) *ConnectionGate {
	return &ConnectionGate{repo: repo}
}

// Authorize returns the connection if it is accepted and callerID is one of its parties
func (g *ConnectionGate) Authorize(ctx context.Context, connectionID, callerID string) (*domain.Connection, error) {
	if connectionID == "" || callerID == "" {
		return nil, common.ErrNotConnectionParty
	}

	conn, err := g.repo.FindByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotConnectionParty
		}
		return nil, fmt.Errorf("authorize connection: %w", err)
	}

	if conn.ViewerState(callerID) != domain.ViewerAccepted {
		return nil, common.ErrNotConnectionParty
	}
	return conn, nil
}
