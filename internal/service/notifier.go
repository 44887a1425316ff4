package service

import (
	"context"

	"github.com/alumnet/alumnet-backend/internal/domain"
)

// Notifier pushes realtime events to one user's open connections.
// Delivery is best effort; callers never wait on it.
type Notifier interface {
	Notify(userID, eventType string, data interface{})
}

// NopNotifier drops every event
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(string, string, interface{}) {}

// IdentityProvider resolves the caller of a request
type IdentityProvider interface {
	CurrentUser(ctx context.Context) *domain.Identity
}
