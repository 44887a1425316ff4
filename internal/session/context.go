package session

import (
	"context"
	"sync"

	"github.com/alumnet/alumnet-backend/internal/domain"
)

type holderKey struct{}

// holder is the request-scoped credential store.
// The HTTP layer creates it; the backend reads it and replaces it after a refresh.
type holder struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(*Session)

	// identity resolved for accessToken during this request
	identity *domain.Identity
	resolved string
}

// WithCredentials attaches the caller's tokens to ctx.
// onRefresh is called whenever the session is rotated during the request; it may be nil.
func WithCredentials(ctx context.Context, accessToken, refreshToken string, onRefresh func(*Session)) context.Context {
	return context.WithValue(ctx, holderKey{}, &holder{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		onRefresh:    onRefresh,
	})
}

func holderFrom(ctx context.Context) *holder {
	h, _ := ctx.Value(holderKey{}).(*holder)
	return h
}

func (h *holder) tokens() (access, refresh string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.accessToken, h.refreshToken
}

func (h *holder) replace(s *Session) {
	h.mu.Lock()
	h.accessToken = s.AccessToken
	h.refreshToken = s.RefreshToken
	h.identity, h.resolved = nil, ""
	cb := h.onRefresh
	h.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}

func (h *holder) cached(token string) *domain.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved == token {
		return h.identity
	}
	return nil
}

func (h *holder) remember(token string, id *domain.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.identity, h.resolved = id, token
}
