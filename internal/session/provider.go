package session

import (
	"context"
	"time"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// Provider exposes the caller's identity and a valid bearer token.
// It never returns errors: failures are logged and reported as "", false or nil.
type Provider struct {
	backend Backend
	now     func() time.Time
}

// NewProvider creates a Provider over backend
func NewProvider(backend Backend) *Provider {
	return &Provider{backend: backend, now: time.Now}
}

// ValidToken returns a currently valid access token, refreshing an expired
// session first. "" means there is no authenticated session.
func (p *Provider) ValidToken(ctx context.Context) string {
	s, err := p.backend.GetSession(ctx)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("session lookup failed")
		return ""
	}
	if s == nil {
		return ""
	}

	if s.Expired(p.now()) {
		refreshed, err := p.backend.RefreshSession(ctx)
		if err != nil {
			logger.GetLogger().Info().Err(err).Str("user_id", s.UserID).Msg("session refresh failed")
			return ""
		}
		s = refreshed
	}
	return s.AccessToken
}

// VerifyToken reports whether token maps to a live user
func (p *Provider) VerifyToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	id, err := p.backend.GetUser(ctx, token)
	if err != nil {
		logger.GetLogger().Debug().Err(err).Msg("token verification failed")
		return false
	}
	return id != nil
}

// CurrentUser returns the caller's identity, or nil without a session
func (p *Provider) CurrentUser(ctx context.Context) *domain.Identity {
	token := p.ValidToken(ctx)
	if token == "" {
		return nil
	}

	h := holderFrom(ctx)
	if h != nil {
		if id := h.cached(token); id != nil {
			return id
		}
	}

	id, err := p.backend.GetUser(ctx, token)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("current user lookup failed")
		return nil
	}
	if h != nil && id != nil {
		h.remember(token, id)
	}
	return id
}
