package session

import (
	"context"
	"fmt"
	"time"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/pkg/jwt"
)

// Session is the caller's current token pair
type Session struct {
	ExpiresAt    time.Time
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Expired reports whether the access token is expired at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Backend is the auth collaborator the Provider wraps
type Backend interface {
	// GetSession returns the current session, or nil when the request carries none
	GetSession(ctx context.Context) (*Session, error)
	// RefreshSession rotates the session using the refresh token
	RefreshSession(ctx context.Context) (*Session, error)
	// GetUser maps an access token to a live identity
	GetUser(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenRefresher rotates a refresh token into a new pair
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// IdentityLoader loads the identity of an existing account
type IdentityLoader interface {
	Identity(ctx context.Context, userID string) (*domain.Identity, error)
}

// JWTBackend reads sessions from the request credentials and verifies them with pkg/jwt
type JWTBackend struct {
	tokens    *jwt.Manager
	refresher TokenRefresher
	users     IdentityLoader
}

// NewJWTBackend creates a JWTBackend
func NewJWTBackend(tokens *jwt.Manager, refresher TokenRefresher, users IdentityLoader) *JWTBackend {
	return &JWTBackend{tokens: tokens, refresher: refresher, users: users}
}

// GetSession reads the access token's expiry. The signature is checked, time claims are not.
func (b *JWTBackend) GetSession(ctx context.Context) (*Session, error) {
	h := holderFrom(ctx)
	if h == nil {
		return nil, nil
	}
	access, refresh := h.tokens()
	if access == "" {
		if refresh == "" {
			return nil, nil
		}
		// access token dropped by the client: force a refresh
		return &Session{RefreshToken: refresh}, nil
	}

	claims, err := b.tokens.Inspect(access)
	if err != nil {
		return nil, fmt.Errorf("inspect access token: %w", err)
	}
	if claims.Kind != jwt.KindAccess {
		return nil, common.ErrInvalidToken
	}

	s := &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       claims.UserID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// RefreshSession rotates the pair and replaces the request credentials
func (b *JWTBackend) RefreshSession(ctx context.Context) (*Session, error) {
	h := holderFrom(ctx)
	if h == nil {
		return nil, common.ErrNoSession
	}
	_, refresh := h.tokens()
	if refresh == "" {
		return nil, common.ErrNoSession
	}

	pair, err := b.refresher.Refresh(ctx, refresh)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	s := &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
	if claims, err := b.tokens.Inspect(pair.AccessToken); err == nil {
		s.UserID = claims.UserID
	}
	h.replace(s)
	return s, nil
}

// GetUser verifies the access token and loads the account it names
func (b *JWTBackend) GetUser(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := b.tokens.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.Kind != jwt.KindAccess {
		return nil, common.ErrInvalidToken
	}
	return b.users.Identity(ctx, claims.UserID)
}
