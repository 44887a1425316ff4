package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Token kinds carried in the "kind" claim
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims is the payload of tokens issued by this service
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Kind   string `json:"kind"`
}

// Manager issues and verifies HS256 tokens
type Manager struct {
	secretKey []byte
	expiresIn time.Duration
	refreshIn time.Duration
	now       func() time.Time
}

// NewManager creates a Manager. expiresIn and refreshIn are in seconds.
func NewManager(secret string, expiresIn, refreshIn int) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Second,
		refreshIn: time.Duration(refreshIn) * time.Second,
		now:       time.Now,
	}
}

// RefreshTTL returns the lifetime of refresh tokens
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshIn
}

// GenerateAccessToken issues a short-lived access token
func (m *Manager) GenerateAccessToken(userID, email, role string) (string, time.Time, error) {
	expiresAt := m.now().Add(m.expiresIn)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
		Kind:   KindAccess,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateRefreshToken issues a refresh token and returns its id (jti)
func (m *Manager) GenerateRefreshToken(userID string) (string, string, error) {
	jti := uuid.NewString()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.refreshIn)),
		},
		UserID: userID,
		Kind:   KindRefresh,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// VerifyToken validates signature and time claims
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, jwt.WithTimeFunc(m.now))
}

// VerifyRefreshToken validates a token and requires the refresh kind
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != KindRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Inspect validates the signature only, so an expired token can still be read.
// Callers must not treat the result as authentication.
func (m *Manager) Inspect(tokenString string) (*Claims, error) {
	return m.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (m *Manager) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
