package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/auth"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/jwt"
	"github.com/alumnet/alumnet-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Identity(ctx context.Context, userID string) (*domain.Identity, error)
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtManager  *jwt.Manager
	cache       cache.Service
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, jwtManager *jwt.Manager, cacheService cache.Service) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtManager:  jwtManager,
		cache:       cacheService,
		now:         time.Now,
	}
}

// Register creates the account and its initial profile, then signs the user in
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := auth.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", common.ErrInvalidInput)
	}
	if len(req.Password) < auth.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, auth.MinPasswordLength)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be student or alumni", common.ErrInvalidInput)
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", common.ErrInvalidInput)
	}
	if req.GraduationYear != nil {
		if err := validateGraduationYear(*req.GraduationYear, s.now()); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashed,
	}
	profile := newProfile(user, req)

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	if err := s.cache.InvalidateDirectory(ctx); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("directory cache invalidation failed")
	}

	identity := identityOf(user, profile)
	pair, err := s.issue(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{User: identity, TokenPair: *pair}, nil
}

// newProfile builds the initial profile; role-specific fields follow the role
func newProfile(user *domain.User, req *domain.RegisterRequest) *domain.Profile {
	p := &domain.Profile{
		ID:                 user.ID,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              user.Email,
		Role:               req.Role,
		Degree:             strings.TrimSpace(req.Degree),
		Department:         strings.TrimSpace(req.Department),
		PhoneVisibility:    domain.VisibilityAlumni,
		EmailVisibility:    domain.VisibilityAlumni,
		LocationVisibility: domain.VisibilityAlumni,
		HiddenFromSearch:   false,
	}

	switch req.Role {
	case domain.RoleStudent:
		p.RollNumber = strings.TrimSpace(req.RollNumber)
	case domain.RoleAlumni:
		p.GraduationYear = req.GraduationYear
		p.JobTitle = strings.TrimSpace(req.JobTitle)
		p.Company = strings.TrimSpace(req.Company)
		p.Location = strings.TrimSpace(req.Location)
	}
	return p
}

// Login checks the credentials and issues a token pair
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, auth.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !auth.VerifyPassword(req.Password, user.Password) {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.GetLogger().Warn().Err(err).Str("user_id", user.ID).Msg("last login update failed")
	}

	identity, err := s.Identity(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	pair, err := s.issue(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{User: identity, TokenPair: *pair}, nil
}

// Refresh rotates a refresh token. The old token id is revoked, and only the
// caller whose revocation removed it gets a new pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrNoSession
	}
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	identity, err := s.Identity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	revoked, err := s.cache.DeleteSession(ctx, claims.ID)
	switch {
	case errors.Is(err, cache.ErrUnavailable):
		// no session store: the signature and expiry are all we can check
	case err != nil:
		return nil, fmt.Errorf("revoke session: %w", err)
	case !revoked:
		return nil, common.ErrInvalidToken
	}
	return s.issue(ctx, identity)
}

// Logout revokes the refresh token. Unknown or invalid tokens are ignored.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtManager.Inspect(refreshToken)
	if err != nil || claims.Kind != jwt.KindRefresh {
		return nil
	}
	if _, err := s.cache.DeleteSession(ctx, claims.ID); err != nil && !errors.Is(err, cache.ErrUnavailable) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Identity loads the account and profile names of userID
func (s *authService) Identity(ctx context.Context, userID string) (*domain.Identity, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return identityOf(user, profile), nil
}

func identityOf(user *domain.User, profile *domain.Profile) *domain.Identity {
	id := &domain.Identity{ID: user.ID, Email: user.Email}
	if profile != nil {
		id.Role = profile.Role
		id.FirstName = profile.FirstName
		id.LastName = profile.LastName
	}
	return id
}

// issue signs a new pair and records the refresh token id
func (s *authService) issue(ctx context.Context, id *domain.Identity) (*domain.TokenPair, error) {
	access, expiresAt, err := s.jwtManager.GenerateAccessToken(id.ID, id.Email, string(id.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, jti, err := s.jwtManager.GenerateRefreshToken(id.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.cache.SetSession(ctx, jti, id.ID, s.jwtManager.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}
