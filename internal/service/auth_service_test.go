package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T, c cache.Service) (AuthService, *gorm.DB, *jwt.Manager) {
	t.Helper()
	db := setupServiceDB(t)
	m := jwt.NewManager("auth-test-secret", 900, 3600)
	svc := NewAuthService(repository.NewUserRepository(db), repository.NewProfileRepository(db), m, c)
	return svc, db, m
}

func intRef(v int) *int { return &v }

func alumniRegistration() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Email:          "  Jane.Doe@Example.com ",
		Password:       "correct-horse",
		FirstName:      "Jane",
		LastName:       "Doe",
		Role:           domain.RoleAlumni,
		Degree:         "BSc",
		Department:     "CSE",
		GraduationYear: intRef(2019),
		JobTitle:       "Engineer",
		Company:        "Acme",
		Location:       "Dhaka",
		RollNumber:     "ignored-for-alumni",
	}
}

func TestRegister_CreatesAccountAndProfile(t *testing.T) {
	mc := newMemCache()
	svc, db, m := newTestAuthService(t, mc)
	ctx := context.Background()

	resp, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleAlumni, resp.User.Role)
	assert.Equal(t, "Bearer", resp.TokenType)

	claims, err := m.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, 1, mc.keysWithPrefix(cache.PrefixSession))

	var p domain.Profile
	require.NoError(t, db.First(&p, "id = ?", resp.User.ID).Error)
	assert.Equal(t, domain.VisibilityAlumni, p.EmailVisibility)
	assert.False(t, p.HiddenFromSearch)
	assert.Equal(t, "Acme", p.Company)
	assert.Empty(t, p.RollNumber, "alumni do not keep a roll number")
	require.NotNil(t, p.GraduationYear)
	assert.Equal(t, 2019, *p.GraduationYear)
}

func TestRegister_StudentKeepsRollNumber(t *testing.T) {
	svc, db, _ := newTestAuthService(t, newMemCache())

	req := alumniRegistration()
	req.Role = domain.RoleStudent
	req.RollNumber = "CSE-042"
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	var p domain.Profile
	require.NoError(t, db.First(&p, "id = ?", resp.User.ID).Error)
	assert.Equal(t, "CSE-042", p.RollNumber)
	assert.Empty(t, p.Company)
	assert.Nil(t, p.GraduationYear)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t, newMemCache())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *domain.RegisterRequest)
	}{
		{"short password", func(r *domain.RegisterRequest) { r.Password = "short" }},
		{"bad email", func(r *domain.RegisterRequest) { r.Email = "not-an-email" }},
		{"bad role", func(r *domain.RegisterRequest) { r.Role = "admin" }},
		{"blank name", func(r *domain.RegisterRequest) { r.FirstName = "  " }},
		{"graduation year", func(r *domain.RegisterRequest) { r.GraduationYear = intRef(1800) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := alumniRegistration()
			tt.mutate(req)
			_, err := svc.Register(ctx, req)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t, newMemCache())
	ctx := context.Background()

	_, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	req := alumniRegistration()
	req.Email = "JANE.DOE@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, db, _ := newTestAuthService(t, newMemCache())
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "jane.doe@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "Jane.Doe@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.Equal(t, "Jane", resp.User.FirstName)

	var u domain.User
	require.NoError(t, db.First(&u, "id = ?", reg.User.ID).Error)
	assert.NotNil(t, u.LastLoginAt)
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	mc := newMemCache()
	svc, _, _ := newTestAuthService(t, mc)
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, pair.RefreshToken)

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "a rotated refresh token cannot be replayed")

	_, err = svc.Refresh(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "access tokens cannot refresh")

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestRefresh_ConcurrentReuseIssuesOnePair(t *testing.T) {
	mc := newMemCache()
	svc, _, _ := newTestAuthService(t, mc)
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		issued   int
		rejected int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Refresh(ctx, reg.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				issued++
			} else if assert.ErrorIs(t, err, common.ErrInvalidToken) {
				rejected++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, issued, "one refresh token yields one pair")
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, 1, mc.keysWithPrefix(cache.PrefixSession), "only the rotated session is live")
}

func TestLogout_WithoutRedis(t *testing.T) {
	svc, _, _ := newTestAuthService(t, cache.NewService(nil))
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)
	assert.NoError(t, svc.Logout(ctx, reg.RefreshToken))
}

func TestRefresh_WithoutRedis(t *testing.T) {
	svc, _, _ := newTestAuthService(t, cache.NewService(nil))
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	mc := newMemCache()
	svc, _, _ := newTestAuthService(t, mc)
	ctx := context.Background()

	reg, err := svc.Register(ctx, alumniRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))
	assert.Equal(t, 0, mc.keysWithPrefix(cache.PrefixSession))

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	assert.NoError(t, svc.Logout(ctx, "garbage"))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestIdentity_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t, newMemCache())
	_, err := svc.Identity(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
