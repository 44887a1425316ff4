package service

import (
	"context"
	"testing"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strRef(s string) *string { return &s }

func visRef(v domain.Visibility) *domain.Visibility { return &v }

func TestGetProfile_AppliesVisibility(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db), cache.NewService(nil))
	ctx := context.Background()

	owner := createMember(t, db, "Olive", domain.RoleAlumni)
	require.NoError(t, db.Model(&domain.Profile{}).Where("id = ?", owner.ID).Updates(map[string]interface{}{
		"phone":            "555-0101",
		"phone_visibility": domain.VisibilityPrivate,
		"location":         "Sylhet",
	}).Error)

	anon, err := svc.GetProfile(ctx, "", owner.ID)
	require.NoError(t, err)
	assert.Empty(t, anon.Email, "alumni-level email hidden from anonymous viewers")
	assert.Empty(t, anon.Location)

	member, err := svc.GetProfile(ctx, "someone-else", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, member.Email)
	assert.Equal(t, "Sylhet", member.Location)
	assert.Empty(t, member.Phone)

	self, err := svc.GetProfile(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0101", self.Phone)

	_, err = svc.GetProfile(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := setupServiceDB(t)
	mc := newMemCache()
	svc := NewProfileService(repository.NewProfileRepository(db), mc)
	ctx := context.Background()

	p := createMember(t, db, "Paul", domain.RoleStudent)
	require.NoError(t, mc.SetDirectory(ctx, "stale-query", "stale"))

	hidden := true
	skills := []string{"go", "postgres"}
	updated, err := svc.UpdateProfile(ctx, p.ID, &domain.UpdateProfileRequest{
		JobTitle:         strRef("  Backend Engineer "),
		LinkedInURL:      strRef("https://www.linkedin.com/in/paul"),
		EmailVisibility:  visRef(domain.VisibilityPublic),
		Skills:           &skills,
		HiddenFromSearch: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", updated.JobTitle)
	assert.Equal(t, "Paul", updated.FirstName, "untouched fields survive")
	assert.Equal(t, 0, mc.keysWithPrefix(cache.PrefixDirectory), "directory cache invalidated")

	var stored domain.Profile
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.True(t, stored.HiddenFromSearch)
	assert.Equal(t, domain.VisibilityPublic, stored.EmailVisibility)
	assert.Equal(t, skills, stored.Skills)

	// false must be writable too
	visible := false
	_, err = svc.UpdateProfile(ctx, p.ID, &domain.UpdateProfileRequest{HiddenFromSearch: &visible})
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.False(t, stored.HiddenFromSearch)
}

func TestUpdateProfile_Validation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db), cache.NewService(nil))
	ctx := context.Background()
	p := createMember(t, db, "Vera", domain.RoleAlumni)

	badRole := domain.Role("admin")
	tests := []struct {
		name string
		req  *domain.UpdateProfileRequest
	}{
		{"visibility", &domain.UpdateProfileRequest{PhoneVisibility: visRef("friends")}},
		{"role", &domain.UpdateProfileRequest{Role: &badRole}},
		{"graduation year", &domain.UpdateProfileRequest{GraduationYear: intRef(3000)}},
		{"linkedin host", &domain.UpdateProfileRequest{LinkedInURL: strRef("https://example.com/in/vera")}},
		{"photo scheme", &domain.UpdateProfileRequest{PhotoURL: strRef("javascript:alert(1)")}},
		{"date of birth", &domain.UpdateProfileRequest{DateOfBirth: strRef("31/12/1990")}},
		{"empty first name", &domain.UpdateProfileRequest{FirstName: strRef(" ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, p.ID, tt.req)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}

	_, err := svc.UpdateProfile(ctx, "", &domain.UpdateProfileRequest{})
	assert.ErrorIs(t, err, common.ErrNoSession)
}
