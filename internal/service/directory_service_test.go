package service

import (
	"context"
	"testing"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirectoryQuery(t *testing.T) {
	q := NormalizeDirectoryQuery(domain.DirectoryQuery{
		Name:    "  Jane   DOE ",
		Sort:    "bogus",
		Role:    "admin",
		Page:    -3,
		PerPage: 500,
	})
	assert.Equal(t, "jane doe", q.Name)
	assert.Equal(t, domain.SortByCreatedAt, q.Sort)
	assert.Equal(t, domain.Role(""), q.Role)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxDirectoryPerPage, q.PerPage)

	q = NormalizeDirectoryQuery(domain.DirectoryQuery{})
	assert.Equal(t, DefaultDirectoryPerPage, q.PerPage)
}

func TestDirectorySearch_CachesAndAppliesVisibility(t *testing.T) {
	db := setupServiceDB(t)
	mc := newMemCache()
	svc := NewDirectoryService(repository.NewProfileRepository(db), mc)
	ctx := context.Background()

	a := createMember(t, db, "Amal", domain.RoleAlumni)
	createMember(t, db, "Bina", domain.RoleAlumni)
	hidden := createMember(t, db, "Hidden", domain.RoleAlumni)
	require.NoError(t, db.Model(&domain.Profile{}).Where("id = ?", hidden.ID).Update("hidden_from_search", true).Error)

	page, err := svc.Search(ctx, "viewer", domain.DirectoryQuery{Sort: domain.SortByName})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Profiles, 2)
	assert.Equal(t, a.ID, page.Profiles[0].ID)
	assert.Equal(t, a.Email, page.Profiles[0].Email, "alumni-level email visible to members")
	assert.Equal(t, 1, mc.keysWithPrefix(cache.PrefixDirectory))

	anon, err := svc.Search(ctx, "", domain.DirectoryQuery{Sort: domain.SortByName})
	require.NoError(t, err)
	assert.Empty(t, anon.Profiles[0].Email, "cached page is still filtered per viewer")

	// served from cache until a profile write invalidates it
	createMember(t, db, "Chandra", domain.RoleAlumni)
	again, err := svc.Search(ctx, "viewer", domain.DirectoryQuery{Sort: domain.SortByName})
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Total)

	require.NoError(t, mc.InvalidateDirectory(ctx))
	fresh, err := svc.Search(ctx, "viewer", domain.DirectoryQuery{Sort: domain.SortByName})
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.Total)
}

func TestDirectorySearch_NoRedis(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewDirectoryService(repository.NewProfileRepository(db), cache.NewService(nil))

	createMember(t, db, "Dina", domain.RoleStudent)
	page, err := svc.Search(context.Background(), "viewer", domain.DirectoryQuery{Role: domain.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultDirectoryPerPage, page.PerPage)
}

func TestDirectorySearch_AnonymousLocationFilter(t *testing.T) {
	db := setupServiceDB(t)
	mc := newMemCache()
	svc := NewDirectoryService(repository.NewProfileRepository(db), mc)
	ctx := context.Background()

	members := createMember(t, db, "Esha", domain.RoleAlumni)
	public := createMember(t, db, "Farid", domain.RoleAlumni)
	require.NoError(t, db.Model(&domain.Profile{}).Where("id IN ?", []string{members.ID, public.ID}).
		Update("location", "Sylhet").Error)
	require.NoError(t, db.Model(&domain.Profile{}).Where("id = ?", public.ID).
		Update("location_visibility", domain.VisibilityPublic).Error)

	signedIn, err := svc.Search(ctx, "viewer", domain.DirectoryQuery{Location: "sylhet"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), signedIn.Total)

	anon, err := svc.Search(ctx, "", domain.DirectoryQuery{Location: "sylhet"})
	require.NoError(t, err)
	require.Equal(t, int64(1), anon.Total, "anonymous search does not match alumni-only locations")
	assert.Equal(t, public.ID, anon.Profiles[0].ID)
	assert.Equal(t, "Sylhet", anon.Profiles[0].Location)

	assert.Equal(t, 2, mc.keysWithPrefix(cache.PrefixDirectory), "anonymous pages are cached separately")
}
