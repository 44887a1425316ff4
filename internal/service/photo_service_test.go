package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotoStore struct {
	keys        []string
	contentType string
	body        []byte
	err         error
}

func (f *fakePhotoStore) Upload(_ context.Context, key string, body io.Reader, contentType string, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.contentType = contentType
	f.body = data
	return "https://cdn.example.com/" + key, nil
}

// minimal PNG header; enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func TestUploadPhoto(t *testing.T) {
	db := setupServiceDB(t)
	store := &fakePhotoStore{}
	mc := newMemCache()
	svc := NewPhotoService(store, repository.NewProfileRepository(db), mc)
	ctx := context.Background()

	p := createMember(t, db, "Priya", domain.RoleAlumni)
	require.NoError(t, mc.SetDirectory(ctx, "stale-query", "stale"))

	updated, err := svc.UploadPhoto(ctx, p.ID, pngBytes)
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "avatars/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".png"))
	assert.Equal(t, "image/png", store.contentType)
	assert.True(t, bytes.Equal(pngBytes, store.body))
	assert.Equal(t, "https://cdn.example.com/"+store.keys[0], updated.PhotoURL)

	var stored domain.Profile
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, updated.PhotoURL, stored.PhotoURL)
	assert.Zero(t, mc.keysWithPrefix("directory:"), "directory cache invalidated")
}

func TestUploadPhoto_Rejects(t *testing.T) {
	db := setupServiceDB(t)
	store := &fakePhotoStore{}
	svc := NewPhotoService(store, repository.NewProfileRepository(db), newMemCache())
	ctx := context.Background()
	p := createMember(t, db, "Quinn", domain.RoleStudent)

	tests := []struct {
		name    string
		caller  string
		data    []byte
		wantErr error
	}{
		{"no session", "", pngBytes, common.ErrNoSession},
		{"empty", p.ID, nil, common.ErrInvalidInput},
		{"too large", p.ID, append(pngBytes, make([]byte, MaxPhotoSize)...), common.ErrInvalidInput},
		{"not an image", p.ID, []byte("<html><body>hi</body></html>"), common.ErrInvalidInput},
		{"unknown member", "missing", pngBytes, common.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadPhoto(ctx, tt.caller, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, store.keys, "nothing uploaded for rejected photos")
}

func TestUploadPhoto_StoreFailureLeavesProfile(t *testing.T) {
	db := setupServiceDB(t)
	store := &fakePhotoStore{err: errors.New("bucket unreachable")}
	svc := NewPhotoService(store, repository.NewProfileRepository(db), newMemCache())
	p := createMember(t, db, "Rosa", domain.RoleAlumni)

	_, err := svc.UploadPhoto(context.Background(), p.ID, pngBytes)
	require.Error(t, err)
	assert.Equal(t, 500, common.StatusFor(err))

	var stored domain.Profile
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Empty(t, stored.PhotoURL)
}
