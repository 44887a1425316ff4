package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// MaxPhotoSize upper bound on an uploaded profile photo, in bytes
const MaxPhotoSize = 5 << 20

// photoExtensions sniffed content type -> stored extension
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PhotoStore persists photo bytes and returns the URL they are served from.
// Implemented by storage.S3Client.
type PhotoStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error)
}

// PhotoService profile photo upload
type PhotoService interface {
	UploadPhoto(ctx context.Context, callerID string, data []byte) (*domain.Profile, error)
}

type photoService struct {
	store PhotoStore
	repo  repository.ProfileRepository
	cache cache.Service
	now   func() time.Time
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(store PhotoStore, repo repository.ProfileRepository, cacheService cache.Service) PhotoService {
	return &photoService{store: store, repo: repo, cache: cacheService, now: time.Now}
}

// UploadPhoto stores data as the caller's profile photo and points photo_url at it.
// The content type is sniffed from the bytes; the client-declared type is ignored.
func (s *photoService) UploadPhoto(ctx context.Context, callerID string, data []byte) (*domain.Profile, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", common.ErrInvalidInput)
	}
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("%w: photo exceeds %dMB", common.ErrInvalidInput, MaxPhotoSize>>20)
	}
	contentType := http.DetectContentType(data)
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported photo format %s", common.ErrInvalidInput, contentType)
	}

	p, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s%s", callerID, uuid.NewString(), ext)
	url, err := s.store.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	p.PhotoURL = url
	p.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if err := s.cache.InvalidateDirectory(ctx); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("directory cache invalidation failed")
	}
	return p, nil
}
