package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// Directory page sizes
const (
	DefaultDirectoryPerPage = 20
	MaxDirectoryPerPage     = 50
)

// DirectoryService searchable alumni listing
type DirectoryService interface {
	Search(ctx context.Context, viewerID string, q domain.DirectoryQuery) (*domain.DirectoryPage, error)
}

type directoryService struct {
	repo  repository.ProfileRepository
	cache cache.Service
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(repo repository.ProfileRepository, cacheService cache.Service) DirectoryService {
	return &directoryService{repo: repo, cache: cacheService}
}

// NormalizeDirectoryQuery trims filters and clamps paging so equal searches share a cache key
func NormalizeDirectoryQuery(q domain.DirectoryQuery) domain.DirectoryQuery {
	q.Name = strings.ToLower(strings.Join(strings.Fields(q.Name), " "))
	q.Department = strings.ToLower(strings.TrimSpace(q.Department))
	q.Company = strings.ToLower(strings.TrimSpace(q.Company))
	q.Location = strings.ToLower(strings.TrimSpace(q.Location))

	switch q.Sort {
	case domain.SortByName, domain.SortByGraduationYear, domain.SortByCreatedAt:
	default:
		q.Sort = domain.SortByCreatedAt
	}
	if q.Role != "" && !q.Role.Valid() {
		q.Role = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultDirectoryPerPage
	}
	if q.PerPage > MaxDirectoryPerPage {
		q.PerPage = MaxDirectoryPerPage
	}
	return q
}

// Search returns one page of the directory with visibility applied for viewerID
func (s *directoryService) Search(ctx context.Context, viewerID string, q domain.DirectoryQuery) (*domain.DirectoryPage, error) {
	q = NormalizeDirectoryQuery(q)
	// a location filter must not reveal locations the viewer cannot read
	q.PublicLocationsOnly = viewerID == "" && q.Location != ""

	var page domain.DirectoryPage
	if err := s.cache.GetDirectory(ctx, q, &page); err != nil {
		profiles, total, err := s.repo.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search directory: %w", err)
		}
		page = domain.DirectoryPage{Profiles: profiles, Total: total, Page: q.Page, PerPage: q.PerPage}

		if err := s.cache.SetDirectory(ctx, q, &page); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("directory cache write failed")
		}
	}

	visible := make([]*domain.Profile, len(page.Profiles))
	for i, p := range page.Profiles {
		visible[i] = p.ApplyVisibility(viewerID)
	}
	return &domain.DirectoryPage{
		Profiles: visible,
		Total:    page.Total,
		Page:     page.Page,
		PerPage:  page.PerPage,
	}, nil
}
