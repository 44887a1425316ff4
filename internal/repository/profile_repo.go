package repository

import (
	"context"
	"strings"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository profile data access interface
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Save(ctx context.Context, profile *domain.Profile) error
	Search(ctx context.Context, q domain.DirectoryQuery) ([]*domain.Profile, int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Profile, error)
	CountVisibleByRole(ctx context.Context, role domain.Role) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID finds a profile by its owner's id
func (r *profileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes every column of the profile
func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Search returns one page of searchable profiles matching q
func (r *profileRepository) Search(ctx context.Context, q domain.DirectoryQuery) ([]*domain.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("hidden_from_search = ?", false)

	// every name term must match the first or the last name
	for _, term := range strings.Fields(q.Name) {
		p := containsPattern(term)
		query = query.Where("(LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!')", p, p)
	}
	if q.GraduationYear != nil {
		query = query.Where("graduation_year = ?", *q.GraduationYear)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if s := strings.TrimSpace(q.Department); s != "" {
		query = query.Where("LOWER(department) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	if s := strings.TrimSpace(q.Company); s != "" {
		query = query.Where("LOWER(company) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	if s := strings.TrimSpace(q.Location); s != "" {
		// private locations are never searchable, alumni-only ones only by members
		if q.PublicLocationsOnly {
			query = query.Where("location_visibility = ?", domain.VisibilityPublic)
		} else {
			query = query.Where("location_visibility <> ?", domain.VisibilityPrivate)
		}
		query = query.Where("LOWER(location) LIKE ? ESCAPE '!'", containsPattern(s))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case domain.SortByName:
		query = query.Order("first_name ASC").Order("last_name ASC")
	case domain.SortByGraduationYear:
		query = query.Order("graduation_year DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var profiles []*domain.Profile
	offset := (q.Page - 1) * q.PerPage
	err := query.Order("id ASC").Offset(offset).Limit(q.PerPage).Find(&profiles).Error
	return profiles, total, err
}

// Recent returns the newest searchable profiles
func (r *profileRepository) Recent(ctx context.Context, limit int) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	err := r.db.WithContext(ctx).
		Where("hidden_from_search = ?", false).
		Order("created_at DESC").Order("id ASC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

// CountVisibleByRole counts searchable profiles of one role
func (r *profileRepository) CountVisibleByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("hidden_from_search = ? AND role = ?", false, role).
		Count(&n).Error
	return n, err
}
