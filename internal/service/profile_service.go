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
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/logger"
	"gorm.io/gorm"
)

const earliestGraduationYear = 1950

// ProfileService profile read/update with field visibility
type ProfileService interface {
	GetProfile(ctx context.Context, viewerID, profileID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, callerID string, req *domain.UpdateProfileRequest) (*domain.Profile, error)
}

type profileService struct {
	repo  repository.ProfileRepository
	cache cache.Service
	now   func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo repository.ProfileRepository, cacheService cache.Service) ProfileService {
	return &profileService{repo: repo, cache: cacheService, now: time.Now}
}

// GetProfile returns the profile as viewerID may see it ("" for anonymous)
func (s *profileService) GetProfile(ctx context.Context, viewerID, profileID string) (*domain.Profile, error) {
	p, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p.ApplyVisibility(viewerID), nil
}

// UpdateProfile applies a partial update to the caller's own profile
func (s *profileService) UpdateProfile(ctx context.Context, callerID string, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	applyProfileUpdate(p, req)
	p.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if err := s.cache.InvalidateDirectory(ctx); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("directory cache invalidation failed")
	}
	return p, nil
}

func (s *profileService) validate(req *domain.UpdateProfileRequest) error {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return fmt.Errorf("%w: first_name cannot be empty", common.ErrInvalidInput)
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return fmt.Errorf("%w: last_name cannot be empty", common.ErrInvalidInput)
	}
	if req.Role != nil && !req.Role.Valid() {
		return fmt.Errorf("%w: role must be student or alumni", common.ErrInvalidInput)
	}
	for field, v := range map[string]*domain.Visibility{
		"phone_visibility":    req.PhoneVisibility,
		"email_visibility":    req.EmailVisibility,
		"location_visibility": req.LocationVisibility,
	} {
		if v != nil && !v.Valid() {
			return fmt.Errorf("%w: %s must be public, alumni or private", common.ErrInvalidInput, field)
		}
	}
	if req.GraduationYear != nil {
		if err := validateGraduationYear(*req.GraduationYear, s.now()); err != nil {
			return err
		}
	}
	if req.CGPA != nil && (*req.CGPA < 0 || *req.CGPA > 10) {
		return fmt.Errorf("%w: cgpa out of range", common.ErrInvalidInput)
	}
	if req.ExperienceYears != nil && (*req.ExperienceYears < 0 || *req.ExperienceYears > 80) {
		return fmt.Errorf("%w: experience_years out of range", common.ErrInvalidInput)
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", *req.DateOfBirth); err != nil {
			return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", common.ErrInvalidInput)
		}
	}
	if req.LinkedInURL != nil {
		if err := common.ValidateLinkedInURL(*req.LinkedInURL); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
	}
	if req.PhotoURL != nil {
		if err := common.ValidateLink(*req.PhotoURL); err != nil {
			return fmt.Errorf("%w: photo_url: %v", common.ErrInvalidInput, err)
		}
	}
	return nil
}

func validateGraduationYear(year int, now time.Time) error {
	if year < earliestGraduationYear || year > now.Year()+10 {
		return fmt.Errorf("%w: graduation_year out of range", common.ErrInvalidInput)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func applyProfileUpdate(p *domain.Profile, req *domain.UpdateProfileRequest) {
	setString(&p.FirstName, req.FirstName)
	setString(&p.LastName, req.LastName)
	setString(&p.Phone, req.Phone)
	setString(&p.PhotoURL, req.PhotoURL)
	setString(&p.DateOfBirth, req.DateOfBirth)
	setString(&p.Gender, req.Gender)
	setString(&p.Degree, req.Degree)
	setString(&p.Department, req.Department)
	setString(&p.RollNumber, req.RollNumber)
	setString(&p.JobTitle, req.JobTitle)
	setString(&p.Company, req.Company)
	setString(&p.Industry, req.Industry)
	setString(&p.Location, req.Location)
	setString(&p.LinkedInURL, req.LinkedInURL)
	setString(&p.Bio, req.Bio)

	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.GraduationYear != nil {
		p.GraduationYear = req.GraduationYear
	}
	if req.CGPA != nil {
		p.CGPA = req.CGPA
	}
	if req.ExperienceYears != nil {
		p.ExperienceYears = req.ExperienceYears
	}
	if req.Achievements != nil {
		p.Achievements = *req.Achievements
	}
	if req.Skills != nil {
		p.Skills = *req.Skills
	}
	if req.Hobbies != nil {
		p.Hobbies = *req.Hobbies
	}
	if req.PhoneVisibility != nil {
		p.PhoneVisibility = *req.PhoneVisibility
	}
	if req.EmailVisibility != nil {
		p.EmailVisibility = *req.EmailVisibility
	}
	if req.LocationVisibility != nil {
		p.LocationVisibility = *req.LocationVisibility
	}
	if req.HiddenFromSearch != nil {
		p.HiddenFromSearch = *req.HiddenFromSearch
	}
}
