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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job listing page sizes
const (
	DefaultJobsPerPage = 20
	MaxJobsPerPage     = 50
)

// JobService job-board business logic
type JobService interface {
	Create(ctx context.Context, callerID string, req *domain.CreateJobRequest) (*domain.Job, error)
	ListActive(ctx context.Context, q domain.JobQuery) ([]*domain.JobWithPoster, int64, error)
	ListByPoster(ctx context.Context, posterID string) ([]*domain.JobWithPoster, error)
	Update(ctx context.Context, callerID, jobID string, req *domain.UpdateJobRequest) (*domain.Job, error)
	Deactivate(ctx context.Context, callerID, jobID string) error
}

type jobService struct {
	repo repository.JobRepository
	now  func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(repo repository.JobRepository) JobService {
	return &jobService{repo: repo, now: time.Now}
}

// Create publishes a new active posting
func (s *jobService) Create(ctx context.Context, callerID string, req *domain.CreateJobRequest) (*domain.Job, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}

	job := &domain.Job{
		ID:             uuid.NewString(),
		PostedBy:       callerID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Company:        strings.TrimSpace(req.Company),
		Location:       strings.TrimSpace(req.Location),
		JobType:        req.JobType,
		ApplicationURL: strings.TrimSpace(req.ApplicationURL),
		IsActive:       true,
	}
	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func validateJob(job *domain.Job) error {
	switch {
	case job.Title == "":
		return fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	case job.Description == "":
		return fmt.Errorf("%w: description is required", common.ErrInvalidInput)
	case job.Company == "":
		return fmt.Errorf("%w: company is required", common.ErrInvalidInput)
	case !job.JobType.Valid():
		return fmt.Errorf("%w: job_type must be full-time, part-time, internship or contract", common.ErrInvalidInput)
	}
	if err := common.ValidateLink(job.ApplicationURL); err != nil {
		return fmt.Errorf("%w: application_url: %v", common.ErrInvalidInput, err)
	}
	return nil
}

// ListActive returns one page of active postings, newest first
func (s *jobService) ListActive(ctx context.Context, q domain.JobQuery) ([]*domain.JobWithPoster, int64, error) {
	if q.JobType != "" && !q.JobType.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown job_type %q", common.ErrInvalidInput, q.JobType)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > MaxJobsPerPage {
		q.PerPage = DefaultJobsPerPage
	}

	jobs, total, err := s.repo.ListActive(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, total, nil
}

// ListByPoster returns the active postings of one member
func (s *jobService) ListByPoster(ctx context.Context, posterID string) ([]*domain.JobWithPoster, error) {
	jobs, err := s.repo.ListByPoster(ctx, posterID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Update edits a posting; only its poster may do so
func (s *jobService) Update(ctx context.Context, callerID, jobID string, req *domain.UpdateJobRequest) (*domain.Job, error) {
	job, err := s.owned(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}

	setString(&job.Title, req.Title)
	setString(&job.Description, req.Description)
	setString(&job.Company, req.Company)
	setString(&job.Location, req.Location)
	setString(&job.ApplicationURL, req.ApplicationURL)
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if err := validateJob(job); err != nil {
		return nil, err
	}
	job.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Deactivate hides a posting from listings; the row is kept
func (s *jobService) Deactivate(ctx context.Context, callerID, jobID string) error {
	job, err := s.owned(ctx, callerID, jobID)
	if err != nil {
		return err
	}
	if !job.IsActive {
		return nil
	}

	job.IsActive = false
	job.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, job); err != nil {
		return fmt.Errorf("deactivate job: %w", err)
	}
	return nil
}

func (s *jobService) owned(ctx context.Context, callerID, jobID string) (*domain.Job, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job.PostedBy != callerID {
		return nil, common.ErrForbidden
	}
	return job, nil
}
