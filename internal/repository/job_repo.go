package repository

import (
	"context"
	"strings"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"gorm.io/gorm"
)

// JobRepository job-board data access interface
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	Save(ctx context.Context, job *domain.Job) error
	ListActive(ctx context.Context, q domain.JobQuery) ([]*domain.JobWithPoster, int64, error)
	ListByPoster(ctx context.Context, posterID string) ([]*domain.JobWithPoster, error)
	CountActive(ctx context.Context) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create inserts a posting
func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a posting, active or not
func (r *jobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Save writes every column of the posting
func (r *jobRepository) Save(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) activeWithPoster(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("jobs AS j").
		Joins("LEFT JOIN profiles AS p ON p.id = j.posted_by").
		Where("j.is_active = ?", true)
}

const jobWithPosterColumns = `j.*,
	COALESCE(p.first_name, '') AS poster_first_name,
	COALESCE(p.last_name, '') AS poster_last_name,
	COALESCE(p.photo_url, '') AS poster_photo_url`

// ListActive returns one page of active postings, newest first
func (r *jobRepository) ListActive(ctx context.Context, q domain.JobQuery) ([]*domain.JobWithPoster, int64, error) {
	query := r.activeWithPoster(ctx)
	if q.JobType != "" {
		query = query.Where("j.job_type = ?", q.JobType)
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		p := containsPattern(kw)
		query = query.Where("(LOWER(j.title) LIKE ? ESCAPE '!' OR LOWER(j.company) LIKE ? ESCAPE '!' OR LOWER(j.description) LIKE ? ESCAPE '!')", p, p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*domain.JobWithPoster, 0)
	offset := (q.Page - 1) * q.PerPage
	err := query.Select(jobWithPosterColumns).
		Order("j.created_at DESC").Order("j.id ASC").
		Offset(offset).Limit(q.PerPage).
		Scan(&jobs).Error
	return jobs, total, err
}

// ListByPoster returns the active postings of one member, newest first
func (r *jobRepository) ListByPoster(ctx context.Context, posterID string) ([]*domain.JobWithPoster, error) {
	jobs := make([]*domain.JobWithPoster, 0)
	err := r.activeWithPoster(ctx).
		Select(jobWithPosterColumns).
		Where("j.posted_by = ?", posterID).
		Order("j.created_at DESC").Order("j.id ASC").
		Scan(&jobs).Error
	return jobs, err
}

// CountActive counts active postings
func (r *jobRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
