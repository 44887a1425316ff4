package domain

import "time"

// JobType employment type of a posting
type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobInternship JobType = "internship"
	JobContract   JobType = "contract"
)

// Valid reports whether t is a known job type
func (t JobType) Valid() bool {
	switch t {
	case JobFullTime, JobPartTime, JobInternship, JobContract:
		return true
	}
	return false
}

// Job a job-board posting (jobs table)
type Job struct {
	CreatedAt      time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
	ID             string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	PostedBy       string    `gorm:"column:posted_by;type:varchar(36);not null;index" json:"posted_by"`
	Title          string    `gorm:"column:title;size:200;not null" json:"title"`
	Description    string    `gorm:"column:description;type:text;not null" json:"description"`
	Company        string    `gorm:"column:company;size:150;not null" json:"company"`
	Location       string    `gorm:"column:location;size:150" json:"location"`
	JobType        JobType   `gorm:"column:job_type;size:20;not null" json:"job_type"`
	ApplicationURL string    `gorm:"column:application_url;size:500" json:"application_url"`
	IsActive       bool      `gorm:"column:is_active;not null;index" json:"is_active"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobWithPoster job joined with the poster's display fields
type JobWithPoster struct {
	Job
	PosterFirstName string `gorm:"column:poster_first_name" json:"poster_first_name"`
	PosterLastName  string `gorm:"column:poster_last_name" json:"poster_last_name"`
	PosterPhotoURL  string `gorm:"column:poster_photo_url" json:"poster_photo_url"`
}

// CreateJobRequest new posting
type CreateJobRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Company        string  `json:"company" binding:"required"`
	Location       string  `json:"location"`
	JobType        JobType `json:"job_type" binding:"required" validate:"job_type"`
	ApplicationURL string  `json:"application_url"`
}

// UpdateJobRequest partial update; nil fields are untouched
type UpdateJobRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Company        *string  `json:"company"`
	Location       *string  `json:"location"`
	JobType        *JobType `json:"job_type" validate:"omitempty,job_type"`
	ApplicationURL *string  `json:"application_url"`
}

// JobQuery filters for the active job listing
type JobQuery struct {
	Keyword string  `json:"keyword,omitempty"`
	JobType JobType `json:"job_type,omitempty"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}
