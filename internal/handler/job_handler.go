package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
	"github.com/alumnet/alumnet-backend/pkg/ginutil"
)

// JobHandler handles job board requests
type JobHandler struct {
	service service.JobService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(service service.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// ListJobs handles GET /jobs
// @Summary Active job postings
// @Tags jobs
// @Produce json
// @Param keyword query string false "title, company or description"
// @Param job_type query string false "full-time, part-time, internship or contract"
// @Param page query int false "page"
// @Param per_page query int false "page size"
// @Success 200 {object} common.APIResponse{data=[]domain.JobWithPoster}
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, perPage := ginutil.Pagination(c, service.DefaultJobsPerPage, service.MaxJobsPerPage)
	q := domain.JobQuery{
		Keyword: c.Query("keyword"),
		JobType: domain.JobType(c.Query("job_type")),
		Page:    page,
		PerPage: perPage,
	}

	jobs, total, err := h.service.ListActive(c.Request.Context(), q)
	if err != nil {
		common.Fail(c, err, "Failed to list jobs")
		return
	}
	common.SuccessWithMeta(c, jobs, common.NewMeta(page, perPage, total))
}

// ListMyJobs handles GET /jobs/mine
// @Summary Postings of the caller
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.JobWithPoster}
// @Router /jobs/mine [get]
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.service.ListByPoster(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, err, "Failed to list jobs")
		return
	}
	common.Success(c, jobs)
}

// CreateJob handles POST /jobs
// @Summary Publish a posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateJobRequest true "posting"
// @Success 201 {object} common.APIResponse{data=domain.Job}
// @Failure 400 {object} common.APIResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req domain.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	job, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, err, "Failed to create job")
		return
	}
	common.Created(c, job)
}

// UpdateJob handles PUT /jobs/:id
// @Summary Edit own posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "job ID"
// @Param request body domain.UpdateJobRequest true "fields to change"
// @Success 200 {object} common.APIResponse{data=domain.Job}
// @Failure 403 {object} common.APIResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req domain.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	job, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.Fail(c, err, "Failed to update job")
		return
	}
	common.Success(c, job)
}

// DeactivateJob handles DELETE /jobs/:id
// @Summary Close own posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "job ID"
// @Success 200 {object} common.APIResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeactivateJob(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		common.Fail(c, err, "Failed to close job")
		return
	}
	common.Success(c, gin.H{"id": c.Param("id"), "is_active": false})
}
