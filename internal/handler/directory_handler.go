package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
	"github.com/alumnet/alumnet-backend/pkg/ginutil"
)

// DirectoryHandler handles alumni directory search
type DirectoryHandler struct {
	service service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Search handles GET /directory
// @Summary Search the alumni directory
// @Tags directory
// @Produce json
// @Param name query string false "first or last name"
// @Param graduation_year query int false "exact graduation year"
// @Param department query string false "department contains"
// @Param company query string false "company contains"
// @Param location query string false "location contains"
// @Param role query string false "student or alumni"
// @Param sort query string false "name, graduation_year or created_at"
// @Param page query int false "page"
// @Param per_page query int false "page size (max 50)"
// @Success 200 {object} common.APIResponse{data=[]domain.Profile}
// @Router /directory [get]
func (h *DirectoryHandler) Search(c *gin.Context) {
	page, perPage := ginutil.Pagination(c, service.DefaultDirectoryPerPage, service.MaxDirectoryPerPage)
	q := domain.DirectoryQuery{
		Name:       c.Query("name"),
		Department: c.Query("department"),
		Company:    c.Query("company"),
		Location:   c.Query("location"),
		Role:       domain.Role(c.Query("role")),
		Sort:       c.Query("sort"),
		Page:       page,
		PerPage:    perPage,
	}
	if year := ginutil.QueryInt(c, "graduation_year", 0); year > 0 {
		q.GraduationYear = &year
	}

	result, err := h.service.Search(c.Request.Context(), middleware.GetUserID(c), q)
	if err != nil {
		common.Fail(c, err, "Directory search failed")
		return
	}
	common.SuccessWithMeta(c, result.Profiles, common.NewMeta(result.Page, result.PerPage, result.Total))
}
