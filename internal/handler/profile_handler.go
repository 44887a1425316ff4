package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// ProfileHandler handles profile requests
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /profiles/:id
// Contact fields are filtered by the viewer's access level.
// @Summary Member profile
// @Tags profiles
// @Produce json
// @Param id path string true "profile ID"
// @Success 200 {object} common.APIResponse{data=domain.Profile}
// @Failure 404 {object} common.APIResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.Fail(c, err, "Failed to load profile")
		return
	}
	common.Success(c, p)
}

// GetMyProfile handles GET /profiles/me
// @Summary Own profile including private fields
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.Profile}
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.service.GetProfile(c.Request.Context(), userID, userID)
	if err != nil {
		common.Fail(c, err, "Failed to load profile")
		return
	}
	common.Success(c, p)
}

// UpdateMyProfile handles PUT /profiles/me
// @Summary Update own profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.UpdateProfileRequest true "fields to change"
// @Success 200 {object} common.APIResponse{data=domain.Profile}
// @Failure 400 {object} common.APIResponse
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, err, "Failed to update profile")
		return
	}
	common.Success(c, p)
}
