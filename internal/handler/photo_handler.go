package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// PhotoHandler handles profile photo uploads
type PhotoHandler struct {
	service service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(service service.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// UploadPhoto handles POST /profiles/me/photo
// @Summary Upload own profile photo
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "JPEG, PNG, WebP or GIF, at most 5MB"
// @Success 200 {object} common.APIResponse{data=domain.Profile}
// @Failure 400 {object} common.APIResponse
// @Router /profiles/me/photo [post]
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	if file.Size > service.MaxPhotoSize {
		common.ErrorResponse(c, http.StatusBadRequest, "photo is too large", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "photo could not be read", nil)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxPhotoSize+1))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "photo could not be read", nil)
		return
	}

	p, err := h.service.UploadPhoto(c.Request.Context(), middleware.GetUserID(c), data)
	if err != nil {
		common.Fail(c, err, "Failed to upload photo")
		return
	}
	common.Success(c, p)
}
