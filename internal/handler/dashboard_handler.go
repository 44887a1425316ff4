package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// DashboardHandler serves the signed-in landing page data
type DashboardHandler struct {
	service service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /dashboard
// @Summary Network counters and recent activity
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.DashboardStats}
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, err, "Failed to load dashboard")
		return
	}
	common.Success(c, stats)
}
