package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// ConnectionHandler handles connection lifecycle requests.
// :userId is always the other member, never a connection ID.
type ConnectionHandler struct {
	service service.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(service service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// Connect handles POST /connections/:userId
// @Summary Send a connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "member to connect with"
// @Success 201 {object} common.APIResponse{data=domain.Connection}
// @Failure 409 {object} common.APIResponse
// @Router /connections/{userId} [post]
func (h *ConnectionHandler) Connect(c *gin.Context) {
	conn, err := h.service.Connect(c.Request.Context(), middleware.GetUserID(c), c.Param("userId"))
	if err != nil {
		common.Fail(c, err, "Failed to send connection request")
		return
	}
	common.Created(c, conn)
}

// Accept handles POST /connections/:userId/accept
// @Summary Accept a request received from userId
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "requester"
// @Success 200 {object} common.APIResponse{data=domain.Connection}
// @Failure 404 {object} common.APIResponse
// @Router /connections/{userId}/accept [post]
func (h *ConnectionHandler) Accept(c *gin.Context) {
	conn, err := h.service.Accept(c.Request.Context(), middleware.GetUserID(c), c.Param("userId"))
	if err != nil {
		common.Fail(c, err, "Failed to accept connection")
		return
	}
	common.Success(c, conn)
}

// Reject handles POST /connections/:userId/reject
// @Summary Reject a request received from userId
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "requester"
// @Success 200 {object} common.APIResponse
// @Router /connections/{userId}/reject [post]
func (h *ConnectionHandler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), middleware.GetUserID(c), c.Param("userId")); err != nil {
		common.Fail(c, err, "Failed to reject connection")
		return
	}
	common.Success(c, gin.H{"status": "rejected"})
}

// Remove handles DELETE /connections/:userId
// Withdraws a pending request or ends an accepted connection.
// @Summary Remove a connection
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "other member"
// @Success 200 {object} common.APIResponse
// @Router /connections/{userId} [delete]
func (h *ConnectionHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("userId")); err != nil {
		common.Fail(c, err, "Failed to remove connection")
		return
	}
	common.Success(c, gin.H{"status": "none"})
}

// Status handles GET /connections/:userId/status
// @Summary Connection state as seen by the caller
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "other member"
// @Success 200 {object} common.APIResponse{data=domain.ConnectionStatusResponse}
// @Router /connections/{userId}/status [get]
func (h *ConnectionHandler) Status(c *gin.Context) {
	st, err := h.service.Status(c.Request.Context(), middleware.GetUserID(c), c.Param("userId"))
	if err != nil {
		common.Fail(c, err, "Failed to load connection status")
		return
	}
	common.Success(c, st)
}

// PendingRequests handles GET /connections/requests
// @Summary Requests awaiting the caller's answer
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.ConnectionRequest}
// @Router /connections/requests [get]
func (h *ConnectionHandler) PendingRequests(c *gin.Context) {
	reqs, err := h.service.PendingRequests(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, err, "Failed to load connection requests")
		return
	}
	common.Success(c, reqs)
}
