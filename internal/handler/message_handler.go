package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// MessageHandler handles conversation requests.
// The caller is resolved by the service from the request context.
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// ListConversations handles GET /conversations
// @Summary Accepted connections with unread counts, most recently active first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.ConnectionSummary}
// @Router /conversations [get]
func (h *MessageHandler) ListConversations(c *gin.Context) {
	convs, err := h.service.FetchConnections(c.Request.Context())
	if err != nil {
		common.Fail(c, err, "Failed to load conversations")
		return
	}
	common.Success(c, convs)
}

// GetMessages handles GET /conversations/:connectionId/messages
// @Summary Full message history, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param connectionId path string true "connection ID"
// @Success 200 {object} common.APIResponse{data=[]domain.Message}
// @Failure 403 {object} common.APIResponse
// @Router /conversations/{connectionId}/messages [get]
func (h *MessageHandler) GetMessages(c *gin.Context) {
	msgs, err := h.service.FetchMessages(c.Request.Context(), c.Param("connectionId"))
	if err != nil {
		common.Fail(c, err, "Failed to load messages")
		return
	}
	common.Success(c, msgs)
}

// SendMessage handles POST /conversations/:connectionId/messages
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param connectionId path string true "connection ID"
// @Param request body domain.SendMessageRequest true "message"
// @Success 201 {object} common.APIResponse{data=domain.Message}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /conversations/{connectionId}/messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), c.Param("connectionId"), req.Content)
	if err != nil {
		common.Fail(c, err, "Failed to send message")
		return
	}
	common.Created(c, msg)
}

// MarkRead handles POST /conversations/:connectionId/read
// @Summary Mark the counterparty's messages as read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param connectionId path string true "connection ID"
// @Success 200 {object} common.APIResponse{data=domain.MarkReadResponse}
// @Router /conversations/{connectionId}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.service.MarkMessagesAsRead(c.Request.Context(), c.Param("connectionId"))
	if err != nil {
		common.Fail(c, err, "Failed to mark messages as read")
		return
	}
	common.Success(c, domain.MarkReadResponse{Updated: n})
}
