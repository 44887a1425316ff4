package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/ws"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// WSHandler upgrades signed-in clients to the realtime event stream
type WSHandler struct {
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. allowedOrigins is comma-separated.
func NewWSHandler(hub *ws.Hub, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func parseOrigins(origins string) []string {
	var result []string
	for _, p := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// upgradeHeader picks the headers set earlier in the chain that must ride on the 101.
// The upgrader writes only what it is given, so a session rotated by middleware.Session
// would otherwise lose its new refresh cookie and access token.
func upgradeHeader(pending http.Header) http.Header {
	out := http.Header{}
	for _, k := range []string{"Set-Cookie", middleware.AccessHeaderName} {
		if v := pending.Values(k); len(v) > 0 {
			out[http.CanonicalHeaderKey(k)] = v
		}
	}
	return out
}

// Connect handles GET /ws
// Browsers pass the access token as ?token= since they cannot set headers on the upgrade.
// @Summary Realtime event stream
// @Tags realtime
// @Param token query string false "access token"
// @Router /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, common.ErrNoSession.Error(), nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, upgradeHeader(c.Writer.Header()))
	if err != nil {
		logger.GetLogger().Debug().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	middleware.TrackRealtimeConnection(1)

	go client.WritePump()
	go func() {
		client.ReadPump()
		middleware.TrackRealtimeConnection(-1)
	}()
}
