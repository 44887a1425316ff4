package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/session"
)

// Credential transport names
const (
	RefreshCookieName   = "refresh_token"
	RefreshHeaderName   = "X-Refresh-Token"
	AccessHeaderName    = "X-Access-Token"
	contextKeyUserID    = "userID"
	contextKeyUserRole  = "role"
	contextKeyUserEmail = "email"
)

// CookieSettings controls the refresh-token cookie
type CookieSettings struct {
	MaxAge int // seconds
	Secure bool
}

// SetRefreshCookie stores the refresh token as an HttpOnly cookie
func SetRefreshCookie(c *gin.Context, token string, cs CookieSettings) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, token, cs.MaxAge, "/", "", cs.Secure, true)
}

// ClearRefreshCookie expires the refresh-token cookie
func ClearRefreshCookie(c *gin.Context, cs CookieSettings) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", cs.Secure, true)
}

// Session attaches the caller's credentials to the request context and resolves
// the identity. Authentication is optional here; RequireAuth enforces it.
// When the access token has expired and a refresh token is present the session is
// rotated: the new access token is returned in X-Access-Token and the refresh cookie is replaced.
func Session(provider *session.Provider, cs CookieSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := BearerToken(c)
		if access == "" && websocket.IsWebSocketUpgrade(c.Request) {
			// browsers cannot set headers on the upgrade request
			access = c.Query("token")
		}
		refresh := c.GetHeader(RefreshHeaderName)
		if refresh == "" {
			refresh, _ = c.Cookie(RefreshCookieName)
		}

		if access == "" && refresh == "" {
			c.Next()
			return
		}

		ctx := session.WithCredentials(c.Request.Context(), access, refresh, func(s *session.Session) {
			c.Header(AccessHeaderName, s.AccessToken)
			SetRefreshCookie(c, s.RefreshToken, cs)
		})
		c.Request = c.Request.WithContext(ctx)

		if id := provider.CurrentUser(ctx); id != nil {
			setIdentity(c, id)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, id *domain.Identity) {
	c.Set(contextKeyUserID, id.ID)
	c.Set(contextKeyUserRole, string(id.Role))
	c.Set(contextKeyUserEmail, id.Email)
}

// RequireAuth rejects requests without a resolved identity
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, common.ErrNoSession.Error(), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// GetUserRole extracts the caller's role from context
func GetUserRole(c *gin.Context) string {
	return c.GetString(contextKeyUserRole)
}
