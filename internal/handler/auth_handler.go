package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/service"
)

// AuthHandler handles account and token requests
type AuthHandler struct {
	service service.AuthService
	cookies middleware.CookieSettings
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cookies middleware.CookieSettings) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// Register handles POST /auth/register
// @Summary Create an account and its profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "account"
// @Success 201 {object} common.APIResponse{data=domain.AuthResponse}
// @Failure 409 {object} common.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err, "Registration failed")
		return
	}

	middleware.SetRefreshCookie(c, resp.RefreshToken, h.cookies)
	common.Created(c, resp)
}

// Login handles POST /auth/login
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "credentials"
// @Success 200 {object} common.APIResponse{data=domain.AuthResponse}
// @Failure 401 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err, "Login failed")
		return
	}

	middleware.SetRefreshCookie(c, resp.RefreshToken, h.cookies)
	common.Success(c, resp)
}

// Refresh handles POST /auth/refresh
// The refresh token is read from the cookie, the X-Refresh-Token header or the body.
// @Summary Rotate the token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest false "refresh token"
// @Success 200 {object} common.APIResponse{data=domain.TokenPair}
// @Failure 401 {object} common.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshToken(c)
	if token == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "refresh token is required", nil)
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			middleware.ClearRefreshCookie(c, h.cookies)
		}
		common.Fail(c, err, "Token refresh failed")
		return
	}

	middleware.SetRefreshCookie(c, pair.RefreshToken, h.cookies)
	common.Success(c, pair)
}

// Logout handles POST /auth/logout
// @Summary Revoke the refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.refreshToken(c); token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			common.Fail(c, err, "Logout failed")
			return
		}
	}
	middleware.ClearRefreshCookie(c, h.cookies)
	common.Success(c, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.Identity}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := h.service.Identity(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, err, "Failed to load account")
		return
	}
	common.Success(c, id)
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(middleware.RefreshCookieName); err == nil && token != "" {
		return token
	}
	if token := c.GetHeader(middleware.RefreshHeaderName); token != "" {
		return token
	}
	var req domain.RefreshRequest
	if c.Request.ContentLength > 0 && c.ShouldBindJSON(&req) == nil {
		return req.RefreshToken
	}
	return ""
}
