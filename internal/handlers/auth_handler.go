package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

// AuthConfig carries the token-issuing settings for the auth handler.
type AuthConfig struct {
	JWTSecret        string
	JWTExpire        time.Duration
	CookieExpireDays int
	SecureCookie     bool
}

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	config      AuthConfig
}

func NewAuthHandler(authService services.AuthService, config AuthConfig, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		config:      config,
	}
}

// Register creates an account and issues a session token.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, user)
}

// Login verifies credentials and issues a session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please provide an email and password"))
		return
	}

	user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, user)
}

// Logout clears the token cookie.
// GET /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.config.SecureCookie, true)
	c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
}

// GetMe returns the authenticated user.
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewSuccessResponse(user))
}

// UpdateDetails changes the authenticated user's name or email.
// PUT /api/v1/auth/updatedetails
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	updated, err := h.authService.UpdateDetails(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSuccessResponse(updated))
}

// UpdatePassword changes the password after checking the current one, then
// issues a fresh token.
// PUT /api/v1/auth/updatepassword
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	updated, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, updated)
}

// ForgotPassword mails a reset link to the account's address.
// POST /api/v1/auth/forgotpassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	resetURLBase := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword", requestScheme(c), c.Request.Host)
	if err := h.authService.ForgotPassword(c.Request.Context(), &req, resetURLBase); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse("Email sent"))
}

// ResetPassword consumes a mailed reset token and issues a fresh session.
// PUT /api/v1/auth/resetpassword/:resettoken
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	user, err := h.authService.ResetPassword(c.Request.Context(), c.Param("resettoken"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, user)
}

// sendTokenResponse signs a session token, sets it as an http-only cookie
// and returns it in the body as well.
func (h *AuthHandler) sendTokenResponse(c *gin.Context, status int, user *models.User) {
	token, err := utils.NewSessionToken(h.config.JWTSecret, user.ID, h.config.JWTExpire)
	if err != nil {
		h.logger.Error("failed to sign session token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	maxAge := h.config.CookieExpireDays * 24 * 60 * 60
	c.SetCookie("token", token, maxAge, "/", "", h.config.SecureCookie, true)

	c.JSON(status, models.TokenResponse{Success: true, Token: token})
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
