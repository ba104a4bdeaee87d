package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "username already taken")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "email already taken")
			return
		}
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, gin.H{
		"user_id":           user.UserID,
		"username":          user.Username,
		"email":             user.Email,
		"subscription_tier": user.SubscriptionTier,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, token)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	response.Success(c, token)
}

// RequestReset issues a password-reset code
// POST /api/v1/auth/reset/request
//
// The code is returned in the response body; mail delivery is the
// caller's concern.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req service.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	code, err := h.authService.RequestPasswordReset(&req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		if errors.Is(err, service.ErrEmailMismatch) {
			response.BadRequest(c, "email does not match")
			return
		}
		response.InternalError(c, "failed to create reset code")
		return
	}

	response.Created(c, gin.H{
		"reset_code": code,
		"expires_in": int(service.ResetCodeTTL.Seconds()),
	})
}

// ConfirmReset redeems a reset code and sets a new password
// POST /api/v1/auth/reset/confirm
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req service.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ConfirmPasswordReset(&req); err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			response.BadRequest(c, "invalid or expired reset code")
			return
		}
		response.InternalError(c, "failed to reset password")
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/reset/request", h.RequestReset)
		auth.POST("/reset/confirm", h.ConfirmReset)
	}
}
