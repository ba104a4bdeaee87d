package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// AccountHandler handles account API requests
type AccountHandler struct {
	authService *service.AuthService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(authService *service.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Me returns the authenticated user's account
// GET /api/v1/account/me
func (h *AccountHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load account")
		return
	}
	response.Success(c, user)
}

// ChangePassword replaces the authenticated user's password after
// verifying the current one
// POST /api/v1/account/password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.BadRequest(c, "current password is incorrect")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.InternalError(c, "failed to change password")
		}
		return
	}
	response.Success(c, gin.H{"message": "password changed"})
}

// Deactivate soft-disables the authenticated account
// POST /api/v1/account/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	if err := h.authService.DeactivateAccount(middleware.GetUserID(c)); err != nil {
		response.InternalError(c, "failed to deactivate account")
		return
	}
	response.Success(c, gin.H{"message": "account deactivated"})
}

// Delete removes the authenticated account and, via the cascade, its
// settings and analysis history
// DELETE /api/v1/account
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.authService.DeleteAccount(middleware.GetUserID(c)); err != nil {
		response.InternalError(c, "failed to delete account")
		return
	}
	response.Success(c, gin.H{"message": "account deleted"})
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	account := rg.Group("/account", authMiddleware)
	{
		account.GET("/me", h.Me)
		account.POST("/password", h.ChangePassword)
		account.POST("/deactivate", h.Deactivate)
		account.DELETE("", h.Delete)
	}
}
