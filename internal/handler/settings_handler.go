package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// SettingsHandler handles per-user settings API requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get returns the user's settings, creating defaults on first use
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to load settings")
		return
	}
	response.Success(c, settings)
}

// Update applies a partial settings update
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			response.NotFound(c, "settings not found")
			return
		}
		response.InternalError(c, "failed to update settings")
		return
	}
	response.Success(c, settings)
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	settings := rg.Group("/settings", authMiddleware)
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Update)
	}
}
