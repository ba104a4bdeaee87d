package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// StatsHandler exposes the user_activity_stats view
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Activity lists per-user activity aggregates over active accounts
// GET /api/v1/stats/activity?page=1&page_size=20
func (h *StatsHandler) Activity(c *gin.Context) {
	page, pageSize := pagination(c)

	rows, total, err := h.statsService.ActivityPage(page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to load activity stats")
		return
	}
	response.SuccessPaginated(c, rows, total, page, pageSize)
}

// MyActivity returns the authenticated user's activity aggregate.
// Deactivated accounts are absent from the view and get a 404.
// GET /api/v1/stats/activity/me
func (h *StatsHandler) MyActivity(c *gin.Context) {
	row, err := h.statsService.ActivityForUser(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "no activity for user")
			return
		}
		response.InternalError(c, "failed to load activity stats")
		return
	}
	response.Success(c, row)
}

// RegisterRoutes registers stats routes
func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	statsGroup := rg.Group("/stats", authMiddleware)
	{
		statsGroup.GET("/activity", h.Activity)
		statsGroup.GET("/activity/me", h.MyActivity)
	}
}
