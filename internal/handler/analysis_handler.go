package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// AnalysisHandler handles analysis API requests
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// RunHedge runs a hedge-margin calculation
// POST /api/v1/analysis/hedge
func (h *AnalysisHandler) RunHedge(c *gin.Context) {
	var req service.HedgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.analysisService.RunHedgeCalculation(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			response.NotFound(c, "no price data for symbol")
			return
		}
		response.InternalError(c, "failed to run hedge calculation")
		return
	}
	response.Created(c, result)
}

// RunPriceStats runs a price-statistics analysis
// POST /api/v1/analysis/price-stats
func (h *AnalysisHandler) RunPriceStats(c *gin.Context) {
	var req service.PriceStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.analysisService.RunPriceStatistics(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			response.NotFound(c, "no price data for symbol")
			return
		}
		response.InternalError(c, "failed to run price statistics")
		return
	}
	response.Created(c, result)
}

// RunOptions prices a European option against the current market price
// POST /api/v1/analysis/options
func (h *AnalysisHandler) RunOptions(c *gin.Context) {
	var req service.OptionPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.analysisService.RunOptionPricing(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			response.NotFound(c, "no price data for symbol")
			return
		}
		response.InternalError(c, "failed to price option")
		return
	}
	response.Created(c, result)
}

// History lists the user's analysis runs, newest first
// GET /api/v1/analysis?page=1&page_size=20
func (h *AnalysisHandler) History(c *gin.Context) {
	page, pageSize := pagination(c)

	entries, total, err := h.analysisService.History(middleware.GetUserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to load analysis history")
		return
	}
	response.SuccessPaginated(c, entries, total, page, pageSize)
}

// Get returns one analysis run
// GET /api/v1/analysis/:id
func (h *AnalysisHandler) Get(c *gin.Context) {
	entry, err := h.analysisService.Get(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			response.NotFound(c, "analysis not found")
			return
		}
		response.InternalError(c, "failed to load analysis")
		return
	}
	response.Success(c, entry)
}

// Delete removes one analysis run
// DELETE /api/v1/analysis/:id
func (h *AnalysisHandler) Delete(c *gin.Context) {
	err := h.analysisService.Delete(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			response.NotFound(c, "analysis not found")
			return
		}
		response.InternalError(c, "failed to delete analysis")
		return
	}
	response.Success(c, gin.H{"message": "analysis deleted"})
}

// RegisterRoutes registers analysis routes
func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	analysis := rg.Group("/analysis", authMiddleware)
	{
		analysis.POST("/hedge", h.RunHedge)
		analysis.POST("/price-stats", h.RunPriceStats)
		analysis.POST("/options", h.RunOptions)
		analysis.GET("", h.History)
		analysis.GET("/:id", h.Get)
		analysis.DELETE("/:id", h.Delete)
	}
}

// pagination reads page/page_size query params with sane bounds
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
