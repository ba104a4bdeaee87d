package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/pkg/response"
)

// MarketDataSource is the price lookup surface MarketHandler serves,
// satisfied by *service.MarketService
type MarketDataSource interface {
	GetPriceSeries(ctx context.Context, symbol string) ([]models.PricePoint, error)
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// MarketHandler handles market-data API requests
type MarketHandler struct {
	marketService MarketDataSource
	symbols       []string
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService MarketDataSource, symbols []string) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		symbols:       symbols,
	}
}

// Symbols lists the tracked symbols
// GET /api/v1/market/symbols
func (h *MarketHandler) Symbols(c *gin.Context) {
	response.Success(c, gin.H{"symbols": h.symbols})
}

// Prices returns the cached price series for a symbol
// GET /api/v1/market/:symbol/prices
func (h *MarketHandler) Prices(c *gin.Context) {
	symbol := c.Param("symbol")

	points, err := h.marketService.GetPriceSeries(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			response.NotFound(c, "no price data for symbol")
			return
		}
		response.InternalError(c, "failed to load price data")
		return
	}

	response.Success(c, gin.H{
		"symbol": symbol,
		"points": points,
	})
}

// Latest returns the newest cached price for a symbol
// GET /api/v1/market/:symbol/latest
func (h *MarketHandler) Latest(c *gin.Context) {
	symbol := c.Param("symbol")

	price, err := h.marketService.LatestPrice(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			response.NotFound(c, "no price data for symbol")
			return
		}
		response.InternalError(c, "failed to load price data")
		return
	}

	response.Success(c, gin.H{
		"symbol": symbol,
		"price":  price,
	})
}

// RegisterRoutes registers market-data routes
func (h *MarketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	market := rg.Group("/market")
	{
		market.GET("/symbols", h.Symbols)
		market.GET("/:symbol/prices", h.Prices)
		market.GET("/:symbol/latest", h.Latest)
	}
}
