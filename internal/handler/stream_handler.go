package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/service"
)

const streamPingInterval = 30 * time.Second

// StreamHandler pushes market cache refreshes to WebSocket clients
type StreamHandler struct {
	marketService *service.MarketService
	upgrader      websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(marketService *service.MarketService) *StreamHandler {
	return &StreamHandler{
		marketService: marketService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream upgrades the connection and forwards every SeriesUpdate until
// the client disconnects
// GET /api/v1/market/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.LogError("stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := h.marketService.Subscribe()
	defer h.marketService.Unsubscribe(updates)

	// Reader goroutine only to detect client close
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// RegisterRoutes registers the stream route
func (h *StreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/market/stream", h.Stream)
}
