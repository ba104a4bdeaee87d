package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Pinger checks one dependency
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness plus the state of the database and
// Redis connections
type HealthHandler struct {
	build     BuildInfo
	dbPing    Pinger
	redisPing Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(build BuildInfo, dbPing, redisPing Pinger) *HealthHandler {
	return &HealthHandler{
		build:     build,
		dbPing:    dbPing,
		redisPing: redisPing,
	}
}

// Health pings each dependency and reports per-dependency status.
// Any failing dependency degrades the overall status to 503.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK

	dbStatus := pingStatus(ctx, h.dbPing)
	redisStatus := pingStatus(ctx, h.redisPing)
	if dbStatus != "ok" || redisStatus != "ok" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":     status,
		"database":   dbStatus,
		"redis":      redisStatus,
		"version":    h.build.Version,
		"commit":     h.build.Commit,
		"build_time": h.build.BuildTime,
		"time":       time.Now().Unix(),
	})
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
}

func pingStatus(ctx context.Context, ping Pinger) string {
	if ping == nil {
		return "unknown"
	}
	if err := ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
