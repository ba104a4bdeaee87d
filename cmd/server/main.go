package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/config"
	"github.com/hedge-analytics/internal/database"
	"github.com/hedge-analytics/internal/handler"
	"github.com/hedge-analytics/internal/middleware"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/internal/service"
	"github.com/hedge-analytics/internal/worker"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create tables, routines, trigger and view
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	resetCodeRepo := repository.NewResetCodeRepository(db)
	cacheRepo := repository.NewCacheRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, settingsRepo, resetCodeRepo, cfg.JWT)
	settingsService := service.NewSettingsService(settingsRepo)
	marketService := service.NewMarketService(
		cacheRepo,
		rdb,
		service.NewSyntheticFetcher(),
		time.Duration(cfg.Market.CacheMinutes)*time.Minute,
	)
	analysisService := service.NewAnalysisService(analysisRepo, marketService)
	statsService := service.NewStatsService(statsRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(authService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	marketHandler := handler.NewMarketHandler(marketService, cfg.Market.Symbols)
	statsHandler := handler.NewStatsHandler(statsService)
	streamHandler := handler.NewStreamHandler(marketService)

	// Create Gin router
	router := gin.Default()
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	// Health check endpoint with dependency pings
	healthHandler := handler.NewHealthHandler(
		handler.BuildInfo{Version: Version, Commit: Commit, BuildTime: BuildTime},
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	)
	healthHandler.RegisterRoutes(router)

	// API v1 routes
	authMiddleware := middleware.AuthMiddleware(authService)
	v1 := router.Group("/api/v1")
	{
		// Public
		authHandler.RegisterRoutes(v1)
		marketHandler.RegisterRoutes(v1)
		streamHandler.RegisterRoutes(v1)

		// Protected
		accountHandler.RegisterRoutes(v1, authMiddleware)
		settingsHandler.RegisterRoutes(v1, authMiddleware)
		analysisHandler.RegisterRoutes(v1, authMiddleware)
		statsHandler.RegisterRoutes(v1, authMiddleware)
	}

	// Background workers: expired-row cleanup and market cache refresh
	cleanupWorker := worker.NewCleanupWorker(
		maintenanceRepo,
		time.Duration(cfg.Cleanup.IntervalMinutes)*time.Minute,
	)
	go cleanupWorker.Start()

	refreshWorker := worker.NewRefreshWorker(
		marketService,
		cfg.Market.Symbols,
		time.Duration(cfg.Market.RefreshMinutes)*time.Minute,
	)
	go refreshWorker.Start()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	cleanupWorker.Stop()
	refreshWorker.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
