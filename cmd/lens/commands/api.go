package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/api"
	"github.com/tradelens/backend/internal/api/handlers"
	"github.com/tradelens/backend/internal/realtime"
	"github.com/tradelens/backend/internal/report"
	"github.com/tradelens/backend/internal/scheduler"
	"github.com/tradelens/backend/internal/scheduler/jobs"
	"github.com/tradelens/backend/internal/trades"
	"github.com/tradelens/backend/pkg/config"
	"github.com/tradelens/backend/pkg/database"
	"github.com/tradelens/backend/pkg/logger"
	"github.com/tradelens/backend/pkg/redis"
)

// auditRetainDays is how long compute-run audit rows are kept
const auditRetainDays = 90

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the analytics API server",
	Long: `Starts the REST API server with the refresh hub and the
background scheduler.

Endpoints:
  GET  /health                     - Health check
  GET  /api/analytics/summary      - Full behavioral summary
  GET  /api/analytics/timeline     - Daily equity and weekday stats
  GET  /api/analytics/heatmap      - Time-of-week and symbol heatmaps
  POST /api/analytics/whatif       - What-if simulation
  POST /api/analytics/invalidate   - Drop a user's cached reports
  GET  /api/analytics/runs         - Recent compute runs
  GET  /ws/refresh                 - WebSocket refresh notifications

Example:
  go run ./cmd/lens api
  go run ./cmd/lens api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeLens API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to redis (optional)
	redisClient, err := redis.New(cfg)
	if err != nil {
		// Cache and rate limiting degrade gracefully without redis
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	var cache *redis.Cache
	var limiter *redis.RateLimiter
	if redisClient != nil && redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "analytics")
		limiter = redis.NewRateLimiter(redisClient, "ratelimit")
	}

	// 5. Load the analytics profile
	profile, profileHash, err := loadProfile(cfg, log)
	if err != nil {
		return err
	}
	log.WithField("profile_hash", profileHash[:12]).Info("Analytics profile loaded")

	// 6. Build the engine and services
	facade := analytics.NewFacade(profile, log)
	tradeRepo := trades.NewRepository(db.Pool)
	runRepo := report.NewRepository(db.Pool)
	service := report.NewService(tradeRepo, facade, cache, runRepo, profileHash, profile.Compute.CacheTTL(), log)

	// 7. Refresh hub: at most one notification per user per 2 seconds
	hub := realtime.NewHub(0.5, 1, log)

	// 8. Router and server
	analyticsHandler := handlers.NewAnalyticsHandler(service, runRepo, hub, log)
	router := api.NewRouter(analyticsHandler, hub, limiter, cfg.Analytics.RateLimitPerMin, log)
	server := api.New(cfg, log, router)

	// 9. Background jobs
	sched := scheduler.New(log)
	if cfg.Analytics.PrecomputeEnabled {
		if err := sched.AddJob(jobs.NewPrecomputeJob(tradeRepo, service, hub, log)); err != nil {
			return fmt.Errorf("register precompute job: %w", err)
		}
	}
	if err := sched.AddJob(jobs.NewRetentionJob(runRepo, auditRetainDays, log)); err != nil {
		return fmt.Errorf("register retention job: %w", err)
	}
	sched.Start()

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Shutdown(ctx)
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
