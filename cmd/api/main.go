package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/api"
	"github.com/babyname-machine/backend/internal/cache"
	"github.com/babyname-machine/backend/internal/cache/redis"
	"github.com/babyname-machine/backend/internal/dataset"
	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/internal/middleware/ratelimit"
	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/internal/storage/sqlite"
	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/config"
	appLogger "github.com/babyname-machine/backend/pkg/logger"
	"github.com/babyname-machine/backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Baby Names Machine API Server")

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	metrics.Init()

	table, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		appLogger.Fatal("Failed to load dataset", zap.String("path", cfg.Dataset.Path), zap.Error(err))
	}
	metrics.DatasetRows.Set(float64(table.Len()))

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var chartCache *cache.ChartCache
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, retry.DefaultConfig())
		if err != nil {
			appLogger.Warn("Redis unavailable, chart cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()

			// Cached charts are keyed by query only; drop those rendered from a previous dataset.
			if err := redisClient.Flush(ctx); err != nil {
				appLogger.Warn("Failed to clear chart cache", zap.Error(err))
			}
			chartCache = cache.NewChartCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		}
		cancel()
	}

	predictor := prediction.NewService(
		prediction.TransformerHandle(cfg.Model.TransformerPath),
		prediction.ClassifierHandle(cfg.Model.ClassifierPath),
	)

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.Named("ratelimit"),
	})
	defer limiter.Stop()

	app := api.NewApp(api.Deps{
		Server:            cfg.Server,
		Engine:            trends.NewEngine(table),
		Predictor:         predictor,
		ChartCache:        chartCache,
		TrendHistory:      sqliteClient,
		PredictionHistory: sqliteClient,
		RateLimiter:       limiter,
		RequestLogging:    true,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
