package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/babyname-machine/backend/internal/api/handlers"
	"github.com/babyname-machine/backend/internal/cache"
	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/internal/middleware/ratelimit"
	"github.com/babyname-machine/backend/internal/middleware/security"
	"github.com/babyname-machine/backend/internal/middleware/validation"
	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/config"
)

// Deps are the components the HTTP surface is built from. ChartCache,
// the history stores and RateLimiter may be nil.
type Deps struct {
	Server            config.ServerConfig
	Engine            *trends.Engine
	Predictor         *prediction.Service
	ChartCache        *cache.ChartCache
	TrendHistory      handlers.TrendHistory
	PredictionHistory handlers.PredictionHistory
	RateLimiter       *ratelimit.RateLimiter
	RequestLogging    bool
}

func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(deps.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(deps.Server.WriteTimeout) * time.Second,
		BodyLimit:    deps.Server.BodyLimit,
	})

	app.Use(recover.New())
	if deps.RequestLogging {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(deps.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: deps.Server.AllowedOrigins,
		IsDevelopment:  deps.Server.Development,
	}))

	homeHandler := handlers.NewHomeHandler(deps.Engine.Table(), deps.Predictor)
	trendsHandler := handlers.NewTrendsHandler(deps.Engine, deps.ChartCache, deps.TrendHistory)
	predictionHandler := handlers.NewPredictionHandler(deps.Predictor, deps.PredictionHistory)
	wsHandler := handlers.NewWebSocketHandler(deps.Engine)

	app.Get("/metrics", metrics.MetricsHandler())

	api := app.Group("/api/v1")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	api.Use(validation.ContentType())

	api.Get("/pages", homeHandler.GetPages)
	api.Get("/home", homeHandler.GetHome)

	api.Get("/trends/metrics", trendsHandler.GetMetrics)
	api.Post("/trends", trendsHandler.HandleTrends)
	api.Get("/trends/history", trendsHandler.GetHistory)

	api.Post("/predictions", predictionHandler.HandlePredict)
	api.Get("/predictions/history", predictionHandler.GetHistory)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})
	api.Get("/ready", homeHandler.Ready)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/trends", websocket.New(wsHandler.HandleConnection))

	return app
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
