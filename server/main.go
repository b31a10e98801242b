package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"boxoffice/api/routes"
	"boxoffice/internal/bookings"
	"boxoffice/internal/notifications"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"
	"boxoffice/internal/shows"
	"boxoffice/pkg/logger"
	"boxoffice/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Rate Limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			ReportRequests:  cfg.RateLimit.ReportRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Booking notifications over Kafka. The broker is optional: when it is
	// disabled or unreachable the service runs without notifications.
	var notifier bookings.Notifier
	if cfg.Kafka.Enabled {
		producer, err := notifications.NewProducer(cfg.Kafka)
		if err != nil {
			appLogger.Error("Failed to initialize notification producer", slog.Any("error", err))
			appLogger.Info("Continuing without booking notifications")
		} else {
			notifier = producer
			defer func() {
				if err := producer.Close(); err != nil {
					appLogger.Error("Error closing notification producer", slog.Any("error", err))
				}
			}()

			consumer, err := notifications.NewConsumer(cfg.Kafka, notifications.NewLogEmailService())
			if err != nil {
				appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
			} else {
				consumer.Start(context.Background())
				defer func() {
					if err := consumer.Stop(); err != nil {
						appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
					}
				}()
			}
			appLogger.Info("Booking notifications enabled",
				slog.String("topic", cfg.Kafka.NotificationTopic))
		}
	} else {
		appLogger.Info("Kafka disabled, booking notifications off")
	}

	// Setup router with rate limiter
	router, appRouter := setupRouter(cfg, db, rateLimiter, notifier)

	// Show status scheduler: flips ACTIVE/HOUSE_FULL shows to SHOW_STARTED
	// at start time and SHOW_STARTED to SHOW_DONE after the running time.
	scheduler := shows.NewScheduler(appRouter.ShowService(), cfg.Booking.ShowPollInterval)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", notifier != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, notifier bookings.Notifier) (*gin.Engine, *routes.Router) {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	// CORS configuration
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, notifier)
	appRouter.SetupRoutes(engine)

	return engine, appRouter
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
