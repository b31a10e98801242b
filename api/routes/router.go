package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/auth"
	"boxoffice/internal/bookings"
	"boxoffice/internal/customers"
	"boxoffice/internal/layouts"
	"boxoffice/internal/reports"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"
	"boxoffice/internal/shows"
	"boxoffice/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier bookings.Notifier

	cacheService cache.Service
	layoutRepo   layouts.Repository
	showService  shows.Service
}

// NewRouter creates a new router instance. The notifier may be nil when the
// event broker is disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Layouts come before shows and bookings: both depend on the
		// layout repository.
		r.setupLayoutRoutes(api)
		r.setupShowRoutes(api)

		r.setupCustomerRoutes(api)
		r.setupBookingRoutes(api)
		r.setupReportRoutes(api)
	}
}

// ShowService exposes the show service so the caller can run the status
// scheduler against the same instance the handlers use.
func (r *Router) ShowService() shows.Service {
	return r.showService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "boxoffice",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boxoffice",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.RegisterRoutes(rg, authController, r.config)
}

// setupLayoutRoutes configures venue layout management routes
func (r *Router) setupLayoutRoutes(rg *gin.RouterGroup) {
	layoutRepo := layouts.NewRepository(r.db.GetPostgreSQL())
	layoutService := layouts.NewService(layoutRepo, r.cacheService)
	layoutController := layouts.NewController(layoutService)

	// Kept for the show and booking services below.
	r.layoutRepo = layoutRepo

	layouts.RegisterRoutes(rg, layoutController, r.config)
}

// setupShowRoutes configures show management routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	showService := shows.NewService(showRepo, r.layoutRepo, r.cacheService)
	showController := shows.NewController(showService)

	r.showService = showService

	shows.RegisterRoutes(rg, showController, r.config)
}

// setupCustomerRoutes configures customer management routes
func (r *Router) setupCustomerRoutes(rg *gin.RouterGroup) {
	customerRepo := customers.NewRepository(r.db.GetPostgreSQL())
	customerService := customers.NewService(customerRepo)
	customerController := customers.NewController(customerService)

	customers.RegisterRoutes(rg, customerController, r.config)
}

// setupBookingRoutes configures the booking transaction routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo,
		r.showService,
		r.layoutRepo,
		r.cacheService,
		r.notifier,
		r.config.Booking.LockWaitTimeout,
	)
	bookingController := bookings.NewController(bookingService)

	bookings.RegisterRoutes(rg, bookingController, r.config)
}

// setupReportRoutes configures reporting routes
func (r *Router) setupReportRoutes(rg *gin.RouterGroup) {
	reportRepo := reports.NewRepository(r.db.GetPostgreSQL())
	reportService := reports.NewService(reportRepo)
	reportController := reports.NewController(reportService)

	reports.RegisterRoutes(rg, reportController, r.config)
}
