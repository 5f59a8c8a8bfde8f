// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"villagestay/internal/auth"
	"villagestay/internal/bookings"
	"villagestay/internal/listings"
	"villagestay/internal/payments"
	"villagestay/internal/shared/config"
	"villagestay/internal/shared/database"
	"villagestay/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Services kept for cross-package wiring and background jobs
	listingService listings.Service
	bookingService bookings.Service
	paymentService payments.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Custom request validators must be registered before binding runs
	bookings.RegisterValidators()

	// Build services once so the booking/listing cross-wiring sticks
	r.buildServices()

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupListingRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAdminRoutes(api)
	}
}

// BookingService exposes the wired booking service for background jobs.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// PaymentService exposes the wired payment service for background jobs.
func (r *Router) PaymentService() payments.Service {
	return r.paymentService
}

// buildServices constructs the service graph. Listings and bookings
// reference each other (availability needs booking overlap, bookings
// need listing details), so construction order matters: build both,
// then inject the overlap checker.
func (r *Router) buildServices() {
	pg := r.db.GetPostgreSQL()

	listingRepo := listings.NewRepository(pg)
	r.listingService = listings.NewService(listingRepo)
	if r.db.Redis != nil {
		r.listingService.SetCache(cache.NewService(r.db.Redis))
	}

	paymentRepo := payments.NewRepository(pg)
	gateway := payments.NewMockGateway(r.config.Payment.SigningSecret)
	r.paymentService = payments.NewService(paymentRepo, gateway, payments.ServiceConfig{
		MaxRetries: r.config.Payment.MaxRetries,
	})

	bookingRepo := bookings.NewRepository(pg)
	locker := bookings.NewListingLocker(r.db.Redis)
	r.bookingService = bookings.NewService(bookingRepo, r.listingService, r.paymentService, locker, bookings.ServiceConfig{
		HoldTTL:        r.config.Booking.HoldTTL,
		ListingLockTTL: r.config.Redis.ListingLockTTL,
	})

	// Availability checks consult live bookings through this hook
	r.listingService.SetOverlapChecker(r.bookingService)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "villagestay-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "villagestay-backend",
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
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupListingRoutes configures listing and availability routes
func (r *Router) setupListingRoutes(rg *gin.RouterGroup) {
	listingController := listings.NewController(r.listingService)
	listingRouter := listings.NewRouter(listingController, r.config)

	listingRouter.SetupRoutes(rg)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingController := bookings.NewController(r.bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)

	bookingRouter.SetupRoutes(rg)
}

// setupAdminRoutes groups moderation and oversight endpoints under /admin
func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")

	listingController := listings.NewController(r.listingService)
	listingRouter := listings.NewRouter(listingController, r.config)
	listingRouter.SetupAdminRoutes(admin)

	bookingController := bookings.NewController(r.bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)
	bookingRouter.SetupAdminRoutes(admin)
}
