package bookings

import (
	"villagestay/internal/shared/config"
	"villagestay/internal/shared/middleware"
	"villagestay/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles booking-related routes
type Router struct {
	controller Controller
	config     *config.Config
}

// NewRouter creates a new booking router
func NewRouter(controller Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all booking routes
func (bookingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	{
		// Guest routes
		tourist := bookings.Group("")
		tourist.Use(middleware.RequireTourist())
		{
			tourist.POST("", bookingRouter.controller.CreateBooking)
			tourist.POST("/:id/payment", bookingRouter.controller.CompletePayment)
		}

		// Any booking party
		bookings.GET("/mine", bookingRouter.controller.GetMyBookings)
		bookings.GET("/:id", bookingRouter.controller.GetBooking)
		bookings.PUT("/:id/cancel", bookingRouter.controller.CancelBooking)

		// Host routes
		host := bookings.Group("")
		host.Use(middleware.RequireHost())
		{
			host.GET("/hosting", bookingRouter.controller.GetHostBookings)
		}

		// Completion is host-or-admin; the service checks ownership.
		complete := bookings.Group("")
		complete.Use(middleware.RequireRoles(string(users.RoleHost), string(users.RoleAdmin)))
		{
			complete.PUT("/:id/complete", bookingRouter.controller.CompleteBooking)
		}
	}
}

// SetupAdminRoutes registers booking oversight routes under the admin group
func (bookingRouter *Router) SetupAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/bookings")
	admin.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", bookingRouter.controller.GetAllBookings)
	}
}
