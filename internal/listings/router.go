package listings

import (
	"villagestay/internal/shared/config"
	"villagestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles listing-related routes
type Router struct {
	controller Controller
	config     *config.Config
}

// NewRouter creates a new listing router
func NewRouter(controller Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all listing routes
func (listingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings")
	{
		// Public routes (no authentication required)
		listings.GET("", listingRouter.controller.ListListings)
		listings.GET("/:id", listingRouter.controller.GetListing)
		listings.GET("/:id/availability", listingRouter.controller.CheckAvailability)

		// Host routes (host role required)
		host := listings.Group("")
		host.Use(middleware.JWTAuthWithConfig(listingRouter.config))
		host.Use(middleware.RequireHost())
		{
			host.POST("", listingRouter.controller.CreateListing)
			host.GET("/mine", listingRouter.controller.GetMyListings)
			host.PUT("/:id", listingRouter.controller.UpdateListing)
			host.DELETE("/:id", listingRouter.controller.DeleteListing)
			host.POST("/:id/availability", listingRouter.controller.UpdateAvailability)
		}
	}
}

// SetupAdminRoutes registers listing moderation routes under the admin group
func (listingRouter *Router) SetupAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/listings")
	admin.Use(middleware.JWTAuthWithConfig(listingRouter.config))
	admin.Use(middleware.RequireAdmin())
	{
		admin.PUT("/:id/approve", listingRouter.controller.ApproveListing)
		admin.PUT("/:id/reject", listingRouter.controller.RejectListing)
	}
}
