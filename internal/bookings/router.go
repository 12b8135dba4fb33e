package bookings

import (
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/middleware"
	"campusevents/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles auditorium booking routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new bookings router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
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
		// Organizers submit requests and track their own
		bookings.POST("", middleware.RequireOrganizer(), bookingRouter.controller.Submit)
		bookings.GET("/my", bookingRouter.controller.MyBookings)
		bookings.GET("/:bookingId", bookingRouter.controller.GetBooking)

		// Reviewers see the full queue and decide
		review := bookings.Group("")
		review.Use(middleware.RequireRoles(users.RoleOrganizer, users.RoleAuditoriumManager))
		{
			review.GET("", bookingRouter.controller.ListBookings)
			review.PATCH("/:bookingId/status", bookingRouter.controller.UpdateStatus)
		}
	}
}
