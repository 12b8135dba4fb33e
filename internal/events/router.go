package events

import (
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles event-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new events router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all event routes
func (eventRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		// Public routes (browsing requires no authentication)
		events.GET("", eventRouter.controller.ListEvents)
		events.GET("/upcoming", eventRouter.controller.UpcomingEvents)
		events.GET("/:eventId", eventRouter.controller.GetEvent)

		// Organizer routes
		organizer := events.Group("")
		organizer.Use(middleware.JWTAuthWithConfig(eventRouter.config), middleware.RequireOrganizer())
		{
			organizer.POST("", eventRouter.controller.CreateEvent)
			organizer.PUT("/:eventId", eventRouter.controller.UpdateEvent)
			organizer.DELETE("/:eventId", eventRouter.controller.DeleteEvent)
		}
	}
}
