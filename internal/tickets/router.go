package tickets

import (
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles ticket-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new tickets router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all ticket routes
func (ticketRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuthWithConfig(ticketRouter.config))
	{
		tickets.POST("/register", ticketRouter.controller.Register)
		tickets.GET("/my", ticketRouter.controller.MyTickets)
		tickets.GET("/:ticketId", ticketRouter.controller.GetTicket)
		tickets.DELETE("/:ticketId", ticketRouter.controller.CancelTicket)
	}
}
