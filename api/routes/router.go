package routes

import (
	"context"
	"net/http"
	"time"

	"campusevents/internal/auth"
	"campusevents/internal/bookings"
	"campusevents/internal/events"
	"campusevents/internal/notifications"
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/database"
	"campusevents/internal/tickets"
	"campusevents/pkg/cache"
	"campusevents/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	log           *logger.Logger
	notifications notifications.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, notificationService notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		log:           log,
		notifications: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authService := r.setupAuthRoutes(api)
		r.setupEventAndTicketRoutes(api)
		r.setupBookingRoutes(api, authService)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "campusevents-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "campusevents-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication and user management routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) auth.Service {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
	return authService
}

// setupEventAndTicketRoutes wires events and tickets together: the event
// service reads seat counts through the ticket ledger.
func (r *Router) setupEventAndTicketRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.PostgreSQL)
	eventService := events.NewService(eventRepo, r.log)

	if r.db.Redis != nil {
		eventService.SetCacheService(cache.NewService(r.db.Redis))
	}

	ticketRepo := tickets.NewRepository(r.db.PostgreSQL)

	var qrGenerator tickets.ArtifactGenerator
	if r.config.QR.Enabled {
		qrGenerator = tickets.NewQRGenerator(r.config.QR.OutputDir)
	}

	ticketService := tickets.NewService(ticketRepo, qrGenerator, r.log)
	if r.notifications != nil {
		ticketService.SetNotifier(r.notifications)
	}

	// Derived seat counts flow from tickets into event responses
	eventService.SetTicketLedger(ticketRepo)

	eventController := events.NewController(eventService)
	events.NewRouter(eventController, r.config).SetupRoutes(rg)

	ticketController := tickets.NewController(ticketService)
	tickets.NewRouter(ticketController, r.config).SetupRoutes(rg)
}

// setupBookingRoutes configures auditorium booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, authService auth.Service) {
	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)
	bookingService := bookings.NewService(bookingRepo, r.config.Auditorium, r.log)

	if r.notifications != nil {
		bookingService.SetNotifier(r.notifications)
		bookingService.SetAccountDirectory(&accountDirectory{auth: authService})
	}

	bookingController := bookings.NewController(bookingService)
	bookings.NewRouter(bookingController, r.config).SetupRoutes(rg)
}

// accountDirectory adapts the auth service to the booking package's
// recipient lookup
type accountDirectory struct {
	auth auth.Service
}

func (d *accountDirectory) EmailFor(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := d.auth.GetUser(ctx, userID.String())
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
