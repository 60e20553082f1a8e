package routes

import (
	"net/http"
	"time"

	"tiketix/internal/auth"
	"tiketix/internal/bookings"
	"tiketix/internal/dashboard"
	"tiketix/internal/events"
	"tiketix/internal/notifications"
	"tiketix/internal/seats"
	"tiketix/internal/shared/config"
	"tiketix/internal/shared/database"
	"tiketix/pkg/cache"
	"tiketix/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
	log      *logger.Logger
}

// NewRouter creates a new router instance. producer may be nil when Kafka is
// disabled.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		log:      log,
	}
}

// SetupRoutes wires every feature package and registers its routes. The
// booking and seat services reference each other through narrow interfaces,
// so the booking service is injected into the seat service after both exist.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	var cacheService cache.Service
	if r.db.GetRedisClient() != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}

	// Events
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, r.config.Redis.ConcertRuleTTL)
	if cacheService != nil {
		eventService.SetCacheService(cacheService)
	}
	eventController := events.NewController(eventService)

	// Seats
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	var seatHolds *seats.SeatHolds
	if r.db.GetRedisClient() != nil {
		seatHolds = seats.NewSeatHolds(r.db.GetRedisClient())
	}
	seatService := seats.NewService(seatRepo, eventService, seatHolds, r.config.Redis.SeatHoldTTL)
	seatController := seats.NewController(seatService)

	// Bookings
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, eventService, r.producer, r.log)
	bookingController := bookings.NewController(bookingService)

	// The seat pre-check needs to see existing bookings.
	seatService.SetBookingChecker(bookingService)

	// Auth
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService, r.log)
	authRouter := auth.NewRouter(authController, r.config)

	// Dashboard
	dashboardRepo := dashboard.NewRepository(r.db.GetPostgreSQL())
	dashboardService := dashboard.NewService(dashboardRepo)
	dashboardController := dashboard.NewController(dashboardService)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authRouter.SetupRoutes(api)
		events.SetupEventRoutes(api, eventController)
		seats.SetupSeatRoutes(api, seatController)
		bookings.SetupBookingRoutes(api, bookingController)
		dashboard.SetupDashboardRoutes(api, dashboardController)
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
				"service":   "tiketix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tiketix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
