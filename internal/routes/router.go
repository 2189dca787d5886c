package routes

import (
	"net/http"

	"buyback-logistics/internal/config"
	"buyback-logistics/internal/database"
	"buyback-logistics/internal/delivery/http/handler"
	"buyback-logistics/internal/infrastructure/database/postgres"
	"buyback-logistics/internal/logger"
	"buyback-logistics/internal/maps"
	"buyback-logistics/internal/middleware"
	"buyback-logistics/internal/usecase/distance"
	routeUsecase "buyback-logistics/internal/usecase/route"
	"buyback-logistics/internal/usecase/schedule"
	"buyback-logistics/pkg/cache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes wires repositories, services and handlers onto a gin engine.
// The publisher may be nil when the broker is disabled. The schedule service
// is returned alongside the engine so the caller can run slot maintenance.
func SetupRoutes(cfg *config.Config, db *database.DB, publisher schedule.EventPublisher) (*gin.Engine, *schedule.Service) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	var mapsClient *maps.Client
	if cfg.Maps.APIKey != "" {
		client, err := maps.NewClient(cfg.Maps)
		if err != nil {
			logger.Warn("Routing provider unavailable, falling back to estimates", zap.Error(err))
		} else {
			mapsClient = client
		}
	} else {
		logger.Warn("No routing provider API key configured, using estimates only")
	}

	slotRepository := postgres.NewSlotRepository(db)
	appointmentRepository := postgres.NewAppointmentRepository(db)
	routeRepository := postgres.NewRouteRepository(db)

	distanceService := distance.NewService(mapsClient, distance.NewBreaker(), cfg)
	scheduleService := schedule.NewService(slotRepository, appointmentRepository, publisher, cfg.Schedule)
	routeService := routeUsecase.NewService(routeRepository, appointmentRepository, mapsClient, cache.NewMemoryCache(), cfg)

	quoteHandler := handler.NewQuoteHandler(distanceService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	routeHandler := handler.NewRouteHandler(routeService)

	v1 := router.Group("/api/v1")
	{
		quoteHandler.RegisterRoutes(v1)
		scheduleHandler.RegisterRoutes(v1)
		routeHandler.RegisterRoutes(v1)

		admin := v1.Group("/admin")
		{
			scheduleHandler.RegisterAdminRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router, scheduleService
}
