// Package server wires the HTTP layer: router, middleware chain,
// repositories, handlers and route groups.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/auth"
	"github.com/gravadigital/lineup-api/internal/config"
	"github.com/gravadigital/lineup-api/internal/handlers"
	"github.com/gravadigital/lineup-api/internal/importer"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/media"
	"github.com/gravadigital/lineup-api/internal/middleware"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
	redis      *redis.Client
	media      *media.Storage
}

// New creates a new server instance. The media storage is optional;
// without it the upload endpoint responds 503.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mediaStorage *media.Storage) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  rdb,
		media:  mediaStorage,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	} else {
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Repositories
	venueRepo := postgres.NewPostgresVenueRepository(s.db)
	djRepo := postgres.NewPostgresDJRepository(s.db)
	eventRepo := postgres.NewPostgresEventRepository(s.db)
	rosRepo := postgres.NewPostgresRunOfShowRepository(s.db)
	userRepo := postgres.NewPostgresUserRepository(s.db)

	// External services
	tmClient := ticketmaster.NewClient(ticketmaster.Config{
		BaseURL: s.config.Ticketmaster.BaseURL,
		APIKey:  s.config.Ticketmaster.APIKey,
		Timeout: s.config.Ticketmaster.Timeout,
	})

	reconciler := importer.NewReconciler(eventRepo)
	orchestrator := importer.NewOrchestrator(venueRepo, tmClient, reconciler, importer.Options{
		DaysAhead:  s.config.Import.DaysAhead,
		VenueDelay: s.config.Import.VenueDelay,
		PageSize:   s.config.Import.PageSize,
	})

	// Auth
	issuer := auth.NewTokenIssuer(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	var mailer auth.Mailer = auth.LogMailer{}
	if s.config.SMTP.Host != "" {
		mailer = auth.NewSMTPMailer(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.User, s.config.SMTP.Pass, s.config.SMTP.From)
	}
	otp := auth.NewOTPService(auth.NewRedisCodeStore(s.redis), mailer, s.config.Auth.OTPTTL, s.config.Auth.OTPAttempts)

	// Handlers
	authHandler := handlers.NewAuthHandler(otp, issuer, userRepo)
	venueHandler := handlers.NewVenueHandler(venueRepo, tmClient)
	djHandler := handlers.NewDJHandler(djRepo, rosRepo)
	eventHandler := handlers.NewEventHandler(eventRepo, venueRepo)
	rosHandler := handlers.NewRunOfShowHandler(rosRepo, eventRepo, djRepo)
	importHandler := handlers.NewImportHandler(orchestrator, venueRepo)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Lineup API is running",
			"status":  "healthy",
		})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := postgres.HealthCheck(s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.setupAPIRoutes(router, issuer, authHandler, venueHandler, djHandler, eventHandler, rosHandler, importHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	issuer *auth.TokenIssuer,
	authHandler *handlers.AuthHandler,
	venueHandler *handlers.VenueHandler,
	djHandler *handlers.DJHandler,
	eventHandler *handlers.EventHandler,
	rosHandler *handlers.RunOfShowHandler,
	importHandler *handlers.ImportHandler,
) {
	requireAuth := middleware.RequireAuth(issuer)
	requireAdmin := middleware.RequireAdmin()
	requireDJ := middleware.RequireDJ()

	api := router.Group("/api")
	{
		// Passwordless login, rate limited per client IP
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(s.redis, "auth", 10, time.Minute))
		{
			authGroup.POST("/request-code", authHandler.RequestCode)
			authGroup.POST("/verify-code", authHandler.VerifyCode)
		}

		// Venues: reads are authenticated, writes are admin-only
		venues := api.Group("/venues", requireAuth)
		{
			venues.GET("", venueHandler.GetVenues)
			venues.GET("/ticketmaster-search", requireAdmin, venueHandler.SearchTicketmasterVenues)
			venues.GET("/:venue_id", venueHandler.GetVenue)
			venues.POST("", requireAdmin, venueHandler.CreateVenue)
			venues.PUT("/:venue_id", requireAdmin, venueHandler.UpdateVenue)
			venues.DELETE("/:venue_id", requireAdmin, venueHandler.DeleteVenue)
			venues.POST("/:venue_id/import", requireAdmin, importHandler.RunVenueImport)
		}

		// DJs
		djs := api.Group("/djs", requireAuth)
		{
			djs.GET("", djHandler.GetDJs)
			djs.GET("/me/bookings", requireDJ, rosHandler.MyBookings)
			djs.GET("/:dj_id", djHandler.GetDJ)
			djs.POST("", requireAdmin, djHandler.CreateDJ)
			djs.PUT("/:dj_id", requireAdmin, djHandler.UpdateDJ)
			djs.DELETE("/:dj_id", requireAdmin, djHandler.DeleteDJ)
		}

		// Events and their run of show
		events := api.Group("/events", requireAuth)
		{
			events.GET("", eventHandler.GetEvents)
			events.GET("/:event_id", eventHandler.GetEvent)
			events.POST("", requireAdmin, eventHandler.CreateEvent)
			events.PUT("/:event_id", requireAdmin, eventHandler.UpdateEvent)
			events.DELETE("/:event_id", requireAdmin, eventHandler.DeleteEvent)
			events.PATCH("/:event_id/status", requireAdmin, eventHandler.UpdateEventStatus)

			events.GET("/:event_id/run-of-show", rosHandler.GetRunOfShow)
			events.PUT("/:event_id/run-of-show", requireAdmin, rosHandler.ReplaceRunOfShow)
			events.DELETE("/:event_id/run-of-show", requireAdmin, rosHandler.DeleteRunOfShow)
			events.POST("/:event_id/run-of-show/slots/:slot_id/djs", requireAdmin, rosHandler.AssignDJ)
			events.DELETE("/:event_id/run-of-show/slots/:slot_id/djs/:dj_id", requireAdmin, rosHandler.RemoveDJ)
			events.DELETE("/:event_id/run-of-show/slots/:slot_id", requireAdmin, rosHandler.DeleteSlot)
		}

		// Media uploads
		if s.media != nil {
			mediaHandler := handlers.NewMediaHandler(s.media)
			api.POST("/media/images", requireAuth, requireAdmin, mediaHandler.UploadImage)
		}

		// Scheduled import trigger, guarded by the shared cron secret
		api.POST("/imports/run", middleware.CronAuth(s.config.Cron.Secret), importHandler.RunImport)
	}
}
