package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gravadigital/guestlist-api/internal/config"
	"github.com/gravadigital/guestlist-api/internal/handlers"
	"github.com/gravadigital/guestlist-api/internal/logger"
	"github.com/gravadigital/guestlist-api/internal/middleware/requestlog"
	"github.com/gravadigital/guestlist-api/internal/notify"
	"github.com/gravadigital/guestlist-api/internal/response"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
	"github.com/gravadigital/guestlist-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
	svc        *rsvp.Service
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB, svc *rsvp.Service) *Server {
	return &Server{
		config: cfg,
		db:     db,
		svc:    svc,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
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
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(requestlog.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	router.Use(cors.New(corsConfig))

	eventHandler := handlers.NewEventHandler(
		s.svc,
		notify.ChannelTarget(s.config.Notifier.ChannelTarget),
		notify.ChannelTarget(s.config.Notifier.GroupTarget),
	)
	rsvpHandler := handlers.NewRSVPHandler(s.svc)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := postgres.HealthCheck(s.db); err != nil {
			response.ErrorResponseWithMessage(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Guestlist API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, eventHandler, rsvpHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	eventHandler *handlers.EventHandler,
	rsvpHandler *handlers.RSVPHandler,
) {
	api := router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:event_id", eventHandler.GetEvent)
			events.PATCH("/:event_id", eventHandler.UpdateEvent)
			events.PATCH("/:event_id/capacity", eventHandler.UpdateCapacity)
			events.POST("/:event_id/message", eventHandler.Message)
			events.POST("/:event_id/close", eventHandler.CloseEvent)
			events.POST("/:event_id/reopen", eventHandler.ReopenEvent)
			events.POST("/:event_id/announce", eventHandler.Announce)

			events.POST("/:event_id/rsvp", rsvpHandler.Register)
			events.DELETE("/:event_id/rsvp/:user_id", rsvpHandler.Cancel)
		}
	}
}
