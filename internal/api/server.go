package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"camsentry/internal/api/handlers"
	"camsentry/internal/api/middleware"
	"camsentry/internal/config"
	"camsentry/internal/services"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	motionHandler *handlers.MotionHandler
	healthHandler *handlers.HealthHandler
	systemHandler *handlers.SystemHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:        cfg,
		router:        gin.New(),
		motionHandler: handlers.NewMotionHandler(container.Pipeline),
		healthHandler: handlers.NewHealthHandler(cfg.Version),
		systemHandler: handlers.NewSystemHandler(container.Pipeline, container.Limiter, container.Events),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.CORS())
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("🚀 Starting CamSentry API")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
