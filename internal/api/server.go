package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/api/handlers"
	"github.com/vizorhq/vizor-core/internal/api/middleware"
	"github.com/vizorhq/vizor-core/internal/config"
	"github.com/vizorhq/vizor-core/internal/monitoring"
	"github.com/vizorhq/vizor-core/internal/services"
	"github.com/vizorhq/vizor-core/pkg/cache"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

type Server struct {
	config        *config.Config
	logger        logger.Logger
	cache         cache.ValkeyCluster
	renderService *services.RenderService
	router        *gin.Engine
	httpServer    *http.Server
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	valkeyCache cache.ValkeyCluster,
	renderService *services.RenderService,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:        cfg,
		logger:        log,
		cache:         valkeyCache,
		renderService: renderService,
		router:        router,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// CORS for browser-based chart surfaces
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	// Request IDs before logging so every line can carry one
	s.router.Use(middleware.RequestID())

	// Request logging
	s.router.Use(middleware.RequestLogger(s.logger))

	// Centralized error envelope
	s.router.Use(middleware.ErrorHandler(s.logger))

	// Prometheus request metrics
	if s.config.Monitoring.PrometheusEnabled {
		s.router.Use(middleware.MetricsMiddleware())
	}

	// Rate limiting backed by the cache
	if s.config.RateLimit.Enabled {
		s.router.Use(middleware.RateLimiter(s.cache, s.config.RateLimit))
	}

	// Prometheus metrics endpoint
	if s.config.Monitoring.PrometheusEnabled {
		monitoring.SetupPrometheusMetrics(s.router)
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.cache, s.logger)

	// Public health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)

	// API v1 group
	v1 := s.router.Group("/api/v1")

	// Back-compat: expose health under /api/v1 as well
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)

	// Render pipeline endpoints
	renderHandler := handlers.NewRenderHandler(s.renderService, s.logger)
	v1.POST("/render", renderHandler.Render)
	v1.POST("/recommend", renderHandler.Recommend)
	v1.POST("/analyze", renderHandler.Analyze)
	v1.POST("/normalize", renderHandler.Normalize)
	v1.POST("/export", renderHandler.Export)

	// Capability discovery endpoints
	catalogHandler := handlers.NewCatalogHandler(s.renderService.Engine(), s.lexiconSource(), s.logger)
	v1.GET("/charts/kinds", catalogHandler.GetChartKinds)
	v1.GET("/palettes", catalogHandler.GetPalettes)
	v1.GET("/lexicons", catalogHandler.GetLexicons)

	// WebSocket preview stream
	if s.config.WebSocket.Enabled {
		ws := handlers.NewWebSocketHandler(s.renderService, s.config.WebSocket, s.logger)
		v1.GET("/ws/preview", ws.HandlePreviewStream)
	}
}

func (s *Server) lexiconSource() string {
	if s.config.Engine.LexiconFile != "" {
		return "file"
	}
	return "builtin"
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("VIZOR-CORE REST API server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down VIZOR-CORE gracefully")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
