package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vizorhq/vizor-core/internal/api"
	"github.com/vizorhq/vizor-core/internal/config"
	"github.com/vizorhq/vizor-core/internal/services"
	"github.com/vizorhq/vizor-core/internal/tracing"
	"github.com/vizorhq/vizor-core/internal/viz"
	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
	"github.com/vizorhq/vizor-core/pkg/cache"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting VIZOR-CORE", "version", "v1.2.0", "environment", cfg.Environment)

	// Initialize Valkey caching for render memoization and rate limiting
	valkeyCache := buildCache(cfg, logger)

	// Initialize OTel tracing when an OTLP endpoint is configured
	if cfg.Monitoring.TracingEnabled {
		tp, err := tracing.NewTracerProvider("vizor-core", "v1.2.0", cfg.Monitoring.OTLPEndpoint)
		if err != nil {
			logger.Error("Failed to initialize tracing, continuing without it", "error", err)
		} else {
			tracing.InitGlobalTracer("vizor-core")
			logger.Info("OTel tracing initialized", "endpoint", cfg.Monitoring.OTLPEndpoint)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(ctx)
			}()
		}
	}

	// Build the render engine with configured lexicons and palettes
	engine, lexiconPath := buildEngine(cfg, logger)

	// Hot-reload the lexicon file on change
	if lexiconPath != "" {
		watcher := config.NewLexiconWatcher(lexiconPath, logger, func(path string) {
			set, err := lexicon.LoadFile(path)
			if err != nil {
				logger.Error("Lexicon reload failed, keeping previous tables", "path", path, "error", err)
				return
			}
			engine.SetLexicons(set)
			logger.Info("Lexicon tables reloaded", "path", path)
		})
		if err := watcher.Start(context.Background()); err != nil {
			logger.Error("Lexicon watcher failed to start", "path", lexiconPath, "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Render service wraps the engine with caching and metrics
	renderService := services.NewRenderService(engine, valkeyCache, logger,
		time.Duration(cfg.Engine.RenderCacheTTL)*time.Second)

	// Initialize API server
	apiServer := api.NewServer(cfg, logger, valkeyCache, renderService)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Start server
	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}

	logger.Info("VIZOR-CORE shutdown complete")
}

// buildCache picks a backend from the configured node list. The service runs
// fine without Valkey; it just loses memoization and rate limiting, so cache
// failures fall back to the in-memory noop instead of aborting startup.
func buildCache(cfg *config.Config, log logger.Logger) cache.ValkeyCluster {
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	fallback := cache.NewNoopValkeyCache(log)

	switch len(cfg.Cache.Nodes) {
	case 0:
		log.Info("No cache nodes configured, using in-memory cache")
		return fallback
	case 1:
		log.Info("Valkey single-node cache configured", "addr", cfg.Cache.Nodes[0])
		return cache.NewAutoSwapForSingle(cfg.Cache.Nodes[0], cfg.Cache.DB, cfg.Cache.Password, ttl, log, fallback)
	default:
		log.Info("Valkey cluster cache configured", "nodes", len(cfg.Cache.Nodes))
		return cache.NewAutoSwapForCluster(cfg.Cache.Nodes, ttl, log, fallback)
	}
}

// buildEngine assembles the recommendation engine from config. Returns the
// lexicon file path so the caller can watch it, or "" for built-in tables.
func buildEngine(cfg *config.Config, log logger.Logger) (*viz.Engine, string) {
	opts := []viz.Option{}

	lexiconPath := cfg.Engine.LexiconFile
	if lexiconPath != "" {
		set, err := lexicon.LoadFile(lexiconPath)
		if err != nil {
			log.Error("Lexicon file load failed, using built-in tables", "path", lexiconPath, "error", err)
			lexiconPath = ""
		} else {
			opts = append(opts, viz.WithLexicons(set))
			log.Info("Lexicon tables loaded", "path", lexiconPath,
				"date_keywords", len(set.DateKeywords), "funnel_stages", len(set.FunnelStages))
		}
	}

	if len(cfg.Engine.Palettes) > 0 {
		opts = append(opts, viz.WithPalettes(cfg.Engine.Palettes))
	}

	return viz.NewEngine(log, opts...), lexiconPath
}
