package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/pkg/cache"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

const serviceVersion = "v1.2.0"

type HealthHandler struct {
	cache  cache.ValkeyCluster // may be nil
	logger logger.Logger
}

func NewHealthHandler(valkeyCache cache.ValkeyCluster, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		cache:  valkeyCache,
		logger: log,
	}
}

// GET /health - Quick health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "vizor-core",
		"version":   serviceVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /ready - Readiness check. The engine is pure and always ready; the
// report covers the cache backend, which degrades service (no memoization,
// open rate limits) without blocking it.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{
		"engine": gin.H{"status": "healthy"},
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			checks["cache"] = gin.H{"status": "degraded", "error": err.Error()}
		} else {
			checks["cache"] = gin.H{"status": "healthy"}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "vizor-core",
		"version":   serviceVersion,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
