package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/monitoring"
)

// MetricsMiddleware collects HTTP request metrics for VIZOR-CORE monitoring
func MetricsMiddleware() gin.HandlerFunc {
	return monitoring.HTTPMetricsMiddleware()
}
