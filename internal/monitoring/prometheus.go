// Package monitoring provides Prometheus metrics for VIZOR-CORE.
//
// Usage:
//
//  1. Setup metrics in your main function:
//     router := gin.New()
//     monitoring.SetupPrometheusMetrics(router)
//
//  2. Add HTTP metrics middleware:
//     router.Use(monitoring.HTTPMetricsMiddleware())
//
//  3. Record pipeline metrics in your services:
//
//     monitoring.RecordRecommendation("bar", false)
//     monitoring.RecordRender("line", time.Since(start), true)
//     monitoring.RecordFallback("unsatisfiable")
//     monitoring.RecordCacheOperation("get", "hit")
//
// Available Metrics:
//
// HTTP Metrics:
//   - vizor_core_http_requests_total{method, endpoint, status_code}
//   - vizor_core_http_request_duration_seconds{method, endpoint}
//   - vizor_core_active_connections
//
// Pipeline Metrics:
//   - vizor_core_recommendations_total{kind, forced}
//   - vizor_core_render_duration_seconds{kind}
//   - vizor_core_renders_total{kind, status}
//   - vizor_core_fallbacks_total{reason}
//
// Cache Metrics:
//   - vizor_core_cache_operations_total{operation, result}
//
// Error Metrics:
//   - vizor_core_errors_total{type, component}
//
// Build Info:
//   - vizor_core_build_info{version, component, go_version}
package monitoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vizor_core_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation pipeline metrics
	recommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_recommendations_total",
			Help: "Total number of chart recommendations by kind",
		},
		[]string{"kind", "forced"},
	)

	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_renders_total",
			Help: "Total number of render requests",
		},
		[]string{"kind", "status"},
	)

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vizor_core_render_duration_seconds",
			Help:    "End-to-end render pipeline duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"kind"},
	)

	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_fallbacks_total",
			Help: "Total number of table fallbacks by reason",
		},
		[]string{"reason"}, // reason: unsatisfiable, panic, upstream_error
	)

	// Cache metrics
	cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // result: hit, miss, error
	)

	// Active connections gauge
	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vizor_core_active_connections",
			Help: "Number of active connections",
		},
	)

	// Error rate metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizor_core_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "component"}, // type: http, engine, cache
	)
)

// SetupPrometheusMetrics configures the Prometheus metrics endpoint for
// VIZOR-CORE.
func SetupPrometheusMetrics(router gin.IRoutes) {
	// Register build info (ignore if already registered)
	_ = prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vizor_core_build_info",
		Help: "Build information for VIZOR-CORE",
		ConstLabels: prometheus.Labels{
			"version":    "v1.2.0",
			"component":  "vizor-core",
			"go_version": "1.24",
		},
	}, func() float64 { return 1 }))

	// Register metrics (ignore if already registered)
	_ = prometheus.Register(httpRequestsTotal)
	_ = prometheus.Register(httpRequestDuration)
	_ = prometheus.Register(recommendationsTotal)
	_ = prometheus.Register(rendersTotal)
	_ = prometheus.Register(renderDuration)
	_ = prometheus.Register(fallbacksTotal)
	_ = prometheus.Register(cacheOperationsTotal)
	_ = prometheus.Register(activeConnections)
	_ = prometheus.Register(errorsTotal)

	// Expose metrics endpoint using default registry
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// HTTPMetricsMiddleware collects HTTP request metrics
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		endpoint := normalizeEndpoint(c.Request.URL.Path)

		activeConnections.Inc()
		defer activeConnections.Dec()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
		httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		if c.Writer.Status() >= 400 {
			errorsTotal.WithLabelValues("http", endpoint).Inc()
		}
	}
}

// RecordRecommendation records a chart-kind recommendation outcome.
func RecordRecommendation(kind string, forced bool) {
	recommendationsTotal.WithLabelValues(kind, strconv.FormatBool(forced)).Inc()
}

// RecordRender records a render pipeline run.
func RecordRender(kind string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		errorsTotal.WithLabelValues("engine", kind).Inc()
	}

	rendersTotal.WithLabelValues(kind, status).Inc()
	renderDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFallback records a degradation to the table fallback.
func RecordFallback(reason string) {
	fallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordCacheOperation records cache operation metrics
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
	if result == "error" {
		errorsTotal.WithLabelValues("cache", operation).Inc()
	}
}

// normalizeEndpoint normalizes API endpoints for consistent metrics
func normalizeEndpoint(path string) string {
	if len(path) > 0 && path[len(path)-1] != '/' {
		path += "/"
	}

	// Replace numeric segments with :id so cardinality stays bounded
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) && i > 0 {
			parts[i] = ":id"
		}
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
