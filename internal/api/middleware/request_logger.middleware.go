package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

// RequestLogger logs HTTP requests for VIZOR-CORE observability
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID := ""
		if param.Keys != nil {
			if rid, exists := param.Keys[RequestIDKey]; exists {
				if ridStr, ok := rid.(string); ok {
					requestID = ridStr
				}
			}
		}

		// Log level based on status code
		statusCode := param.StatusCode
		logLevel := "info"
		if statusCode >= 400 && statusCode < 500 {
			logLevel = "warn"
		} else if statusCode >= 500 {
			logLevel = "error"
		}

		fields := []interface{}{
			"method", param.Method,
			"path", param.Path,
			"status", statusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
			"request_id", requestID,
			"content_length", param.Request.ContentLength,
		}

		if param.ErrorMessage != "" {
			fields = append(fields, "error", param.ErrorMessage)
		}

		switch logLevel {
		case "warn":
			log.Warn("HTTP Request", fields...)
		case "error":
			log.Error("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}

		return ""
	})
}
