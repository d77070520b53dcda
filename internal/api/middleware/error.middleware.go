package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorHandler provides centralized error handling middleware
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			statusCode := determineStatusCode(err.Err)
			errorResp := ErrorResponse{
				Error: err.Err.Error(),
				Code:  determineErrorCode(err.Err),
			}

			logError(log, statusCode, err.Err, c)

			c.JSON(statusCode, errorResp)
			return
		}

		// If no errors but status indicates error, ensure proper error format
		if c.Writer.Status() >= 400 && !c.Writer.Written() {
			statusCode := c.Writer.Status()
			errorResp := ErrorResponse{
				Error: http.StatusText(statusCode),
				Code:  determineErrorCodeFromStatus(statusCode),
			}

			if errorMsg, exists := c.Get("error_message"); exists {
				if msg, ok := errorMsg.(string); ok {
					errorResp.Error = msg
				}
			}

			log.Warn("HTTP Error Response",
				"status", statusCode,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"error", errorResp.Error,
			)

			c.JSON(statusCode, errorResp)
		}
	}
}

// determineStatusCode determines HTTP status code from error type
func determineStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	errMsg := err.Error()

	// Validation errors
	if containsAny(errMsg, "invalid", "required", "cannot be empty", "must be") {
		return http.StatusBadRequest
	}

	// Not found errors
	if containsAny(errMsg, "not found", "does not exist") {
		return http.StatusNotFound
	}

	// Payload too large
	if containsAny(errMsg, "too large", "exceeds") {
		return http.StatusRequestEntityTooLarge
	}

	// Unprocessable Entity
	if containsAny(errMsg, "unsatisfiable", "malformed") {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// determineErrorCode creates a machine-readable error code
func determineErrorCode(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	switch {
	case containsAny(errMsg, "invalid", "required", "bad request"):
		return "INVALID_REQUEST"
	case containsAny(errMsg, "not found"):
		return "NOT_FOUND"
	case containsAny(errMsg, "too large", "exceeds"):
		return "PAYLOAD_TOO_LARGE"
	case containsAny(errMsg, "unsatisfiable"):
		return "UNSATISFIABLE"
	case containsAny(errMsg, "timeout"):
		return "TIMEOUT"
	case containsAny(errMsg, "connection", "network"):
		return "CONNECTION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// determineErrorCodeFromStatus creates error code from HTTP status
func determineErrorCodeFromStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN_ERROR"
	}
}

// logError logs errors with appropriate level
func logError(log logger.Logger, statusCode int, err error, c *gin.Context) {
	fields := []interface{}{
		"status", statusCode,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"error", err.Error(),
	}

	if requestID := c.GetString(RequestIDKey); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if statusCode >= 500 {
		log.Error("HTTP Error", fields...)
	} else if statusCode >= 400 {
		log.Warn("HTTP Error", fields...)
	} else {
		log.Info("HTTP Error", fields...)
	}
}

// containsAny checks if the string contains any of the substrings (case-insensitive)
func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, substr := range substrings {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
