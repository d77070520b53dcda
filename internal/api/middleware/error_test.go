package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

func TestErrorHandler(t *testing.T) {
	var logOutput strings.Builder
	testLogger := logger.NewMockLogger(&logOutput)

	tests := []struct {
		name           string
		setupError     func(*gin.Context)
		expectedStatus int
		expectedBody   string
		expectLog      bool
	}{
		{
			name: "no error - should not modify response",
			setupError: func(c *gin.Context) {
				// No error set
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "",
			expectLog:      false,
		},
		{
			name: "validation error - bad request",
			setupError: func(c *gin.Context) {
				c.Error(errors.New("invalid payload: data is required"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid payload: data is required","code":"INVALID_REQUEST"}`,
			expectLog:      true,
		},
		{
			name: "not found error",
			setupError: func(c *gin.Context) {
				c.Error(errors.New("palette not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"palette not found","code":"NOT_FOUND"}`,
			expectLog:      true,
		},
		{
			name: "internal server error",
			setupError: func(c *gin.Context) {
				c.Error(errors.New("cache connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"cache connection failed","code":"CONNECTION_ERROR"}`,
			expectLog:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logOutput.Reset()

			router := gin.New()
			router.Use(ErrorHandler(testLogger))

			router.GET("/test", func(c *gin.Context) {
				tt.setupError(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedBody != "" {
				body := strings.TrimSpace(w.Body.String())
				if body != tt.expectedBody {
					t.Errorf("Expected body %q, got %q", tt.expectedBody, body)
				}
			}

			if tt.expectLog && logOutput.Len() == 0 {
				t.Error("Expected log output, but got none")
			}
			if !tt.expectLog && logOutput.Len() > 0 {
				t.Errorf("Expected no log output, but got: %s", logOutput.String())
			}
		})
	}
}

func TestDetermineStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"empty error", errors.New(""), http.StatusInternalServerError},
		{"invalid input", errors.New("invalid chart_type"), http.StatusBadRequest},
		{"required field", errors.New("data is required"), http.StatusBadRequest},
		{"not found", errors.New("chart kind not found"), http.StatusNotFound},
		{"does not exist", errors.New("resource does not exist"), http.StatusNotFound},
		{"payload too large", errors.New("payload too large"), http.StatusRequestEntityTooLarge},
		{"unsatisfiable", errors.New("chart kind unsatisfiable for dataset"), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("some random error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := determineStatusCode(tt.err)
			if result != tt.expected {
				t.Errorf("determineStatusCode(%v) = %d, expected %d", tt.err, result, tt.expected)
			}
		})
	}
}
