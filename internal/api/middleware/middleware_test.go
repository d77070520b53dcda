package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/config"
	"github.com/vizorhq/vizor-core/pkg/cache"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

func TestCORS_IsOriginAllowed(t *testing.T) {
	allowed := []string{"https://a.example.com", "https://b.example.com"}
	if !isOriginAllowed("https://a.example.com", allowed) {
		t.Fatalf("expected origin allowed")
	}
	if isOriginAllowed("https://x.example.com", allowed) {
		t.Fatalf("unexpected origin allowed")
	}
	if !isOriginAllowed("https://x.example.com", []string{"*"}) {
		t.Fatalf("expected wildcard to allow all")
	}
}

func TestRateLimiter_AppliesHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	log := logger.New("error")
	cch := cache.NewNoopValkeyCache(log)
	r.Use(RateLimiter(cch, config.RateLimitConfig{Enabled: true, RequestsPerMinute: 120}))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if w.Header().Get("X-Rate-Limit-Remaining") == "" {
		t.Fatalf("missing rate limit header")
	}
}

func TestRateLimiter_BlocksOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	log := logger.New("error")
	cch := cache.NewNoopValkeyCache(log)
	r.Use(RateLimiter(cch, config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		r.ServeHTTP(w, req)
		last = w.Code
	}
	if last != 429 {
		t.Fatalf("expected 429 after exceeding budget, got %d", last)
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(200, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatalf("missing generated request id")
	}
	if w.Body.String() != id {
		t.Fatalf("context id %q != header id %q", w.Body.String(), id)
	}

	// Caller-supplied ID passes through untouched
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "caller-id-1")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "caller-id-1" {
		t.Fatalf("expected caller id echoed, got %q", got)
	}
}

func TestRequestLogger_EmitsStructuredLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out strings.Builder
	log := logger.NewMockLogger(&out)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	if out.String() == "" {
		t.Fatalf("expected a log line")
	}
}
