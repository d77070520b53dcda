package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vizorhq/vizor-core/internal/config"
	"github.com/vizorhq/vizor-core/pkg/cache"
)

// RateLimiter implements per-client rate limiting with fixed one-minute
// windows. Counters live in the cache backend so limits hold across
// replicas. The limiter fails open: a cache outage never blocks requests.
func RateLimiter(valkeyCache cache.ValkeyCluster, cfg config.RateLimitConfig) gin.HandlerFunc {
	maxRequests := int64(cfg.RequestsPerMinute)

	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if clientID == "" {
			clientID = "unknown"
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("rate_limit:%s:%d", clientID, window)

		count, err := valkeyCache.Increment(c.Request.Context(), key, 2*time.Minute)
		if err != nil {
			// Fail open on cache errors
			c.Next()
			return
		}

		remaining := maxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-Rate-Limit-Limit", strconv.FormatInt(maxRequests, 10))
		c.Header("X-Rate-Limit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-Rate-Limit-Reset", strconv.FormatInt((window+1)*60, 10))

		if count > maxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":      "error",
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
