package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/proveedores/liquidaciones/logger"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	// LimitHandler writes the response for a rejected request. It must not
	// call c.Next.
	LimitHandler gin.HandlerFunc
}

// DefaultRateLimitConfig limits by client IP and answers 429 JSON.
func DefaultRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		LimitHandler: func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"msg":     "Rate limit exceeded. Please try again later.",
			})
		},
	}
}

// RateLimitMiddleware counts requests per key in fixed one-minute windows.
// A non-positive RequestsPerMinute disables the limit.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	counters := cache.New(time.Minute, 2*time.Minute)

	return func(c *gin.Context) {
		key := config.KeyFunc(c) + ":" + c.Request.URL.Path

		// Add is a no-op when the window is already open
		_ = counters.Add(key, 0, cache.DefaultExpiration)
		count, err := counters.IncrementInt(key, 1)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		if count > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", config.KeyFunc(c), c.Request.URL.Path, count)
			config.LimitHandler(c)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.RequestsPerMinute-count))

		c.Next()
	}
}
