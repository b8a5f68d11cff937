package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

// RateLimiter counts hits per client
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int) (current int, allowed bool, err error)
	Window() time.Duration
}

// RateLimit limits each client IP to cfg.RateLimitPerMinute requests per
// window. It is a no-op when disabled or when no limiter is available, and it
// lets requests through when the limiter fails.
func RateLimit(cfg config.SecurityConfig, limiter RateLimiter, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.RateLimitEnabled || limiter == nil {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		limit := cfg.RateLimitPerMinute
		current, allowed, err := limiter.Allow(ctx, c.ClientIP(), limit)
		if err != nil {
			logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		window := limiter.Window()
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limit-current-1))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))

		c.Next()
	}
}
