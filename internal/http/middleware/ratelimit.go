// README: Per-endpoint rate limit middleware over an injected limiter.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibook/internal/pkg/logger"
	"taxibook/internal/ratelimit"
)

// RateLimit keys windows by endpoint and client IP. Limiter failures let the
// request through.
func RateLimit(l ratelimit.Limiter, endpoint string) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := endpoint + ":" + c.ClientIP()
		d, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			secs := ratelimit.RetryAfterSeconds(d.RetryAfter)
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests. Please try again later.",
				"retryAfter": secs,
			})
			return
		}
		c.Next()
	}
}
