package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grapplay/internal/infrastructure/ratelimit"
	"grapplay/internal/shared/utils"
)

// RateLimit enforces a per-client-IP limit on settlement traffic. Limiter
// errors fail open so a Redis outage does not block checkout.
func RateLimit(limiter ratelimit.RateLimiter, config ratelimit.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.ClientIP(), config)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
