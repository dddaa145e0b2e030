package middleware

import (
	"time"

	"github.com/fitcity/fitcity-backend/internal/errors"
	"github.com/fitcity/fitcity-backend/pkg/redis"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware caps signup submissions per client address. The
// form is public and unauthenticated, so this is the only brake on
// scripted submissions. Without Redis the limiter is a no-op.
func RateLimitMiddleware(limit int64, window time.Duration, redisEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !redisEnabled {
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)

		count, err := redis.IncrementSubmitCount(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			// A broken limiter must not take the signup form down.
			log.Error("Rate limit check failed, allowing request", err, nil)
			c.Next()
			return
		}

		if count > limit {
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"ip":    c.ClientIP(),
				"count": count,
				"limit": limit,
			})
			errors.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
