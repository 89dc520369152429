package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fabricerp/backend/internal/infrastructure/cache"
	"github.com/fabricerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting middleware configuration
type RateLimitConfig struct {
	// Store tracks per-client request counts
	Store cache.RateLimitStore
	// Limit is the maximum number of requests per window
	Limit int
	// Window is the time window for the limit
	Window time.Duration
	// KeyFunc extracts the rate-limit key from the request; defaults to client IP
	KeyFunc func(*gin.Context) string
	// Logger for middleware logging
	Logger *zap.Logger
}

// RateLimit returns a rate limiting middleware backed by the given store.
// On store failure the request is allowed through: availability is preferred
// over strict limiting when Redis is unreachable.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, remaining, err := cfg.Store.Allow(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("rate limit check failed",
					zap.String("key", key),
					zap.Error(err))
			}
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
			))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Next()
	}
}
