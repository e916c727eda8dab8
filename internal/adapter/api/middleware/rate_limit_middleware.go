package middleware

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/infrastructure/ratelimit"
	"sociogram/pkg/errors"
)

// RateLimit applies the global per-client request budget, keyed by the
// caller's IP.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, _ := limiter.Allow(c.RealIP())
			if !allowed {
				return errors.TooManyRequests("Too many requests, slow down")
			}
			return next(c)
		}
	}
}
