package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/autostock/dealership-api/internal/api/metrics"
)

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects requests from a client IP that exceed limit per window
// with 429. When the limiter itself fails the request is let through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), ip, limit, window)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.LoginRateLimitedTotal.Inc()
				log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("rate limit exceeded")
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
			}
			return next(c)
		}
	}
}
