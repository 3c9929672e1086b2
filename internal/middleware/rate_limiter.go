package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter limits each client IP to rps requests per second, with bursts
// of up to twice that. Clients poll once a second, so the limit only bites
// on runaway scripts.
func RateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	config := middleware.RateLimiterConfig{
		// NewRateLimiterMemoryStore is a simple in-memory store suitable for single-instance deployments.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(rps),
			Burst: burst,
		}),

		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests. Please try again later."})
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
