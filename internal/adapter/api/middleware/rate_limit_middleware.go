package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"truckhub/internal/infrastructure/ratelimit"
	"truckhub/pkg/errors"
	"truckhub/pkg/logger"
	"truckhub/pkg/response"
)

// RateLimit limits an action per authenticated seller, or per client IP for
// unauthenticated routes.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := UserID(c)
			if subject == "" {
				subject = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(subject, action)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				logger.Warn("RATE LIMIT: %s exceeded %s (retry in %ds)", subject, action, retryAfter)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests(fmt.Sprintf("Too many requests, try again in %d seconds", retryAfter)))
			}

			return next(c)
		}
	}
}
