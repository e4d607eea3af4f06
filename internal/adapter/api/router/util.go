package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/middleware"
)

// OptionalAuth sets the uid when a valid bearer token is present and lets
// the request through unauthenticated otherwise.
func OptionalAuth(authMiddleware *middleware.AuthMiddleware) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			uid, ok := authMiddleware.Identify(c)
			if ok {
				c.Set(middleware.ContextUserID, uid)
			}
			return next(c)
		}
	}
}
