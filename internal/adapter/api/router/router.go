package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/handler"
	"truckhub/internal/adapter/api/middleware"
	"truckhub/internal/infrastructure/metrics"
	"truckhub/internal/infrastructure/ratelimit"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.RateLimiter,
	wsHandler *handler.WebSocketHandler,
	listingMetrics *metrics.ListingMetrics,
) {
	SetupListingWizardRouter(e, authMiddleware, limiter)
	SetupMediaRouter(e, authMiddleware, limiter)
	SetupListingRouter(e, authMiddleware, limiter)
	SetupCheckoutRouter(e, limiter)
	SetupWebSocketRouter(e, authMiddleware, wsHandler)
	SetupHealthRouter(e)

	if listingMetrics != nil {
		e.GET("/metrics", listingMetrics.Handler())
	}
}
