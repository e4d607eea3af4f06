package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/handler"
	"truckhub/internal/adapter/api/middleware"
	"truckhub/internal/infrastructure/ratelimit"
)

func SetupCheckoutRouter(e *echo.Echo, limiter *ratelimit.RateLimiter) {
	checkoutHandler := handler.GetCheckoutHandler()

	// Called by the payment provider, authenticated by signature.
	e.POST("/v1/checkout/webhook", checkoutHandler.Webhook, middleware.RateLimit(limiter, ratelimit.ActionWebhook))
}
