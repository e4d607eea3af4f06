package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/handler"
	"truckhub/internal/adapter/api/middleware"
	"truckhub/internal/infrastructure/ratelimit"
)

func SetupMediaRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	mediaHandler := handler.GetMediaHandler()

	media := e.Group("/v1/listing-wizard/sessions/:session/media")
	media.Use(authMiddleware.Authenticate)

	media.POST("", mediaHandler.UploadMedia, middleware.RateLimit(limiter, ratelimit.ActionUploadMedia))
	media.DELETE("/:index", mediaHandler.RemoveMedia, middleware.RateLimit(limiter, ratelimit.ActionUpdateDraft))
	media.POST("/:index/primary", mediaHandler.MakePrimary, middleware.RateLimit(limiter, ratelimit.ActionUpdateDraft))
}
