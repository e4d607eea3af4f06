package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/handler"
	"truckhub/internal/adapter/api/middleware"
	"truckhub/internal/infrastructure/ratelimit"
)

func SetupListingWizardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	wizardHandler := handler.GetListingWizardHandler()

	sessions := e.Group("/v1/listing-wizard/sessions")
	sessions.Use(authMiddleware.Authenticate)

	edits := middleware.RateLimit(limiter, ratelimit.ActionUpdateDraft)

	sessions.POST("", wizardHandler.StartSession, edits)
	sessions.GET("/:session", wizardHandler.GetSession)
	sessions.DELETE("/:session", wizardHandler.Abandon)
	sessions.PATCH("/:session/fields", wizardHandler.UpdateFields, edits)
	sessions.POST("/:session/advance", wizardHandler.Advance, edits)
	sessions.POST("/:session/back", wizardHandler.Retreat, edits)
	sessions.POST("/:session/addons", wizardHandler.AddAddOn, edits)
	sessions.DELETE("/:session/addons/:index", wizardHandler.RemoveAddOn, edits)
	sessions.POST("/:session/submit", wizardHandler.Submit, middleware.RateLimit(limiter, ratelimit.ActionSubmitListing))
}
