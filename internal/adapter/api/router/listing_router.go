package router

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/adapter/api/handler"
	"truckhub/internal/adapter/api/middleware"
	"truckhub/internal/infrastructure/ratelimit"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	listingHandler := handler.GetListingHandler()

	e.POST("/v1/listings/evaluate", listingHandler.Evaluate, middleware.RateLimit(limiter, ratelimit.ActionEvaluate))

	listingDetail := e.Group("/v1/listings")
	listingDetail.Use(OptionalAuth(authMiddleware))
	listingDetail.GET("/:id", listingHandler.GetListing)

	myListings := e.Group("/v1/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", listingHandler.ListMyListings)
	myListings.DELETE("/:id", listingHandler.DeleteListing)
}
