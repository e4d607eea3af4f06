package handler

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"truckhub/internal/domain/service"
	"truckhub/internal/usecase"
	"truckhub/pkg/errors"
	"truckhub/pkg/logger"
	"truckhub/pkg/response"
)

const maxWebhookBytes = 64 * 1024

// CheckoutHandler receives payment provider webhooks for staged listings.
type CheckoutHandler struct {
	wizardUseCase   *usecase.ListingWizardUseCase
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(wizardUseCase *usecase.ListingWizardUseCase, checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		wizardUseCase:   wizardUseCase,
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Webhook(c echo.Context) error {
	logger.Info("Received checkout webhook from IP: %s", c.RealIP())

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid webhook payload", err))
	}

	event, err := h.checkoutService.ParseWebhook(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if stderrors.Is(err, service.ErrUnhandledWebhookEvent) {
			return c.JSON(http.StatusOK, map[string]string{"status": "IGNORED"})
		}
		if stderrors.Is(err, service.ErrInvalidWebhookSignature) {
			logger.Warn("Checkout webhook signature verification failed: %v", err)
			return response.Error(c, errors.Unauthorized("Invalid webhook signature", err))
		}
		return response.Error(c, errors.BadRequest("Invalid webhook payload", err))
	}

	listing, err := h.wizardUseCase.HandleCheckoutEvent(c.Request().Context(), event)
	if err != nil {
		// Unknown listings are acknowledged; anything else is retried by the
		// provider.
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "BAD_REQUEST") {
			logger.Warn("Dropping checkout webhook for session %s: %v", event.SessionID, err)
			return c.JSON(http.StatusOK, map[string]string{"status": "IGNORED"})
		}
		logger.Error("Failed to process checkout webhook for session %s: %v", event.SessionID, err)
		return response.Error(c, err)
	}

	if listing != nil {
		logger.Info("Processed checkout webhook for listing %s: %s", listing.ID, listing.PaymentStatus)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}
