package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"truckhub/pkg/logger"
)

const (
	stripeSignatureTolerance = 5 * time.Minute
	stripeCurrency           = "usd"
)

// StripeCheckoutService opens hosted Stripe Checkout sessions and verifies
// Stripe webhooks.
type StripeCheckoutService struct {
	api           *client.API
	secretKey     string
	webhookSecret string
}

func NewStripeCheckoutService(secretKey, webhookSecret string) *StripeCheckoutService {
	s := &StripeCheckoutService{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
	s.init(&stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	})
	return s
}

// WithBaseURL points the client at another API host (tests, stripe-mock).
func (s *StripeCheckoutService) WithBaseURL(baseURL string) *StripeCheckoutService {
	s.init(&stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		URL:               stripe.String(strings.TrimRight(baseURL, "/")),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return s
}

func (s *StripeCheckoutService) init(config *stripe.BackendConfig) {
	api := &client.API{}
	api.Init(s.secretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, config),
	})
	s.api = api
}

func (s *StripeCheckoutService) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("checkout needs at least one line item")
	}

	logger.Info("Creating Stripe checkout for %s, amount: %d cents", req.ReferenceID, req.TotalCents())

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ReferenceID),
	}
	params.Context = ctx
	if !req.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(req.ExpiresAt.Unix())
	}
	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(stripeCurrency),
				UnitAmount: stripe.Int64(item.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	if req.ReferenceID != "" {
		params.SetIdempotencyKey("checkout-" + req.ReferenceID)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout failed: %w", err)
	}

	logger.Info("Stripe checkout created: %s", session.ID)
	return &CheckoutSession{
		ID:        session.ID,
		URL:       session.URL,
		ExpiresAt: time.Unix(session.ExpiresAt, 0).UTC(),
		Status:    CheckoutStatusPending,
	}, nil
}

func (s *StripeCheckoutService) ParseWebhook(ctx context.Context, payload []byte, signature string) (*CheckoutEvent, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrInvalidWebhookSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                stripeSignatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	var status string
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		status = CheckoutStatusPaid
	case stripe.EventTypeCheckoutSessionExpired:
		status = CheckoutStatusExpired
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		status = CheckoutStatusCanceled
	default:
		logger.Debug("Ignoring Stripe event %s (%s)", event.ID, event.Type)
		return nil, fmt.Errorf("%w: %s", ErrUnhandledWebhookEvent, event.Type)
	}

	var session stripe.CheckoutSession
	if event.Data == nil {
		return nil, fmt.Errorf("stripe event %s has no data", event.ID)
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	// completed with a delayed payment method; the async events follow
	if status == CheckoutStatusPaid &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		status = CheckoutStatusPending
	}

	logger.Info("Stripe webhook processed: %s -> %s", session.ID, status)
	return &CheckoutEvent{
		SessionID:   session.ID,
		ReferenceID: session.ClientReferenceID,
		Status:      status,
		Metadata:    session.Metadata,
	}, nil
}
