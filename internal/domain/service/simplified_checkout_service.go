package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"truckhub/pkg/logger"
)

// SimplifiedCheckoutService is an in-process stand-in for Stripe used in
// development. Webhooks are plain JSON and are not signed.
type SimplifiedCheckoutService struct {
	baseURL string
}

func NewSimplifiedCheckoutService(baseURL string) *SimplifiedCheckoutService {
	return &SimplifiedCheckoutService{baseURL: strings.TrimRight(baseURL, "/")}
}

type simplifiedWebhook struct {
	SessionID string `json:"session_id"`
	ListingID string `json:"listing_id"`
	Status    string `json:"status"`
}

func (s *SimplifiedCheckoutService) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("checkout needs at least one line item")
	}

	sessionID := "cs_test_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	logger.Info("Creating simplified checkout for %s, amount: %d cents", req.ReferenceID, req.TotalCents())

	return &CheckoutSession{
		ID:        sessionID,
		URL:       fmt.Sprintf("%s/checkout/simulated/%s", s.baseURL, sessionID),
		ExpiresAt: expiresAt.UTC(),
		Status:    CheckoutStatusPending,
	}, nil
}

func (s *SimplifiedCheckoutService) ParseWebhook(ctx context.Context, payload []byte, signature string) (*CheckoutEvent, error) {
	var hook simplifiedWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if hook.ListingID == "" {
		return nil, fmt.Errorf("listing_id not found in notification")
	}

	status := CheckoutStatusPending
	switch hook.Status {
	case "paid", "success", "completed":
		status = CheckoutStatusPaid
	case "expired":
		status = CheckoutStatusExpired
	case "canceled", "cancelled", "failure":
		status = CheckoutStatusCanceled
	}

	logger.Info("Simplified webhook processed: %s -> %s", hook.ListingID, status)
	return &CheckoutEvent{
		SessionID:   hook.SessionID,
		ReferenceID: hook.ListingID,
		Status:      status,
		Metadata:    map[string]string{CheckoutMetadataListingID: hook.ListingID},
	}, nil
}
