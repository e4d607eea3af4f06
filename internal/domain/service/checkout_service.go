package service

import (
	"context"
	"errors"
	"time"
)

const (
	CheckoutStatusPending  = "pending"
	CheckoutStatusPaid     = "paid"
	CheckoutStatusExpired  = "expired"
	CheckoutStatusCanceled = "canceled"

	CheckoutMetadataListingID = "listing_id"
)

var (
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrUnhandledWebhookEvent   = errors.New("unhandled webhook event")
)

type CheckoutLineItem struct {
	Name        string
	AmountCents int64
}

// CheckoutRequest describes a one-off hosted checkout for a listing's paid
// extras.
type CheckoutRequest struct {
	ReferenceID string
	LineItems   []CheckoutLineItem
	SuccessURL  string
	CancelURL   string
	ExpiresAt   time.Time
	Metadata    map[string]string
}

func (r CheckoutRequest) TotalCents() int64 {
	var total int64
	for _, item := range r.LineItems {
		total += item.AmountCents
	}
	return total
}

type CheckoutSession struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}

// CheckoutEvent is a verified payment notification.
type CheckoutEvent struct {
	SessionID   string
	ReferenceID string
	Status      string // paid, expired, canceled
	Metadata    map[string]string
}

// ListingID returns the listing the checkout was opened for.
func (e *CheckoutEvent) ListingID() string {
	if id := e.Metadata[CheckoutMetadataListingID]; id != "" {
		return id
	}
	return e.ReferenceID
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*CheckoutEvent, error)
}
