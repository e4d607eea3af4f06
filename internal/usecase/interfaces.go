package usecase

import "context"

const (
	SubjectListingPublished          = "listing.published"
	SubjectListingStaged             = "listing.staged"
	SubjectListingPaymentConfirmed   = "listing.payment_confirmed"
	SubjectListingPaymentCompensated = "listing.payment_compensated"
)

// ListingEventPublisher emits listing lifecycle events.
type ListingEventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// Notifier pushes a message to every open connection of a user.
type Notifier interface {
	NotifyUser(userID string, messageType string, data interface{}) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyUser(userID string, messageType string, data interface{}) error {
	return nil
}

// MetricsRecorder receives listing counters. *metrics.ListingMetrics
// satisfies it.
type MetricsRecorder interface {
	ObserveSubmit(outcome string)
	ObserveValidationFailure()
	ObservePublished(mode string, paid bool)
	ObserveCheckout(status string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSubmit(outcome string)            {}
func (noopMetrics) ObserveValidationFailure()               {}
func (noopMetrics) ObservePublished(mode string, paid bool) {}
func (noopMetrics) ObserveCheckout(status string)           {}
