package websocket

// Notification types pushed to sellers.
const (
	MessageTypeListingPublished   = "listing_published"
	MessageTypeListingStaged      = "listing_staged"
	MessageTypePaymentConfirmed   = "listing_payment_confirmed"
	MessageTypePaymentCompensated = "listing_payment_compensated"
)

type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// ListingNotification is the payload of every listing message.
type ListingNotification struct {
	ListingID     string `json:"listing_id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Featured      bool   `json:"featured"`
	Message       string `json:"message,omitempty"`
}
