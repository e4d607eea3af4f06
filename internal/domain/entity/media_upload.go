package entity

import (
	"time"
)

// MediaUpload records a photo stored for a wizard session, so files that
// never make it onto a listing can be found and removed.
type MediaUpload struct {
	ID          string    `json:"id" firestore:"id"`
	URL         string    `json:"url" firestore:"url"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	SessionKey  string    `json:"session_key" firestore:"sessionKey"`
	ContentType string    `json:"content_type" firestore:"contentType"`
	Size        int64     `json:"size" firestore:"size"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
