package repository

import (
	"context"
	"time"

	"truckhub/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Listing, int64, error)
	// ListPendingPaymentBefore returns staged listings whose checkout expired before cutoff.
	ListPendingPaymentBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Listing, error)
}
