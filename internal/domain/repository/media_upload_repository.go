package repository

import (
	"context"

	"truckhub/internal/domain/entity"
)

type MediaUploadRepository interface {
	Create(ctx context.Context, upload *entity.MediaUpload) error
	GetByURL(ctx context.Context, url string) (*entity.MediaUpload, error)
	ListBySession(ctx context.Context, sellerID, sessionKey string) ([]*entity.MediaUpload, error)
	DeleteByURL(ctx context.Context, url string) error
}
