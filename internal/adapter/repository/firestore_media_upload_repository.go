package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/pkg/errors"
)

const mediaUploadsCollection = "media_uploads"

type firestoreMediaUploadRepository struct {
	client *firestore.Client
}

func NewFirestoreMediaUploadRepository(client *firestore.Client) repository.MediaUploadRepository {
	return &firestoreMediaUploadRepository{
		client: client,
	}
}

func (r *firestoreMediaUploadRepository) Create(ctx context.Context, upload *entity.MediaUpload) error {
	if upload.ID == "" {
		upload.ID = r.client.Collection(mediaUploadsCollection).NewDoc().ID
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(mediaUploadsCollection).Doc(upload.ID).Set(ctx, upload)
	if err != nil {
		return errors.Internal("Failed to record media upload", err)
	}
	return nil
}

func (r *firestoreMediaUploadRepository) GetByURL(ctx context.Context, url string) (*entity.MediaUpload, error) {
	iter := r.client.Collection(mediaUploadsCollection).Where("url", "==", url).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Media upload", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get media upload", err)
	}

	var upload entity.MediaUpload
	if err := doc.DataTo(&upload); err != nil {
		return nil, errors.Internal("Failed to parse media upload", err)
	}
	return &upload, nil
}

func (r *firestoreMediaUploadRepository) ListBySession(ctx context.Context, sellerID, sessionKey string) ([]*entity.MediaUpload, error) {
	iter := r.client.Collection(mediaUploadsCollection).
		Where("sellerId", "==", sellerID).
		Where("sessionKey", "==", sessionKey).
		Documents(ctx)
	defer iter.Stop()

	uploads := []*entity.MediaUpload{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate media uploads", err)
		}

		var upload entity.MediaUpload
		if err := doc.DataTo(&upload); err != nil {
			return nil, errors.Internal("Failed to parse media upload", err)
		}
		uploads = append(uploads, &upload)
	}

	return uploads, nil
}

func (r *firestoreMediaUploadRepository) DeleteByURL(ctx context.Context, url string) error {
	upload, err := r.GetByURL(ctx, url)
	if err != nil {
		return err
	}

	if _, err := r.client.Collection(mediaUploadsCollection).Doc(upload.ID).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete media upload", err)
	}
	return nil
}
