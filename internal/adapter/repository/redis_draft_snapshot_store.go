package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/pkg/errors"
)

const draftSnapshotPrefix = "listing-draft:"

type redisDraftSnapshotStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisDraftSnapshotStore stores wizard snapshots as JSON. A ttl of zero
// keeps snapshots until they are cleared.
func NewRedisDraftSnapshotStore(client redis.Cmdable, ttl time.Duration) repository.DraftSnapshotStore {
	return &redisDraftSnapshotStore{
		client: client,
		ttl:    ttl,
	}
}

func draftSnapshotKey(key string) string {
	return draftSnapshotPrefix + key
}

func (s *redisDraftSnapshotStore) Save(ctx context.Context, key string, state *entity.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Internal("Failed to encode draft snapshot", err)
	}

	if err := s.client.Set(ctx, draftSnapshotKey(key), data, s.ttl).Err(); err != nil {
		return errors.Internal("Failed to save draft snapshot", err)
	}

	return nil
}

func (s *redisDraftSnapshotStore) Load(ctx context.Context, key string) (*entity.WizardState, error) {
	data, err := s.client.Get(ctx, draftSnapshotKey(key)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Internal("Failed to load draft snapshot", err)
	}

	var state entity.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Internal("Failed to decode draft snapshot", err)
	}
	if state.Draft == nil {
		state.Draft = entity.NewListingDraft()
	}

	return &state, nil
}

func (s *redisDraftSnapshotStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, draftSnapshotKey(key)).Err(); err != nil {
		return errors.Internal("Failed to clear draft snapshot", err)
	}
	return nil
}
