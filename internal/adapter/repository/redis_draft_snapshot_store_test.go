package repository

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/pkg/errors"
)

// fakeRedis implements the string commands the snapshot store uses. Any
// other command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable

	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (r *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return redis.NewStatusResult("", r.err)
	}
	switch v := value.(type) {
	case []byte:
		r.data[key] = string(v)
	case string:
		r.data[key] = v
	}
	r.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (r *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return redis.NewStringResult("", r.err)
	}
	value, ok := r.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (r *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return redis.NewIntResult(0, r.err)
	}
	var deleted int64
	for _, key := range keys {
		if _, ok := r.data[key]; ok {
			delete(r.data, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func TestRedisDraftSnapshotStore_SaveLoadClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := newFakeRedis()
	store := NewRedisDraftSnapshotStore(client, 72*time.Hour)

	state := entity.NewWizardState("seller-1", "session-1")
	state.CurrentStepIndex = 3
	state.Draft.ListingMode = entity.ListingModeSale
	state.Draft.Title = "Step van"
	require.NoError(t, store.Save(ctx, "seller-1:session-1", state))

	assert.Contains(t, client.data, "listing-draft:seller-1:session-1")
	assert.Equal(t, 72*time.Hour, client.ttls["listing-draft:seller-1:session-1"])

	loaded, err := store.Load(ctx, "seller-1:session-1")
	require.NoError(t, err)
	assert.Equal(t, "seller-1", loaded.SellerID)
	assert.Equal(t, 3, loaded.CurrentStepIndex)
	assert.Equal(t, "Step van", loaded.Draft.Title)

	// last write wins
	state.Draft.Title = "Step van kitchen"
	require.NoError(t, store.Save(ctx, "seller-1:session-1", state))
	loaded, err = store.Load(ctx, "seller-1:session-1")
	require.NoError(t, err)
	assert.Equal(t, "Step van kitchen", loaded.Draft.Title)

	require.NoError(t, store.Clear(ctx, "seller-1:session-1"))
	_, err = store.Load(ctx, "seller-1:session-1")
	assert.True(t, stderrors.Is(err, repository.ErrSnapshotNotFound))

	// clearing a missing key is not an error
	assert.NoError(t, store.Clear(ctx, "seller-1:session-1"))
}

func TestRedisDraftSnapshotStore_MissingKey(t *testing.T) {
	t.Parallel()

	store := NewRedisDraftSnapshotStore(newFakeRedis(), 0)

	_, err := store.Load(context.Background(), "seller-1:unknown")

	assert.True(t, stderrors.Is(err, repository.ErrSnapshotNotFound))
}

func TestRedisDraftSnapshotStore_RestoresMissingDraft(t *testing.T) {
	t.Parallel()
	client := newFakeRedis()
	client.data["listing-draft:seller-1:session-1"] = `{"seller_id":"seller-1","current_step_index":1}`
	store := NewRedisDraftSnapshotStore(client, 0)

	loaded, err := store.Load(context.Background(), "seller-1:session-1")

	require.NoError(t, err)
	require.NotNil(t, loaded.Draft)
	assert.Empty(t, loaded.Draft.Media)
	assert.Equal(t, 1, loaded.CurrentStepIndex)
}

func TestRedisDraftSnapshotStore_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("corrupt snapshot", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.data["listing-draft:k"] = `{not json`
		store := NewRedisDraftSnapshotStore(client, 0)

		_, err := store.Load(ctx, "k")
		assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	})

	t.Run("redis unavailable", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.err = stderrors.New("connection refused")
		store := NewRedisDraftSnapshotStore(client, 0)

		assert.True(t, errors.Is(store.Save(ctx, "k", entity.NewWizardState("s", "k")), "INTERNAL_ERROR"))
		_, err := store.Load(ctx, "k")
		assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
		assert.False(t, stderrors.Is(err, repository.ErrSnapshotNotFound))
		assert.True(t, errors.Is(store.Clear(ctx, "k"), "INTERNAL_ERROR"))
	})
}
