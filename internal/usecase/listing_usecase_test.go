package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckhub/internal/domain/entity"
	"truckhub/pkg/errors"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()
	uc := NewListingUseCase(newMemoryListingRepository())

	d := entity.NewListingDraft()
	d.ListingMode = entity.ListingModeSale
	d.AssetCategory = "trailer"
	d.Title = "Concession trailer"

	eval := uc.Evaluate(d)

	assert.False(t, eval.CanPublish)
	assert.NotEmpty(t, eval.Validation.Errors)
	require.Len(t, eval.Steps, len(entity.WizardSteps))
	assert.True(t, eval.Steps[0].Ready)
	assert.True(t, eval.Steps[1].Ready)
	assert.False(t, eval.Steps[2].Ready)
	assert.True(t, eval.Steps[7].Ready)

	empty := uc.Evaluate(nil)
	assert.Equal(t, 0, empty.Quality.Score)
	assert.False(t, empty.Steps[0].Ready)
}

func TestEvaluate_ValidDraftCanPublish(t *testing.T) {
	t.Parallel()
	uc := NewListingUseCase(newMemoryListingRepository())

	d := entity.NewListingDraft()
	d.ListingMode = entity.ListingModeRent
	d.AssetCategory = "food_truck"
	d.Title = "Food Truck for Rent"
	d.Description = strings.Repeat("a", 60)
	d.PublicLocationLabel = "Austin, TX"
	d.Media = []string{"https://cdn.example.com/1.jpg"}
	d.DailyPrice = "100"
	d.PickupEnabled = true

	eval := uc.Evaluate(d)

	assert.True(t, eval.CanPublish)
	assert.True(t, eval.Steps[len(eval.Steps)-1].Ready)
}

func seedListing(t *testing.T, repo *memoryListingRepository, sellerID, status string) *entity.Listing {
	t.Helper()
	listing := &entity.Listing{SellerID: sellerID, Status: status, CreatedAt: time.Now()}
	if status == entity.ListingStatusPendingPayment {
		listing.PaymentStatus = entity.PaymentStatusPending
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing
}

func TestGetListing_Visibility(t *testing.T) {
	t.Parallel()
	repo := newMemoryListingRepository()
	uc := NewListingUseCase(repo)
	ctx := context.Background()

	active := seedListing(t, repo, testSeller, entity.ListingStatusActive)
	draft := seedListing(t, repo, testSeller, entity.ListingStatusDraft)

	_, err := uc.GetListing(ctx, "", active.ID)
	assert.NoError(t, err)

	_, err = uc.GetListing(ctx, "someone-else", draft.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	got, err := uc.GetListing(ctx, testSeller, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestListMyListings(t *testing.T) {
	t.Parallel()
	repo := newMemoryListingRepository()
	uc := NewListingUseCase(repo)
	ctx := context.Background()

	seedListing(t, repo, testSeller, entity.ListingStatusActive)
	seedListing(t, repo, testSeller, entity.ListingStatusDraft)
	seedListing(t, repo, testSeller, entity.ListingStatusActive)
	seedListing(t, repo, "seller-2", entity.ListingStatusActive)

	listings, total, err := uc.ListMyListings(ctx, testSeller, entity.ListingStatusActive, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, listings, 1)

	_, total, err = uc.ListMyListings(ctx, testSeller, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, _, err = uc.ListMyListings(ctx, testSeller, "sold", 20, 0)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestDeleteListing(t *testing.T) {
	t.Parallel()
	repo := newMemoryListingRepository()
	uc := NewListingUseCase(repo)
	ctx := context.Background()

	active := seedListing(t, repo, testSeller, entity.ListingStatusActive)
	pending := seedListing(t, repo, testSeller, entity.ListingStatusPendingPayment)

	assert.True(t, errors.Is(uc.DeleteListing(ctx, "seller-2", active.ID), "FORBIDDEN"))
	assert.True(t, errors.Is(uc.DeleteListing(ctx, testSeller, pending.ID), "CONFLICT"))
	require.NoError(t, uc.DeleteListing(ctx, testSeller, active.ID))
	assert.Nil(t, repo.get(active.ID))
}
