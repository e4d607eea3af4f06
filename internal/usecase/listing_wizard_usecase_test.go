package usecase

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/service"
	ws "truckhub/internal/infrastructure/websocket"
	"truckhub/pkg/errors"
)

const (
	testSeller  = "seller-1"
	testSession = "session-1"
)

type wizardFixture struct {
	uc        *ListingWizardUseCase
	repo      *memoryListingRepository
	snapshots *memorySnapshotStore
	checkout  *fakeCheckout
	files     *fakeFileService
	publisher *recordingPublisher
	notifier  *recordingNotifier
	metrics   *countingMetrics
	now       time.Time
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()

	f := &wizardFixture{
		repo:      newMemoryListingRepository(),
		snapshots: newMemorySnapshotStore(),
		checkout:  &fakeCheckout{},
		files:     &fakeFileService{},
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
		metrics:   newCountingMetrics(),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uc = NewListingWizardUseCase(
		f.repo, f.snapshots, f.checkout, f.files,
		service.NewImageFilter(1<<20, false, 0, 0),
		f.publisher, f.notifier, f.metrics,
		ListingWizardConfig{
			BaseURL:                     "https://trucks.example.com",
			FeaturedPlacementPriceCents: 2900,
			NotarizedReceiptPriceCents:  4900,
			CheckoutExpiry:              time.Hour,
			CheckoutGracePeriod:         15 * time.Minute,
		},
	)
	f.uc.now = func() time.Time { return f.now }
	return f
}

func (f *wizardFixture) start(t *testing.T, fields map[string]interface{}) {
	t.Helper()
	_, err := f.uc.StartSession(context.Background(), testSeller, testSession)
	require.NoError(t, err)
	if len(fields) > 0 {
		_, err = f.uc.UpdateFields(context.Background(), testSeller, testSession, fields)
		require.NoError(t, err)
	}
}

// startListing starts a session with a complete rent draft and one photo.
func (f *wizardFixture) startListing(t *testing.T, extra map[string]interface{}) {
	t.Helper()
	fields := validRentFields()
	for name, value := range extra {
		fields[name] = value
	}
	f.start(t, fields)
	_, err := f.uc.UploadMedia(context.Background(), testSeller, testSession, pngBytes(t))
	require.NoError(t, err)
}

func TestStartSession_NewAndRestore(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()

	view, err := f.uc.StartSession(ctx, testSeller, "")
	require.NoError(t, err)
	assert.NotEmpty(t, view.SessionKey)
	assert.Equal(t, entity.StepType, view.CurrentStep)
	assert.Equal(t, len(entity.WizardSteps), view.StepCount)
	assert.False(t, view.CanAdvance)
	assert.False(t, view.CanRetreat)

	_, err = f.uc.UpdateField(ctx, testSeller, view.SessionKey, "listing_mode", "sale")
	require.NoError(t, err)
	_, err = f.uc.UpdateField(ctx, testSeller, view.SessionKey, "title", "Step van")
	require.NoError(t, err)

	restored, err := f.uc.StartSession(ctx, testSeller, view.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "sale", restored.Draft.ListingMode)
	assert.Equal(t, "Step van", restored.Draft.Title)
	assert.True(t, restored.CanAdvance)
}

func TestGetSession_OtherSellerNotFound(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.start(t, nil)

	_, err := f.uc.GetSession(context.Background(), "seller-2", testSession)

	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestAdvance_FollowsStepGates(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.start(t, nil)

	view, err := f.uc.Advance(ctx, testSeller, testSession)
	require.NoError(t, err)
	assert.False(t, view.Moved)
	assert.Equal(t, entity.StepType, view.CurrentStep)

	_, err = f.uc.UpdateFields(ctx, testSeller, testSession, validRentFields())
	require.NoError(t, err)
	_, err = f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
	require.NoError(t, err)

	expected := []entity.WizardStep{
		entity.StepCategory, entity.StepBasics, entity.StepLocation, entity.StepPhotosSpecs,
		entity.StepPricing, entity.StepFeatures, entity.StepAddOns, entity.StepReview,
	}
	for _, step := range expected {
		view, err = f.uc.Advance(ctx, testSeller, testSession)
		require.NoError(t, err)
		require.True(t, view.Moved, "advance into %s", step)
		assert.Equal(t, step, view.CurrentStep)
	}

	view, err = f.uc.Advance(ctx, testSeller, testSession)
	require.NoError(t, err)
	assert.False(t, view.Moved)
	assert.Equal(t, entity.StepReview, view.CurrentStep)

	view, err = f.uc.Retreat(ctx, testSeller, testSession)
	require.NoError(t, err)
	assert.True(t, view.Moved)
	assert.Equal(t, entity.StepAddOns, view.CurrentStep)
}

func TestUpdateFields_RejectsBadInput(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.start(t, nil)

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{"unknown field", map[string]interface{}{"color": "red"}},
		{"bad mode", map[string]interface{}{"listing_mode": "lease"}},
		{"non numeric price", map[string]interface{}{"daily_price": "lots"}},
		{"wrong type", map[string]interface{}{"title": 42}},
		{"empty", map[string]interface{}{}},
		{"photo list", map[string]interface{}{"media": []interface{}{"not-an-image", "javascript:alert(1)"}}},
	}

	for _, tt := range tests {
		_, err := f.uc.UpdateFields(ctx, testSeller, testSession, tt.fields)
		assert.True(t, errors.Is(err, "BAD_REQUEST"), tt.name)
	}

	view, err := f.uc.GetSession(ctx, testSeller, testSession)
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Media)
}

func TestUpdateField_MediaOnlyThroughUploads(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.startListing(t, nil)

	_, err := f.uc.UpdateField(ctx, testSeller, testSession, "media", []interface{}{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	view, err := f.uc.GetSession(ctx, testSeller, testSession)
	require.NoError(t, err)
	assert.Equal(t, f.files.uploaded, view.Draft.Media)
}

func TestSubmit_PublishesFreeListing(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.startListing(t, nil)

	result, err := f.uc.Submit(ctx, testSeller, testSession, false)
	require.NoError(t, err)

	assert.False(t, result.RequiresPayment)
	assert.Empty(t, result.CheckoutURL)
	assert.Equal(t, entity.ListingStatusActive, result.Listing.Status)
	assert.Equal(t, entity.PaymentStatusNone, result.Listing.PaymentStatus)
	require.NotNil(t, result.Listing.DailyPrice)
	assert.Equal(t, 100.0, *result.Listing.DailyPrice)
	assert.Nil(t, result.Listing.WeeklyPrice)
	assert.Contains(t, result.Warnings, "Listings with at least 3 photos get more inquiries")

	stored := f.repo.get(result.Listing.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.ListingStatusActive, stored.Status)
	assert.NotNil(t, stored.PublishedAt)

	assert.False(t, f.snapshots.has(snapshotKey(testSeller, testSession)))
	assert.Equal(t, []string{SubjectListingPublished}, f.publisher.subjects)
	assert.Equal(t, []string{ws.MessageTypeListingPublished}, f.notifier.types)
	assert.Equal(t, 1, f.metrics.submits[SubmitOutcomePublished])
}

func TestSubmit_InvalidKeepsSnapshot(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.start(t, validRentFields())

	_, err := f.uc.Submit(ctx, testSeller, testSession, false)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.Code)
	validation, ok := appErr.Details.(service.ValidationResult)
	require.True(t, ok)
	assert.Contains(t, validation.Errors, service.MsgPhotoRequired)

	assert.True(t, f.snapshots.has(snapshotKey(testSeller, testSession)))
	assert.Equal(t, 0, f.repo.count())
	assert.Equal(t, 1, f.metrics.failures)
}

func TestSubmit_AsDraftSkipsValidation(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.start(t, map[string]interface{}{"listing_mode": "sale", "title": "x"})

	result, err := f.uc.Submit(context.Background(), testSeller, testSession, true)
	require.NoError(t, err)

	assert.Equal(t, entity.ListingStatusDraft, result.Listing.Status)
	assert.Equal(t, 1, f.repo.count())
	assert.Empty(t, f.publisher.subjects)
	assert.False(t, f.snapshots.has(snapshotKey(testSeller, testSession)))
}

func TestSubmit_PaidExtrasStageCheckout(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.startListing(t, map[string]interface{}{"featured_placement": true})

	result, err := f.uc.Submit(ctx, testSeller, testSession, false)
	require.NoError(t, err)

	assert.True(t, result.RequiresPayment)
	assert.Equal(t, "https://checkout.example.com/"+result.Listing.ID, result.CheckoutURL)

	stored := f.repo.get(result.Listing.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.ListingStatusPendingPayment, stored.Status)
	assert.Equal(t, entity.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, "cs_"+result.Listing.ID, stored.CheckoutSessionID)
	assert.False(t, stored.Featured)
	assert.True(t, stored.RequestedFeatured)
	require.NotNil(t, stored.CheckoutExpiresAt)
	assert.Equal(t, f.now.Add(time.Hour), *stored.CheckoutExpiresAt)

	require.Len(t, f.checkout.requests, 1)
	req := f.checkout.requests[0]
	assert.Equal(t, int64(2900), req.TotalCents())
	assert.Equal(t, result.Listing.ID, req.Metadata[service.CheckoutMetadataListingID])
	assert.Equal(t, []string{SubjectListingStaged}, f.publisher.subjects)
}

func TestSubmit_CheckoutFailureRollsBack(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.checkout.err = stderrors.New("stripe unavailable")
	f.startListing(t, map[string]interface{}{"featured_placement": true})

	_, err := f.uc.Submit(context.Background(), testSeller, testSession, false)

	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	assert.Equal(t, 0, f.repo.count())
	assert.True(t, f.snapshots.has(snapshotKey(testSeller, testSession)))
	assert.Equal(t, 1, f.metrics.submits[SubmitOutcomeFailed])
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.startListing(t, nil)

	key := snapshotKey(testSeller, testSession)
	require.True(t, f.uc.acquireSubmit(key))

	_, err := f.uc.Submit(context.Background(), testSeller, testSession, false)
	assert.True(t, errors.Is(err, "CONFLICT"))

	f.uc.releaseSubmit(key)
	_, err = f.uc.Submit(context.Background(), testSeller, testSession, false)
	assert.NoError(t, err)
}

func stageListing(t *testing.T, f *wizardFixture) *entity.Listing {
	t.Helper()
	f.startListing(t, map[string]interface{}{"featured_placement": true, "notarized_receipt": true})
	result, err := f.uc.Submit(context.Background(), testSeller, testSession, false)
	require.NoError(t, err)
	return result.Listing
}

func TestHandleCheckoutEvent_PaidActivatesWithExtras(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	staged := stageListing(t, f)

	event := &service.CheckoutEvent{
		SessionID: "cs_" + staged.ID,
		Status:    service.CheckoutStatusPaid,
		Metadata:  map[string]string{service.CheckoutMetadataListingID: staged.ID},
	}
	listing, err := f.uc.HandleCheckoutEvent(ctx, event)
	require.NoError(t, err)

	assert.Equal(t, entity.ListingStatusActive, listing.Status)
	assert.Equal(t, entity.PaymentStatusPaid, listing.PaymentStatus)
	assert.True(t, listing.Featured)
	assert.True(t, listing.NotarizedReceipt)

	// replayed webhook
	again, err := f.uc.HandleCheckoutEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, again.PaymentStatus)
	assert.Equal(t, 1, f.metrics.checkouts[entity.PaymentStatusPaid])
	assert.Contains(t, f.notifier.types, ws.MessageTypePaymentConfirmed)
}

func TestConfirmPayment_SessionMismatch(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	staged := stageListing(t, f)

	_, err := f.uc.ConfirmPayment(context.Background(), staged.ID, "cs_other")

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, entity.ListingStatusPendingPayment, f.repo.get(staged.ID).Status)
}

func TestCompensatePayment_PublishesWithoutExtras(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	staged := stageListing(t, f)

	listing, err := f.uc.HandleCheckoutEvent(context.Background(), &service.CheckoutEvent{
		SessionID:   "cs_" + staged.ID,
		ReferenceID: staged.ID,
		Status:      service.CheckoutStatusCanceled,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ListingStatusActive, listing.Status)
	assert.Equal(t, entity.PaymentStatusCanceled, listing.PaymentStatus)
	assert.False(t, listing.Featured)
	assert.False(t, listing.NotarizedReceipt)
	assert.Contains(t, f.publisher.subjects, SubjectListingPaymentCompensated)

	// the seller paid after all; the extras are restored
	late, err := f.uc.ConfirmPayment(context.Background(), staged.ID, "cs_"+staged.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, late.PaymentStatus)
	assert.True(t, late.Featured)
	assert.True(t, late.NotarizedReceipt)
	assert.Contains(t, f.publisher.subjects, SubjectListingPaymentConfirmed)
}

func TestConfirmPayment_LateWebhookAfterSweepRestoresExtras(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	staged := stageListing(t, f)
	publishedAt := f.now

	f.now = f.now.Add(2 * time.Hour)
	count, err := f.uc.SweepExpiredCheckouts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = f.uc.ConfirmPayment(ctx, staged.ID, "cs_other")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	listing, err := f.uc.HandleCheckoutEvent(ctx, &service.CheckoutEvent{
		SessionID: "cs_" + staged.ID,
		Status:    service.CheckoutStatusPaid,
		Metadata:  map[string]string{service.CheckoutMetadataListingID: staged.ID},
	})
	require.NoError(t, err)

	stored := f.repo.get(staged.ID)
	assert.Equal(t, entity.ListingStatusActive, stored.Status)
	assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)
	assert.True(t, stored.Featured)
	assert.True(t, stored.NotarizedReceipt)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, publishedAt.Add(2*time.Hour), *stored.PublishedAt)
	assert.Equal(t, stored.PaymentStatus, listing.PaymentStatus)
	assert.Equal(t, 1, f.metrics.checkouts[entity.PaymentStatusPaid])
}

func TestHandleCheckoutEvent_MissingReference(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)

	_, err := f.uc.HandleCheckoutEvent(context.Background(), &service.CheckoutEvent{Status: service.CheckoutStatusPaid})

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSweepExpiredCheckouts(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	staged := stageListing(t, f)

	count, err := f.uc.SweepExpiredCheckouts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// expired, but still inside the grace period for a late webhook
	f.now = f.now.Add(61 * time.Minute)
	count, err = f.uc.SweepExpiredCheckouts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, f.repo.get(staged.ID).AwaitingPayment())

	f.now = f.now.Add(time.Hour)
	count, err = f.uc.SweepExpiredCheckouts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored := f.repo.get(staged.ID)
	assert.Equal(t, entity.ListingStatusActive, stored.Status)
	assert.Equal(t, entity.PaymentStatusExpired, stored.PaymentStatus)
	assert.False(t, stored.Featured)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUploadMedia(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	ctx := context.Background()
	f.start(t, nil)

	view, err := f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
	require.NoError(t, err)
	require.Len(t, view.Draft.Media, 1)
	assert.Equal(t, f.files.uploaded[0], view.Draft.Media[0])

	_, err = f.uc.UploadMedia(ctx, testSeller, testSession, []byte("not an image at all"))
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Len(t, f.files.uploaded, 1)

	view, err = f.uc.RemoveMedia(ctx, testSeller, testSession, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Media)
	assert.Equal(t, f.files.uploaded, f.files.deleted)
}

func TestUploadMedia_SaveFailureDeletesUpload(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.start(t, nil)
	f.snapshots.saveErr = stderrors.New("redis down")

	_, err := f.uc.UploadMedia(context.Background(), testSeller, testSession, pngBytes(t))

	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	require.Len(t, f.files.uploaded, 1)
	assert.Equal(t, f.files.uploaded, f.files.deleted)
}

func TestUploadMedia_LimitReached(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.start(t, nil)
	for i := 0; i < entity.MaxMediaItems; i++ {
		_, err := f.uc.UploadMedia(context.Background(), testSeller, testSession, pngBytes(t))
		require.NoError(t, err)
	}

	_, err := f.uc.UploadMedia(context.Background(), testSeller, testSession, pngBytes(t))

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Len(t, f.files.uploaded, entity.MaxMediaItems)
}

func TestAbandon(t *testing.T) {
	t.Parallel()
	f := newWizardFixture(t)
	f.start(t, nil)

	require.NoError(t, f.uc.Abandon(context.Background(), testSeller, testSession))

	_, err := f.uc.GetSession(context.Background(), testSeller, testSession)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestMediaUploads_ReleasedWithSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("abandon deletes every upload", func(t *testing.T) {
		t.Parallel()
		f := newWizardFixture(t)
		uploads := newMemoryMediaUploads()
		f.uc.WithMediaUploads(uploads)
		f.start(t, nil)

		_, err := f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
		require.NoError(t, err)
		_, err = f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
		require.NoError(t, err)
		assert.Equal(t, 2, uploads.len())

		require.NoError(t, f.uc.Abandon(ctx, testSeller, testSession))

		assert.Equal(t, 0, uploads.len())
		assert.ElementsMatch(t, f.files.uploaded, f.files.deleted)
	})

	t.Run("submit keeps photos on the listing", func(t *testing.T) {
		t.Parallel()
		f := newWizardFixture(t)
		uploads := newMemoryMediaUploads()
		f.uc.WithMediaUploads(uploads)
		f.start(t, validRentFields())

		_, err := f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
		require.NoError(t, err)
		_, err = f.uc.UploadMedia(ctx, testSeller, testSession, pngBytes(t))
		require.NoError(t, err)
		_, err = f.uc.RemoveMedia(ctx, testSeller, testSession, 0)
		require.NoError(t, err)

		result, err := f.uc.Submit(ctx, testSeller, testSession, false)
		require.NoError(t, err)

		assert.Equal(t, []string{f.files.uploaded[1]}, result.Listing.Media)
		assert.Equal(t, []string{f.files.uploaded[0]}, f.files.deleted)
		assert.Equal(t, 0, uploads.len())
	})
}
