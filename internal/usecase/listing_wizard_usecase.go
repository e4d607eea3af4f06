package usecase

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/internal/domain/service"
	ws "truckhub/internal/infrastructure/websocket"
	"truckhub/pkg/errors"
	"truckhub/pkg/logger"
)

const (
	SubmitOutcomeDraft     = "draft"
	SubmitOutcomeInvalid   = "invalid"
	SubmitOutcomePublished = "published"
	SubmitOutcomeStaged    = "staged"
	SubmitOutcomeFailed    = "failed"

	expirySweepBatch = 100
)

type ListingWizardConfig struct {
	BaseURL                     string
	FeaturedPlacementPriceCents int64
	NotarizedReceiptPriceCents  int64
	CheckoutExpiry              time.Duration
	// CheckoutGracePeriod is how long past its expiry a checkout is left for
	// a late webhook before the sweep compensates it.
	CheckoutGracePeriod         time.Duration
}

type ListingWizardUseCase struct {
	listingRepo repository.ListingRepository
	snapshots   repository.DraftSnapshotStore
	checkout    service.CheckoutService
	files       service.FileUploadService
	uploads     repository.MediaUploadRepository
	imageFilter service.ImageFilter
	publisher   ListingEventPublisher
	notifier    Notifier
	metrics     MetricsRecorder
	config      ListingWizardConfig
	now         func() time.Time

	submitMu   sync.Mutex
	submitting map[string]struct{}
}

func NewListingWizardUseCase(
	listingRepo repository.ListingRepository,
	snapshots repository.DraftSnapshotStore,
	checkout service.CheckoutService,
	files service.FileUploadService,
	imageFilter service.ImageFilter,
	publisher ListingEventPublisher,
	notifier Notifier,
	metrics MetricsRecorder,
	config ListingWizardConfig,
) *ListingWizardUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if config.CheckoutExpiry <= 0 {
		config.CheckoutExpiry = time.Hour
	}
	if config.CheckoutGracePeriod < 0 {
		config.CheckoutGracePeriod = 0
	}
	return &ListingWizardUseCase{
		listingRepo: listingRepo,
		snapshots:   snapshots,
		checkout:    checkout,
		files:       files,
		imageFilter: imageFilter,
		publisher:   publisher,
		notifier:    notifier,
		metrics:     metrics,
		config:      config,
		now:         time.Now,
		submitting:  make(map[string]struct{}),
	}
}

// WithMediaUploads records every stored photo so that photos dropped from
// a draft, or left behind by an abandoned session, are deleted.
func (uc *ListingWizardUseCase) WithMediaUploads(uploads repository.MediaUploadRepository) *ListingWizardUseCase {
	uc.uploads = uploads
	return uc
}

// WizardView is what the client renders for a session.
type WizardView struct {
	SessionKey       string                   `json:"session_key"`
	CurrentStep      entity.WizardStep        `json:"current_step"`
	CurrentStepIndex int                      `json:"current_step_index"`
	StepCount        int                      `json:"step_count"`
	StepFields       []string                 `json:"step_fields"`
	CanAdvance       bool                     `json:"can_advance"`
	CanRetreat       bool                     `json:"can_retreat"`
	Moved            bool                     `json:"moved"`
	Draft            *entity.ListingDraft     `json:"draft"`
	Validation       service.ValidationResult `json:"validation"`
	Quality          service.QualityScore     `json:"quality"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type SubmitResult struct {
	Listing         *entity.Listing `json:"listing"`
	RequiresPayment bool            `json:"requires_payment"`
	CheckoutURL     string          `json:"checkout_url,omitempty"`
	Warnings        []string        `json:"warnings"`
}

// ListingEvent is published on every listing lifecycle change.
type ListingEvent struct {
	ListingID        string    `json:"listing_id"`
	SellerID         string    `json:"seller_id"`
	ListingMode      string    `json:"listing_mode"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	Featured         bool      `json:"featured"`
	NotarizedReceipt bool      `json:"notarized_receipt"`
	QualityScore     int       `json:"quality_score"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func newWizardView(w *ListingWizard) *WizardView {
	state := w.State()
	return &WizardView{
		SessionKey:       state.SessionKey,
		CurrentStep:      w.CurrentStep(),
		CurrentStepIndex: state.CurrentStepIndex,
		StepCount:        len(entity.WizardSteps),
		StepFields:       w.CurrentContent().Fields(),
		CanAdvance:       w.CanAdvance(),
		CanRetreat:       state.CurrentStepIndex > 0,
		Draft:            state.Draft,
		Validation:       service.ValidateListing(state.Draft),
		Quality:          service.ScoreListing(state.Draft),
		UpdatedAt:        state.UpdatedAt,
	}
}

// StartSession restores the snapshot stored under sessionKey, or starts an
// empty draft. An empty sessionKey always starts a new session.
func (uc *ListingWizardUseCase) StartSession(ctx context.Context, sellerID, sessionKey string) (*WizardView, error) {
	if sessionKey != "" {
		wizard, err := uc.loadWizard(ctx, sellerID, sessionKey)
		if err == nil {
			logger.Debug("Restored listing wizard %s for seller %s", sessionKey, sellerID)
			return newWizardView(wizard), nil
		}
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
	} else {
		sessionKey = uuid.New().String()
	}

	wizard := uc.newWizard(entity.NewWizardState(sellerID, sessionKey))
	if err := wizard.persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("Started listing wizard %s for seller %s", sessionKey, sellerID)
	return newWizardView(wizard), nil
}

func (uc *ListingWizardUseCase) GetSession(ctx context.Context, sellerID, sessionKey string) (*WizardView, error) {
	wizard, err := uc.loadWizard(ctx, sellerID, sessionKey)
	if err != nil {
		return nil, err
	}
	return newWizardView(wizard), nil
}

func (uc *ListingWizardUseCase) UpdateFields(ctx context.Context, sellerID, sessionKey string, fields map[string]interface{}) (*WizardView, error) {
	return uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		return w.UpdateFields(ctx, fields)
	})
}

func (uc *ListingWizardUseCase) UpdateField(ctx context.Context, sellerID, sessionKey, name string, value interface{}) (*WizardView, error) {
	return uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		return w.UpdateField(ctx, name, value)
	})
}

func (uc *ListingWizardUseCase) Advance(ctx context.Context, sellerID, sessionKey string) (*WizardView, error) {
	var moved bool
	view, err := uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		var err error
		moved, err = w.Advance(ctx)
		return err
	})
	if view != nil {
		view.Moved = moved
	}
	return view, err
}

func (uc *ListingWizardUseCase) Retreat(ctx context.Context, sellerID, sessionKey string) (*WizardView, error) {
	var moved bool
	view, err := uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		var err error
		moved, err = w.Retreat(ctx)
		return err
	})
	if view != nil {
		view.Moved = moved
	}
	return view, err
}

func (uc *ListingWizardUseCase) AddAddOn(ctx context.Context, sellerID, sessionKey string, addOn entity.AddOn) (*WizardView, error) {
	return uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		return w.AddAddOn(ctx, addOn)
	})
}

func (uc *ListingWizardUseCase) RemoveAddOn(ctx context.Context, sellerID, sessionKey string, index int) (*WizardView, error) {
	return uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		return w.RemoveAddOn(ctx, index)
	})
}

func (uc *ListingWizardUseCase) MoveMediaToFront(ctx context.Context, sellerID, sessionKey string, index int) (*WizardView, error) {
	return uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		return w.MoveMediaToFront(ctx, index)
	})
}

// UploadMedia filters an uploaded image, stores it and appends its URL to
// the draft's photos. The stored file is removed again if the draft cannot
// be saved.
func (uc *ListingWizardUseCase) UploadMedia(ctx context.Context, sellerID, sessionKey string, data []byte) (*WizardView, error) {
	wizard, err := uc.loadWizard(ctx, sellerID, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(wizard.Draft().Media) >= entity.MaxMediaItems {
		return nil, errors.BadRequest(entity.ErrMediaLimitReached.Error(), entity.ErrMediaLimitReached)
	}

	contentType, err := uc.imageFilter.Check(data)
	if err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}
	if uc.files == nil {
		return nil, errors.Internal("Media storage is not configured", nil)
	}

	url, err := uc.files.UploadFile(ctx, bytes.NewReader(data), contentType, "listings/"+sellerID, true)
	if err != nil {
		logger.Error("Failed to upload listing photo for seller %s: %v", sellerID, err)
		return nil, errors.Internal("Failed to upload photo", err)
	}

	if err := wizard.AddMedia(ctx, url); err != nil {
		if delErr := uc.files.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("Failed to delete orphaned upload %s: %v", url, delErr)
		}
		return nil, err
	}

	if uc.uploads != nil {
		record := &entity.MediaUpload{
			URL:         url,
			SellerID:    sellerID,
			SessionKey:  sessionKey,
			ContentType: contentType,
			Size:        int64(len(data)),
			CreatedAt:   uc.now().UTC(),
		}
		if err := uc.uploads.Create(ctx, record); err != nil {
			logger.Warn("Failed to record upload %s: %v", url, err)
		}
	}

	return newWizardView(wizard), nil
}

func (uc *ListingWizardUseCase) RemoveMedia(ctx context.Context, sellerID, sessionKey string, index int) (*WizardView, error) {
	var removed string
	view, err := uc.withWizard(ctx, sellerID, sessionKey, func(w *ListingWizard) error {
		var err error
		removed, err = w.RemoveMedia(ctx, index)
		return err
	})
	if err != nil {
		return nil, err
	}

	if removed != "" {
		uc.deleteUpload(ctx, removed)
	}
	return view, nil
}

// Abandon discards the session's snapshot.
func (uc *ListingWizardUseCase) Abandon(ctx context.Context, sellerID, sessionKey string) error {
	if err := uc.snapshots.Clear(ctx, snapshotKey(sellerID, sessionKey)); err != nil {
		return errors.Internal("Failed to discard draft", err)
	}
	uc.releaseUploads(ctx, sellerID, sessionKey, nil)
	logger.Info("Abandoned listing wizard %s for seller %s", sessionKey, sellerID)
	return nil
}

// Submit saves the draft as a listing. With asDraft the listing is stored
// unvalidated with status draft. Otherwise the draft must pass validation;
// drafts asking for paid extras are staged until their checkout completes.
// On failure the session snapshot is left untouched.
func (uc *ListingWizardUseCase) Submit(ctx context.Context, sellerID, sessionKey string, asDraft bool) (*SubmitResult, error) {
	key := snapshotKey(sellerID, sessionKey)
	if !uc.acquireSubmit(key) {
		return nil, errors.Conflict("This listing is already being submitted")
	}
	defer uc.releaseSubmit(key)

	wizard, err := uc.loadWizard(ctx, sellerID, sessionKey)
	if err != nil {
		return nil, err
	}
	draft := wizard.Draft()

	if asDraft {
		return uc.saveDraftListing(ctx, sellerID, sessionKey, draft)
	}

	validation := service.ValidateListing(draft)
	if !validation.IsValid {
		uc.metrics.ObserveValidationFailure()
		uc.metrics.ObserveSubmit(SubmitOutcomeInvalid)
		return nil, errors.ValidationFailed("Listing is not ready to publish", validation)
	}

	listing := entity.NewListingFromDraft(sellerID, draft)
	listing.QualityScore = service.ScoreListing(draft).Score

	if !draft.RequiresPayment() {
		result, err := uc.publish(ctx, listing)
		if err != nil {
			return nil, err
		}
		result.Warnings = validation.Warnings
		uc.finishSession(ctx, sellerID, sessionKey, draft.Media)
		return result, nil
	}

	result, err := uc.stage(ctx, listing)
	if err != nil {
		return nil, err
	}
	result.Warnings = validation.Warnings
	uc.finishSession(ctx, sellerID, sessionKey, draft.Media)
	return result, nil
}

func (uc *ListingWizardUseCase) saveDraftListing(ctx context.Context, sellerID, sessionKey string, draft *entity.ListingDraft) (*SubmitResult, error) {
	listing := entity.NewListingFromDraft(sellerID, draft)
	listing.Status = entity.ListingStatusDraft
	listing.QualityScore = service.ScoreListing(draft).Score

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		uc.metrics.ObserveSubmit(SubmitOutcomeFailed)
		logger.LogListingError(listing.ID, "save_draft", err)
		return nil, errors.Internal("Failed to save draft listing", err)
	}

	uc.finishSession(ctx, sellerID, sessionKey, draft.Media)
	uc.metrics.ObserveSubmit(SubmitOutcomeDraft)
	logger.Info("Saved draft listing %s for seller %s", listing.ID, sellerID)

	return &SubmitResult{Listing: listing, Warnings: []string{}}, nil
}

func (uc *ListingWizardUseCase) publish(ctx context.Context, listing *entity.Listing) (*SubmitResult, error) {
	listing.Activate(false, uc.now().UTC())
	listing.PaymentStatus = entity.PaymentStatusNone

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		uc.metrics.ObserveSubmit(SubmitOutcomeFailed)
		logger.LogListingError(listing.ID, "publish", err)
		return nil, errors.Internal("Failed to publish listing", err)
	}

	uc.metrics.ObserveSubmit(SubmitOutcomePublished)
	uc.metrics.ObservePublished(listing.ListingMode, false)
	uc.emit(ctx, SubjectListingPublished, ws.MessageTypeListingPublished, listing, "Your listing is live")
	logger.Info("Published listing %s for seller %s", listing.ID, listing.SellerID)

	return &SubmitResult{Listing: listing}, nil
}

// stage is the first half of a paid publish: the listing is stored as
// pending_payment and a checkout is opened for it. If the checkout cannot
// be opened the staged listing is deleted again.
func (uc *ListingWizardUseCase) stage(ctx context.Context, listing *entity.Listing) (*SubmitResult, error) {
	if uc.checkout == nil {
		return nil, errors.Internal("Payments are not configured", nil)
	}

	now := uc.now().UTC()
	expiresAt := now.Add(uc.config.CheckoutExpiry)
	listing.Status = entity.ListingStatusPendingPayment
	listing.PaymentStatus = entity.PaymentStatusPending
	listing.CheckoutExpiresAt = &expiresAt

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		uc.metrics.ObserveSubmit(SubmitOutcomeFailed)
		logger.LogListingError(listing.ID, "stage", err)
		return nil, errors.Internal("Failed to save listing", err)
	}

	session, err := uc.checkout.CreateCheckout(ctx, uc.checkoutRequest(listing, expiresAt))
	if err != nil {
		logger.LogListingError(listing.ID, "create_checkout", err)
		if delErr := uc.listingRepo.Delete(ctx, listing.ID); delErr != nil {
			logger.LogListingError(listing.ID, "rollback_stage", delErr)
		}
		uc.metrics.ObserveSubmit(SubmitOutcomeFailed)
		return nil, errors.Internal("Failed to start checkout", err)
	}

	listing.CheckoutSessionID = session.ID
	if !session.ExpiresAt.IsZero() {
		sessionExpiry := session.ExpiresAt
		listing.CheckoutExpiresAt = &sessionExpiry
	}
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		// The webhook and the expiry sweep both work from the staged record,
		// so the checkout stays usable.
		logger.LogListingError(listing.ID, "record_checkout", err)
	}

	uc.metrics.ObserveSubmit(SubmitOutcomeStaged)
	uc.emit(ctx, SubjectListingStaged, ws.MessageTypeListingStaged, listing, "Complete checkout to publish your listing")
	logger.Info("Staged listing %s for seller %s, checkout %s", listing.ID, listing.SellerID, session.ID)

	return &SubmitResult{
		Listing:         listing,
		RequiresPayment: true,
		CheckoutURL:     session.URL,
	}, nil
}

func (uc *ListingWizardUseCase) checkoutRequest(listing *entity.Listing, expiresAt time.Time) service.CheckoutRequest {
	var items []service.CheckoutLineItem
	if listing.RequestedFeatured {
		items = append(items, service.CheckoutLineItem{Name: "Featured placement", AmountCents: uc.config.FeaturedPlacementPriceCents})
	}
	if listing.RequestedNotarizedReceipt {
		items = append(items, service.CheckoutLineItem{Name: "Notarized bill of sale", AmountCents: uc.config.NotarizedReceiptPriceCents})
	}

	listingURL := fmt.Sprintf("%s/listings/%s", uc.config.BaseURL, listing.ID)
	return service.CheckoutRequest{
		ReferenceID: listing.ID,
		LineItems:   items,
		SuccessURL:  listingURL + "?checkout=success",
		CancelURL:   listingURL + "?checkout=canceled",
		ExpiresAt:   expiresAt,
		Metadata: map[string]string{
			service.CheckoutMetadataListingID: listing.ID,
			"seller_id":                       listing.SellerID,
		},
	}
}

// HandleCheckoutEvent applies a verified payment notification.
func (uc *ListingWizardUseCase) HandleCheckoutEvent(ctx context.Context, event *service.CheckoutEvent) (*entity.Listing, error) {
	listingID := event.ListingID()
	if listingID == "" {
		return nil, errors.BadRequest("Checkout event has no listing reference", nil)
	}

	switch event.Status {
	case service.CheckoutStatusPaid:
		return uc.ConfirmPayment(ctx, listingID, event.SessionID)
	case service.CheckoutStatusExpired:
		return uc.CompensatePayment(ctx, listingID, entity.PaymentStatusExpired)
	case service.CheckoutStatusCanceled:
		return uc.CompensatePayment(ctx, listingID, entity.PaymentStatusCanceled)
	}

	logger.Debug("Checkout %s for listing %s still pending", event.SessionID, listingID)
	return nil, nil
}

// ConfirmPayment activates a staged listing with the extras that were paid
// for. A listing already published without its extras is upgraded, since
// the seller was charged. Repeated confirmations are no-ops.
func (uc *ListingWizardUseCase) ConfirmPayment(ctx context.Context, listingID, sessionID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.AwaitingPayment() && !listing.Compensated() {
		logger.Warn("Ignoring payment confirmation for listing %s in status %s/%s", listingID, listing.Status, listing.PaymentStatus)
		return listing, nil
	}
	if sessionID != "" && listing.CheckoutSessionID != "" && sessionID != listing.CheckoutSessionID {
		return nil, errors.BadRequest("Checkout session does not match listing", nil)
	}
	if listing.Compensated() {
		logger.Warn("Late payment for listing %s after %s checkout, restoring paid extras", listingID, listing.PaymentStatus)
	}

	listing.Activate(true, uc.now().UTC())
	listing.PaymentStatus = entity.PaymentStatusPaid
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		logger.LogListingError(listingID, "confirm_payment", err)
		return nil, errors.Internal("Failed to activate listing", err)
	}

	uc.metrics.ObserveCheckout(entity.PaymentStatusPaid)
	uc.metrics.ObservePublished(listing.ListingMode, true)
	uc.emit(ctx, SubjectListingPaymentConfirmed, ws.MessageTypePaymentConfirmed, listing, "Payment received, your listing is live")
	logger.Info("Payment confirmed for listing %s", listingID)

	return listing, nil
}

// CompensatePayment publishes a staged listing without its paid extras when
// the checkout is canceled or expires.
func (uc *ListingWizardUseCase) CompensatePayment(ctx context.Context, listingID, reason string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.AwaitingPayment() {
		return listing, nil
	}

	return listing, uc.compensate(ctx, listing, reason)
}

func (uc *ListingWizardUseCase) compensate(ctx context.Context, listing *entity.Listing, reason string) error {
	listing.Activate(false, uc.now().UTC())
	listing.PaymentStatus = reason
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		logger.LogListingError(listing.ID, "compensate_payment", err)
		return errors.Internal("Failed to activate listing", err)
	}

	uc.metrics.ObserveCheckout(reason)
	uc.metrics.ObservePublished(listing.ListingMode, false)
	uc.emit(ctx, SubjectListingPaymentCompensated, ws.MessageTypePaymentCompensated, listing,
		"Checkout was not completed, your listing is live without paid extras")
	logger.Info("Listing %s published without paid extras (%s)", listing.ID, reason)
	return nil
}

// SweepExpiredCheckouts compensates staged listings whose checkout expired
// more than the grace period ago without a webhook.
func (uc *ListingWizardUseCase) SweepExpiredCheckouts(ctx context.Context) (int, error) {
	cutoff := uc.now().UTC().Add(-uc.config.CheckoutGracePeriod)
	listings, err := uc.listingRepo.ListPendingPaymentBefore(ctx, cutoff, expirySweepBatch)
	if err != nil {
		return 0, err
	}

	compensated := 0
	for _, listing := range listings {
		if !listing.AwaitingPayment() {
			continue
		}
		if err := uc.compensate(ctx, listing, entity.PaymentStatusExpired); err != nil {
			continue
		}
		compensated++
	}

	if compensated > 0 {
		logger.Info("Checkout expiry sweep compensated %d listings", compensated)
	}
	return compensated, nil
}

func (uc *ListingWizardUseCase) StartCheckoutExpiryJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := uc.SweepExpiredCheckouts(ctx); err != nil {
					logger.Error("Checkout expiry job error: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Checkout expiry job started (checking every %s)", interval)
}

func (uc *ListingWizardUseCase) newWizard(state *entity.WizardState) *ListingWizard {
	wizard := NewListingWizard(state, uc.snapshots)
	wizard.now = uc.now
	return wizard
}

func (uc *ListingWizardUseCase) loadWizard(ctx context.Context, sellerID, sessionKey string) (*ListingWizard, error) {
	state, err := uc.snapshots.Load(ctx, snapshotKey(sellerID, sessionKey))
	if err != nil {
		if stderrors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, errors.NotFound("Listing draft", err)
		}
		return nil, errors.Internal("Failed to load draft", err)
	}
	if state.SellerID != sellerID {
		return nil, errors.NotFound("Listing draft", nil)
	}
	state.SessionKey = sessionKey
	return uc.newWizard(state), nil
}

func (uc *ListingWizardUseCase) withWizard(ctx context.Context, sellerID, sessionKey string, apply func(w *ListingWizard) error) (*WizardView, error) {
	wizard, err := uc.loadWizard(ctx, sellerID, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := apply(wizard); err != nil {
		return nil, err
	}
	return newWizardView(wizard), nil
}

// finishSession drops the snapshot of a submitted session. Uploaded photos
// the listing kept stay in storage; the rest are deleted.
func (uc *ListingWizardUseCase) finishSession(ctx context.Context, sellerID, sessionKey string, kept []string) {
	if err := uc.snapshots.Clear(ctx, snapshotKey(sellerID, sessionKey)); err != nil {
		logger.Warn("Failed to clear draft snapshot %s for seller %s: %v", sessionKey, sellerID, err)
	}
	uc.releaseUploads(ctx, sellerID, sessionKey, kept)
}

func (uc *ListingWizardUseCase) releaseUploads(ctx context.Context, sellerID, sessionKey string, kept []string) {
	if uc.uploads == nil {
		return
	}

	uploads, err := uc.uploads.ListBySession(ctx, sellerID, sessionKey)
	if err != nil {
		logger.Warn("Failed to list uploads of session %s: %v", sessionKey, err)
		return
	}

	keep := make(map[string]bool, len(kept))
	for _, url := range kept {
		keep[url] = true
	}
	for _, upload := range uploads {
		if keep[upload.URL] {
			if err := uc.uploads.DeleteByURL(ctx, upload.URL); err != nil {
				logger.Warn("Failed to release upload record %s: %v", upload.URL, err)
			}
			continue
		}
		uc.deleteUpload(ctx, upload.URL)
	}
}

func (uc *ListingWizardUseCase) deleteUpload(ctx context.Context, url string) {
	if uc.files != nil {
		if err := uc.files.DeleteFile(ctx, url); err != nil {
			logger.Warn("Failed to delete photo %s: %v", url, err)
		}
	}
	if uc.uploads != nil {
		if err := uc.uploads.DeleteByURL(ctx, url); err != nil && !errors.Is(err, "NOT_FOUND") {
			logger.Warn("Failed to delete upload record %s: %v", url, err)
		}
	}
}

func (uc *ListingWizardUseCase) acquireSubmit(key string) bool {
	uc.submitMu.Lock()
	defer uc.submitMu.Unlock()

	if _, busy := uc.submitting[key]; busy {
		return false
	}
	uc.submitting[key] = struct{}{}
	return true
}

func (uc *ListingWizardUseCase) releaseSubmit(key string) {
	uc.submitMu.Lock()
	delete(uc.submitting, key)
	uc.submitMu.Unlock()
}

func (uc *ListingWizardUseCase) emit(ctx context.Context, subject, messageType string, listing *entity.Listing, message string) {
	event := ListingEvent{
		ListingID:        listing.ID,
		SellerID:         listing.SellerID,
		ListingMode:      listing.ListingMode,
		Status:           listing.Status,
		PaymentStatus:    listing.PaymentStatus,
		Featured:         listing.Featured,
		NotarizedReceipt: listing.NotarizedReceipt,
		QualityScore:     listing.QualityScore,
		OccurredAt:       uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("Failed to publish %s for listing %s: %v", subject, listing.ID, err)
	}

	notification := ws.ListingNotification{
		ListingID:     listing.ID,
		Title:         listing.Title,
		Status:        listing.Status,
		PaymentStatus: listing.PaymentStatus,
		Featured:      listing.Featured,
		Message:       message,
	}
	if err := uc.notifier.NotifyUser(listing.SellerID, messageType, notification); err != nil {
		logger.Warn("Failed to notify seller %s about listing %s: %v", listing.SellerID, listing.ID, err)
	}
}
