package usecase

import (
	"context"

	"truckhub/internal/domain/entity"
	"truckhub/internal/domain/repository"
	"truckhub/internal/domain/service"
	"truckhub/pkg/errors"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

// StepReadiness is the gate result for one wizard step.
type StepReadiness struct {
	Step  entity.WizardStep `json:"step"`
	Ready bool              `json:"ready"`
}

type ListingEvaluation struct {
	Validation service.ValidationResult `json:"validation"`
	Quality    service.QualityScore     `json:"quality"`
	Steps      []StepReadiness          `json:"steps"`
	CanPublish bool                     `json:"can_publish"`
}

// Evaluate runs the validator, the quality scorer and every step gate over
// a draft without touching any session.
func (uc *ListingUseCase) Evaluate(d *entity.ListingDraft) *ListingEvaluation {
	if d == nil {
		d = entity.NewListingDraft()
	}

	steps := make([]StepReadiness, 0, len(entity.WizardSteps))
	for _, step := range entity.WizardSteps {
		steps = append(steps, StepReadiness{Step: step, Ready: service.CanAdvance(step, d)})
	}

	validation := service.ValidateListing(d)
	return &ListingEvaluation{
		Validation: validation,
		Quality:    service.ScoreListing(d),
		Steps:      steps,
		CanPublish: validation.IsValid,
	}
}

// GetListing returns an active listing to anyone. Drafts and listings
// awaiting payment are only visible to their seller.
func (uc *ListingUseCase) GetListing(ctx context.Context, viewerID, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusActive && listing.SellerID != viewerID {
		return nil, errors.NotFound("Listing", nil)
	}

	return listing, nil
}

func (uc *ListingUseCase) ListMyListings(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	switch status {
	case "", entity.ListingStatusDraft, entity.ListingStatusPendingPayment, entity.ListingStatusActive:
	default:
		return nil, 0, errors.BadRequest("status must be one of: draft, pending_payment, active", nil)
	}

	return uc.listingRepo.ListBySellerID(ctx, sellerID, status, limit, offset)
}

// DeleteListing removes a listing owned by sellerID. Listings with an open
// checkout cannot be deleted until the checkout settles.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, sellerID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != sellerID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}
	if listing.AwaitingPayment() {
		return errors.Conflict("Listing has a checkout in progress")
	}

	return uc.listingRepo.Delete(ctx, id)
}
