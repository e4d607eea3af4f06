package service

import "truckhub/internal/domain/entity"

const (
	MinGateTitleLength            = 5
	MinGateShortDescriptionLength = 10
	MinGateDescriptionLength      = 20
	MinGatePhotoCount             = 1
)

// CanAdvance reports whether "Continue" may be used on the given step. It
// is a pure query: callers decide whether to honour it.
func CanAdvance(step entity.WizardStep, d *entity.ListingDraft) bool {
	if d == nil {
		return false
	}
	return StepReady(entity.ContentFor(step, d.ListingMode), d)
}

// CanPublish is the review step predicate: only the full validator decides.
func CanPublish(d *entity.ListingDraft) bool {
	return ValidateListing(d).IsValid
}

// StepReady evaluates the predicate for one step's content. The photo
// requirement here is deliberately looser than the validator's photo
// recommendation; the stricter rules are applied again at publish time.
func StepReady(content entity.StepContent, d *entity.ListingDraft) bool {
	switch content.(type) {
	case entity.TypeSelection:
		return d.IsRent() || d.IsSale()
	case entity.CategorySelection:
		return entity.Present(d.AssetCategory)
	case entity.Basics:
		return textLength(d.Title) >= MinGateTitleLength &&
			textLength(d.ShortDescription) >= MinGateShortDescriptionLength &&
			textLength(d.Description) >= MinGateDescriptionLength
	case entity.Location:
		return textLength(d.PublicLocationLabel) >= MinLocationLabelLength &&
			textLength(d.ZipCode) >= MinZipCodeLength
	case entity.PhotosSpecs:
		return len(d.Media) >= MinGatePhotoCount
	case entity.RentPricing:
		return entity.Present(d.DailyPrice) || entity.Present(d.WeeklyPrice) || entity.Present(d.MonthlyPrice)
	case entity.SalePricing:
		return entity.Present(d.SalePrice)
	case entity.RentFeatures:
		return d.PickupEnabled || d.DeliveryAvailable
	case entity.SaleFeatures:
		return d.LocalPickupAvailable || d.FreightDeliveryAvailable || d.SellerDeliveryAvailable
	case entity.AddOnsSelection:
		return true
	case entity.Review:
		return CanPublish(d)
	}
	return false
}
