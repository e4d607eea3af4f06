package entity

import "time"

type WizardStep string

const (
	StepType        WizardStep = "type"
	StepCategory    WizardStep = "category"
	StepBasics      WizardStep = "basics"
	StepLocation    WizardStep = "location"
	StepPhotosSpecs WizardStep = "photos_specs"
	StepPricing     WizardStep = "pricing"
	StepFeatures    WizardStep = "features"
	StepAddOns      WizardStep = "addons"
	StepReview      WizardStep = "review"
)

// WizardSteps is the fixed step order. It is the same for rent and sale.
var WizardSteps = []WizardStep{
	StepType,
	StepCategory,
	StepBasics,
	StepLocation,
	StepPhotosSpecs,
	StepPricing,
	StepFeatures,
	StepAddOns,
	StepReview,
}

func LastStepIndex() int {
	return len(WizardSteps) - 1
}

// WizardState is what a wizard session persists between requests.
type WizardState struct {
	SessionKey       string        `json:"session_key"`
	SellerID         string        `json:"seller_id"`
	CurrentStepIndex int           `json:"current_step_index"`
	Draft            *ListingDraft `json:"draft"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func NewWizardState(sellerID, sessionKey string) *WizardState {
	return &WizardState{
		SessionKey: sessionKey,
		SellerID:   sellerID,
		Draft:      NewListingDraft(),
	}
}

func (s *WizardState) CurrentStep() WizardStep {
	index := s.CurrentStepIndex
	if index < 0 {
		index = 0
	}
	if index > LastStepIndex() {
		index = LastStepIndex()
	}
	return WizardSteps[index]
}

// StepContent is what a step renders. Steps whose form depends on the
// listing mode resolve to a different concrete content per mode, so code
// branches on the content type instead of on listing_mode.
type StepContent interface {
	Step() WizardStep
	Fields() []string
}

type TypeSelection struct{}
type CategorySelection struct{}
type Basics struct{}
type Location struct{}
type PhotosSpecs struct{}
type RentPricing struct{}
type SalePricing struct{}
type RentFeatures struct{}
type SaleFeatures struct{}
type AddOnsSelection struct{}
type Review struct{}

// ModePending stands in for a mode-specific step while listing_mode is unset.
type ModePending struct {
	For WizardStep
}

func (TypeSelection) Step() WizardStep     { return StepType }
func (CategorySelection) Step() WizardStep { return StepCategory }
func (Basics) Step() WizardStep            { return StepBasics }
func (Location) Step() WizardStep          { return StepLocation }
func (PhotosSpecs) Step() WizardStep       { return StepPhotosSpecs }
func (RentPricing) Step() WizardStep       { return StepPricing }
func (SalePricing) Step() WizardStep       { return StepPricing }
func (RentFeatures) Step() WizardStep      { return StepFeatures }
func (SaleFeatures) Step() WizardStep      { return StepFeatures }
func (AddOnsSelection) Step() WizardStep   { return StepAddOns }
func (Review) Step() WizardStep            { return StepReview }
func (m ModePending) Step() WizardStep     { return m.For }

func (TypeSelection) Fields() []string     { return []string{"listing_mode"} }
func (CategorySelection) Fields() []string { return []string{"asset_category"} }
func (Basics) Fields() []string {
	return []string{"title", "short_description", "description"}
}
func (Location) Fields() []string {
	return []string{"public_location_label", "zip_code", "address_line", "city", "state"}
}
func (PhotosSpecs) Fields() []string {
	return []string{
		"media", "condition", "power_type", "year", "make", "model",
		"size_length", "size_width", "size_height",
		"water_hookup", "propane", "hood_system", "refrigeration", "generator_included",
	}
}
func (RentPricing) Fields() []string {
	return []string{
		"daily_price", "weekly_price", "monthly_price", "security_deposit", "cleaning_fee",
		"min_rental_days", "max_rental_days",
	}
}
func (SalePricing) Fields() []string { return []string{"sale_price", "accept_offers"} }
func (RentFeatures) Fields() []string {
	return []string{
		"pickup_enabled", "delivery_available", "delivery_max_distance",
		"delivery_rate_per_mile", "delivery_base_fee", "required_documents",
	}
}
func (SaleFeatures) Fields() []string {
	return []string{
		"local_pickup_available", "freight_delivery_available", "seller_delivery_available",
		"notarized_receipt",
	}
}
func (AddOnsSelection) Fields() []string { return []string{"addons"} }
func (Review) Fields() []string          { return []string{"featured_placement"} }
func (ModePending) Fields() []string     { return []string{"listing_mode"} }

// ContentFor selects the content a step renders for the given listing mode.
func ContentFor(step WizardStep, mode string) StepContent {
	switch step {
	case StepType:
		return TypeSelection{}
	case StepCategory:
		return CategorySelection{}
	case StepBasics:
		return Basics{}
	case StepLocation:
		return Location{}
	case StepPhotosSpecs:
		return PhotosSpecs{}
	case StepPricing:
		switch mode {
		case ListingModeRent:
			return RentPricing{}
		case ListingModeSale:
			return SalePricing{}
		}
	case StepFeatures:
		switch mode {
		case ListingModeRent:
			return RentFeatures{}
		case ListingModeSale:
			return SaleFeatures{}
		}
	case StepAddOns:
		return AddOnsSelection{}
	case StepReview:
		return Review{}
	}
	return ModePending{For: step}
}
