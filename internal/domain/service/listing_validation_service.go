package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"truckhub/internal/domain/entity"
)

const (
	MinTitleLength          = 5
	MinDescriptionLength    = 50
	MinLocationLabelLength  = 3
	MinZipCodeLength        = 5
	RecommendedPhotoCount   = 3
	MaxReasonableDailyPrice = 10000
	MaxReasonableSalePrice  = 1000000
	MinDeliveryDistance     = 1
)

const (
	MsgPhotoRequired         = "At least one photo is required"
	MsgDailyPriceNotPositive = "Daily price must be greater than $0"
)

// ValidationResult is recomputed from the draft on demand and never stored.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	IsValid  bool     `json:"is_valid"`
}

// addOnValidator checks add-on struct tags; validator.Validate is safe for
// concurrent use.
var addOnValidator = validator.New()

// ValidateListing evaluates every publishing rule against the draft. It is
// safe to call on a partially filled draft: missing fields count as empty.
func ValidateListing(d *entity.ListingDraft) ValidationResult {
	if d == nil {
		d = entity.NewListingDraft()
	}

	result := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	addError := func(msg string) { result.Errors = append(result.Errors, msg) }
	addWarning := func(msg string) { result.Warnings = append(result.Warnings, msg) }

	// A draft always has a mode before it can be published; without one none
	// of the mode-specific pricing rules below would run.
	if !d.IsRent() && !d.IsSale() {
		addError("Choose whether the listing is for rent or for sale")
	}

	switch {
	case !entity.Present(d.Title):
		addError("Title is required")
	case textLength(d.Title) < MinTitleLength:
		addError(fmt.Sprintf("Title must be at least %d characters", MinTitleLength))
	}

	switch {
	case !entity.Present(d.Description):
		addError("Description is required")
	case textLength(d.Description) < MinDescriptionLength:
		addError(fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength))
	}

	if !entity.Present(d.AssetCategory) {
		addError("Category is required")
	}

	switch {
	case !entity.Present(d.PublicLocationLabel):
		addError("Public location is required")
	case textLength(d.PublicLocationLabel) < MinLocationLabelLength:
		addError(fmt.Sprintf("Public location must be at least %d characters", MinLocationLabelLength))
	}

	switch {
	case !entity.Present(d.ZipCode):
		addWarning("Add a zip code so people nearby can find your listing")
	case textLength(d.ZipCode) < MinZipCodeLength:
		addWarning(fmt.Sprintf("Zip code should be at least %d characters", MinZipCodeLength))
	}

	if len(d.Media) == 0 {
		addError(MsgPhotoRequired)
	}
	if len(d.Media) < RecommendedPhotoCount {
		addWarning(fmt.Sprintf("Listings with at least %d photos get more inquiries", RecommendedPhotoCount))
	}
	// the draft caps photos at 15; a record restored from elsewhere may not
	if len(d.Media) > entity.MaxMediaItems {
		addError(fmt.Sprintf("A listing can have at most %d photos", entity.MaxMediaItems))
	}

	if d.IsRent() {
		if !entity.Present(d.DailyPrice) && !entity.Present(d.WeeklyPrice) && !entity.Present(d.MonthlyPrice) {
			addError("Set at least one rental rate (daily, weekly or monthly)")
		}
		if entity.Present(d.DailyPrice) {
			if daily, _ := entity.Number(d.DailyPrice); daily <= 0 {
				addError(MsgDailyPriceNotPositive)
			}
		}
		if !d.PickupEnabled && !d.DeliveryAvailable {
			addError("Enable pickup or delivery")
		}
	}

	if d.IsSale() {
		if !entity.Present(d.SalePrice) {
			addError("Sale price is required")
		} else if price, _ := entity.Number(d.SalePrice); price <= 0 {
			addError("Sale price must be greater than $0")
		}
		if !d.LocalPickupAvailable && !d.FreightDeliveryAvailable && !d.SellerDeliveryAvailable {
			addError("Select at least one delivery method (local pickup, freight or seller delivery)")
		}
	}

	if !entity.Present(d.Condition) {
		addWarning("Adding the condition helps build trust")
	}

	if daily, ok := entity.Number(d.DailyPrice); ok && daily > MaxReasonableDailyPrice {
		addWarning("Daily price is above $10,000, double-check the amount")
	}
	if sale, ok := entity.Number(d.SalePrice); ok && sale > MaxReasonableSalePrice {
		addWarning("Sale price is above $1,000,000, double-check the amount")
	}

	if d.DeliveryAvailable {
		if distance, ok := entity.Number(d.DeliveryMaxDistance); !ok || distance < MinDeliveryDistance {
			addWarning("Set a maximum delivery distance of at least 1 mile")
		}
		if !entity.Present(d.DeliveryRatePerMile) {
			addWarning("Set a per-mile delivery rate")
		}
	}

	for _, msg := range validateAddOns(d.AddOns) {
		addError(msg)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func validateAddOns(addOns []entity.AddOn) []string {
	var messages []string
	if len(addOns) > entity.MaxAddOns {
		messages = append(messages, fmt.Sprintf("A listing can have at most %d add-ons", entity.MaxAddOns))
	}
	for i, addOn := range addOns {
		addOn.Title = strings.TrimSpace(addOn.Title)
		err := addOnValidator.Struct(addOn)
		if err == nil {
			continue
		}
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			messages = append(messages, fmt.Sprintf("Add-on %d is invalid", i+1))
			continue
		}
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Title":
				messages = append(messages, fmt.Sprintf("Add-on %d needs a title", i+1))
			case "Price":
				messages = append(messages, fmt.Sprintf("Add-on %d price cannot be negative", i+1))
			}
		}
	}
	return messages
}

// textLength counts characters the seller typed; surrounding whitespace
// does not count toward a minimum length.
func textLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
