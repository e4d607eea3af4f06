package entity

import (
	"errors"
	"strconv"
	"strings"
)

const (
	ListingModeRent = "rent"
	ListingModeSale = "sale"

	MaxMediaItems = 15
	MaxAddOns     = 5
)

var (
	ErrMediaLimitReached  = errors.New("a listing can have at most 15 photos")
	ErrAddOnLimitReached  = errors.New("a listing can have at most 5 add-ons")
	ErrAddOnTitleRequired = errors.New("add-on title is required")
	ErrAddOnNegativePrice = errors.New("add-on price cannot be negative")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrEmptyMediaURL      = errors.New("media url is required")
)

// AddOn is an optional extra offered with a listing (generator rental,
// staff, signage, ...).
type AddOn struct {
	Title       string  `json:"title" firestore:"title" validate:"required"`
	Price       float64 `json:"price" firestore:"price" validate:"gte=0"`
	Description string  `json:"description,omitempty" firestore:"description,omitempty"`
}

// ListingDraft is the in-progress listing edited across the wizard. Numeric
// form fields are kept as the form holds them: strings, empty when absent.
type ListingDraft struct {
	ListingMode   string `json:"listing_mode"` // rent, sale
	AssetCategory string `json:"asset_category"`

	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`

	PublicLocationLabel string `json:"public_location_label"`
	ZipCode             string `json:"zip_code"`
	AddressLine         string `json:"address_line"`
	City                string `json:"city"`
	State               string `json:"state"`

	// Media holds image URLs; the first entry is the primary image.
	Media []string `json:"media"`

	Condition  string `json:"condition"`
	PowerType  string `json:"power_type"`
	Year       string `json:"year"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	SizeLength string `json:"size_length"`
	SizeWidth  string `json:"size_width"`
	SizeHeight string `json:"size_height"`

	WaterHookup       bool `json:"water_hookup"`
	Propane           bool `json:"propane"`
	HoodSystem        bool `json:"hood_system"`
	Refrigeration     bool `json:"refrigeration"`
	GeneratorIncluded bool `json:"generator_included"`

	DailyPrice          string   `json:"daily_price"`
	WeeklyPrice         string   `json:"weekly_price"`
	MonthlyPrice        string   `json:"monthly_price"`
	SecurityDeposit     string   `json:"security_deposit"`
	CleaningFee         string   `json:"cleaning_fee"`
	MinRentalDays       string   `json:"min_rental_days"`
	MaxRentalDays       string   `json:"max_rental_days"`
	PickupEnabled       bool     `json:"pickup_enabled"`
	DeliveryAvailable   bool     `json:"delivery_available"`
	DeliveryMaxDistance string   `json:"delivery_max_distance"`
	DeliveryRatePerMile string   `json:"delivery_rate_per_mile"`
	DeliveryBaseFee     string   `json:"delivery_base_fee"`
	RequiredDocuments   []string `json:"required_documents"`

	SalePrice                string `json:"sale_price"`
	AcceptOffers             bool   `json:"accept_offers"`
	LocalPickupAvailable     bool   `json:"local_pickup_available"`
	FreightDeliveryAvailable bool   `json:"freight_delivery_available"`
	SellerDeliveryAvailable  bool   `json:"seller_delivery_available"`
	NotarizedReceipt         bool   `json:"notarized_receipt"`
	FeaturedPlacement        bool   `json:"featured_placement"`

	AddOns []AddOn `json:"addons"`
}

// NumericDraftFields lists the draft fields that are coerced to numbers on
// submit. Values written to them must parse as a float.
var NumericDraftFields = map[string]bool{
	"year":                   true,
	"size_length":            true,
	"size_width":             true,
	"size_height":            true,
	"daily_price":            true,
	"weekly_price":           true,
	"monthly_price":          true,
	"security_deposit":       true,
	"cleaning_fee":           true,
	"min_rental_days":        true,
	"max_rental_days":        true,
	"delivery_max_distance":  true,
	"delivery_rate_per_mile": true,
	"delivery_base_fee":      true,
	"sale_price":             true,
}

func NewListingDraft() *ListingDraft {
	return &ListingDraft{
		Media:             []string{},
		RequiredDocuments: []string{},
		AddOns:            []AddOn{},
	}
}

func (d *ListingDraft) IsRent() bool {
	return d.ListingMode == ListingModeRent
}

func (d *ListingDraft) IsSale() bool {
	return d.ListingMode == ListingModeSale
}

func (d *ListingDraft) PrimaryImage() string {
	if len(d.Media) == 0 {
		return ""
	}
	return d.Media[0]
}

// RequiresPayment reports whether publishing needs a completed checkout.
func (d *ListingDraft) RequiresPayment() bool {
	return d.NotarizedReceipt || d.FeaturedPlacement
}

func (d *ListingDraft) AddMedia(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyMediaURL
	}
	if len(d.Media) >= MaxMediaItems {
		return ErrMediaLimitReached
	}
	d.Media = append(d.Media, url)
	return nil
}

func (d *ListingDraft) RemoveMedia(index int) (string, error) {
	if index < 0 || index >= len(d.Media) {
		return "", ErrIndexOutOfRange
	}
	removed := d.Media[index]
	d.Media = append(d.Media[:index:index], d.Media[index+1:]...)
	return removed, nil
}

// MoveMediaToFront makes the image at index the primary image, keeping the
// relative order of the others.
func (d *ListingDraft) MoveMediaToFront(index int) error {
	if index < 0 || index >= len(d.Media) {
		return ErrIndexOutOfRange
	}
	if index == 0 {
		return nil
	}
	primary := d.Media[index]
	copy(d.Media[1:index+1], d.Media[:index])
	d.Media[0] = primary
	return nil
}

func (d *ListingDraft) AddAddOn(addOn AddOn) error {
	if len(d.AddOns) >= MaxAddOns {
		return ErrAddOnLimitReached
	}
	addOn.Title = strings.TrimSpace(addOn.Title)
	if addOn.Title == "" {
		return ErrAddOnTitleRequired
	}
	if addOn.Price < 0 {
		return ErrAddOnNegativePrice
	}
	d.AddOns = append(d.AddOns, addOn)
	return nil
}

func (d *ListingDraft) RemoveAddOn(index int) error {
	if index < 0 || index >= len(d.AddOns) {
		return ErrIndexOutOfRange
	}
	d.AddOns = append(d.AddOns[:index:index], d.AddOns[index+1:]...)
	return nil
}

// Number parses a numeric form field. ok is false when the field is absent
// or does not hold a number.
func Number(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Present reports whether a form field holds a non-blank value.
func Present(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

func optionalNumber(raw string) *float64 {
	value, ok := Number(raw)
	if !ok {
		return nil
	}
	return &value
}
