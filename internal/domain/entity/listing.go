package entity

import (
	"time"
)

const (
	ListingStatusDraft          = "draft"
	ListingStatusPendingPayment = "pending_payment"
	ListingStatusActive         = "active"

	PaymentStatusNone     = "none"
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusCanceled = "canceled"
	PaymentStatusExpired  = "expired"
)

// Listing is the flat record handed to listing persistence. Numeric fields
// are nil when the draft left them empty.
type Listing struct {
	ID       string `json:"id" firestore:"id"`
	SellerID string `json:"seller_id" firestore:"sellerId"`
	Status   string `json:"status" firestore:"status"` // draft, pending_payment, active

	ListingMode   string `json:"listing_mode" firestore:"listingMode"`
	AssetCategory string `json:"asset_category" firestore:"assetCategory"`

	Title            string `json:"title" firestore:"title"`
	ShortDescription string `json:"short_description" firestore:"shortDescription"`
	Description      string `json:"description" firestore:"description"`

	PublicLocationLabel string `json:"public_location_label" firestore:"publicLocationLabel"`
	ZipCode             string `json:"zip_code" firestore:"zipCode"`
	AddressLine         string `json:"address_line,omitempty" firestore:"addressLine"`
	City                string `json:"city,omitempty" firestore:"city"`
	State               string `json:"state,omitempty" firestore:"state"`

	Media        []string `json:"media" firestore:"media"`
	PrimaryImage string   `json:"primary_image" firestore:"primaryImage"`

	Condition  string   `json:"condition" firestore:"condition"`
	PowerType  string   `json:"power_type" firestore:"powerType"`
	Year       *float64 `json:"year" firestore:"year"`
	Make       string   `json:"make" firestore:"make"`
	Model      string   `json:"model" firestore:"model"`
	SizeLength *float64 `json:"size_length" firestore:"sizeLength"`
	SizeWidth  *float64 `json:"size_width" firestore:"sizeWidth"`
	SizeHeight *float64 `json:"size_height" firestore:"sizeHeight"`

	WaterHookup       bool `json:"water_hookup" firestore:"waterHookup"`
	Propane           bool `json:"propane" firestore:"propane"`
	HoodSystem        bool `json:"hood_system" firestore:"hoodSystem"`
	Refrigeration     bool `json:"refrigeration" firestore:"refrigeration"`
	GeneratorIncluded bool `json:"generator_included" firestore:"generatorIncluded"`

	DailyPrice          *float64 `json:"daily_price" firestore:"dailyPrice"`
	WeeklyPrice         *float64 `json:"weekly_price" firestore:"weeklyPrice"`
	MonthlyPrice        *float64 `json:"monthly_price" firestore:"monthlyPrice"`
	SecurityDeposit     *float64 `json:"security_deposit" firestore:"securityDeposit"`
	CleaningFee         *float64 `json:"cleaning_fee" firestore:"cleaningFee"`
	MinRentalDays       *float64 `json:"min_rental_days" firestore:"minRentalDays"`
	MaxRentalDays       *float64 `json:"max_rental_days" firestore:"maxRentalDays"`
	PickupEnabled       bool     `json:"pickup_enabled" firestore:"pickupEnabled"`
	DeliveryAvailable   bool     `json:"delivery_available" firestore:"deliveryAvailable"`
	DeliveryMaxDistance *float64 `json:"delivery_max_distance" firestore:"deliveryMaxDistance"`
	DeliveryRatePerMile *float64 `json:"delivery_rate_per_mile" firestore:"deliveryRatePerMile"`
	DeliveryBaseFee     *float64 `json:"delivery_base_fee" firestore:"deliveryBaseFee"`
	RequiredDocuments   []string `json:"required_documents" firestore:"requiredDocuments"`

	SalePrice                *float64 `json:"sale_price" firestore:"salePrice"`
	AcceptOffers             bool     `json:"accept_offers" firestore:"acceptOffers"`
	LocalPickupAvailable     bool     `json:"local_pickup_available" firestore:"localPickupAvailable"`
	FreightDeliveryAvailable bool     `json:"freight_delivery_available" firestore:"freightDeliveryAvailable"`
	SellerDeliveryAvailable  bool     `json:"seller_delivery_available" firestore:"sellerDeliveryAvailable"`

	AddOns []AddOn `json:"addons" firestore:"addons"`

	// Paid extras are only set once the checkout is confirmed.
	Featured         bool `json:"featured" firestore:"featured"`
	NotarizedReceipt bool `json:"notarized_receipt" firestore:"notarizedReceipt"`

	RequestedFeatured         bool       `json:"requested_featured" firestore:"requestedFeatured"`
	RequestedNotarizedReceipt bool       `json:"requested_notarized_receipt" firestore:"requestedNotarizedReceipt"`
	PaymentStatus             string     `json:"payment_status" firestore:"paymentStatus"` // none, pending, paid, canceled, expired
	CheckoutSessionID         string     `json:"checkout_session_id,omitempty" firestore:"checkoutSessionId,omitempty"`
	CheckoutExpiresAt         *time.Time `json:"checkout_expires_at,omitempty" firestore:"checkoutExpiresAt,omitempty"`

	QualityScore int `json:"quality_score" firestore:"qualityScore"`

	PublishedAt *time.Time `json:"published_at,omitempty" firestore:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}

// NewListingFromDraft coerces a draft into a listing record: numeric form
// fields become numbers, and empty ones become nil rather than 0.
func NewListingFromDraft(sellerID string, d *ListingDraft) *Listing {
	media := append([]string{}, d.Media...)
	docs := append([]string{}, d.RequiredDocuments...)
	addOns := append([]AddOn{}, d.AddOns...)

	return &Listing{
		SellerID:      sellerID,
		ListingMode:   d.ListingMode,
		AssetCategory: d.AssetCategory,

		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,

		PublicLocationLabel: d.PublicLocationLabel,
		ZipCode:             d.ZipCode,
		AddressLine:         d.AddressLine,
		City:                d.City,
		State:               d.State,

		Media:        media,
		PrimaryImage: d.PrimaryImage(),

		Condition:  d.Condition,
		PowerType:  d.PowerType,
		Year:       optionalNumber(d.Year),
		Make:       d.Make,
		Model:      d.Model,
		SizeLength: optionalNumber(d.SizeLength),
		SizeWidth:  optionalNumber(d.SizeWidth),
		SizeHeight: optionalNumber(d.SizeHeight),

		WaterHookup:       d.WaterHookup,
		Propane:           d.Propane,
		HoodSystem:        d.HoodSystem,
		Refrigeration:     d.Refrigeration,
		GeneratorIncluded: d.GeneratorIncluded,

		DailyPrice:          optionalNumber(d.DailyPrice),
		WeeklyPrice:         optionalNumber(d.WeeklyPrice),
		MonthlyPrice:        optionalNumber(d.MonthlyPrice),
		SecurityDeposit:     optionalNumber(d.SecurityDeposit),
		CleaningFee:         optionalNumber(d.CleaningFee),
		MinRentalDays:       optionalNumber(d.MinRentalDays),
		MaxRentalDays:       optionalNumber(d.MaxRentalDays),
		PickupEnabled:       d.PickupEnabled,
		DeliveryAvailable:   d.DeliveryAvailable,
		DeliveryMaxDistance: optionalNumber(d.DeliveryMaxDistance),
		DeliveryRatePerMile: optionalNumber(d.DeliveryRatePerMile),
		DeliveryBaseFee:     optionalNumber(d.DeliveryBaseFee),
		RequiredDocuments:   docs,

		SalePrice:                optionalNumber(d.SalePrice),
		AcceptOffers:             d.AcceptOffers,
		LocalPickupAvailable:     d.LocalPickupAvailable,
		FreightDeliveryAvailable: d.FreightDeliveryAvailable,
		SellerDeliveryAvailable:  d.SellerDeliveryAvailable,

		AddOns: addOns,

		RequestedFeatured:         d.FeaturedPlacement,
		RequestedNotarizedReceipt: d.NotarizedReceipt,
		PaymentStatus:             PaymentStatusNone,
	}
}

// Activate publishes the listing. When paid is false the requested paid
// extras are dropped and the listing goes live without them.
func (l *Listing) Activate(paid bool, at time.Time) {
	l.Status = ListingStatusActive
	if paid {
		l.Featured = l.RequestedFeatured
		l.NotarizedReceipt = l.RequestedNotarizedReceipt
	} else {
		l.Featured = false
		l.NotarizedReceipt = false
	}
	if l.PublishedAt == nil {
		l.PublishedAt = &at
	}
	l.UpdatedAt = at
}

func (l *Listing) AwaitingPayment() bool {
	return l.Status == ListingStatusPendingPayment && l.PaymentStatus == PaymentStatusPending
}

// Compensated reports a listing that went live without its paid extras
// because its checkout was canceled or expired.
func (l *Listing) Compensated() bool {
	return l.Status == ListingStatusActive &&
		(l.PaymentStatus == PaymentStatusExpired || l.PaymentStatus == PaymentStatusCanceled)
}
