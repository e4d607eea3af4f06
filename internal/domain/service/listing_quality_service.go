package service

import "truckhub/internal/domain/entity"

const MaxQualityScore = 100

// QualityScore rewards completeness. It is independent of validity: an
// invalid draft can still score well and vice versa.
type QualityScore struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Tier  string `json:"tier"` // success, info, warning, danger
}

func ScoreListing(d *entity.ListingDraft) QualityScore {
	if d == nil {
		d = entity.NewListingDraft()
	}

	score := titlePoints(d) +
		descriptionPoints(d) +
		photoPoints(d) +
		locationPoints(d) +
		pricingPoints(d) +
		specPoints(d) +
		featurePoints(d)

	if score > MaxQualityScore {
		score = MaxQualityScore
	}
	if score < 0 {
		score = 0
	}

	label, tier := QualityLabel(score)
	return QualityScore{Score: score, Label: label, Tier: tier}
}

// QualityLabel maps a score to its display label and severity tier.
func QualityLabel(score int) (string, string) {
	switch {
	case score >= 80:
		return "Excellent", "success"
	case score >= 60:
		return "Good", "info"
	case score >= 40:
		return "Fair", "warning"
	default:
		return "Needs Improvement", "danger"
	}
}

func titlePoints(d *entity.ListingDraft) int {
	switch n := textLength(d.Title); {
	case n >= 10:
		return 10
	case n >= 5:
		return 5
	}
	return 0
}

func descriptionPoints(d *entity.ListingDraft) int {
	switch n := textLength(d.Description); {
	case n >= 200:
		return 20
	case n >= 100:
		return 15
	case n >= 50:
		return 10
	}
	return 0
}

func photoPoints(d *entity.ListingDraft) int {
	switch n := len(d.Media); {
	case n >= 5:
		return 25
	case n >= 3:
		return 20
	case n >= 1:
		return 10
	}
	return 0
}

func locationPoints(d *entity.ListingDraft) int {
	label := entity.Present(d.PublicLocationLabel)
	zip := entity.Present(d.ZipCode)
	switch {
	case label && zip:
		return 10
	case label || zip:
		return 5
	}
	return 0
}

func pricingPoints(d *entity.ListingDraft) int {
	if d.IsSale() {
		if entity.Present(d.SalePrice) {
			return 10
		}
		return 0
	}
	if !d.IsRent() {
		return 0
	}
	points := 0
	for _, rate := range []string{d.DailyPrice, d.WeeklyPrice, d.MonthlyPrice} {
		if entity.Present(rate) {
			points += 5
		}
	}
	return capPoints(points, 10)
}

func specPoints(d *entity.ListingDraft) int {
	points := 0
	for _, spec := range []string{d.Year, d.Make, d.Model, d.SizeLength, d.Condition} {
		if entity.Present(spec) {
			points += 3
		}
	}
	return capPoints(points, 15)
}

func featurePoints(d *entity.ListingDraft) int {
	points := 0
	for _, feature := range []bool{d.WaterHookup, d.Propane, d.HoodSystem, d.Refrigeration, d.GeneratorIncluded} {
		if feature {
			points += 2
		}
	}
	return capPoints(points, 10)
}

func capPoints(points, max int) int {
	if points > max {
		return max
	}
	return points
}
