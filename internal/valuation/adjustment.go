package valuation

import (
	"math"

	"dealscout/internal/models"
	"dealscout/internal/stats"
)

// Adjustment calibration. Dollar amounts per feature scale with the local
// price per square foot relative to the reference market.
const (
	referencePpsf = 350.0

	bedroomFactor  = 40.0
	bathroomFactor = 55.0
	garageFactor   = 40.0
	areaFactor     = 0.5

	yearBuiltRatePerYear = 0.004
	lotRatePerUnit       = 0.02
	lotUnitAcres         = 0.25

	maxSqftAdjPct  = 0.15
	maxYearAdjPct  = 0.10
	maxLotAdjPct   = 0.10
	maxTotalAdjPct = 0.25
)

// featureOrder fixes summation order so totals are reproducible
var featureOrder = []string{
	models.AdjBedrooms,
	models.AdjBathrooms,
	models.AdjSqft,
	models.AdjYearBuilt,
	models.AdjGarage,
	models.AdjLotSize,
}

// AdjustComparable applies feature adjustments that move the comparable's
// close price toward what it would have sold for with the subject's
// features. ppsf is the average price per square foot of the comparable set;
// a non-positive ppsf disables the area-scaled adjustments. The returned
// comparable has no weight assigned.
func AdjustComparable(subject models.SubjectProperty, comp models.ComparableSale, ppsf float64) models.AdjustedComparable {
	closePrice := comp.ClosePrice
	scale := ppsf / referencePpsf
	adjustments := make(map[string]float64)

	if ppsf > 0 {
		if subject.Beds != nil && comp.Beds != nil {
			diff := float64(*subject.Beds - *comp.Beds)
			adjustments[models.AdjBedrooms] = ppsf * bedroomFactor * scale * diff
		}
		if subject.Baths != nil && comp.Baths != nil {
			diff := *subject.Baths - *comp.Baths
			adjustments[models.AdjBathrooms] = ppsf * bathroomFactor * scale * diff
		}
		if subject.LivingArea != nil && comp.LivingArea != nil {
			diff := *subject.LivingArea - *comp.LivingArea
			adjustments[models.AdjSqft] = clampPct(ppsf*areaFactor*diff, closePrice, maxSqftAdjPct)
		}
		if subject.GarageSpaces != nil && comp.GarageSpaces != nil {
			diff := float64(*subject.GarageSpaces - *comp.GarageSpaces)
			adjustments[models.AdjGarage] = ppsf * garageFactor * scale * diff
		}
	}

	if subject.YearBuilt != nil && comp.YearBuilt != nil {
		diff := float64(*subject.YearBuilt - *comp.YearBuilt)
		adjustments[models.AdjYearBuilt] = clampPct(closePrice*yearBuiltRatePerYear*diff, closePrice, maxYearAdjPct)
	}
	if subject.LotSizeAcres != nil && comp.LotSizeAcres != nil {
		units := (*subject.LotSizeAcres - *comp.LotSizeAcres) / lotUnitAcres
		adjustments[models.AdjLotSize] = clampPct(closePrice*lotRatePerUnit*units, closePrice, maxLotAdjPct)
	}

	var total float64
	for _, feature := range featureOrder {
		total += adjustments[feature]
	}
	total = clampPct(total, closePrice, maxTotalAdjPct)

	var grossPct float64
	if closePrice > 0 {
		grossPct = math.Abs(total) / closePrice * 100
	}

	return models.AdjustedComparable{
		Comparable:         comp,
		Adjustments:        adjustments,
		TotalAdjustment:    total,
		AdjustedPrice:      closePrice + total,
		GrossAdjustmentPct: grossPct,
	}
}

// clampPct bounds v to ±pct of base
func clampPct(v, base, pct float64) float64 {
	limit := math.Abs(base) * pct
	return stats.Clamp(v, -limit, limit)
}
