// Package financial holds the rehab, hold period, cost, scenario, offer and
// risk calculators. Every function is a pure computation over its inputs.
package financial

import (
	"math"

	"dealscout/internal/models"
	"dealscout/internal/stats"
)

const (
	defaultAge         = 30
	leadPaintCutoff    = 1978
	leadPaintAllowance = 8000.0
	minEffectivePpsf   = 2.0
)

// EstimateRehab estimates the renovation budget from building age and living
// area. An unknown year built is treated as a 30 year old building, and a
// missing or zero living area gives a zero total.
func EstimateRehab(yearBuilt *int, livingArea *float64, currentYear int) models.RehabEstimate {
	age := defaultAge
	if yearBuilt != nil && *yearBuilt > 0 {
		age = currentYear - *yearBuilt
		if age < 0 {
			age = 0
		}
	}

	basePpsf := stats.Clamp(10+float64(age)*0.7, 5, 65)
	multiplier := ageConditionMultiplier(age)
	effectivePpsf := math.Max(minEffectivePpsf, basePpsf*multiplier)
	contingencyRate := contingencyRateFor(effectivePpsf)

	estimate := models.RehabEstimate{
		Age:                 age,
		BasePpsf:            basePpsf,
		ConditionMultiplier: multiplier,
		EffectivePpsf:       effectivePpsf,
		ContingencyRate:     contingencyRate,
	}

	area := models.Value(livingArea)
	if area <= 0 {
		return estimate
	}

	if yearBuilt != nil && *yearBuilt > 0 && *yearBuilt < leadPaintCutoff {
		estimate.LeadPaintAllowance = leadPaintAllowance
	}
	estimate.BaseCost = area * effectivePpsf
	estimate.Contingency = estimate.BaseCost * contingencyRate
	estimate.Total = estimate.BaseCost + estimate.Contingency + estimate.LeadPaintAllowance
	estimate.PerSqft = estimate.Total / area
	return estimate
}

func ageConditionMultiplier(age int) float64 {
	switch {
	case age <= 5:
		return 0.10
	case age <= 10:
		return 0.30
	case age <= 15:
		return 0.50
	case age <= 20:
		return 0.75
	default:
		return 1.0
	}
}

func contingencyRateFor(effectivePpsf float64) float64 {
	switch {
	case effectivePpsf <= 20:
		return 0.08
	case effectivePpsf <= 35:
		return 0.12
	case effectivePpsf <= 50:
		return 0.15
	default:
		return 0.20
	}
}
