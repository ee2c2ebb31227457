package financial

import (
	"dealscout/internal/models"
)

// Risk factor names
const (
	RiskConfidence      = "confidence"
	RiskMarginCushion   = "margin_cushion"
	RiskPriceDispersion = "price_dispersion"
	RiskDaysOnMarket    = "days_on_market"
	RiskCompCount       = "comp_count"
)

type riskFactor struct {
	name   string
	weight float64
}

var riskFactors = []riskFactor{
	{RiskConfidence, 0.35},
	{RiskMarginCushion, 0.25},
	{RiskPriceDispersion, 0.20},
	{RiskDaysOnMarket, 0.10},
	{RiskCompCount, 0.10},
}

// GradeRisk scores five deal risk factors from 0 (risky) to 100 (safe) and
// maps their weighted sum to a letter grade
func GradeRisk(confidenceScore, breakevenARV, arv, priceCV, avgDaysOnMarket float64, compCount int) models.RiskGrade {
	factors := map[string]float64{
		RiskConfidence:      confidenceRisk(confidenceScore),
		RiskMarginCushion:   cushionRisk(breakevenARV, arv),
		RiskPriceDispersion: dispersionRisk(priceCV),
		RiskDaysOnMarket:    domRisk(avgDaysOnMarket),
		RiskCompCount:       compCountRisk(compCount),
	}

	var score float64
	for _, f := range riskFactors {
		score += factors[f.name] * f.weight
	}

	return models.RiskGrade{
		Grade:   letterGrade(score),
		Score:   score,
		Factors: factors,
	}
}

func letterGrade(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 65:
		return "B"
	case score >= 50:
		return "C"
	case score >= 35:
		return "D"
	default:
		return "F"
	}
}

func confidenceRisk(score float64) float64 {
	switch {
	case score >= 75:
		return 100
	case score >= 50:
		return 70
	case score >= 20:
		return 40
	default:
		return 10
	}
}

func cushionRisk(breakevenARV, arv float64) float64 {
	if arv <= 0 {
		return 0
	}
	cushion := (arv - breakevenARV) / arv
	switch {
	case cushion >= 0.25:
		return 100
	case cushion >= 0.15:
		return 75
	case cushion >= 0.05:
		return 50
	case cushion >= 0:
		return 25
	default:
		return 0
	}
}

func dispersionRisk(cv float64) float64 {
	switch {
	case cv < 0.10:
		return 100
	case cv < 0.20:
		return 70
	case cv < 0.30:
		return 40
	default:
		return 10
	}
}

func domRisk(days float64) float64 {
	switch {
	case days <= 30:
		return 100
	case days <= 60:
		return 75
	case days <= 90:
		return 50
	default:
		return 25
	}
}

func compCountRisk(n int) float64 {
	switch {
	case n >= 8:
		return 100
	case n >= 5:
		return 75
	case n >= 3:
		return 50
	case n >= 1:
		return 25
	default:
		return 0
	}
}
