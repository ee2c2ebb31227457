package valuation

import "dealscout/internal/models"

// ConfidenceInputs summarizes the comparable set for confidence scoring
type ConfidenceInputs struct {
	CompCount          int
	AvgDistanceMiles   float64
	AvgMonthsSinceSale float64
	PriceCV            float64
}

// ScoreConfidence sums four bucketed sub-scores (count ≤40, distance ≤30,
// recency ≤20, dispersion ≤10) and maps the total to a level
func ScoreConfidence(in ConfidenceInputs) (float64, models.ConfidenceLevel) {
	if in.CompCount <= 0 {
		return 0, models.ConfidenceNone
	}

	var score float64
	switch {
	case in.CompCount >= 8:
		score += 40
	case in.CompCount >= 5:
		score += 35
	case in.CompCount >= 3:
		score += 25
	default:
		score += 15
	}

	switch {
	case in.AvgDistanceMiles < 0.5:
		score += 30
	case in.AvgDistanceMiles < 1.0:
		score += 20
	case in.AvgDistanceMiles < 2.0:
		score += 10
	default:
		score += 5
	}

	switch {
	case in.AvgMonthsSinceSale < 3:
		score += 20
	case in.AvgMonthsSinceSale < 6:
		score += 15
	case in.AvgMonthsSinceSale < 9:
		score += 10
	default:
		score += 5
	}

	switch {
	case in.PriceCV < 0.10:
		score += 10
	case in.PriceCV < 0.20:
		score += 7
	case in.PriceCV < 0.30:
		score += 4
	default:
		score += 2
	}

	return score, ConfidenceLevelFor(score)
}

// ConfidenceLevelFor maps a 0–100 confidence score to its level
func ConfidenceLevelFor(score float64) models.ConfidenceLevel {
	switch {
	case score >= 75:
		return models.ConfidenceHigh
	case score >= 50:
		return models.ConfidenceMedium
	case score >= 20:
		return models.ConfidenceLow
	default:
		return models.ConfidenceNone
	}
}
