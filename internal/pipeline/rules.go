package pipeline

import (
	"dealscout/config"
	"dealscout/internal/models"
)

// Disqualification reasons
const (
	ReasonListPrice  = "List price below $100K minimum"
	ReasonNoComps    = "No comparable sales found"
	ReasonLivingArea = "Living area below 600 sqft minimum"
)

// Disqualify returns the first failed hard requirement, or nil. A missing
// list price or living area counts as zero.
func Disqualify(cfg *config.Config, subject models.SubjectProperty, compCount int) *string {
	var reason string
	switch {
	case models.Value(subject.ListPrice) < cfg.Thresholds.MinListPrice:
		reason = ReasonListPrice
	case compCount == 0:
		reason = ReasonNoComps
	case models.Value(subject.LivingArea) < cfg.Thresholds.MinLivingArea:
		reason = ReasonLivingArea
	default:
		return nil
	}
	return &reason
}

// AssessViability applies the per-strategy thresholds. Nothing is viable for
// a disqualified property.
func AssessViability(cfg *config.Config, result *models.AnalysisResult) models.Viability {
	if result.DisqualificationReason != nil {
		return models.Viability{}
	}
	t := cfg.Thresholds

	return models.Viability{
		Flip:   result.Cash.Profit > t.MinFlipProfit && result.Cash.ROI > t.MinFlipROI,
		Rental: result.Rental.CapRate >= t.MinCapRate && result.Rental.MonthlyNOI > t.MinMonthlyNOI,
		Brrrr:  result.Brrrr.DSCR >= t.MinDSCR && result.Brrrr.CashLeft < t.MaxCashLeftRatio*result.Brrrr.TotalCashIn,
	}
}

// strategyPriority is the tie-break order for equally scored strategies
var strategyPriority = []models.Strategy{
	models.StrategyFlip,
	models.StrategyBrrrr,
	models.StrategyRental,
}

// StrategyProxy is the score used to rank viable strategies against each other
func StrategyProxy(result *models.AnalysisResult, strategy models.Strategy) float64 {
	switch strategy {
	case models.StrategyFlip:
		return result.Cash.ROI
	case models.StrategyRental:
		return result.Rental.CapRate * 10
	case models.StrategyBrrrr:
		return result.Brrrr.DSCR * 50
	default:
		return 0
	}
}

func isViable(v models.Viability, strategy models.Strategy) bool {
	switch strategy {
	case models.StrategyFlip:
		return v.Flip
	case models.StrategyRental:
		return v.Rental
	case models.StrategyBrrrr:
		return v.Brrrr
	default:
		return false
	}
}

// BestStrategy returns the viable strategy with the highest proxy score, or
// nil when none is viable. Ties go to the earlier strategy in priority order.
func BestStrategy(result *models.AnalysisResult) *models.Strategy {
	var best *models.Strategy
	var bestScore float64

	for _, strategy := range strategyPriority {
		if !isViable(result.Viability, strategy) {
			continue
		}
		score := StrategyProxy(result, strategy)
		if best == nil || score > bestScore {
			s := strategy
			best = &s
			bestScore = score
		}
	}
	return best
}
