package financial

import (
	"dealscout/config"
	"dealscout/internal/models"
)

// AnalyzeOffer computes the classic and cost-adjusted maximum allowable
// offers and the ARV at which a resale covers totalCosts after selling costs.
func AnalyzeOffer(cfg *config.Config, arv, rehab, holding, financingCost, totalCosts float64) models.OfferAnalysis {
	classic := arv*cfg.Offer.MAOPercent - rehab

	var breakeven float64
	if rate := cfg.SaleCostRate(); rate < 1 {
		breakeven = totalCosts / (1 - rate)
	}

	var cushion float64
	if arv > 0 {
		cushion = (arv - breakeven) / arv
	}

	return models.OfferAnalysis{
		ClassicMAO:    classic,
		AdjustedMAO:   classic - holding - financingCost,
		BreakevenARV:  breakeven,
		MarginCushion: cushion,
	}
}
