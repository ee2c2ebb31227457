// Package valuation estimates after-repair value from comparable sales.
package valuation

import (
	"os"

	"dealscout/config"
	"dealscout/internal/clock"
	"dealscout/internal/models"
	"dealscout/internal/stats"

	"github.com/sirupsen/logrus"
)

// Calculator produces ARV estimates for subject properties
type Calculator struct {
	store  PropertyStore
	search *ComparableSearch
	config *config.Config
	clock  clock.Clock
	logger *logrus.Logger
}

// NewCalculator creates a new ARV calculator
func NewCalculator(store PropertyStore, cfg *config.Config, clk clock.Clock, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if clk == nil {
		clk = clock.System
	}

	return &Calculator{
		store:  store,
		search: NewComparableSearch(store, cfg, logger),
		config: cfg,
		clock:  clk,
		logger: logger,
	}
}

// Calculate estimates the subject's ARV from closed comparables found within
// maxRadius miles. A subject with no comparables gets the empty result.
func (c *Calculator) Calculate(subject models.SubjectProperty, maxRadius float64, limit int) (models.ArvResult, error) {
	comps, err := c.search.Search(subject, maxRadius, limit)
	if err != nil {
		return models.ArvResult{}, err
	}
	if len(comps) == 0 {
		c.logger.WithField("listing_id", subject.ListingID).Warn("No comparable sales found")
		return models.EmptyArvResult(), nil
	}

	now := c.clock.Now()
	avgPpsf := averagePricePerArea(comps)

	var ppsf float64
	if avgPpsf != nil {
		ppsf = *avgPpsf
	}

	adjusted := make([]models.AdjustedComparable, 0, len(comps))
	adjustedPrices := make([]float64, 0, len(comps))
	distances := make([]float64, 0, len(comps))
	var months, doms []float64
	var weightedSum, totalWeight float64

	for _, comp := range comps {
		adj := AdjustComparable(subject, comp, ppsf)
		adj.Weight = CompWeight(comp, now)

		weightedSum += adj.Weight * adj.AdjustedPrice
		totalWeight += adj.Weight

		adjusted = append(adjusted, adj)
		adjustedPrices = append(adjustedPrices, adj.AdjustedPrice)
		distances = append(distances, comp.DistanceMiles)
		if comp.CloseDate != nil {
			months = append(months, clock.MonthsBetween(*comp.CloseDate, now))
		}
		if comp.DaysOnMarket != nil {
			doms = append(doms, float64(*comp.DaysOnMarket))
		}
	}

	var arv float64
	if totalWeight > 0 {
		arv = weightedSum / totalWeight
	}

	avgMonths := float64(c.config.Search.LookbackMonths)
	if len(months) > 0 {
		avgMonths = stats.Mean(months)
	}

	inputs := ConfidenceInputs{
		CompCount:          len(comps),
		AvgDistanceMiles:   stats.Mean(distances),
		AvgMonthsSinceSale: avgMonths,
		PriceCV:            stats.CoefficientOfVariation(adjustedPrices),
	}
	score, level := ScoreConfidence(inputs)

	ceiling, err := NeighborhoodCeiling(c.store, subject, c.config.Search.CeilingRadius, c.config.Search.CeilingPercentile)
	if err != nil {
		return models.ArvResult{}, err
	}

	result := models.ArvResult{
		ARV:                 arv,
		Confidence:          level,
		ConfidenceScore:     score,
		CompCount:           len(comps),
		AvgPricePerArea:     avgPpsf,
		NeighborhoodCeiling: ceiling,
		PriceCV:             inputs.PriceCV,
		AvgDistanceMiles:    inputs.AvgDistanceMiles,
		AvgMonthsSinceSale:  inputs.AvgMonthsSinceSale,
		AvgDaysOnMarket:     stats.Mean(doms),
		Comparables:         adjusted,
	}

	c.logger.WithFields(logrus.Fields{
		"listing_id": subject.ListingID,
		"arv":        arv,
		"comps":      len(comps),
		"confidence": level,
	}).Debug("Calculated ARV")

	return result, nil
}

// averagePricePerArea is the mean close price per square foot over comparables
// with a known living area, or nil if none have one
func averagePricePerArea(comps []models.ComparableSale) *float64 {
	var values []float64
	for _, comp := range comps {
		if ppsf := comp.PricePerArea(); ppsf != nil {
			values = append(values, *ppsf)
		}
	}
	if len(values) == 0 {
		return nil
	}
	avg := stats.Mean(values)
	return &avg
}
