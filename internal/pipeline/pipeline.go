// Package pipeline runs the full valuation and financial model for one
// subject property and assembles the scored AnalysisResult.
package pipeline

import (
	"fmt"
	"os"

	"dealscout/config"
	"dealscout/internal/clock"
	"dealscout/internal/financial"
	"dealscout/internal/models"
	"dealscout/internal/valuation"

	"github.com/sirupsen/logrus"
)

// Pipeline sequences the calculators for a subject property
type Pipeline struct {
	arv    *valuation.Calculator
	config *config.Config
	clock  clock.Clock
	logger *logrus.Logger
}

// NewPipeline creates a new analysis pipeline over a property store
func NewPipeline(store valuation.PropertyStore, cfg *config.Config, clk clock.Clock, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if clk == nil {
		clk = clock.System
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &Pipeline{
		arv:    valuation.NewCalculator(store, cfg, clk, logger),
		config: cfg,
		clock:  clk,
		logger: logger,
	}
}

// Analyze evaluates the subject. Disqualification and non-viability are
// recorded on the result; only store failures are returned as errors.
func (p *Pipeline) Analyze(subject models.SubjectProperty, maxRadius float64, limit int) (*models.AnalysisResult, error) {
	now := p.clock.Now()

	arv, err := p.arv.Calculate(subject, maxRadius, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate ARV for %s: %w", subject.ListingID, err)
	}

	listPrice := models.Value(subject.ListPrice)

	rehab := financial.EstimateRehab(subject.YearBuilt, subject.LivingArea, now.Year())
	// Hold buckets on the per-area work rate before contingency and lead
	// paint (EffectivePpsf), not on rehab.PerSqft
	hold := financial.EstimateHoldPeriod(rehab.EffectivePpsf, arv.AvgDaysOnMarket)
	tx := financial.CalculateTransactionCosts(p.config, listPrice, arv.ARV)
	holding := financial.CalculateHoldingCosts(p.config, listPrice, subject.TaxRate, hold.TotalMonths)

	cash := financial.CashFlip(listPrice, arv.ARV, rehab.Total, tx.PurchaseClosing, tx.SaleCosts, holding.Total)
	financed := financial.FinancedFlip(p.config, cash, listPrice, rehab.Total, tx.PurchaseClosing, hold.TotalMonths)
	rental := financial.Rental(p.config, arv.ARV, p.monthlyRent(subject, arv.ARV), cash.TotalInvestment)
	brrrr := financial.Brrrr(p.config, arv.ARV, rental.NOI, cash.TotalInvestment)

	offer := financial.AnalyzeOffer(p.config, arv.ARV, rehab.Total, holding.Total, financed.FinancingCost, cash.TotalInvestment)
	risk := financial.GradeRisk(arv.ConfidenceScore, offer.BreakevenARV, arv.ARV, arv.PriceCV, arv.AvgDaysOnMarket, arv.CompCount)

	priceToARV := 1.0
	if arv.ARV > 0 {
		priceToARV = listPrice / arv.ARV
	}

	result := &models.AnalysisResult{
		Subject:     subject,
		AnalyzedAt:  now,
		Arv:         arv,
		Rehab:       rehab,
		Hold:        hold,
		Transaction: tx,
		Holding:     holding,
		Cash:        cash,
		Financed:    financed,
		Rental:      rental,
		Brrrr:       brrrr,
		Offer:       offer,
		Risk:        risk,
		PriceToARV:  priceToARV,
	}

	result.DisqualificationReason = Disqualify(p.config, subject, arv.CompCount)
	result.Viability = AssessViability(p.config, result)
	result.BestStrategy = BestStrategy(result)
	result.Scores = Score(result, now)

	fields := logrus.Fields{
		"listing_id": subject.ListingID,
		"arv":        arv.ARV,
		"comps":      arv.CompCount,
		"risk_grade": risk.Grade,
		"overall":    result.Scores.Overall,
	}
	if result.DisqualificationReason != nil {
		fields["disqualified"] = *result.DisqualificationReason
	}
	if result.BestStrategy != nil {
		fields["best_strategy"] = *result.BestStrategy
	}
	p.logger.WithFields(fields).Info("Analyzed property")

	return result, nil
}

// monthlyRent is the listing's rent when known, otherwise the ARV scaled by
// the rent-to-value ratio
func (p *Pipeline) monthlyRent(subject models.SubjectProperty, arv float64) float64 {
	if subject.MonthlyRent != nil && *subject.MonthlyRent > 0 {
		return *subject.MonthlyRent
	}
	return arv * p.config.Rental.RentToValueRatio
}
