package pipeline

import (
	"time"

	"dealscout/internal/models"
	"dealscout/internal/stats"
)

type compositeWeights struct {
	financial, property, market float64
}

var (
	flipWeights   = compositeWeights{0.70, 0.20, 0.10}
	rentalWeights = compositeWeights{0.60, 0.30, 0.10}
	brrrrWeights  = compositeWeights{0.65, 0.25, 0.10}
)

func (w compositeWeights) combine(financial, property, market float64) float64 {
	return stats.Clamp(financial*w.financial+property*w.property+market*w.market, 0, 100)
}

// Score computes the composite opportunity scores. The overall score uses the
// financial sub-score of the best strategy, or the flip when none is viable.
func Score(result *models.AnalysisResult, now time.Time) models.Scores {
	flipFinancial := FlipFinancialScore(result.Cash)
	rentalFinancial := RentalFinancialScore(result.Rental)
	brrrrFinancial := BrrrrFinancialScore(result.Brrrr)

	property := PropertyScore(result.Subject, result.Rehab.Age)
	market := MarketScore(result, now)

	financial := flipFinancial
	overallWeights := flipWeights
	if result.BestStrategy != nil {
		switch *result.BestStrategy {
		case models.StrategyRental:
			financial = rentalFinancial
			overallWeights = rentalWeights
		case models.StrategyBrrrr:
			financial = brrrrFinancial
			overallWeights = brrrrWeights
		}
	}

	return models.Scores{
		Financial: financial,
		Property:  property,
		Market:    market,
		Overall:   overallWeights.combine(financial, property, market),
		Flip:      flipWeights.combine(flipFinancial, property, market),
		Rental:    rentalWeights.combine(rentalFinancial, property, market),
		Brrrr:     brrrrWeights.combine(brrrrFinancial, property, market),
	}
}

// FlipFinancialScore weighs cash ROI at 60% and cash profit at 40%
func FlipFinancialScore(cash models.CashScenario) float64 {
	var roi float64
	switch {
	case cash.ROI >= 30:
		roi = 100
	case cash.ROI >= 20:
		roi = 80
	case cash.ROI >= 15:
		roi = 60
	case cash.ROI >= 5:
		roi = 35
	case cash.ROI >= 0:
		roi = 15
	}

	var profit float64
	switch {
	case cash.Profit >= 75000:
		profit = 100
	case cash.Profit >= 50000:
		profit = 80
	case cash.Profit >= 25000:
		profit = 60
	case cash.Profit >= 0:
		profit = 25
	}

	return roi*0.6 + profit*0.4
}

// RentalFinancialScore weighs cap rate at 60% and monthly NOI at 40%
func RentalFinancialScore(rental models.RentalScenario) float64 {
	var capRate float64
	switch {
	case rental.CapRate >= 8:
		capRate = 100
	case rental.CapRate >= 6:
		capRate = 80
	case rental.CapRate >= 4.5:
		capRate = 60
	case rental.CapRate >= 3:
		capRate = 40
	case rental.CapRate > 0:
		capRate = 20
	}

	var noi float64
	switch {
	case rental.MonthlyNOI >= 1000:
		noi = 100
	case rental.MonthlyNOI >= 500:
		noi = 80
	case rental.MonthlyNOI >= 0:
		noi = 50
	case rental.MonthlyNOI >= -200:
		noi = 25
	}

	return capRate*0.6 + noi*0.4
}

// BrrrrFinancialScore weighs DSCR at 60% and the share of capital left in
// the deal after refinance at 40%
func BrrrrFinancialScore(brrrr models.BrrrrScenario) float64 {
	var dscr float64
	switch {
	case brrrr.DSCR >= 1.5:
		dscr = 100
	case brrrr.DSCR >= 1.25:
		dscr = 80
	case brrrr.DSCR >= 1.0:
		dscr = 60
	case brrrr.DSCR >= 0.9:
		dscr = 40
	default:
		dscr = 10
	}

	var recovered float64
	if brrrr.TotalCashIn > 0 {
		ratio := brrrr.CashLeft / brrrr.TotalCashIn
		switch {
		case ratio <= 0:
			recovered = 100
		case ratio <= 0.25:
			recovered = 80
		case ratio <= 0.5:
			recovered = 60
		case ratio <= 1:
			recovered = 40
		default:
			recovered = 10
		}
	}

	return dscr*0.6 + recovered*0.4
}

// PropertyScore rates the building itself: age 40%, size 30%, bedrooms 30%
func PropertyScore(subject models.SubjectProperty, age int) float64 {
	var ageScore float64
	switch {
	case age <= 20:
		ageScore = 100
	case age <= 40:
		ageScore = 75
	case age <= 70:
		ageScore = 50
	default:
		ageScore = 30
	}

	var size float64
	area := models.Value(subject.LivingArea)
	switch {
	case area > 3000:
		size = 80
	case area >= 1200:
		size = 100
	case area >= 900:
		size = 75
	case area >= 600:
		size = 50
	}

	beds := 50.0
	if subject.Beds != nil {
		switch {
		case *subject.Beds >= 3:
			beds = 100
		case *subject.Beds == 2:
			beds = 70
		default:
			beds = 40
		}
	}

	return ageScore*0.4 + size*0.3 + beds*0.3
}

// MarketScore rates market conditions: ARV confidence 35%, subject days on
// market 20%, discount to ARV 25%, season 10%, list price reductions 10%
func MarketScore(result *models.AnalysisResult, now time.Time) float64 {
	dom := 50.0
	if d := result.Subject.DaysOnMarket; d != nil {
		switch {
		case *d <= 30:
			dom = 100
		case *d <= 60:
			dom = 75
		case *d <= 120:
			dom = 50
		default:
			dom = 25
		}
	}

	var discount float64
	switch {
	case result.PriceToARV <= 0.6:
		discount = 100
	case result.PriceToARV <= 0.7:
		discount = 80
	case result.PriceToARV <= 0.8:
		discount = 60
	case result.PriceToARV <= 0.9:
		discount = 40
	default:
		discount = 20
	}

	return result.Arv.ConfidenceScore*0.35 +
		dom*0.20 +
		discount*0.25 +
		SeasonalScore(now.Month())*0.10 +
		priceDropScore(result.Subject)*0.10
}

// SeasonalScore favors listing in spring and early summer
func SeasonalScore(month time.Month) float64 {
	switch month {
	case time.March, time.April, time.May, time.June:
		return 100
	case time.July, time.August:
		return 80
	case time.September, time.October:
		return 70
	default:
		return 50
	}
}

// priceDropScore rewards sellers who have already cut their asking price
func priceDropScore(subject models.SubjectProperty) float64 {
	list := models.Value(subject.ListPrice)
	original := models.Value(subject.OriginalListPrice)
	if original <= 0 || list <= 0 || list >= original {
		return 30
	}
	drop := (original - list) / original
	switch {
	case drop >= 0.10:
		return 100
	case drop >= 0.05:
		return 70
	default:
		return 50
	}
}
