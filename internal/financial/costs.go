package financial

import (
	"dealscout/config"
	"dealscout/internal/models"
)

// CalculateTransactionCosts returns the buy side closing costs on the list
// price and the sell side costs on the ARV
func CalculateTransactionCosts(cfg *config.Config, listPrice, arv float64) models.TransactionCosts {
	return models.TransactionCosts{
		PurchaseClosing: listPrice * (cfg.Transaction.BuyClosingRate + cfg.Transaction.TransferTaxRate),
		SaleCosts:       arv * cfg.SaleCostRate(),
	}
}

// CalculateHoldingCosts returns tax, insurance and utilities carried for the
// given number of months. A nil or non-positive tax rate uses the default.
func CalculateHoldingCosts(cfg *config.Config, listPrice float64, taxRate *float64, months int) models.HoldingCosts {
	rate := cfg.Holding.DefaultTaxRate
	if taxRate != nil && *taxRate > 0 {
		rate = *taxRate
	}

	costs := models.HoldingCosts{
		MonthlyTax:       listPrice * rate / 12,
		MonthlyInsurance: listPrice * cfg.Holding.InsuranceRate / 12,
		MonthlyUtilities: cfg.Holding.MonthlyUtilities,
		Months:           months,
	}
	costs.Monthly = costs.MonthlyTax + costs.MonthlyInsurance + costs.MonthlyUtilities
	costs.Total = costs.Monthly * float64(months)
	return costs
}
