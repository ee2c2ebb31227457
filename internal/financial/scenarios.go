package financial

import (
	"math"

	"dealscout/config"
	"dealscout/internal/models"
)

// depreciationYears is the straight-line recovery period for residential rentals
const depreciationYears = 27.5

// CashFlip models an all-cash purchase, rehab and resale
func CashFlip(listPrice, arv, rehab, purchaseClosing, saleCosts, holding float64) models.CashScenario {
	profit := arv - listPrice - rehab - purchaseClosing - saleCosts - holding
	investment := listPrice + rehab + purchaseClosing + holding

	var roi float64
	if investment > 0 {
		roi = profit / investment * 100
	}

	return models.CashScenario{
		Profit:          profit,
		TotalInvestment: investment,
		ROI:             roi,
	}
}

// FinancedFlip models the same flip with a hard-money loan on the purchase
func FinancedFlip(cfg *config.Config, cash models.CashScenario, listPrice, rehab, purchaseClosing float64, holdMonths int) models.FinancedScenario {
	hm := cfg.HardMoney

	loan := listPrice * hm.LTV
	origination := loan * hm.Points
	monthlyInterest := loan * (hm.InterestRate / 12)
	financingCost := origination + monthlyInterest*float64(holdMonths)
	profit := cash.Profit - financingCost
	cashInvested := listPrice*(1-hm.LTV) + rehab + purchaseClosing

	scenario := models.FinancedScenario{
		LoanAmount:      loan,
		Origination:     origination,
		MonthlyInterest: monthlyInterest,
		FinancingCost:   financingCost,
		Profit:          profit,
		CashInvested:    cashInvested,
	}
	if cashInvested > 0 {
		scenario.CashOnCashROI = profit / cashInvested * 100
	}
	if holdMonths > 0 {
		growth := 1 + scenario.CashOnCashROI/100
		if growth > 0 {
			scenario.AnnualizedROI = (math.Pow(growth, 12/float64(holdMonths)) - 1) * 100
		} else {
			scenario.AnnualizedROI = -100
		}
	}
	return scenario
}

// Rental models buy-and-hold operation at the post-rehab value. Income side
// expenses scale with gross rent and property side expenses with the ARV.
func Rental(cfg *config.Config, arv, monthlyRent, totalInvestment float64) models.RentalScenario {
	r := cfg.Rental

	gross := monthlyRent * 12
	s := models.RentalScenario{
		MonthlyRent: monthlyRent,
		AnnualGross: gross,
		Vacancy:     gross * r.VacancyRate,
		Management:  gross * r.ManagementRate,
		Capex:       gross * r.CapexRate,
		Maintenance: arv * r.MaintenanceRate,
		Insurance:   arv * r.InsuranceRate,
		PropertyTax: arv * r.PropertyTaxRate,
	}
	s.TotalExpenses = s.Vacancy + s.Management + s.Capex + s.Maintenance + s.Insurance + s.PropertyTax
	s.NOI = gross - s.TotalExpenses
	s.MonthlyNOI = s.NOI / 12
	s.TotalInvestment = totalInvestment

	if arv > 0 {
		s.CapRate = s.NOI / arv * 100
		if totalInvestment > 0 {
			s.CashOnCash = s.NOI / totalInvestment * 100
		}
	}
	if gross > 0 {
		s.GRM = totalInvestment / gross
	}

	s.AnnualDepreciation = math.Max(0, arv) * (1 - r.LandValuePct) / depreciationYears
	s.TaxShelter = s.AnnualDepreciation * r.TaxBracket
	return s
}

// Brrrr models refinancing the rehabbed rental to pull capital back out
func Brrrr(cfg *config.Config, arv, noi, totalCashIn float64) models.BrrrrScenario {
	refi := cfg.Refinance

	loan := math.Max(0, arv) * refi.LTV
	payment := MonthlyPayment(loan, refi.Rate, refi.TermYears)
	debtService := payment * 12

	s := models.BrrrrScenario{
		RefiLoan:          loan,
		MonthlyPayment:    payment,
		AnnualDebtService: debtService,
		NOI:               noi,
		PostRefiCashFlow:  noi - debtService,
		TotalCashIn:       totalCashIn,
		CashLeft:          totalCashIn - loan,
	}
	s.MonthlyCashFlow = s.PostRefiCashFlow / 12
	if debtService > 0 {
		s.DSCR = noi / debtService
	}
	return s
}

// MonthlyPayment is the fixed payment that amortizes principal over termYears
// at the given annual rate
func MonthlyPayment(principal, annualRate float64, termYears int) float64 {
	n := float64(termYears * 12)
	if principal <= 0 || n <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / n
	}
	return principal * r / (1 - math.Pow(1+r, -n))
}
