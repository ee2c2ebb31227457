package financial

import (
	"math"
	"testing"

	"dealscout/config"

	"github.com/stretchr/testify/assert"
)

func TestCashFlip(t *testing.T) {
	cash := CashFlip(300000, 500000, 50000, 6000, 30000, 10000)

	assert.Equal(t, 104000.0, cash.Profit)
	assert.Equal(t, 366000.0, cash.TotalInvestment)
	assert.InDelta(t, 104000.0/366000*100, cash.ROI, 1e-9)

	empty := CashFlip(0, 0, 0, 0, 0, 0)
	assert.Equal(t, 0.0, empty.ROI)
}

func TestFinancedFlip(t *testing.T) {
	cfg := config.Default()
	cash := CashFlip(300000, 500000, 50000, 6000, 30000, 10000)

	financed := FinancedFlip(cfg, cash, 300000, 50000, 6000, 6)

	assert.InDelta(t, 240000, financed.LoanAmount, 1e-6)
	assert.InDelta(t, 4800, financed.Origination, 1e-6)
	assert.InDelta(t, 2400, financed.MonthlyInterest, 1e-6)
	assert.InDelta(t, 19200, financed.FinancingCost, 1e-6)
	assert.InDelta(t, 84800, financed.Profit, 1e-6)
	assert.InDelta(t, 116000, financed.CashInvested, 1e-6)

	coc := 84800.0 / 116000 * 100
	assert.InDelta(t, coc, financed.CashOnCashROI, 1e-6)
	assert.InDelta(t, (math.Pow(1+coc/100, 2)-1)*100, financed.AnnualizedROI, 1e-6)
}

func TestFinancedFlip_Edges(t *testing.T) {
	cfg := config.Default()

	t.Run("No hold months leaves annualized ROI at zero", func(t *testing.T) {
		cash := CashFlip(300000, 500000, 50000, 6000, 30000, 10000)
		financed := FinancedFlip(cfg, cash, 300000, 50000, 6000, 0)
		assert.Equal(t, 0.0, financed.AnnualizedROI)
	})

	t.Run("Total loss annualizes to minus 100", func(t *testing.T) {
		cash := CashFlip(300000, 0, 50000, 6000, 0, 10000)
		financed := FinancedFlip(cfg, cash, 300000, 50000, 6000, 6)
		assert.Less(t, financed.CashOnCashROI, -100.0)
		assert.Equal(t, -100.0, financed.AnnualizedROI)
	})
}

func TestRental(t *testing.T) {
	cfg := config.Default()
	rental := Rental(cfg, 300000, 2400, 250000)

	assert.Equal(t, 28800.0, rental.AnnualGross)
	assert.InDelta(t, 2304, rental.Vacancy, 1e-6)
	assert.InDelta(t, 2880, rental.Management, 1e-6)
	assert.InDelta(t, 1440, rental.Capex, 1e-6)
	assert.InDelta(t, 3000, rental.Maintenance, 1e-6)
	assert.InDelta(t, 1500, rental.Insurance, 1e-6)
	assert.InDelta(t, 3750, rental.PropertyTax, 1e-6)
	assert.InDelta(t, 14874, rental.TotalExpenses, 1e-6)
	assert.InDelta(t, 13926, rental.NOI, 1e-6)
	assert.InDelta(t, 1160.5, rental.MonthlyNOI, 1e-6)
	assert.InDelta(t, 4.642, rental.CapRate, 1e-9)
	assert.InDelta(t, 5.5704, rental.CashOnCash, 1e-9)
	assert.InDelta(t, 250000.0/28800, rental.GRM, 1e-9)
	assert.InDelta(t, 300000*0.8/27.5, rental.AnnualDepreciation, 1e-6)
	assert.InDelta(t, 300000*0.8/27.5*0.24, rental.TaxShelter, 1e-6)
}

func TestRental_ZeroGuards(t *testing.T) {
	cfg := config.Default()

	noValue := Rental(cfg, 0, 1500, 200000)
	assert.Equal(t, 0.0, noValue.CapRate)
	assert.Equal(t, 0.0, noValue.CashOnCash)
	assert.Equal(t, 0.0, noValue.AnnualDepreciation)

	noRent := Rental(cfg, 300000, 0, 200000)
	assert.Equal(t, 0.0, noRent.GRM)
	assert.Less(t, noRent.NOI, 0.0)
}

func TestMonthlyPayment(t *testing.T) {
	assert.InDelta(t, 599.55, MonthlyPayment(100000, 0.06, 30), 0.01)
	assert.InDelta(t, 1000, MonthlyPayment(360000, 0, 30), 1e-9)
	assert.Equal(t, 0.0, MonthlyPayment(0, 0.07, 30))
	assert.Equal(t, 0.0, MonthlyPayment(100000, 0.07, 0))
}

func TestBrrrr(t *testing.T) {
	cfg := config.Default()
	brrrr := Brrrr(cfg, 400000, 20000, 320000)

	assert.InDelta(t, 300000, brrrr.RefiLoan, 1e-6)
	assert.InDelta(t, 1995.91, brrrr.MonthlyPayment, 0.01)
	assert.InDelta(t, brrrr.MonthlyPayment*12, brrrr.AnnualDebtService, 1e-9)
	assert.InDelta(t, 20000-brrrr.AnnualDebtService, brrrr.PostRefiCashFlow, 1e-9)
	assert.InDelta(t, 20000/brrrr.AnnualDebtService, brrrr.DSCR, 1e-12)
	assert.InDelta(t, 20000, brrrr.CashLeft, 1e-6)

	noValue := Brrrr(cfg, 0, 20000, 320000)
	assert.Equal(t, 0.0, noValue.DSCR)
	assert.Equal(t, 320000.0, noValue.CashLeft)
}
