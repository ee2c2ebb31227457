package pipeline

import (
	"testing"

	"dealscout/config"
	"dealscout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisqualify(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name       string
		listPrice  *float64
		livingArea *float64
		compCount  int
		expected   string
	}{
		{"Low list price", models.Ptr(50000.0), models.Ptr(1500.0), 5, ReasonListPrice},
		{"Missing list price", nil, models.Ptr(1500.0), 5, ReasonListPrice},
		{"No comparables", models.Ptr(200000.0), models.Ptr(1500.0), 0, ReasonNoComps},
		{"Small living area", models.Ptr(200000.0), models.Ptr(400.0), 5, ReasonLivingArea},
		{"List price checked first", models.Ptr(50000.0), models.Ptr(400.0), 0, ReasonListPrice},
		{"Qualified", models.Ptr(100000.0), models.Ptr(600.0), 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := testSubject(0)
			subject.ListPrice = tt.listPrice
			subject.LivingArea = tt.livingArea

			reason := Disqualify(cfg, subject, tt.compCount)
			if tt.expected == "" {
				assert.Nil(t, reason)
				return
			}
			require.NotNil(t, reason)
			assert.Equal(t, tt.expected, *reason)
		})
	}
}

func TestAssessViability(t *testing.T) {
	cfg := config.Default()

	base := func() *models.AnalysisResult {
		return &models.AnalysisResult{
			Cash:   models.CashScenario{Profit: 30000, ROI: 20},
			Rental: models.RentalScenario{CapRate: 3.0, MonthlyNOI: -199},
			Brrrr:  models.BrrrrScenario{DSCR: 0.9, CashLeft: 199999, TotalCashIn: 100000},
		}
	}

	t.Run("All thresholds met", func(t *testing.T) {
		assert.Equal(t, models.Viability{Flip: true, Rental: true, Brrrr: true}, AssessViability(cfg, base()))
	})

	t.Run("Thresholds are strict where required", func(t *testing.T) {
		r := base()
		r.Cash.Profit = 25000
		r.Rental.MonthlyNOI = -200
		r.Brrrr.CashLeft = 200000
		assert.Equal(t, models.Viability{}, AssessViability(cfg, r))
	})

	t.Run("Low ROI fails flip", func(t *testing.T) {
		r := base()
		r.Cash.ROI = 15
		assert.False(t, AssessViability(cfg, r).Flip)
	})

	t.Run("Disqualified is never viable", func(t *testing.T) {
		r := base()
		r.DisqualificationReason = models.Ptr(ReasonNoComps)
		assert.Equal(t, models.Viability{}, AssessViability(cfg, r))
	})
}

func TestBestStrategy(t *testing.T) {
	allViable := models.Viability{Flip: true, Rental: true, Brrrr: true}

	tests := []struct {
		name      string
		viability models.Viability
		roi       float64
		capRate   float64
		dscr      float64
		expected  *models.Strategy
	}{
		{"None viable", models.Viability{}, 50, 8, 2, nil},
		{"Highest proxy wins", allViable, 40, 8, 1.2, models.Ptr(models.StrategyRental)},
		{"Three-way tie goes to flip", allViable, 50, 5, 1.0, models.Ptr(models.StrategyFlip)},
		{"BRRRR beats rental on tie", models.Viability{Rental: true, Brrrr: true}, 0, 5, 1.0, models.Ptr(models.StrategyBrrrr)},
		{"Only viable strategy is chosen", models.Viability{Brrrr: true}, 90, 9, 0.95, models.Ptr(models.StrategyBrrrr)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &models.AnalysisResult{
				Cash:      models.CashScenario{ROI: tt.roi},
				Rental:    models.RentalScenario{CapRate: tt.capRate},
				Brrrr:     models.BrrrrScenario{DSCR: tt.dscr},
				Viability: tt.viability,
			}
			assert.Equal(t, tt.expected, BestStrategy(result))
		})
	}
}
