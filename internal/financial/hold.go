package financial

import (
	"math"

	"dealscout/internal/models"
)

// EstimateHoldPeriod returns the months between purchase and resale. Heavier
// rehabs take longer and above 35/sqft a month of permitting is added.
func EstimateHoldPeriod(rehabPerSqft, avgDaysOnMarket float64) models.HoldPeriod {
	var rehabMonths int
	switch {
	case rehabPerSqft <= 20:
		rehabMonths = 1
	case rehabPerSqft <= 35:
		rehabMonths = 2
	case rehabPerSqft <= 50:
		rehabMonths = 4
	default:
		rehabMonths = 6
	}

	saleMonths := int(math.Ceil(avgDaysOnMarket / 30))
	if saleMonths < 1 {
		saleMonths = 1
	}

	var permitBuffer int
	if rehabPerSqft > 35 {
		permitBuffer = 1
	}

	return models.HoldPeriod{
		RehabMonths:  rehabMonths,
		SaleMonths:   saleMonths,
		PermitBuffer: permitBuffer,
		TotalMonths:  rehabMonths + saleMonths + permitBuffer,
	}
}
