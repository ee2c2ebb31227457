package valuation

import (
	"math"
	"strings"
	"time"

	"dealscout/internal/clock"
	"dealscout/internal/models"
)

const (
	renovationMultiplier = 1.3
	recencyDecayRate     = 0.115
	distanceOffsetMiles  = 0.1
)

// renovationKeywords are matched as lowercase substrings of listing remarks
var renovationKeywords = []string{"renovat", "update", "remodel"}

// IsRenovated reports whether the remarks describe a renovated property
func IsRenovated(remarks string) bool {
	lower := strings.ToLower(remarks)
	for _, kw := range renovationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CompWeight returns the comparable's weight in the ARV mean:
// renovation × e^(−0.115 × months since sale) / (distance + 0.1)².
// A comparable without a close date has no time weight and contributes 0.
func CompWeight(comp models.ComparableSale, now time.Time) float64 {
	if comp.CloseDate == nil {
		return 0
	}
	multiplier := 1.0
	if IsRenovated(comp.Remarks) {
		multiplier = renovationMultiplier
	}
	months := clock.MonthsBetween(*comp.CloseDate, now)
	timeWeight := math.Exp(-recencyDecayRate * months)
	d := comp.DistanceMiles + distanceOffsetMiles
	return multiplier * timeWeight / (d * d)
}
