package valuation

import (
	"fmt"

	"dealscout/internal/models"
)

// NeighborhoodCeiling returns the percentile closed price of same-type sales
// close to the subject, or nil when the subject has no coordinates or there
// are no such sales
func NeighborhoodCeiling(store PropertyStore, subject models.SubjectProperty, radiusMiles, percentile float64) (*float64, error) {
	if !subject.HasCoordinates() {
		return nil, nil
	}
	ceiling, err := store.PercentileClosedPrice(*subject.Latitude, *subject.Longitude, subject.PropertyType, radiusMiles, percentile)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighborhood ceiling: %w", err)
	}
	return ceiling, nil
}
