package valuation

import (
	"fmt"
	"sort"

	"dealscout/config"
	"dealscout/internal/models"

	"github.com/sirupsen/logrus"
)

// PropertyStore answers the spatial and attribute queries the valuation
// engine needs. Implementations apply the comparable filters: closed status,
// close date inside the lookback window, compatible property type, beds and
// baths within one, distance within radiusMiles, subject listing excluded,
// coordinates present. Results are ordered by ascending distance.
type PropertyStore interface {
	FindClosedComparables(subject models.SubjectProperty, radiusMiles float64, limit int) ([]models.ComparableSale, error)
	PercentileClosedPrice(lat, lng float64, propertyType string, radiusMiles, percentile float64) (*float64, error)
}

// ComparableSearch expands through radius tiers until enough comparables are found
type ComparableSearch struct {
	store  PropertyStore
	config *config.Config
	logger *logrus.Logger
}

// NewComparableSearch creates a new comparable search
func NewComparableSearch(store PropertyStore, cfg *config.Config, logger *logrus.Logger) *ComparableSearch {
	return &ComparableSearch{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// Tiers returns the radii searched for a maximum radius, ascending. The
// configured tiers below maxRadius are used and maxRadius closes the sequence.
func (s *ComparableSearch) Tiers(maxRadius float64) []float64 {
	if maxRadius <= 0 {
		maxRadius = s.config.Search.MaxRadius
	}
	var tiers []float64
	for _, r := range s.config.Search.RadiusTiers {
		if r < maxRadius {
			tiers = append(tiers, r)
		}
	}
	return append(tiers, maxRadius)
}

// Search returns up to limit closed comparables for the subject, ordered by
// distance. A subject without coordinates yields an empty list.
func (s *ComparableSearch) Search(subject models.SubjectProperty, maxRadius float64, limit int) ([]models.ComparableSale, error) {
	if !subject.HasCoordinates() {
		s.logger.WithField("listing_id", subject.ListingID).Warn("Subject has no coordinates, skipping comparable search")
		return []models.ComparableSale{}, nil
	}

	if limit <= 0 || limit > s.config.Search.MaxComps {
		limit = s.config.Search.MaxComps
	}

	comps := []models.ComparableSale{}
	for _, radius := range s.Tiers(maxRadius) {
		found, err := s.store.FindClosedComparables(subject, radius, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to find comparables within %.2f miles: %w", radius, err)
		}
		comps = found

		s.logger.WithFields(logrus.Fields{
			"listing_id": subject.ListingID,
			"radius":     radius,
			"found":      len(found),
		}).Debug("Searched comparable tier")

		if len(comps) >= s.config.Search.MinComps {
			break
		}
	}

	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].DistanceMiles < comps[j].DistanceMiles
	})
	if len(comps) > limit {
		comps = comps[:limit]
	}
	return comps, nil
}
