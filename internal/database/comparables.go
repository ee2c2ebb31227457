package database

import (
	"fmt"
	"sort"
	"strings"

	"dealscout/config"
	"dealscout/internal/geometry"
	"dealscout/internal/models"
	"dealscout/internal/stats"

	"github.com/sirupsen/logrus"
)

// closedSalesQuery selects recent closed sales inside a coordinate bounding
// box. Exact distance is applied afterwards.
const closedSalesQuery = `
	SELECT ` + listingColumns + `
	FROM listings
	WHERE status = 'closed'
		AND close_price > 0
		AND close_date >= ?
		AND latitude IS NOT NULL AND longitude IS NOT NULL
		AND latitude BETWEEN ? AND ?
		AND longitude BETWEEN ? AND ?`

// FindClosedComparables returns up to limit closed sales within radiusMiles
// of the subject that pass the comparable filters, nearest first
func (d *Database) FindClosedComparables(subject models.SubjectProperty, radiusMiles float64, limit int) ([]models.ComparableSale, error) {
	comps := []models.ComparableSale{}
	if !subject.HasCoordinates() {
		return comps, nil
	}
	lat, lng := *subject.Latitude, *subject.Longitude

	query, args := d.boundedQuery(lat, lng, radiusMiles)

	query += " AND listing_id != ?"
	args = append(args, subject.ListingID)

	if types := config.CompatibleTypes(subject.PropertyType); len(types) > 0 {
		query += " AND property_type IN (?" + strings.Repeat(", ?", len(types)-1) + ")"
		for _, t := range types {
			args = append(args, t)
		}
	}
	if subject.Beds != nil {
		query += " AND beds BETWEEN ? AND ?"
		args = append(args, *subject.Beds-1, *subject.Beds+1)
	}
	if subject.Baths != nil {
		query += " AND baths BETWEEN ? AND ?"
		args = append(args, *subject.Baths-1, *subject.Baths+1)
	}

	listings, err := d.queryListings(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed comparables: %w", err)
	}

	for _, l := range listings {
		distance := geometry.DistanceMiles(lat, lng, *l.Latitude, *l.Longitude)
		if distance <= radiusMiles {
			comps = append(comps, l.Comparable(distance))
		}
	}

	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].DistanceMiles < comps[j].DistanceMiles
	})
	if limit > 0 && len(comps) > limit {
		comps = comps[:limit]
	}

	d.logger.WithFields(logrus.Fields{
		"listing_id": subject.ListingID,
		"radius":     radiusMiles,
		"candidates": len(listings),
		"found":      len(comps),
	}).Debug("Queried closed comparables")

	return comps, nil
}

// PercentileClosedPrice returns the percentile close price of recent sales of
// the given property type within radiusMiles, or nil if there are none
func (d *Database) PercentileClosedPrice(lat, lng float64, propertyType string, radiusMiles, percentile float64) (*float64, error) {
	query, args := d.boundedQuery(lat, lng, radiusMiles)
	query += " AND property_type = ?"
	args = append(args, propertyType)

	listings, err := d.queryListings(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed prices: %w", err)
	}

	var prices []float64
	for _, l := range listings {
		if geometry.DistanceMiles(lat, lng, *l.Latitude, *l.Longitude) <= radiusMiles {
			prices = append(prices, *l.ClosePrice)
		}
	}
	if len(prices) == 0 {
		return nil, nil
	}

	sort.Float64s(prices)
	price := prices[stats.PercentileIndex(len(prices), percentile)]
	return &price, nil
}

func (d *Database) boundedQuery(lat, lng, radiusMiles float64) (string, []any) {
	bound := geometry.BoundAround(lat, lng, radiusMiles)
	since := d.config.LookbackStart(d.clock.Now())

	return closedSalesQuery, []any{
		since.Format(dateLayout),
		bound.Min.Lat(), bound.Max.Lat(),
		bound.Min.Lon(), bound.Max.Lon(),
	}
}

func (d *Database) queryListings(query string, args ...any) ([]models.Listing, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
