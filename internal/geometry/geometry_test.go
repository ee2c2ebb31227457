package geometry

import (
	"encoding/json"
	"testing"
	"time"

	"dealscout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMiles(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expected               float64
		delta                  float64
	}{
		{"Same point", 39.9526, -75.1652, 39.9526, -75.1652, 0, 1e-9},
		// One degree of latitude is about 69 miles
		{"One degree north", 40.0, -75.0, 41.0, -75.0, 69.1, 0.3},
		// City Hall to Independence Hall, Philadelphia
		{"Short urban hop", 39.9526, -75.1652, 39.9489, -75.1500, 0.85, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DistanceMiles(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, d, tt.delta)
		})
	}
}

func TestDistanceMilesSymmetric(t *testing.T) {
	a := DistanceMiles(39.95, -75.16, 40.05, -75.00)
	b := DistanceMiles(40.05, -75.00, 39.95, -75.16)
	assert.InDelta(t, a, b, 1e-9)
}

func TestBoundAround(t *testing.T) {
	lat, lng := 39.95, -75.16
	bound := BoundAround(lat, lng, 1.0)

	assert.True(t, bound.Contains(Point(lat, lng)))
	assert.Less(t, bound.Bottom(), lat)
	assert.Greater(t, bound.Top(), lat)
	assert.Less(t, bound.Left(), lng)
	assert.Greater(t, bound.Right(), lng)

	// A point just under a mile north must fall inside the box
	assert.True(t, bound.Contains(Point(lat+0.0140, lng)))
	// Two miles north must not
	assert.False(t, bound.Contains(Point(lat+0.029, lng)))
}

func TestComparablesFeatureCollection(t *testing.T) {
	closeDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	subject := models.SubjectProperty{
		Property: models.Property{
			ListingID: "SUBJ",
			Latitude:  models.Ptr(39.95),
			Longitude: models.Ptr(-75.16),
		},
		ListPrice: models.Ptr(250000.0),
	}
	arv := models.ArvResult{
		ARV:        320000,
		Confidence: models.ConfidenceMedium,
		Comparables: []models.AdjustedComparable{
			{
				Comparable: models.ComparableSale{
					Property: models.Property{
						ListingID: "C1",
						Latitude:  models.Ptr(39.951),
						Longitude: models.Ptr(-75.161),
					},
					ClosePrice: 310000,
					CloseDate:  &closeDate,
				},
				AdjustedPrice: 315000,
				Weight:        12.5,
			},
			{
				Comparable:    models.ComparableSale{Property: models.Property{ListingID: "NOCOORDS"}},
				AdjustedPrice: 300000,
			},
		},
	}

	fc := ComparablesFeatureCollection(subject, arv)
	require.Len(t, fc.Features, 2)

	assert.Equal(t, "subject", fc.Features[0].Properties["role"])
	assert.Equal(t, "C1", fc.Features[1].Properties["listing_id"])
	assert.Equal(t, "2024-03-15", fc.Features[1].Properties["close_date"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}
