package valuation

import (
	"time"

	"dealscout/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the PropertyStore interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindClosedComparables(subject models.SubjectProperty, radiusMiles float64, limit int) ([]models.ComparableSale, error) {
	args := m.Called(subject, radiusMiles, limit)
	return args.Get(0).([]models.ComparableSale), args.Error(1)
}

func (m *MockStore) PercentileClosedPrice(lat, lng float64, propertyType string, radiusMiles, percentile float64) (*float64, error) {
	args := m.Called(lat, lng, propertyType, radiusMiles, percentile)
	return args.Get(0).(*float64), args.Error(1)
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testSubject() models.SubjectProperty {
	return models.SubjectProperty{
		Property: models.Property{
			ListingID:    "SUBJ-1",
			Latitude:     models.Ptr(39.95),
			Longitude:    models.Ptr(-75.16),
			PropertyType: "Single Family",
			Beds:         models.Ptr(3),
			Baths:        models.Ptr(2.0),
			LivingArea:   models.Ptr(1500.0),
			LotSizeAcres: models.Ptr(0.25),
			YearBuilt:    models.Ptr(1960),
			GarageSpaces: models.Ptr(1),
		},
		ListPrice:    models.Ptr(250000.0),
		DaysOnMarket: models.Ptr(30),
	}
}

func testComp(id string, closePrice, distance float64, monthsAgo int) models.ComparableSale {
	closeDate := testNow.AddDate(0, -monthsAgo, 0)
	return models.ComparableSale{
		Property: models.Property{
			ListingID:    id,
			Latitude:     models.Ptr(39.951),
			Longitude:    models.Ptr(-75.161),
			PropertyType: "Single Family",
			Beds:         models.Ptr(3),
			Baths:        models.Ptr(2.0),
			LivingArea:   models.Ptr(1500.0),
			LotSizeAcres: models.Ptr(0.25),
			YearBuilt:    models.Ptr(1960),
			GarageSpaces: models.Ptr(1),
		},
		ClosePrice:    closePrice,
		CloseDate:     &closeDate,
		DistanceMiles: distance,
		DaysOnMarket:  models.Ptr(20),
	}
}
