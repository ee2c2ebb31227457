package models

import "time"

// Property holds the physical attributes shared by subjects and comparables.
// Unknown attributes are nil.
type Property struct {
	ListingID    string   `json:"listing_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PropertyType string   `json:"property_type"`
	Beds         *int     `json:"beds"`
	Baths        *float64 `json:"baths"`
	LivingArea   *float64 `json:"living_area"`
	LotSizeAcres *float64 `json:"lot_size_acres"`
	YearBuilt    *int     `json:"year_built"`
	GarageSpaces *int     `json:"garage_spaces"`
}

// HasCoordinates reports whether the property can be placed on a map.
// A 0,0 pair is treated as missing.
func (p Property) HasCoordinates() bool {
	if p.Latitude == nil || p.Longitude == nil {
		return false
	}
	return *p.Latitude != 0 || *p.Longitude != 0
}

// SubjectProperty is the property under evaluation
type SubjectProperty struct {
	Property
	ListPrice         *float64 `json:"list_price"`
	OriginalListPrice *float64 `json:"original_list_price"`
	DaysOnMarket      *int     `json:"days_on_market"`
	TaxRate           *float64 `json:"tax_rate"`
	MonthlyRent       *float64 `json:"monthly_rent"`
}

// ComparableSale is a closed sale near the subject
type ComparableSale struct {
	Property
	ClosePrice    float64    `json:"close_price"`
	CloseDate     *time.Time `json:"close_date"`
	Remarks       string     `json:"remarks"`
	DistanceMiles float64    `json:"distance_miles"`
	DaysOnMarket  *int       `json:"days_on_market"`
}

// PricePerArea returns close price per square foot, or nil when living area is unknown
func (c ComparableSale) PricePerArea() *float64 {
	if c.LivingArea == nil || *c.LivingArea <= 0 || c.ClosePrice <= 0 {
		return nil
	}
	ppsf := c.ClosePrice / *c.LivingArea
	return &ppsf
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Value returns the pointed-to value, or the zero value for nil
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
