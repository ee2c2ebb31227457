package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Listing statuses stored in the listings table
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusClosed  = "closed"
)

// Listing is a normalized row in the property store. It is the single typed
// view used both for stored rows and for freshly ingested records.
type Listing struct {
	ID                int64      `json:"id"`
	ListingID         string     `json:"listing_id"`
	Status            string     `json:"status"`
	PropertyType      string     `json:"property_type"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	Beds              *int       `json:"beds"`
	Baths             *float64   `json:"baths"`
	LivingArea        *float64   `json:"living_area"`
	LotSizeAcres      *float64   `json:"lot_size_acres"`
	YearBuilt         *int       `json:"year_built"`
	GarageSpaces      *int       `json:"garage_spaces"`
	ListPrice         *float64   `json:"list_price"`
	OriginalListPrice *float64   `json:"original_list_price"`
	ClosePrice        *float64   `json:"close_price"`
	CloseDate         *time.Time `json:"close_date"`
	DaysOnMarket      *int       `json:"days_on_market"`
	TaxRate           *float64   `json:"tax_rate"`
	MonthlyRent       *float64   `json:"monthly_rent"`
	Remarks           string     `json:"remarks"`
	Address           string     `json:"address"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (l Listing) property() Property {
	return Property{
		ListingID:    l.ListingID,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		PropertyType: l.PropertyType,
		Beds:         l.Beds,
		Baths:        l.Baths,
		LivingArea:   l.LivingArea,
		LotSizeAcres: l.LotSizeAcres,
		YearBuilt:    l.YearBuilt,
		GarageSpaces: l.GarageSpaces,
	}
}

// Subject converts the listing into an analysis subject
func (l Listing) Subject() SubjectProperty {
	return SubjectProperty{
		Property:          l.property(),
		ListPrice:         l.ListPrice,
		OriginalListPrice: l.OriginalListPrice,
		DaysOnMarket:      l.DaysOnMarket,
		TaxRate:           l.TaxRate,
		MonthlyRent:       l.MonthlyRent,
	}
}

// Comparable converts a closed listing into a comparable sale at the given
// distance from the subject
func (l Listing) Comparable(distanceMiles float64) ComparableSale {
	return ComparableSale{
		Property:      l.property(),
		ClosePrice:    Value(l.ClosePrice),
		CloseDate:     l.CloseDate,
		Remarks:       l.Remarks,
		DistanceMiles: distanceMiles,
		DaysOnMarket:  l.DaysOnMarket,
	}
}

// TrackedField compares one attribute of two listings
type TrackedField struct {
	Name  string
	Equal func(a, b Listing) bool
}

// TrackedFields is the fixed list of attributes compared when deciding
// whether an ingested listing changes a stored one. Identifiers and
// timestamps are not tracked.
var TrackedFields = []TrackedField{
	{"status", func(a, b Listing) bool { return a.Status == b.Status }},
	{"property_type", func(a, b Listing) bool { return a.PropertyType == b.PropertyType }},
	{"latitude", func(a, b Listing) bool { return equalPtr(a.Latitude, b.Latitude) }},
	{"longitude", func(a, b Listing) bool { return equalPtr(a.Longitude, b.Longitude) }},
	{"beds", func(a, b Listing) bool { return equalPtr(a.Beds, b.Beds) }},
	{"baths", func(a, b Listing) bool { return equalPtr(a.Baths, b.Baths) }},
	{"living_area", func(a, b Listing) bool { return equalPtr(a.LivingArea, b.LivingArea) }},
	{"lot_size_acres", func(a, b Listing) bool { return equalPtr(a.LotSizeAcres, b.LotSizeAcres) }},
	{"year_built", func(a, b Listing) bool { return equalPtr(a.YearBuilt, b.YearBuilt) }},
	{"garage_spaces", func(a, b Listing) bool { return equalPtr(a.GarageSpaces, b.GarageSpaces) }},
	{"list_price", func(a, b Listing) bool { return equalPtr(a.ListPrice, b.ListPrice) }},
	{"original_list_price", func(a, b Listing) bool { return equalPtr(a.OriginalListPrice, b.OriginalListPrice) }},
	{"close_price", func(a, b Listing) bool { return equalPtr(a.ClosePrice, b.ClosePrice) }},
	{"close_date", func(a, b Listing) bool { return equalDate(a.CloseDate, b.CloseDate) }},
	{"days_on_market", func(a, b Listing) bool { return equalPtr(a.DaysOnMarket, b.DaysOnMarket) }},
	{"tax_rate", func(a, b Listing) bool { return equalPtr(a.TaxRate, b.TaxRate) }},
	{"monthly_rent", func(a, b Listing) bool { return equalPtr(a.MonthlyRent, b.MonthlyRent) }},
	{"remarks", func(a, b Listing) bool { return a.Remarks == b.Remarks }},
	{"address", func(a, b Listing) bool { return a.Address == b.Address }},
}

// DiffListings returns the names of tracked fields that differ between the
// stored row and the freshly normalized one, in TrackedFields order
func DiffListings(stored, fresh Listing) []string {
	var changed []string
	for _, f := range TrackedFields {
		if !f.Equal(stored, fresh) {
			changed = append(changed, f.Name)
		}
	}
	return changed
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// closeDateLayouts are the close date formats accepted from ingested JSON
var closeDateLayouts = []string{"2006-01-02", time.RFC3339}

// UnmarshalJSON accepts close dates either as a calendar date or as an
// RFC 3339 timestamp
func (l *Listing) UnmarshalJSON(data []byte) error {
	type plain Listing
	aux := struct {
		*plain
		CloseDate *string `json:"close_date"`
	}{plain: (*plain)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	l.CloseDate = nil
	if aux.CloseDate == nil || *aux.CloseDate == "" {
		return nil
	}
	for _, layout := range closeDateLayouts {
		if t, err := time.Parse(layout, *aux.CloseDate); err == nil {
			l.CloseDate = &t
			return nil
		}
	}
	return fmt.Errorf("invalid close date %q for %s: want YYYY-MM-DD or RFC 3339", *aux.CloseDate, l.ListingID)
}
