package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealscout/internal/models"

	"github.com/sirupsen/logrus"
)

const listingColumns = `
	id, listing_id, status, property_type,
	latitude, longitude, beds, baths, living_area, lot_size_acres,
	year_built, garage_spaces, list_price, original_list_price,
	close_price, close_date, days_on_market, tax_rate, monthly_rent,
	remarks, address, created_at, updated_at`

func scanListing(row rowScanner) (models.Listing, error) {
	var l models.Listing
	var latitude, longitude, baths, livingArea, lotSize sql.NullFloat64
	var listPrice, originalListPrice, closePrice, taxRate, monthlyRent sql.NullFloat64
	var beds, yearBuilt, garageSpaces, daysOnMarket sql.NullInt64
	var closeDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&l.ID,
		&l.ListingID,
		&l.Status,
		&l.PropertyType,
		&latitude,
		&longitude,
		&beds,
		&baths,
		&livingArea,
		&lotSize,
		&yearBuilt,
		&garageSpaces,
		&listPrice,
		&originalListPrice,
		&closePrice,
		&closeDate,
		&daysOnMarket,
		&taxRate,
		&monthlyRent,
		&l.Remarks,
		&l.Address,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}

	l.Latitude = floatPtr(latitude)
	l.Longitude = floatPtr(longitude)
	l.Beds = intPtr(beds)
	l.Baths = floatPtr(baths)
	l.LivingArea = floatPtr(livingArea)
	l.LotSizeAcres = floatPtr(lotSize)
	l.YearBuilt = intPtr(yearBuilt)
	l.GarageSpaces = intPtr(garageSpaces)
	l.ListPrice = floatPtr(listPrice)
	l.OriginalListPrice = floatPtr(originalListPrice)
	l.ClosePrice = floatPtr(closePrice)
	l.DaysOnMarket = intPtr(daysOnMarket)
	l.TaxRate = floatPtr(taxRate)
	l.MonthlyRent = floatPtr(monthlyRent)

	if closeDate.Valid && closeDate.String != "" {
		t, err := time.Parse(dateLayout, closeDate.String)
		if err != nil {
			return models.Listing{}, fmt.Errorf("invalid close date %q for %s: %w", closeDate.String, l.ListingID, err)
		}
		l.CloseDate = &t
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return l, nil
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

// GetListing returns the stored listing with the given listing id
func (d *Database) GetListing(listingID string) (*models.Listing, error) {
	row := d.db.QueryRow("SELECT "+listingColumns+" FROM listings WHERE listing_id = ?", listingID)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrListingNotFound, listingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", listingID, err)
	}
	return &l, nil
}

// GetSubject loads a stored listing as an analysis subject
func (d *Database) GetSubject(listingID string) (models.SubjectProperty, error) {
	l, err := d.GetListing(listingID)
	if err != nil {
		return models.SubjectProperty{}, err
	}
	return l.Subject(), nil
}

// UpsertResult counts what UpsertListings did
type UpsertResult struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// UpsertListings inserts new listings and updates stored ones whose tracked
// fields changed. Rows with no tracked change are left untouched.
func (d *Database) UpsertListings(listings []models.Listing) (UpsertResult, error) {
	var result UpsertResult

	tx, err := d.db.Begin()
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := d.clock.Now().UTC().Format(time.RFC3339)

	for _, fresh := range listings {
		if fresh.ListingID == "" {
			return UpsertResult{}, fmt.Errorf("failed to upsert listing: %w", ErrMissingListingID)
		}

		stored, err := scanListing(tx.QueryRow("SELECT "+listingColumns+" FROM listings WHERE listing_id = ?", fresh.ListingID))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := insertListing(tx, fresh, now); err != nil {
				return UpsertResult{}, fmt.Errorf("failed to insert listing %s: %w", fresh.ListingID, err)
			}
			result.Inserted++
			continue
		case err != nil:
			return UpsertResult{}, fmt.Errorf("failed to load listing %s: %w", fresh.ListingID, err)
		}

		changed := models.DiffListings(stored, fresh)
		if len(changed) == 0 {
			result.Unchanged++
			continue
		}

		if err := updateListing(tx, fresh, now); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to update listing %s: %w", fresh.ListingID, err)
		}
		result.Updated++

		d.logger.WithFields(logrus.Fields{
			"listing_id": fresh.ListingID,
			"changed":    strings.Join(changed, ","),
		}).Debug("Updated listing")
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit listings: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"inserted":  result.Inserted,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
	}).Info("Upserted listings")

	return result, nil
}

func listingArgs(l models.Listing) []any {
	return []any{
		l.Status,
		l.PropertyType,
		nullFloat(l.Latitude),
		nullFloat(l.Longitude),
		nullInt(l.Beds),
		nullFloat(l.Baths),
		nullFloat(l.LivingArea),
		nullFloat(l.LotSizeAcres),
		nullInt(l.YearBuilt),
		nullInt(l.GarageSpaces),
		nullFloat(l.ListPrice),
		nullFloat(l.OriginalListPrice),
		nullFloat(l.ClosePrice),
		formatDate(l.CloseDate),
		nullInt(l.DaysOnMarket),
		nullFloat(l.TaxRate),
		nullFloat(l.MonthlyRent),
		l.Remarks,
		l.Address,
	}
}

func insertListing(tx *sql.Tx, l models.Listing, now string) error {
	args := append([]any{l.ListingID}, listingArgs(l)...)
	args = append(args, now, now)

	_, err := tx.Exec(`
		INSERT INTO listings (
			listing_id, status, property_type,
			latitude, longitude, beds, baths, living_area, lot_size_acres,
			year_built, garage_spaces, list_price, original_list_price,
			close_price, close_date, days_on_market, tax_rate, monthly_rent,
			remarks, address, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	return err
}

func updateListing(tx *sql.Tx, l models.Listing, now string) error {
	args := append(listingArgs(l), now, l.ListingID)

	_, err := tx.Exec(`
		UPDATE listings SET
			status = ?, property_type = ?,
			latitude = ?, longitude = ?, beds = ?, baths = ?, living_area = ?, lot_size_acres = ?,
			year_built = ?, garage_spaces = ?, list_price = ?, original_list_price = ?,
			close_price = ?, close_date = ?, days_on_market = ?, tax_rate = ?, monthly_rent = ?,
			remarks = ?, address = ?, updated_at = ?
		WHERE listing_id = ?
	`, args...)
	return err
}

// ListListingIDs returns the listing ids with the given status, oldest first
func (d *Database) ListListingIDs(status string) ([]string, error) {
	rows, err := d.db.Query("SELECT listing_id FROM listings WHERE status = ? ORDER BY id", status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s listings: %w", status, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
