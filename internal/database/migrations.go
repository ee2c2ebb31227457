package database

import "strings"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			listing_id TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			property_type TEXT NOT NULL DEFAULT '',
			latitude REAL,
			longitude REAL,
			beds INTEGER,
			baths REAL,
			living_area REAL,
			lot_size_acres REAL,
			year_built INTEGER,
			list_price REAL,
			original_list_price REAL,
			close_price REAL,
			close_date TEXT,
			days_on_market INTEGER,
			remarks TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Columns added after the initial schema
	for _, column := range []string{
		"garage_spaces INTEGER",
		"tax_rate REAL",
		"address TEXT NOT NULL DEFAULT ''",
		"monthly_rent REAL",
	} {
		_, err = d.db.Exec("ALTER TABLE listings ADD COLUMN " + column)
		if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
			return err
		}
	}

	// Comparable lookups filter on status and close date, then on a
	// coordinate bounding box
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_status_close_date
		ON listings(status, close_date);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	return nil
}
