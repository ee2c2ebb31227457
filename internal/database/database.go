package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"dealscout/config"
	"dealscout/internal/clock"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var ErrListingNotFound = errors.New("listing not found")

const dateLayout = "2006-01-02"

// Database is the SQLite-backed property store. It holds listings in every
// status and answers the comparable and ceiling queries of the valuation
// engine.
type Database struct {
	db     *sql.DB
	config *config.Config
	clock  clock.Clock
	logger *logrus.Logger
}

func NewDatabase(dbPath string, cfg *config.Config, clk clock.Clock, logger *logrus.Logger) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if clk == nil {
		clk = clock.System
	}
	if cfg == nil {
		cfg = config.Default()
	}

	d := &Database{db: db, config: cfg, clock: clk, logger: logger}
	if err := d.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
