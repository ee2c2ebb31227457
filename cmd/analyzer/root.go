package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"dealscout/config"
	"dealscout/internal/clock"
	"dealscout/internal/database"
)

var (
	flagListingsDB string
	flagResultsDB  string
)

// app holds the components shared by every command
type app struct {
	config   *config.Config
	logger   *logrus.Logger
	listings *database.Database
	results  *gorm.DB
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Estimate ARV and score investment strategies for listings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagListingsDB, "db", "", "listings SQLite database (default: LISTINGS_DB_PATH)")
	root.PersistentFlags().StringVar(&flagResultsDB, "results", "", "results SQLite database (default: RESULTS_DB_PATH)")

	root.AddCommand(
		newAnalyzeCmd(),
		newBatchCmd(),
		newIngestCmd(),
		newResultsCmd(),
	)
	return root
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

// openApp loads configuration and opens the listings database, plus the
// results database when withResults is set
func openApp(withResults bool) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	listingsPath := flagListingsDB
	if listingsPath == "" {
		listingsPath = cfg.Database.ListingsPath
	}
	if err := os.MkdirAll(filepath.Dir(listingsPath), 0o755); err != nil {
		return nil, err
	}
	logger.Debugf("Using listings database at: %s", listingsPath)

	listings, err := database.NewDatabase(listingsPath, cfg, clock.System, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings database: %w", err)
	}

	a := &app{config: cfg, logger: logger, listings: listings}
	if !withResults {
		return a, nil
	}

	resultsPath := flagResultsDB
	if resultsPath == "" {
		resultsPath = cfg.Database.ResultsPath
	}
	if err := os.MkdirAll(filepath.Dir(resultsPath), 0o755); err != nil {
		listings.Close()
		return nil, err
	}
	a.results, err = database.OpenResults(resultsPath)
	if err != nil {
		listings.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if err := a.listings.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close listings database")
	}
	if a.results != nil {
		if sqlDB, err := a.results.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
