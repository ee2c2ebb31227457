package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealscout/config"
	"dealscout/internal/clock"
	"dealscout/internal/database"
)

// executeCommand runs the root command with the given args and captures output
func executeCommand(args ...string) (string, error) {
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand("--help")
	require.NoError(t, err)
}

func TestGlobalFlags(t *testing.T) {
	root := newRootCmd()
	assert.NotNil(t, root.PersistentFlags().Lookup("db"))
	assert.NotNil(t, root.PersistentFlags().Lookup("results"))
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Analyze requires a listing", []string{"analyze"}},
		{"Ingest requires a file", []string{"ingest"}},
		{"Show requires an id", []string{"results", "show"}},
		{"Delete rejects a non-numeric id", []string{"results", "delete", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseAnalysisID(t *testing.T) {
	id, err := parseAnalysisID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = parseAnalysisID("0")
	assert.Error(t, err)
	_, err = parseAnalysisID("-1")
	assert.Error(t, err)
}

func TestIngestAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	listingsDB := filepath.Join(dir, "listings.db")
	resultsDB := filepath.Join(dir, "results.db")

	listings := `[
		{"listing_id": "S1", "status": "active", "property_type": "Single Family",
		 "latitude": 39.95, "longitude": -75.16, "beds": 3, "baths": 2,
		 "living_area": 1500, "year_built": 1990, "list_price": 200000}
	]`
	file := filepath.Join(dir, "listings.json")
	require.NoError(t, os.WriteFile(file, []byte(listings), 0o644))

	out, err := executeCommand("--db", listingsDB, "ingest", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"Inserted": 1`)

	out, err = executeCommand("--db", listingsDB, "--results", resultsDB, "analyze", "--save", "S1")
	require.NoError(t, err)

	var result struct {
		Subject struct {
			ListingID string `json:"listing_id"`
		} `json:"subject"`
		DisqualificationReason *string `json:"disqualification_reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "S1", result.Subject.ListingID)
	// No closed sales were ingested
	require.NotNil(t, result.DisqualificationReason)

	out, err = executeCommand("--db", listingsDB, "--results", resultsDB, "results", "list", "S1")
	require.NoError(t, err)
	assert.Contains(t, out, `"S1"`)
}

func TestAnalyzeUnknownListing(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand("--db", filepath.Join(dir, "listings.db"), "analyze", "MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")
}

func TestIngestCalendarCloseDate(t *testing.T) {
	dir := t.TempDir()
	listingsDB := filepath.Join(dir, "listings.db")

	listings := `[
		{"listing_id": "C1", "status": "closed", "property_type": "Single Family",
		 "latitude": 39.951, "longitude": -75.16, "close_price": 310000,
		 "close_date": "2024-05-01", "remarks": "Fully renovated", "monthly_rent": 2100}
	]`
	file := filepath.Join(dir, "listings.json")
	require.NoError(t, os.WriteFile(file, []byte(listings), 0o644))

	_, err := executeCommand("--db", listingsDB, "ingest", file)
	require.NoError(t, err)

	db, err := database.NewDatabase(listingsDB, config.Default(), clock.System, logrus.New())
	require.NoError(t, err)
	defer db.Close()

	stored, err := db.GetListing("C1")
	require.NoError(t, err)
	require.NotNil(t, stored.CloseDate)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(*stored.CloseDate))
	assert.Equal(t, "Fully renovated", stored.Remarks)
	require.NotNil(t, stored.MonthlyRent)
	assert.Equal(t, 2100.0, *stored.MonthlyRent)
}
