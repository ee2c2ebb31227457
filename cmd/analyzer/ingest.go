package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dealscout/internal/geocoding"
	"dealscout/internal/models"
)

func newIngestCmd() *cobra.Command {
	var geocode bool

	cmd := &cobra.Command{
		Use:   "ingest <listings.json>",
		Short: "Insert or update listings from a JSON array",
		Long: "Insert or update listings from a JSON array of listing objects keyed by the stored column names\n" +
			"(listing_id, status, property_type, latitude, longitude, close_price, close_date, remarks, ...).\n" +
			"close_date accepts YYYY-MM-DD or an RFC 3339 timestamp.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var listings []models.Listing
			if err := json.Unmarshal(data, &listings); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			if geocode || a.config.Geocoding.Enabled {
				filled := geocoding.NewGeocoder(a.config, a.logger).FillCoordinates(listings)
				a.logger.Infof("Geocoded %d listings", filled)
			}

			result, err := a.listings.UpsertListings(listings)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&geocode, "geocode", false, "look up coordinates for listings that have an address but none (default: GEOCODING_ENABLED)")
	return cmd
}
