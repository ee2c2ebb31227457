package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dealscout/internal/clock"
	"dealscout/internal/database"
	"dealscout/internal/geometry"
	"dealscout/internal/models"
	"dealscout/internal/pipeline"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		radius  float64
		limit   int
		save    bool
		geoPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze <listing-id>...",
		Short: "Analyze one or more listings and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(save)
			if err != nil {
				return err
			}
			defer a.close()

			if radius <= 0 {
				radius = a.config.Search.MaxRadius
			}
			if limit <= 0 {
				limit = a.config.Search.MaxComps
			}

			p := pipeline.NewPipeline(a.listings, a.config, clock.System, a.logger)
			var store *database.ResultStore
			if save {
				store = database.NewResultStore(a.results, a.logger)
			}

			results := make([]*models.AnalysisResult, 0, len(args))
			for _, id := range args {
				subject, err := a.listings.GetSubject(id)
				if err != nil {
					return err
				}
				result, err := p.Analyze(subject, radius, limit)
				if err != nil {
					return err
				}
				if store != nil {
					analysisID, err := store.SaveAnalysis(result)
					if err != nil {
						return err
					}
					a.logger.WithField("analysis_id", analysisID).Infof("Saved analysis for %s", id)
				}
				results = append(results, result)
			}

			if geoPath != "" {
				if err := writeGeoJSON(geoPath, results); err != nil {
					return err
				}
			}

			if len(results) == 1 {
				return printJSON(cmd.OutOrStdout(), results[0])
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 0, "maximum comparable search radius in miles (default: SEARCH_MAX_RADIUS)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of comparables (default: SEARCH_MAX_COMPS)")
	cmd.Flags().BoolVar(&save, "save", false, "persist results to the results database")
	cmd.Flags().StringVar(&geoPath, "geojson", "", "write subjects and comparables to this GeoJSON file")
	return cmd
}

func writeGeoJSON(path string, results []*models.AnalysisResult) error {
	fc := geometry.ComparablesFeatureCollection(results[0].Subject, results[0].Arv)
	for _, r := range results[1:] {
		fc.Features = append(fc.Features, geometry.ComparablesFeatureCollection(r.Subject, r.Arv).Features...)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
