package main

import (
	"github.com/spf13/cobra"

	"dealscout/internal/clock"
	"dealscout/internal/models"
	"dealscout/internal/pipeline"
	"dealscout/internal/processor"
	"dealscout/internal/queue"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [listing-id]...",
		Short: "Analyze listings concurrently and save the results",
		Long: "Analyze the given listings, or every active listing when none are given, and save each batch of results in one transaction.\n" +
			"Listings that cannot be analyzed are skipped and counted. The command fails if any analyzed result could not be saved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			ids := args
			if len(ids) == 0 {
				ids, err = a.listings.ListListingIDs(models.StatusActive)
				if err != nil {
					return err
				}
			}

			p := pipeline.NewPipeline(a.listings, a.config, clock.System, a.logger)
			listingQueue := queue.NewListingQueue(a.config.BatchProcessing.QueueSize, a.logger)
			bp := processor.NewBatchProcessor(a.results, a.listings, p, listingQueue, a.config, a.logger)

			runErr := bp.Run(cmd.Context(), ids)
			if err := printJSON(cmd.OutOrStdout(), bp.Stats()); err != nil {
				return err
			}
			return runErr
		},
	}
}
