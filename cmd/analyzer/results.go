package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dealscout/internal/database"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect saved analyses",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <listing-id>",
			Short: "List saved analyses of a listing, newest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withResultStore(func(store *database.ResultStore) error {
					records, err := store.ListAnalyses(args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), records)
				})
			},
		},
		&cobra.Command{
			Use:   "show <analysis-id>",
			Short: "Print a saved analysis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseAnalysisID(args[0])
				if err != nil {
					return err
				}
				return withResultStore(func(store *database.ResultStore) error {
					result, err := store.GetAnalysis(id)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), result)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <analysis-id>",
			Short: "Delete a saved analysis and its comparables",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseAnalysisID(args[0])
				if err != nil {
					return err
				}
				return withResultStore(func(store *database.ResultStore) error {
					return store.DeleteAnalysis(id)
				})
			},
		},
	)
	return cmd
}

func withResultStore(fn func(store *database.ResultStore) error) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(database.NewResultStore(a.results, a.logger))
}

func parseAnalysisID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid analysis ID: %s", s)
	}
	return uint(id), nil
}
