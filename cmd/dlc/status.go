package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/dag"
)

var statusCmd = &cobra.Command{
	Use:     "status <intent>",
	Short:   "Show the intent's DAG summary and unit buckets",
	GroupID: "graph",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		intent, err := db.GetIntent(ctx, args[0])
		if err != nil {
			return fmt.Errorf("loading intent: %w", err)
		}
		units, err := db.LoadUnits(ctx, args[0])
		if err != nil {
			return fmt.Errorf("loading units: %w", err)
		}

		summary := dag.Summary(units)
		classes := dag.Classify(units)

		if jsonOutput {
			printJSON(struct {
				Intent   string             `json:"intent"`
				Status   string             `json:"status"`
				Summary  any                `json:"summary"`
				Classify dag.Classification `json:"classification"`
			}{intent.Slug, intent.Status.String(), summary, classes})
			return nil
		}
		printStatus(intent, summary, classes)
		return nil
	},
}
