package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/dag"
	"github.com/alfredjeanlab/dlc/internal/phase"
)

var hatCmd = &cobra.Command{
	Use:     "hat <intent>",
	Short:   "Recommend the next workflow phase for an intent",
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

		hats := settings.Hats(intent.Workflow)
		hat, err := phase.Recommend(len(units), dag.Summary(units), hats)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(struct {
				Intent string   `json:"intent"`
				Hat    string   `json:"hat"`
				Hats   []string `json:"hats"`
			}{intent.Slug, hat, hats})
		} else {
			fmt.Println(hat)
		}
		return nil
	},
}
