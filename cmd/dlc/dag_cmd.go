package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/dag"
)

var dagFormatFlag string

var dagCmd = &cobra.Command{
	Use:     "dag <intent>",
	Short:   "Render the intent's unit graph",
	GroupID: "graph",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := db.LoadUnits(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("loading units: %w", err)
		}

		// Structural problems are advisory; the graph still renders.
		for _, issue := range dag.Validate(units) {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", issue.UnitID, issue.Message)
		}

		out, err := dag.Render(units, dag.Format(dagFormatFlag))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	dagCmd.Flags().StringVar(&dagFormatFlag, "format", "tree", "output format (tree or dot)")
}
