package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/dag"
	"github.com/alfredjeanlab/dlc/internal/model"
)

// orderUnits sorts units by ordinal, un-numbered units last, ties broken by
// id, so "unit-02-api" comes before "unit-10-cleanup".
func orderUnits(units []*model.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		oi, oj := units[i].Ordinal(), units[j].Ordinal()
		if oi < 0 && oj >= 0 {
			return false
		}
		if oi >= 0 && oj < 0 {
			return true
		}
		if oi != oj {
			return oi < oj
		}
		return units[i].ID < units[j].ID
	})
}

var readyCmd = &cobra.Command{
	Use:     "ready <intent>",
	Short:   "List units whose dependencies are all completed",
	GroupID: "graph",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := db.LoadUnits(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("loading units: %w", err)
		}

		ready := dag.Classify(units).Ready
		orderUnits(ready)

		if jsonOutput {
			printJSON(ready)
		} else {
			printUnitList(ready)
		}
		return nil
	},
}
