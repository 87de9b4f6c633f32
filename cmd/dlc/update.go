package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/events"
	"github.com/alfredjeanlab/dlc/internal/model"
)

var updateCmd = &cobra.Command{
	Use:     "update <intent> <unit-id> <status>",
	Short:   "Update a unit's status",
	GroupID: "records",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		intentID, unitID := args[0], args[1]
		status := model.UnitStatus(args[2])
		if !status.IsValid() {
			return fmt.Errorf("invalid status %q (must be pending, in_progress, completed, or blocked)", args[2])
		}

		ctx := context.Background()
		unit, err := db.UpdateStatus(ctx, intentID, unitID, status)
		if err != nil {
			return fmt.Errorf("updating status: %w", err)
		}

		events.Emit(ctx, bus, events.TopicUnitUpdated, events.UnitUpdated{
			IntentID: intentID,
			Unit:     unit,
			Changes:  map[string]any{"status": status},
		})
		if status == model.UnitCompleted {
			events.Emit(ctx, bus, events.TopicUnitCompleted, events.UnitCompleted{
				IntentID: intentID,
				UnitID:   unitID,
			})
		}

		if jsonOutput {
			printJSON(unit)
		} else {
			printUnit(unit)
		}
		return nil
	},
}
