package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/events"
	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/strategy"
)

var unitCmd = &cobra.Command{
	Use:     "unit",
	Short:   "Manage units within an intent",
	GroupID: "records",
}

var (
	unitDepsFlag        []string
	unitDescriptionFlag string
	unitDisciplineFlag  string
)

var unitAddCmd = &cobra.Command{
	Use:   "add <intent> <unit-id>",
	Short: "Add a unit to an intent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		intentID, unitID := args[0], args[1]

		now := time.Now().UTC()
		unit := &model.Unit{
			ID:          unitID,
			Status:      model.UnitPending,
			DependsOn:   unitDepsFlag,
			Description: unitDescriptionFlag,
			Discipline:  unitDisciplineFlag,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := model.ValidateUnit(unit); err != nil {
			return err
		}

		ctx := context.Background()
		if _, err := db.GetIntent(ctx, intentID); err != nil {
			return fmt.Errorf("loading intent: %w", err)
		}
		if err := db.CreateUnit(ctx, intentID, unit); err != nil {
			return fmt.Errorf("creating unit: %w", err)
		}
		events.Emit(ctx, bus, events.TopicUnitCreated, events.UnitCreated{IntentID: intentID, Unit: unit})

		if jsonOutput {
			printJSON(unit)
		} else {
			printUnit(unit)
		}
		return nil
	},
}

var unitStartCmd = &cobra.Command{
	Use:   "start <intent> <unit-id>",
	Short: "Start work on a unit: create its branch and mark it in progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		intentID, unitID := args[0], args[1]
		ctx := context.Background()

		intent, cfg, err := resolvePolicy(ctx, intentID)
		if err != nil {
			return err
		}
		policy, ok := strategy.For(cfg.ChangeStrategy)
		if !ok {
			return fmt.Errorf("unknown strategy %q", cfg.ChangeStrategy)
		}

		branch := policy.BranchName(strategy.Context{
			BranchRoot: cfg.BranchRoot,
			Intent:     intent.Slug,
			Unit:       unitID,
		})
		if err := newRunner().CreateBranch(ctx, branch, cfg.DefaultBranch); err != nil {
			return fmt.Errorf("creating branch %s: %w", branch, err)
		}
		if _, err := db.SetUnitBranch(ctx, intentID, unitID, branch); err != nil {
			return fmt.Errorf("recording branch: %w", err)
		}
		unit, err := db.UpdateStatus(ctx, intentID, unitID, model.UnitInProgress)
		if err != nil {
			return fmt.Errorf("updating status: %w", err)
		}
		events.Emit(ctx, bus, events.TopicUnitUpdated, events.UnitUpdated{
			IntentID: intentID,
			Unit:     unit,
			Changes:  map[string]any{"status": unit.Status, "branch": branch},
		})

		if jsonOutput {
			printJSON(unit)
		} else {
			printUnit(unit)
		}
		return nil
	},
}

func init() {
	unitAddCmd.Flags().StringSliceVar(&unitDepsFlag, "deps", nil, "dependency unit ids (comma-separated or repeatable)")
	unitAddCmd.Flags().StringVarP(&unitDescriptionFlag, "description", "d", "", "unit description")
	unitAddCmd.Flags().StringVar(&unitDisciplineFlag, "discipline", "", "discipline hint (backend, frontend, ...)")

	unitCmd.AddCommand(unitAddCmd)
	unitCmd.AddCommand(unitStartCmd)
}
