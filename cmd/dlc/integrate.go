package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/events"
	"github.com/alfredjeanlab/dlc/internal/hooks"
	"github.com/alfredjeanlab/dlc/internal/integrate"
	"github.com/alfredjeanlab/dlc/internal/model"
)

// errBlocked makes a blocked integration exit non-zero after its details
// have already been printed.
var errBlocked = errors.New("integration blocked")

func newIntegrator() *integrate.Integrator {
	validator := hooks.NewValidator(hooks.DefaultTimeout)
	return integrate.New(db, newRunner(), validator, repoRoot)
}

func reportIntegration(ctx context.Context, intentID string, result *model.IntegrationResult) error {
	if result.Status == model.IntegrationBlocked {
		events.Emit(ctx, bus, events.TopicIntegrationBlocked, events.IntegrationBlocked{
			IntentID: intentID,
			Errors:   result.Errors,
		})
	} else {
		events.Emit(ctx, bus, events.TopicIntegrationRun, events.IntegrationRun{
			IntentID: intentID,
			Result:   result,
		})
		if result.Status == model.IntegrationCompleted {
			events.Emit(ctx, bus, events.TopicIntentCompleted, events.IntentCompleted{IntentID: intentID})
		}
	}

	if jsonOutput {
		printJSON(result)
	} else {
		printResult(result)
	}
	if !result.Ok() {
		return errBlocked
	}
	return nil
}

var integrateCmd = &cobra.Command{
	Use:     "integrate <intent>",
	Short:   "Integrate a completed intent per its change strategy",
	GroupID: "integration",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intentID := args[0]
		ctx := context.Background()

		if warn := hooks.CheckCleanTree(repoRoot); warn != "" {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
		}

		_, cfg, err := resolvePolicy(ctx, intentID)
		if err != nil {
			return err
		}
		result, err := newIntegrator().Run(ctx, intentID, cfg)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		return reportIntegration(ctx, intentID, result)
	},
}

var completePrFlag int

var completeCmd = &cobra.Command{
	Use:     "complete <intent>",
	Short:   "Finish an intent-strategy integration after its PR is approved",
	GroupID: "integration",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intentID := args[0]
		ctx := context.Background()

		_, cfg, err := resolvePolicy(ctx, intentID)
		if err != nil {
			return err
		}
		result, err := newIntegrator().CompleteAfterApproval(ctx, intentID, cfg, completePrFlag)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		return reportIntegration(ctx, intentID, result)
	},
}

var checkTimeoutFlag time.Duration

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Run the repo's detected validation commands",
	GroupID: "integration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		validator := hooks.NewValidator(checkTimeoutFlag)
		result := validator.Run(context.Background(), repoRoot)

		if jsonOutput {
			printJSON(result)
			if !result.Passed {
				cmd.SilenceUsage = true
				return errBlocked
			}
			return nil
		}
		lines, failed := checkReport(result)
		for _, line := range lines {
			fmt.Println(line)
		}
		if failed {
			cmd.SilenceUsage = true
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

// checkReport renders a validation result as output lines plus a failure
// flag. A repo where nothing ran passes.
func checkReport(result hooks.ValidationResult) ([]string, bool) {
	if len(result.Ran) == 0 {
		return []string{"no validation commands detected"}, false
	}
	if result.Passed {
		return []string{"validation passed"}, false
	}
	return result.Errors, true
}

func init() {
	completeCmd.Flags().IntVar(&completePrFlag, "pr", 0, "pull request number to merge before completing")
	checkCmd.Flags().DurationVar(&checkTimeoutFlag, "timeout", hooks.DefaultTimeout, "per-command timeout")
}
