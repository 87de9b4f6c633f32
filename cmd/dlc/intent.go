package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/events"
	"github.com/alfredjeanlab/dlc/internal/idgen"
	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/store"
)

var intentCmd = &cobra.Command{
	Use:     "intent",
	Short:   "Manage intents",
	GroupID: "records",
}

var (
	intentSlugFlag     string
	intentProblemFlag  string
	intentSolutionFlag string
	intentCriteriaFlag []string
	intentWorkflowFlag string
	intentStrategyFlag string
	intentBranchFlag   string
	intentRootFlag     string
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases a title and collapses everything that is not a letter
// or digit into single dashes.
func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

var intentNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new intent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]

		slug := intentSlugFlag
		if slug == "" {
			slug = slugify(title)
		}
		if !model.IsValidUnitID(slug) {
			return fmt.Errorf("invalid slug %q", slug)
		}

		intent := &model.Intent{
			Slug:     slug,
			Title:    title,
			Problem:  intentProblemFlag,
			Solution: intentSolutionFlag,
			Criteria: intentCriteriaFlag,
			Workflow: intentWorkflowFlag,
			Status:   model.IntentActive,
			Created:  time.Now().UTC(),
		}
		if intentStrategyFlag != "" || intentBranchFlag != "" || intentRootFlag != "" {
			intent.Vcs = &model.VcsOverrides{
				ChangeStrategy: intentStrategyFlag,
				DefaultBranch:  intentBranchFlag,
				BranchRoot:     intentRootFlag,
			}
		}
		if errs := model.ValidateIntent(intent); errs != nil {
			return errs
		}

		ctx := context.Background()
		err := db.CreateIntent(ctx, intent)
		if errors.Is(err, store.ErrExists) && intentSlugFlag == "" {
			// Derived slug collided; retry once with a random suffix.
			suffix, serr := idgen.Suffix()
			if serr != nil {
				return fmt.Errorf("generating slug suffix: %w", serr)
			}
			intent.Slug = slug + "-" + suffix
			err = db.CreateIntent(ctx, intent)
		}
		if err != nil {
			return fmt.Errorf("creating intent: %w", err)
		}
		events.Emit(ctx, bus, events.TopicIntentCreated, events.IntentCreated{Intent: intent})

		if jsonOutput {
			printJSON(intent)
		} else {
			printIntent(intent, nil)
		}
		return nil
	},
}

var intentStatusFlag string

var intentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List intents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		intents, err := db.ListIntents(context.Background())
		if err != nil {
			return fmt.Errorf("listing intents: %w", err)
		}
		if intentStatusFlag != "" {
			status := model.IntentStatus(intentStatusFlag)
			if !status.IsValid() {
				return fmt.Errorf("invalid status %q (must be active or completed)", intentStatusFlag)
			}
			filtered := intents[:0]
			for _, in := range intents {
				if in.Status == status {
					filtered = append(filtered, in)
				}
			}
			intents = filtered
		}
		if jsonOutput {
			printJSON(intents)
		} else {
			printIntentList(intents)
		}
		return nil
	},
}

var intentShowCmd = &cobra.Command{
	Use:   "show <intent>",
	Short: "Show one intent and its units",
	Args:  cobra.ExactArgs(1),
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
		if jsonOutput {
			printJSON(struct {
				Intent *model.Intent `json:"intent"`
				Units  []*model.Unit `json:"units"`
			}{intent, units})
		} else {
			printIntent(intent, units)
		}
		return nil
	},
}

func init() {
	intentNewCmd.Flags().StringVar(&intentSlugFlag, "slug", "", "intent slug (default: derived from title)")
	intentNewCmd.Flags().StringVar(&intentProblemFlag, "problem", "", "problem statement")
	intentNewCmd.Flags().StringVar(&intentSolutionFlag, "solution", "", "solution sketch")
	intentNewCmd.Flags().StringArrayVar(&intentCriteriaFlag, "criterion", nil, "acceptance criterion (repeatable)")
	intentNewCmd.Flags().StringVar(&intentWorkflowFlag, "workflow", "", "workflow name (default: standard)")
	intentNewCmd.Flags().StringVar(&intentStrategyFlag, "strategy", "", "change strategy override (trunk, bolt, unit, intent)")
	intentNewCmd.Flags().StringVar(&intentBranchFlag, "base-branch", "", "default branch override")
	intentNewCmd.Flags().StringVar(&intentRootFlag, "branch-root", "", "branch root override")

	intentListCmd.Flags().StringVar(&intentStatusFlag, "status", "", "filter by status (active or completed)")

	intentCmd.AddCommand(intentNewCmd)
	intentCmd.AddCommand(intentListCmd)
	intentCmd.AddCommand(intentShowCmd)
}
