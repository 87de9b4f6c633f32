package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/dlc/internal/dag"
	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func statusColor(s model.UnitStatus) ui.StatusColor {
	switch s {
	case model.UnitCompleted:
		return ui.StatusCompleted
	case model.UnitInProgress:
		return ui.StatusInProgress
	case model.UnitBlocked:
		return ui.StatusBlocked
	default:
		return ui.StatusPending
	}
}

func printIntent(intent *model.Intent, units []*model.Unit) {
	fmt.Printf("Slug:     %s\n", ui.RenderAccent(intent.Slug))
	fmt.Printf("Title:    %s\n", intent.Title)
	fmt.Printf("Status:   %s\n", intent.Status)
	if intent.Workflow != "" {
		fmt.Printf("Workflow: %s\n", intent.Workflow)
	}
	if intent.Problem != "" {
		fmt.Printf("Problem:  %s\n", intent.Problem)
	}
	if intent.Solution != "" {
		fmt.Printf("Solution: %s\n", intent.Solution)
	}
	for i, c := range intent.Criteria {
		if i == 0 {
			fmt.Printf("Criteria: %s\n", c)
		} else {
			fmt.Printf("          %s\n", c)
		}
	}
	fmt.Printf("Created:  %s\n", intent.Created.Format("2006-01-02 15:04:05"))
	if intent.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", intent.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if len(units) > 0 {
		fmt.Println()
		printUnitList(units)
	}
}

func printIntentList(intents []*model.Intent) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tSTATUS\tCREATED\tTITLE")
	for _, in := range intents {
		title := in.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			in.Slug,
			in.Status,
			in.Created.Format("2006-01-02"),
			title,
		)
	}
	w.Flush()
	fmt.Printf("\n%d intents\n", len(intents))
}

func printUnit(u *model.Unit) {
	fmt.Printf("ID:          %s\n", ui.RenderAccent(u.ID))
	fmt.Printf("Status:      %s\n", ui.RenderStatus(u.Status.String(), statusColor(u.Status)))
	if len(u.DependsOn) > 0 {
		fmt.Printf("Depends On:  %s\n", strings.Join(u.DependsOn, ", "))
	}
	if u.Branch != "" {
		fmt.Printf("Branch:      %s\n", u.Branch)
	}
	if u.Discipline != "" {
		fmt.Printf("Discipline:  %s\n", u.Discipline)
	}
	if u.Description != "" {
		fmt.Printf("Description: %s\n", u.Description)
	}
	fmt.Printf("Updated At:  %s\n", u.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printUnitList(units []*model.Unit) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDEPENDS ON\tBRANCH")
	for _, u := range units {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			u.ID,
			ui.RenderStatus(u.Status.String(), statusColor(u.Status)),
			strings.Join(u.DependsOn, ", "),
			u.Branch,
		)
	}
	w.Flush()
	fmt.Printf("\n%d units\n", len(units))
}

func printStatus(intent *model.Intent, summary model.DagSummary, classes dag.Classification) {
	fmt.Printf("%s (%s)\n\n", ui.RenderAccent(intent.Slug), intent.Status)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ready\t%d\n", summary.Ready)
	fmt.Fprintf(w, "in progress\t%d\n", summary.InProgress)
	fmt.Fprintf(w, "blocked\t%d\n", summary.Blocked)
	fmt.Fprintf(w, "pending\t%d\n", summary.Pending)
	fmt.Fprintf(w, "completed\t%d\n", summary.Completed)
	w.Flush()

	if len(classes.Blocked) > 0 {
		fmt.Println()
		for _, b := range classes.Blocked {
			fmt.Printf("%s %s waiting on %s\n",
				ui.RenderStatus("blocked", ui.StatusBlocked),
				b.Unit.ID,
				strings.Join(b.Blocking, ", "))
		}
	}
}

func printResult(result *model.IntegrationResult) {
	switch result.Status {
	case model.IntegrationCompleted:
		fmt.Println(ui.RenderStatus("completed", ui.StatusCompleted))
	case model.IntegrationPrCreated:
		fmt.Println(ui.RenderStatus("pr created", ui.StatusInProgress))
	case model.IntegrationSkipped:
		fmt.Println(ui.RenderMuted("skipped"))
	case model.IntegrationBlocked:
		fmt.Println(ui.RenderStatus("blocked", ui.StatusBlocked))
	}
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	if result.PrURL != "" {
		fmt.Printf("PR: %s\n", result.PrURL)
	}
	if result.BranchesDeleted > 0 || result.WorktreesRemoved > 0 {
		fmt.Printf("cleaned up %d branch(es), %d worktree(s)\n", result.BranchesDeleted, result.WorktreesRemoved)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
}
