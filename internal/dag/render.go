package dag

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/ui"
)

// Format selects a diagram notation for Render.
type Format string

const (
	FormatTree Format = "tree"
	FormatDOT  Format = "dot"
)

// Render produces a diagram of the unit graph as a projection of Classify.
// Styling is cosmetic; the grouping and edges are the contract.
func Render(units []*model.Unit, format Format) (string, error) {
	switch format {
	case FormatTree:
		return renderTree(units), nil
	case FormatDOT:
		return renderDOT(units), nil
	default:
		return "", fmt.Errorf("unknown render format %q", format)
	}
}

// renderTree writes one section per classification bucket, each unit with an
// indented branch line per dependency.
func renderTree(units []*model.Unit) string {
	c := Classify(units)
	var b strings.Builder

	section := func(name string, members []*model.Unit, blocking map[string][]string) {
		if len(members) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d)\n", name, len(members))
		for _, u := range members {
			fmt.Fprintf(&b, "  %s %s\n", statusMarker(u.Status), u.ID)
			deps := u.DependsOn
			for i, dep := range deps {
				connector := "├── "
				if i == len(deps)-1 {
					connector = "└── "
				}
				line := dep
				if blocked, ok := blocking[u.ID]; ok && contains(blocked, dep) {
					line = dep + " (incomplete)"
				}
				fmt.Fprintf(&b, "  %s%s\n", connector, line)
			}
		}
	}

	blockedUnits := make([]*model.Unit, len(c.Blocked))
	blocking := make(map[string][]string, len(c.Blocked))
	for i, bu := range c.Blocked {
		blockedUnits[i] = bu.Unit
		blocking[bu.Unit.ID] = bu.Blocking
	}

	section("ready", c.Ready, nil)
	section("in progress", c.InProgress, nil)
	section("blocked", blockedUnits, blocking)
	section("completed", c.Completed, nil)

	if b.Len() == 0 {
		return "no units\n"
	}
	return b.String()
}

// renderDOT emits a Graphviz digraph with one node per unit and one edge per
// dependency, grouped into a cluster per classification bucket.
func renderDOT(units []*model.Unit) string {
	c := Classify(units)
	var b strings.Builder
	b.WriteString("digraph units {\n  rankdir=LR;\n")

	cluster := func(name string, members []*model.Unit) {
		if len(members) == 0 {
			return
		}
		fmt.Fprintf(&b, "  subgraph cluster_%s {\n    label=%q;\n", strings.ReplaceAll(name, " ", "_"), name)
		for _, u := range members {
			fmt.Fprintf(&b, "    %q;\n", u.ID)
		}
		b.WriteString("  }\n")
	}

	blockedUnits := make([]*model.Unit, len(c.Blocked))
	for i, bu := range c.Blocked {
		blockedUnits[i] = bu.Unit
	}
	cluster("ready", c.Ready)
	cluster("in progress", c.InProgress)
	cluster("blocked", blockedUnits)
	cluster("completed", c.Completed)

	for _, u := range units {
		for _, dep := range u.DependsOn {
			fmt.Fprintf(&b, "  %q -> %q;\n", u.ID, dep)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func statusMarker(s model.UnitStatus) string {
	switch s {
	case model.UnitCompleted:
		return ui.RenderStatus("[x]", ui.StatusCompleted)
	case model.UnitInProgress:
		return ui.RenderStatus("[~]", ui.StatusInProgress)
	case model.UnitBlocked:
		return ui.RenderStatus("[!]", ui.StatusBlocked)
	default:
		return "[ ]"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
