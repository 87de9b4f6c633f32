package integrate

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// prBody renders the pull-request description from intent and unit metadata.
func prBody(intent *model.Intent, units []*model.Unit) string {
	var b strings.Builder

	if intent.Problem != "" {
		b.WriteString("## Problem\n\n")
		b.WriteString(intent.Problem)
		b.WriteString("\n\n")
	}
	if intent.Solution != "" {
		b.WriteString("## Solution\n\n")
		b.WriteString(intent.Solution)
		b.WriteString("\n\n")
	}
	if len(intent.Criteria) > 0 {
		b.WriteString("## Acceptance criteria\n\n")
		for _, c := range intent.Criteria {
			fmt.Fprintf(&b, "- [x] %s\n", c)
		}
		b.WriteString("\n")
	}
	if len(units) > 0 {
		b.WriteString("## Units\n\n")
		for _, u := range units {
			line := u.ID
			if u.Description != "" {
				line += ": " + u.Description
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
