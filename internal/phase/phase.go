// Package phase recommends the next workflow phase ("hat") for an intent
// from its unit count and DAG summary. The recommendation is a deterministic
// lookup over the summary with no memory across calls.
package phase

import (
	"errors"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// ErrNoHats is returned when the workflow defines no phases.
var ErrNoHats = errors.New("workflow has no phases")

// Recommend picks the next phase from an ordered hat list:
//
//  1. no units yet: the second hat (decomposition), or the first if the
//     workflow only has one;
//  2. nothing pending or in progress: the last hat (review);
//  3. work is ready or underway: the third hat (build) when the workflow has
//     at least three, otherwise the last;
//  4. everything blocked: the second hat.
func Recommend(unitCount int, summary model.DagSummary, hats []string) (string, error) {
	if len(hats) == 0 {
		return "", ErrNoHats
	}

	second := hats[0]
	if len(hats) > 1 {
		second = hats[1]
	}
	last := hats[len(hats)-1]

	switch {
	case unitCount == 0:
		return second, nil
	case summary.Pending == 0 && summary.InProgress == 0:
		return last, nil
	case summary.InProgress > 0 || summary.Ready > 0:
		if len(hats) >= 3 {
			return hats[2], nil
		}
		return last, nil
	default:
		return second, nil
	}
}
