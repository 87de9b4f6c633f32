package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/dlc/internal/config"
	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/vcs"
)

// newRunner builds the VCS runner for the repo, honoring an explicit backend
// from settings and falling back to detection.
func newRunner() vcs.Runner {
	backend := vcs.Backend(settings.Vcs.Backend)
	if backend == "" {
		backend = vcs.Detect(repoRoot)
	}
	return vcs.New(backend, repoRoot)
}

// resolvePolicy loads the intent and merges its overrides with repo settings
// into a concrete VCS policy.
func resolvePolicy(ctx context.Context, intentID string) (*model.Intent, model.VcsConfig, error) {
	intent, err := db.GetIntent(ctx, intentID)
	if err != nil {
		return nil, model.VcsConfig{}, fmt.Errorf("loading intent: %w", err)
	}
	resolver := config.NewResolver(settings, newRunner())
	cfg, err := resolver.Resolve(ctx, config.OverridesFromIntent(intent))
	if err != nil {
		return nil, model.VcsConfig{}, err
	}
	return intent, cfg, nil
}
