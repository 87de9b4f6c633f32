package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// fakeRunner implements only the DefaultBranch call the resolver needs.
type fakeRunner struct {
	branch string
	err    error
}

func (f *fakeRunner) DefaultBranch(ctx context.Context) (string, error) { return f.branch, f.err }

func (f *fakeRunner) BranchExists(context.Context, string) (bool, error)  { return false, nil }
func (f *fakeRunner) CreateBranch(context.Context, string, string) error  { return nil }
func (f *fakeRunner) DeleteBranch(context.Context, string) (bool, error)  { return false, nil }
func (f *fakeRunner) IsAncestor(context.Context, string, string) (bool, error) {
	return false, nil
}
func (f *fakeRunner) Checkout(context.Context, string) error       { return nil }
func (f *fakeRunner) Push(context.Context, string) error           { return nil }
func (f *fakeRunner) Pull(context.Context, string) error           { return nil }
func (f *fakeRunner) RemoveWorktree(context.Context, string) (bool, error) { return false, nil }
func (f *fakeRunner) CreatePullRequest(context.Context, string, string, string, string) (string, error) {
	return "", nil
}
func (f *fakeRunner) MergePullRequest(context.Context, int) error { return nil }

func TestLoadSettings(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".dlc"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
[vcs]
change_strategy = "trunk"
default_branch = "develop"
auto_merge = false

[events]
nats_url = "nats://localhost:4222"

[sync]
git_repo = "/backups/dlc"
interval = "10m"

[workflows]
standard = ["shape", "plan", "build", "review"]
`
	if err := os.WriteFile(filepath.Join(root, ".dlc", "settings.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(root)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.Vcs.ChangeStrategy != "trunk" || s.Vcs.DefaultBranch != "develop" {
		t.Errorf("Vcs = %+v", s.Vcs)
	}
	if s.Vcs.AutoMerge == nil || *s.Vcs.AutoMerge {
		t.Errorf("AutoMerge = %v, want explicit false", s.Vcs.AutoMerge)
	}
	if s.Events.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", s.Events.NATSURL)
	}
	if got, err := s.Sync.SyncInterval(); err != nil || got != 10*time.Minute {
		t.Errorf("SyncInterval() = %v, %v", got, err)
	}
	if got := s.Hats("standard"); !reflect.DeepEqual(got, []string{"shape", "plan", "build", "review"}) {
		t.Errorf("Hats(standard) = %v", got)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if !reflect.DeepEqual(s, Settings{}) {
		t.Errorf("LoadSettings(missing) = %+v, want zero settings", s)
	}
}

func TestSettings_Hats_Fallback(t *testing.T) {
	var s Settings
	if got := s.Hats(""); !reflect.DeepEqual(got, DefaultHats) {
		t.Errorf("Hats(\"\") = %v, want built-in default", got)
	}
	if got := s.Hats("unknown"); !reflect.DeepEqual(got, DefaultHats) {
		t.Errorf("Hats(unknown) = %v, want built-in default", got)
	}
}

func TestResolver_Defaults(t *testing.T) {
	r := NewResolver(Settings{}, &fakeRunner{branch: "main"})
	cfg, err := r.Resolve(context.Background(), IntentOverrides{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.ChangeStrategy != DefaultStrategy {
		t.Errorf("ChangeStrategy = %q, want %q", cfg.ChangeStrategy, DefaultStrategy)
	}
	if cfg.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main (resolved from auto)", cfg.DefaultBranch)
	}
	if cfg.BranchRoot != DefaultBranchRoot {
		t.Errorf("BranchRoot = %q, want %q", cfg.BranchRoot, DefaultBranchRoot)
	}
	if cfg.AutoMerge != nil {
		t.Errorf("AutoMerge = %v, want nil (strategy default applies)", cfg.AutoMerge)
	}
}

func TestResolver_Precedence(t *testing.T) {
	settingsTrue := true
	overrideFalse := false
	settings := Settings{Vcs: VcsSettings{
		ChangeStrategy: "trunk",
		DefaultBranch:  "develop",
		AutoMerge:      &settingsTrue,
	}}
	r := NewResolver(settings, &fakeRunner{branch: "main"})

	// Intent frontmatter beats repo settings.
	cfg, err := r.Resolve(context.Background(), IntentOverrides{
		ChangeStrategy: "intent",
		AutoMerge:      &overrideFalse,
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.ChangeStrategy != model.StrategyIntent {
		t.Errorf("ChangeStrategy = %q, want intent", cfg.ChangeStrategy)
	}
	if cfg.DefaultBranch != "develop" {
		t.Errorf("DefaultBranch = %q, want develop (settings tier)", cfg.DefaultBranch)
	}
	if cfg.AutoMerge == nil || *cfg.AutoMerge {
		t.Errorf("AutoMerge = %v, want explicit false from override", cfg.AutoMerge)
	}
}

func TestResolver_AutoBranchNeverStored(t *testing.T) {
	r := NewResolver(Settings{Vcs: VcsSettings{DefaultBranch: "auto"}}, &fakeRunner{branch: "master"})
	cfg, err := r.Resolve(context.Background(), IntentOverrides{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.DefaultBranch != "master" {
		t.Errorf("DefaultBranch = %q, want master", cfg.DefaultBranch)
	}
}

func TestResolver_AutoBranchFailure(t *testing.T) {
	r := NewResolver(Settings{}, &fakeRunner{err: errors.New("no remote")})
	if _, err := r.Resolve(context.Background(), IntentOverrides{}); err == nil {
		t.Error("Resolve() = nil error, want default-branch resolution failure")
	}
}

func TestResolver_UnknownStrategy(t *testing.T) {
	r := NewResolver(Settings{Vcs: VcsSettings{ChangeStrategy: "rebase"}}, &fakeRunner{branch: "main"})
	if _, err := r.Resolve(context.Background(), IntentOverrides{}); err == nil {
		t.Error("Resolve() = nil error, want unknown strategy failure")
	}
}
