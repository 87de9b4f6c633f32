package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dlc/internal/config"
	"github.com/alfredjeanlab/dlc/internal/events"
	"github.com/alfredjeanlab/dlc/internal/store"
	"github.com/alfredjeanlab/dlc/internal/ui"
)

var (
	repoRoot   string
	jsonOutput bool
	noColor    bool

	db       store.Store
	settings config.Settings
	bus      events.Publisher
)

func defaultRoot() string {
	if r := os.Getenv("DLC_ROOT"); r != "" {
		return r
	}
	return "."
}

func natsURL() string {
	if u := os.Getenv("DLC_NATS_URL"); u != "" {
		return u
	}
	return settings.Events.NATSURL
}

var rootCmd = &cobra.Command{
	Use:   "dlc <command>",
	Short: "Dependency-aware intent and unit tracker",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.ForceNoColor()
		} else {
			ui.AutoColor()
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

		var err error
		db, err = store.NewFileStore(filepath.Join(repoRoot, ".dlc"))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		settings, err = config.LoadSettings(repoRoot)
		if err != nil {
			return err
		}
		bus, err = events.Connect(natsURL())
		if err != nil {
			return fmt.Errorf("connect event bus: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if bus != nil {
			bus.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoRoot, "dir", defaultRoot(), "repository root (default: $DLC_ROOT or .)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "graph", Title: "Graph:"},
		&cobra.Group{ID: "integration", Title: "Integration:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Records
	rootCmd.AddCommand(intentCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(updateCmd)

	// Graph
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(dagCmd)
	rootCmd.AddCommand(hatCmd)

	// Integration
	rootCmd.AddCommand(integrateCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(checkCmd)

	// System
	rootCmd.AddCommand(syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
