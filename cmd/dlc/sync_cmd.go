package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dlcsync "github.com/alfredjeanlab/dlc/internal/sync"
)

var syncWatchFlag bool

// syncDestinations builds the configured export targets. An empty settings
// block yields no destinations, which is an error for the sync command.
func syncDestinations(ctx context.Context) ([]dlcsync.Destination, error) {
	var dests []dlcsync.Destination
	s := settings.Sync

	if s.GitRepo != "" {
		file := s.GitFile
		if file == "" {
			file = "intents.jsonl"
		}
		branch := s.GitBranch
		if branch == "" {
			branch = "main"
		}
		dests = append(dests, dlcsync.NewGitDestination(s.GitRepo, file, branch))
	}
	if s.S3Bucket != "" {
		key := s.S3Key
		if key == "" {
			key = "intents.jsonl"
		}
		d, err := dlcsync.NewS3Destination(ctx, s.S3Bucket, key, s.S3Region, s.S3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	return dests, nil
}

var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Export intents and units to the configured destinations",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		dests, err := syncDestinations(ctx)
		if err != nil {
			return err
		}
		if len(dests) == 0 {
			return fmt.Errorf("no sync destinations configured in %s", ".dlc/settings.toml")
		}

		if syncWatchFlag {
			interval, err := settings.Sync.SyncInterval()
			if err != nil {
				return err
			}
			sched := dlcsync.NewScheduler(db, dests, interval, slog.Default())
			sched.Start()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			sched.Stop()
			return nil
		}

		var buf bytes.Buffer
		if err := dlcsync.ExportJSONL(ctx, db, &buf); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		for _, dest := range dests {
			if err := dest.Write(ctx, buf.Bytes()); err != nil {
				return fmt.Errorf("sync write: %w", err)
			}
		}
		fmt.Printf("synced %d bytes to %d destination(s)\n", buf.Len(), len(dests))
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatchFlag, "watch", false, "sync periodically until interrupted")
}
