package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyric-engineering/fleetscope/aggregator"
	"github.com/lyric-engineering/fleetscope/config"
	"github.com/lyric-engineering/fleetscope/storage"
	"github.com/lyric-engineering/fleetscope/telemetry"

	_ "github.com/lyric-engineering/fleetscope/providers/aws"
	_ "github.com/lyric-engineering/fleetscope/providers/azure"
	_ "github.com/lyric-engineering/fleetscope/providers/gcp"
)

var syncPersist bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Collect clusters from every enabled cloud once",
	Long: `Run a single collection pass across all enabled clouds and print the
resulting snapshot as JSON. With --persist the snapshot also replaces
the stored inventory.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncPersist, "persist", false, "Replace the stored snapshot with the collected one")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	logger := telemetry.NewLogger("fleetscope")

	cfg, err := config.Load(configPath)
	if err != nil {
		// Collection degrades to an empty, valid snapshot rather than
		// failing the caller outright.
		logger.Error().Err(err).Msg("failed to load config")
		return printSnapshot(emptySnapshot())
	}
	telemetry.SetGlobalLevel(cfg.Log.Level)

	result := aggregator.New(cfg).CollectAll(cmd.Context())

	if syncPersist {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		store, err := storage.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("connect snapshot store: %w", err)
		}
		defer store.Close(ctx)
		if err := store.ReplaceSnapshot(ctx, result.Clusters); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
		logger.Info().Int("clusters", len(result.Clusters)).Msg("snapshot persisted")
	}

	return printSnapshot(result.Snapshot())
}

func emptySnapshot() map[string][]interface{} {
	return map[string][]interface{}{"clusters": {}}
}

func printSnapshot(snapshot interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
