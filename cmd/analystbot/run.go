package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/analystbot/internal/cache"
	"github.com/deusflow/analystbot/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one news item and publish it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runOnce(ctx, cache.New(ctx, 0))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runOnce builds a fresh pipeline, so the seen list and targets are re-read
// on every scheduled run.
func runOnce(ctx context.Context, imageCache *cache.Cache) error {
	log := logger.New(cfg.Debug, logger.NewRunID())
	log.Info("starting run", "dry_run", cfg.DryRun, "remote", cfg.RemoteConfigured())

	pipeline, closeFn, err := buildPipeline(ctx, cfg, imageCache, log)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = pipeline.Run(ctx)
	return err
}
