package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/analystbot/internal/config"
)

var (
	flagDryRun bool
	flagDebug  bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "analystbot",
	Short: "Turn fresh market news into analyst briefings for a Hugo site",
	Long: `analystbot picks one unseen news item for the current time slot, has a
language model write a briefing about it and commits the rendered post to the
site repository.

Example usage:
  analystbot run               # One pass, exit status reflects the outcome
  analystbot run --dry-run     # Canned item and article, no feed or model calls
  analystbot serve             # Run on SCHEDULE and expose /health and /metrics
  analystbot models            # List generation models for LLM_API_KEY
  analystbot cleanup           # Delete error articles from the content tree`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return errMissingCommand
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagDryRun {
			cfg.DryRun = true
		}
		if flagDebug {
			cfg.Debug = true
		}
		return nil
	},
}

var errMissingCommand = errors.New("no command given, use run, serve, models or cleanup")

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "use a canned item and article instead of the feed and models")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")
}
