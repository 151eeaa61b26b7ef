package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/analystbot/internal/cleanup"
	"github.com/deusflow/analystbot/internal/logger"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete articles that only contain a generation error",
	Long: `Walk a local checkout of the content tree and delete markdown files that
contain a known error marker. Commit the deletions yourself.

Examples:
  analystbot cleanup                        # Sweep CONTENT_ROOT
  analystbot cleanup --root site/content    # Sweep another directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			root = cfg.ContentRoot
		}

		removed, err := cleanup.Sweep(root, cleanup.DefaultMarkers, logger.New(cfg.Debug, ""))
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d error article(s) under %s\n", len(removed), root)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().String("root", "", "content directory (default CONTENT_ROOT)")
}
