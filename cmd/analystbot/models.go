package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/analystbot/internal/gemini"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List generation models available to LLM_API_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LLMAPIKey == "" {
			return errors.New("LLM_API_KEY is not set")
		}

		client, err := gemini.NewClient(cmd.Context(), cfg.LLMAPIKey)
		if err != nil {
			return err
		}
		defer client.Close()

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range models {
			fmt.Fprintf(out, "%-40s %-32s in=%d out=%d\n", m.Name, m.DisplayName, m.InputLimit, m.OutputLimit)
		}
		fmt.Fprintf(out, "%d models support generateContent\n", len(models))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
