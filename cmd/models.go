package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/askgpt/internal/catalog"
	"github.com/abhisek/askgpt/internal/llm"
	"github.com/abhisek/askgpt/internal/logging"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models askgpt can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logging.SetVerbose(debug)

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		client, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			return err
		}

		registry := catalog.Load(cmd.Context(), client)
		if registry.Fetched() {
			fmt.Println("Available Models:")
		} else {
			fmt.Println("Available Models (fallback list):")
		}

		for _, m := range registry.Models() {
			marker := ""
			if m == catalog.DefaultModel {
				marker = " (default)"
			}
			fmt.Printf("  - %s%s\n", m, marker)
		}
		return nil
	},
}
