package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newScrapeCmd() *cobra.Command {
	var page, workers int
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrapes one listing page and prints it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("--page must be >= 1, got %d", page)
			}
			if !cmd.Flags().Changed("workers") {
				workers = app.Config.Pipeline.DefaultWorkers
			}
			result := app.Orchestrator.Run(cmd.Context(), page, workers)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "listing page number (1-based)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent detail-page workers (1..16, default from config)")
	return cmd
}
