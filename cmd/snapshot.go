package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	var from, to, workers int
	var path, object string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Scrapes a page range, writes it to disk and uploads it",
		Long: `Scrapes listing pages --from..--to (stopping early at the first empty
page), writes the combined catalog atomically to the snapshot path and
uploads the same JSON to the configured blob store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = app.Config.Pipeline.DefaultWorkers
			}
			if path == "" {
				path = app.Config.Snapshot.Path
			}
			if object == "" {
				object = app.Config.Snapshot.Object
			}
			if to == 0 {
				to = from
			}

			pub := snapshot.New(app.Orchestrator, app.Store, app.Clock, app.Logger.Named("snapshot"))
			doc, err := pub.Build(cmd.Context(), from, to, workers)
			if err != nil {
				return err
			}
			uri, err := pub.Publish(cmd.Context(), doc, path, object)
			if err != nil {
				return err
			}
			app.Logger.Info("snapshot complete", zap.String("uri", uri), zap.Int("count", doc.Count))
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "first listing page")
	cmd.Flags().IntVar(&to, "to", 0, "last listing page (defaults to --from)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent detail-page workers (1..16, default from config)")
	cmd.Flags().StringVar(&path, "out", "", "local snapshot path (default snapshot.path)")
	cmd.Flags().StringVar(&object, "object", "", "blob object path (default snapshot.object)")
	return cmd
}
