package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/casevault/casevault/pkg/ingest"
)

func newWatchCommand() *cobra.Command {
	var uploadsDir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the uploads directory for manifests",
		Long: `Watch a directory and ingest test case manifests as they arrive.

Manifests already present when the watch starts are ingested first.
Runs until interrupted.`,
		Example: `  # Watch the configured uploads directory
  casevault watch

  # Watch a specific directory
  casevault watch --dir /srv/uploads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			dir := uploadsDir
			if dir == "" {
				dir = a.cfg.Ingest.UploadsDir
			}

			if err := a.metrics.StartMetricsServer(); err != nil {
				return err
			}

			ingestor := ingest.NewIngestor(a.store, a.logger, a.metrics, a.tracer)
			watcher, err := ingest.NewWatcher(dir, ingestor, a.logger, a.metrics)
			if err != nil {
				return err
			}

			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&uploadsDir, "dir", "d", "", "uploads directory (defaults to config)")

	return cmd
}
