package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casevault/casevault/pkg/ingest"
)

func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <manifest>...",
		Short: "Ingest test case manifests",
		Long: `Parse one or more test case manifests and store their contents.

A manifest is a YAML or JSON file listing test case names:

  filename: auth_suite.yaml   # optional, defaults to the file name
  cases:
    - test_login
    - test_logout

Each manifest produces one file record and one test case record per
name.`,
		Example: `  # Ingest a single manifest
  casevault ingest uploads/auth_suite.yaml

  # Ingest several manifests
  casevault ingest uploads/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			ingestor := ingest.NewIngestor(a.store, a.logger, a.metrics, a.tracer)

			for _, path := range args {
				result, err := ingestor.IngestFile(ctx, path)
				if err != nil {
					return err
				}

				if jsonOutput {
					if err := printJSON(result); err != nil {
						return err
					}
					continue
				}
				fmt.Printf("Ingested %s: file_id=%d, %d cases\n",
					result.Filename, result.FileID, len(result.TestCaseIDs))
			}

			return nil
		},
	}

	return cmd
}
