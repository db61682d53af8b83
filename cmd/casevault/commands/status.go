package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the database contents",
		Long: `Diagnostic command: verify the schema and print the current
contents of both tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if err := a.store.HealthCheck(ctx); err != nil {
				return err
			}

			files, err := a.store.ListTestCaseFiles(ctx)
			if err != nil {
				return err
			}
			a.metrics.RecordQuery("list_files")

			cases, err := a.store.ListTestCases(ctx)
			if err != nil {
				return err
			}
			a.metrics.RecordQuery("list_cases")

			if jsonOutput {
				return printJSON(struct {
					Files interface{} `json:"files"`
					Cases interface{} `json:"cases"`
				}{files, cases})
			}

			fmt.Printf("Database: %s\n", a.cfg.Database.Path)
			fmt.Printf("Files (%d):\n", len(files))
			for _, f := range files {
				fmt.Printf("  %d\t%s\t%s\n", f.FileID, f.Filename, f.UploadDate)
			}
			fmt.Printf("Test cases (%d):\n", len(cases))
			for _, tc := range cases {
				fmt.Printf("  %d\t%s\tfile=%d\n", tc.TCID, tc.Name, tc.FileID)
			}
			return nil
		},
	}

	return cmd
}
