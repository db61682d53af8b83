package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casevault/casevault/pkg/stores"
)

func newCasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Test case retrieval",
	}

	cmd.AddCommand(newCasesListCommand())

	return cmd
}

func newCasesListCommand() *cobra.Command {
	var fileID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		Example: `  # List every test case
  casevault cases list

  # List test cases belonging to one file
  casevault cases list --file-id 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			var cases []*stores.TestCase
			if cmd.Flags().Changed("file-id") {
				cases, err = a.store.ListTestCasesByFile(ctx, fileID)
				a.metrics.RecordQuery("list_cases_by_file")
			} else {
				cases, err = a.store.ListTestCases(ctx)
				a.metrics.RecordQuery("list_cases")
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cases)
			}
			for _, tc := range cases {
				fmt.Printf("%d\t%s\tfile=%d\n", tc.TCID, tc.Name, tc.FileID)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&fileID, "file-id", 0, "filter by owning file id")

	return cmd
}
