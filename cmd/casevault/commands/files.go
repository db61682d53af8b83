package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Test case file management",
	}

	cmd.AddCommand(newFilesListCommand())
	cmd.AddCommand(newFilesShowCommand())
	cmd.AddCommand(newFilesRmCommand())

	return cmd
}

func newFilesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test case files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			files, err := a.store.ListTestCaseFiles(ctx)
			if err != nil {
				return err
			}
			a.metrics.RecordQuery("list_files")

			if jsonOutput {
				return printJSON(files)
			}
			for _, f := range files {
				fmt.Printf("%d\t%s\t%s\n", f.FileID, f.Filename, f.UploadDate)
			}
			return nil
		},
	}

	return cmd
}

func newFilesShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file-id>",
		Short: "Show one test case file and its cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q: %w", args[0], err)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			file, ok, err := a.store.GetTestCaseFile(ctx, fileID)
			if err != nil {
				return err
			}
			a.metrics.RecordQuery("get_file")
			if !ok {
				fmt.Printf("No file with id %d\n", fileID)
				return nil
			}

			cases, err := a.store.ListTestCasesByFile(ctx, fileID)
			if err != nil {
				return err
			}
			a.metrics.RecordQuery("list_cases_by_file")

			if jsonOutput {
				return printJSON(struct {
					File  interface{} `json:"file"`
					Cases interface{} `json:"cases"`
				}{file, cases})
			}

			fmt.Printf("%d\t%s\t%s\n", file.FileID, file.Filename, file.UploadDate)
			for _, tc := range cases {
				fmt.Printf("  %d\t%s\n", tc.TCID, tc.Name)
			}
			return nil
		},
	}

	return cmd
}

func newFilesRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <file-id>",
		Short: "Delete a test case file and its cases",
		Long: `Delete one test case file. The schema's cascade rule removes the
file's test cases in the same statement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q: %w", args[0], err)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if err := a.store.DeleteTestCaseFile(ctx, fileID); err != nil {
				return err
			}
			a.metrics.RecordDelete()

			a.logger.WithFileID(fileID).Info("deleted test case file")
			fmt.Printf("Deleted file %d\n", fileID)
			return nil
		},
	}

	return cmd
}
