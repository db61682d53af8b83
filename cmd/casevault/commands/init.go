package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the test case database",
		Long: `Create the test case database file and its schema.

Safe to run any number of times: existing tables and rows are left
untouched.`,
		Example: `  # Initialize with the default database path
  casevault init

  # Initialize with a config file
  casevault init --config casevault.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			a.logger.Infof("database ready at %s", a.cfg.Database.Path)
			fmt.Printf("Initialized database at %s\n", a.cfg.Database.Path)
			return nil
		},
	}

	return cmd
}
