package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "casevault",
		Short: "CaseVault - Test Case Storage",
		Long: `CaseVault stores uploaded test case files and the individual test
cases extracted from them in a local SQLite database.

Features:
  - Idempotent schema creation
  - Manifest ingestion (YAML/JSON)
  - Uploads-directory watching
  - File and test case retrieval`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newFilesCommand())
	rootCmd.AddCommand(newCasesCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}
