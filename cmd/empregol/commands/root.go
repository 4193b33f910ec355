// Package commands holds the cobra commands of the empregol maintenance CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"empregol-backend/internal/database"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// openDB is replaced in tests
var openDB = database.GetMainDB

var rootCmd = &cobra.Command{
	Use:   "empregol",
	Short: "EmpreGol database maintenance",
	Long: `Maintenance commands for the EmpreGol backend database.

Connection settings are read from the same environment variables (or .env
file) as the API server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command and prints the error in red
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		red.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	return nil
}

func success(cmd *cobra.Command, format string, a ...any) {
	green.Fprintf(cmd.OutOrStdout(), "✓ %s\n", fmt.Sprintf(format, a...))
}

func warning(cmd *cobra.Command, format string, a ...any) {
	yellow.Fprintf(cmd.OutOrStdout(), "⚠️  %s\n", fmt.Sprintf(format, a...))
}
