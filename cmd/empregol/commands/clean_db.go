package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var assumeYes bool

var cleanDBCmd = &cobra.Command{
	Use:   "clean-db",
	Short: "Drop every table of the public schema",
	Long: `Drop every table of the public schema of the configured database.

This action is irreversible. The command asks for confirmation unless --yes is given.`,
	RunE: runCleanDB,
}

func init() {
	cleanDBCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(cleanDBCmd)
}

// confirm reads a yes/no answer, anything but "yes" or "y" is a no
func confirm(in io.Reader) (bool, error) {
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "yes" || input == "y", nil
}

func runCleanDB(cmd *cobra.Command, args []string) error {
	if !assumeYes {
		warning(cmd, "This command will DROP ALL TABLES in the 'public' schema of your database.")
		fmt.Fprint(cmd.OutOrStdout(), "This action is irreversible. Do you want to continue? (yes/no): ")

		ok, err := confirm(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
			return nil
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropAllTables(cmd.Context()); err != nil {
		return fmt.Errorf("failed to execute drop command: %w", err)
	}

	success(cmd, "All tables dropped successfully.")
	return nil
}
