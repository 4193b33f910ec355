package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"empregol-backend/internal/database"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create accounts and job posts from a YAML fixture",
	Long: `Create candidate and company accounts, and the job posts of each company,
from a YAML fixture. Accounts whose email is already registered are skipped,
so the same file can be applied more than once.`,
	Example: "  empregol seed --file seed/exemplo.yaml",
	RunE:    runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture to load")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

// LoadSeedFile parses a YAML seed fixture
func LoadSeedFile(path string) (database.SeedFixture, error) {
	var fixture database.SeedFixture

	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture, fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fixture, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	if len(fixture.Candidates) == 0 && len(fixture.Companies) == 0 {
		return fixture, fmt.Errorf("seed file %s has no candidatos or empresas", path)
	}
	return fixture, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	fixture, err := LoadSeedFile(seedFile)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ApplySeed(cmd.Context(), fixture)
	if err != nil {
		return err
	}

	success(cmd, "Seeded %d candidate(s), %d company(ies) and %d job post(s)",
		result.Candidates, result.Companies, result.JobPosts)
	if result.Skipped > 0 {
		warning(cmd, "Skipped %d account(s) already registered", result.Skipped)
	}
	return nil
}
