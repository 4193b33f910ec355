package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
)

func TestLoadSeedFile(t *testing.T) {
	fixture, err := LoadSeedFile(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)

	require.Len(t, fixture.Candidates, 1)
	assert.Equal(t, "joana.dev@example.com", fixture.Candidates[0].Email)
	assert.Equal(t, []string{"go", "react", "postgres"}, fixture.Candidates[0].Skills)

	require.Len(t, fixture.Companies, 1)
	company := fixture.Companies[0]
	assert.Equal(t, "Lúdica Games", company.TradeName)
	require.Len(t, company.JobPosts, 2)
	require.NotNil(t, company.JobPosts[0].SalaryMax)
	assert.Equal(t, 18000.0, *company.JobPosts[0].SalaryMax)
	assert.Equal(t, model.JobStatusPaused, company.JobPosts[1].Status)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("candidatos: []\n"), 0o600))
	_, err = LoadSeedFile(empty)
	assert.ErrorContains(t, err, "no candidatos or empresas")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("empresas: [\n"), 0o600))
	_, err = LoadSeedFile(broken)
	assert.ErrorContains(t, err, "invalid seed file")
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"yes\n":   true,
		" Y \n":   true,
		"YES":     true,
		"no\n":    false,
		"\n":      false,
		"":        false,
		"talvez ": false,
	} {
		got, err := confirm(strings.NewReader(input))
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func stubOpenDB(t *testing.T, fn func() (*database.DBinstanceStruct, error)) {
	t.Helper()
	original := openDB
	openDB = fn
	t.Cleanup(func() { openDB = original })
}

func TestCleanDB_Cancelled(t *testing.T) {
	stubOpenDB(t, func() (*database.DBinstanceStruct, error) {
		t.Fatal("database must not be opened when the user cancels")
		return nil, nil
	})

	var out bytes.Buffer
	cleanDBCmd.SetIn(strings.NewReader("no\n"))
	cleanDBCmd.SetOut(&out)
	t.Cleanup(func() {
		cleanDBCmd.SetIn(nil)
		cleanDBCmd.SetOut(nil)
	})

	require.NoError(t, runCleanDB(cleanDBCmd, nil))
	assert.Contains(t, out.String(), "DROP ALL TABLES")
	assert.Contains(t, out.String(), "Operation cancelled.")
}

func TestCommands_DatabaseError(t *testing.T) {
	dbErr := errors.New("database configuration is incomplete")
	stubOpenDB(t, func() (*database.DBinstanceStruct, error) {
		return nil, dbErr
	})

	assert.ErrorIs(t, runMigrate(migrateCmd, nil), dbErr)

	seedFile = filepath.Join("testdata", "seed.yaml")
	t.Cleanup(func() { seedFile = "" })
	assert.ErrorIs(t, runSeed(seedCmd, nil), dbErr)

	assumeYes = true
	t.Cleanup(func() { assumeYes = false })
	assert.ErrorIs(t, runCleanDB(cleanDBCmd, nil), dbErr)
}
