package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-keeper/internal/fixtures"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--store", "file", "--store-dir", dir}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func writeRecord(t *testing.T, dir string, rec types.PortfolioRecord) string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(dir, rec.Name+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func named(name string) types.PortfolioRecord {
	rec := fixtures.Default()
	rec.Name = name
	return rec
}

func showJSONRecord(t *testing.T, dir string) types.PortfolioRecord {
	t.Helper()
	out, err := runCLI(t, dir, "", "show", "--json")
	require.NoError(t, err)
	var rec types.PortfolioRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	return rec
}

func TestShow_FreshStoreUsesDefault(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, fixtures.Default().Name)
	assert.Contains(t, out, "Loaded from: default")

	keys, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, k := range keys {
		assert.NotContains(t, k.Name(), "portfolio-data", "show must not write the record")
	}
}

func TestImport_ThenShow(t *testing.T) {
	dir := t.TempDir()
	in := writeRecord(t, t.TempDir(), named("Ada Lovelace"))

	out, err := runCLI(t, dir, "", "import", "--in", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported and saved Ada Lovelace")

	out, err = runCLI(t, dir, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Loaded from: primary")
}

func TestImport_RejectsMissingEmail(t *testing.T) {
	dir := t.TempDir()
	rec := named("No Email")
	rec.Email = ""
	in := writeRecord(t, t.TempDir(), rec)

	_, err := runCLI(t, dir, "", "import", "--in", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name and email are required")

	assert.Equal(t, fixtures.Default().Name, showJSONRecord(t, dir).Name)
}

func TestImport_RequiresInFlag(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestExport_WritesLoadedRecord(t *testing.T) {
	dir := t.TempDir()
	in := writeRecord(t, t.TempDir(), named("Grace Hopper"))
	_, err := runCLI(t, dir, "", "import", "--in", in)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "export.json")
	out, err := runCLI(t, dir, "", "export", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var got types.PortfolioRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Grace Hopper", got.Name)
}

func TestClear_PromptDeclined(t *testing.T) {
	dir := t.TempDir()
	in := writeRecord(t, t.TempDir(), named("Kept"))
	_, err := runCLI(t, dir, "", "import", "--in", in)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Equal(t, "Kept", showJSONRecord(t, dir).Name)
}

func TestClear_Confirmed(t *testing.T) {
	dir := t.TempDir()
	in := writeRecord(t, t.TempDir(), named("Gone"))
	_, err := runCLI(t, dir, "", "import", "--in", in)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "yes\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All data cleared")
	assert.Equal(t, fixtures.Default().Name, showJSONRecord(t, dir).Name)
}

func TestClear_YesFlagSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	in := writeRecord(t, t.TempDir(), named("Gone"))
	_, err := runCLI(t, dir, "", "import", "--in", in)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data cleared")
}

func TestBackupsAndRestore(t *testing.T) {
	dir := t.TempDir()
	src := t.TempDir()
	for _, name := range []string{"First", "Second"} {
		_, err := runCLI(t, dir, "", "import", "--in", writeRecord(t, src, named(name)))
		require.NoError(t, err)
	}

	out, err := runCLI(t, dir, "", "backups")
	require.NoError(t, err)
	assert.Contains(t, out, "BACKUPS (2)")
	assert.Less(t, strings.Index(out, "Second"), strings.Index(out, "First"), "newest first")

	out, err = runCLI(t, dir, "", "restore", "--index", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored backup 1: First")
	assert.Equal(t, "First", showJSONRecord(t, dir).Name)
}

func TestRestore_OutOfRange(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "restore", "--index", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to restore backup")
}

func TestBackups_Empty(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "", "backups")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups stored")
}

func TestUnknownStoreRejected(t *testing.T) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--store", "floppy", "show"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}
