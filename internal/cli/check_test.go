package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *langFlags {
	return &langFlags{dialect: "openttd", pluralCount: 2}
}

func TestRunCheckWritesNormalizedTable(t *testing.T) {
	dir := t.TempDir()
	basePath := writeTable(t, dir, "english.lng", "STR_A :{NUM} items\n")
	trPath := writeTable(t, dir, "german.lng", "STR_A :{NUM} Stück  \n")

	err := runCheck(context.Background(), basePath, trPath, testFlags(), 2, true)
	require.NoError(t, err)

	data, err := os.ReadFile(trPath)
	require.NoError(t, err)
	assert.Equal(t, "STR_A :{0:NUM} Stück\n", string(data))
}

func TestRunCheckFailsOnInvalidTranslation(t *testing.T) {
	dir := t.TempDir()
	basePath := writeTable(t, dir, "english.lng", "STR_A :{NUM} items\n")
	trPath := writeTable(t, dir, "german.lng", "STR_A :{CURRENCY} Stück\n")

	err := runCheck(context.Background(), basePath, trPath, testFlags(), 2, false)
	assert.ErrorContains(t, err, "1 of 1 strings failed validation")
}

func TestRunCheckAbortsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	basePath := writeTable(t, dir, "english.lng", "STR_A :{NUM} items\n")
	trPath := writeTable(t, dir, "german.lng", "STR_A :{CURRENCY} Stück\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled run must exit nonzero and never rewrite the table, even
	// with --write: unprocessed entries carry no validation verdict.
	err := runCheck(ctx, basePath, trPath, testFlags(), 2, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	data, readErr := os.ReadFile(trPath)
	require.NoError(t, readErr)
	assert.Equal(t, "STR_A :{CURRENCY} Stück\n", string(data))
}

func TestRunScanReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "english.lng", "STR_A :{NUM} items\nSTR_B :{CURRENCY}\n")

	err := runScan(context.Background(), dir, testFlags(), 2)
	assert.ErrorContains(t, err, "1 of 2 strings failed validation")

	clean := t.TempDir()
	writeTable(t, clean, "english.lng", "STR_A :{NUM} items\n")
	assert.NoError(t, runScan(context.Background(), clean, testFlags(), 2))
}

func TestRunScanAbortsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "english.lng", "STR_A :{CURRENCY}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runScan(ctx, dir, testFlags(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
