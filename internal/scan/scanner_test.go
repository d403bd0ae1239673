package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/token"
)

func TestScanFindsContentMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "var oldName = oldNameHelper()\n")

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", []token.Style{token.Camel})
	require.NoError(t, err)

	res, err := Scan(context.Background(), root, vm, tz, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "main.go", res.Files[0].Path)

	var got []string
	for _, m := range res.Files[0].Matches {
		got = append(got, m.Old+"->"+m.New)
	}
	assert.Contains(t, got, "oldName->newName")
}

func TestScanSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data.bin"), "\x00old_name")

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	res, err := Scan(context.Background(), root, vm, tz, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Equal(t, 1, res.FilesSkipped)
}

func TestScanProposesFileRename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "old_name.go"), "package main")

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	res, err := Scan(context.Background(), root, vm, tz, Options{})
	require.NoError(t, err)
	require.Len(t, res.Renames, 1)
	assert.Equal(t, "old_name.go", res.Renames[0].OldPath)
	assert.Equal(t, "new_name.go", res.Renames[0].NewPath)
	assert.False(t, res.Renames[0].IsDir)
}

func TestScanProposesDirRename(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "old_name"), 0o755))

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	res, err := Scan(context.Background(), root, vm, tz, Options{})
	require.NoError(t, err)
	require.Len(t, res.Renames, 1)
	assert.True(t, res.Renames[0].IsDir)
}

func TestScanBoundaryRuleRejectsPartialMatch(t *testing.T) {
	// spec.md §4.2: "old_name" must not match inside "scaffold_name" since
	// both edges stay within the same character class (lowercase letter).
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "var scaffold_name = 1\n")

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	res, err := Scan(context.Background(), root, vm, tz, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
}

func TestScanRespectsContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Scan(ctx, root, vm, tz, Options{})
	assert.Error(t, err)
}
