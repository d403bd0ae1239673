package scan

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	sort.Strings(out)
	return out
}

func TestWalkSkipsIgnoredAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "vendor/\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "vendor", "dep.go"), "package dep")
	writeFile(t, filepath.Join(root, ".hidden"), "x")

	res, err := Walk(root, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, relPaths(res.Files))
}

func TestWalkDetectsBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data.bin"), "\x00\x01\x02binary")
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	res, err := Walk(root, WalkOptions{})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	byPath := map[string]File{}
	for _, f := range res.Files {
		byPath[f.RelPath] = f
	}
	assert.True(t, byPath["data.bin"].Binary)
	assert.False(t, byPath["main.go"].Binary)
}

func TestWalkUnrestrictedLevelThreeSkipsBinaryDetection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data.bin"), "\x00\x01\x02binary")

	res, err := Walk(root, WalkOptions{UnrestrictedLevel: 3})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Binary)
}

func TestWalkCollectsDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "old_service", "main.go"), "package main")

	res, err := Walk(root, WalkOptions{})
	require.NoError(t, err)
	assert.Contains(t, res.Dirs, "old_service")
}
