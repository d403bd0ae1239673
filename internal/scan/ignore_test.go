package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStackHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(root, "app.log"), "x")
	writeFile(t, filepath.Join(root, "main.go"), "x")

	stack := NewStack(root, nil, nil, nil, 0)
	require.NoError(t, stack.Push(root))

	require.True(t, stack.ShouldSkip("app.log", false))
	require.False(t, stack.ShouldSkip("main.go", false))
	require.True(t, stack.ShouldSkip("build", true))
}

func TestStackRnignoreWinsOverGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.go\n")
	writeFile(t, filepath.Join(root, ".rnignore"), "!keep.go\n")

	stack := NewStack(root, nil, nil, nil, 0)
	require.NoError(t, stack.Push(root))

	require.True(t, stack.ShouldSkip("other.go", false))
	require.False(t, stack.ShouldSkip("keep.go", false))
}

func TestStackHiddenFilesSkippedByDefault(t *testing.T) {
	root := t.TempDir()
	stack := NewStack(root, nil, nil, nil, 0)
	require.NoError(t, stack.Push(root))

	require.True(t, stack.ShouldSkip(".env", false))
}

func TestStackUnrestrictedLevelTwoShowsHidden(t *testing.T) {
	root := t.TempDir()
	stack := NewStack(root, nil, nil, nil, 2)
	require.NoError(t, stack.Push(root))

	require.False(t, stack.ShouldSkip(".env", false))
}

func TestStackIncludeWinsOverIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")

	stack := NewStack(root, nil, []string{"*.log"}, nil, 0)
	require.NoError(t, stack.Push(root))

	require.False(t, stack.ShouldSkip("app.log", false))
}
