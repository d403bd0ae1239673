package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/backup"
)

func seedApplied(t *testing.T, s *Store, root, planID, original, updated string) Entry {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte(updated), 0o644))

	store := backup.New(s.stateDir, planID)
	preKey, err := store.Put([]byte(original))
	require.NoError(t, err)
	postKey, err := store.Put([]byte(updated))
	require.NoError(t, err)
	require.NoError(t, store.WriteManifest(backup.Manifest{
		PlanID: planID,
		Files: map[string]backup.FileManifestEntry{
			"a.txt": {BackupKey: preKey, PreHash: preKey, PostHash: postKey},
		},
	}))

	e := Entry{
		ID:        planID,
		CreatedAt: time.Now(),
		AppliedAt: time.Now(),
		Search:    "old",
		Replace:   "new",
		FilesTouched: []FileTouched{
			{Path: "a.txt", PreHash: preKey, PostHash: postKey},
		},
		BackupRef: store.Dir(),
		Status:    StatusApplied,
	}
	require.NoError(t, s.Append(e))
	return e
}

func TestAppendAndList(t *testing.T) {
	stateDir := t.TempDir()
	s, err := Open(stateDir, 0, 10)
	require.NoError(t, err)
	defer s.Close()

	root := t.TempDir()
	seedApplied(t, s, root, "plan-1", "old content", "new content")

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusApplied, entries[0].Status)
}

func TestUndoThenRedoRoundTrip(t *testing.T) {
	stateDir := t.TempDir()
	s, err := Open(stateDir, 0, 10)
	require.NoError(t, err)
	defer s.Close()

	root := t.TempDir()
	seedApplied(t, s, root, "plan-2", "old content", "new content")

	_, err = s.Undo(LatestPseudoID, root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old content", string(data))

	_, err = s.Redo(LatestPseudoID, root)
	require.NoError(t, err)

	data, err = os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestUndoDetectsExternalChangeAsConflict(t *testing.T) {
	stateDir := t.TempDir()
	s, err := Open(stateDir, 0, 10)
	require.NoError(t, err)
	defer s.Close()

	root := t.TempDir()
	seedApplied(t, s, root, "plan-3", "old content", "new content")

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("externally edited"), 0o644))

	_, err = s.Undo(LatestPseudoID, root)
	require.Error(t, err)
}
