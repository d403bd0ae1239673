package apply

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/renamecraft/renamecraft/internal/backup"
	"github.com/renamecraft/renamecraft/internal/util"
)

// rollbackRenames reverses every rename recorded in outcome, most recent
// first, and clears the outcome's record of them (spec.md §4.5 Rollback:
// "undo performed operations in reverse: reverse renames first").
func (e *Engine) rollbackRenames(outcome *Outcome) {
	for i := len(outcome.RenamesPerformed) - 1; i >= 0; i-- {
		rn := outcome.RenamesPerformed[i]
		oldAbs := filepath.Join(e.Root, rn.Old)
		newAbs := filepath.Join(e.Root, rn.New)
		if err := os.Rename(newAbs, oldAbs); err != nil {
			e.Log.Error("rollback: could not reverse rename",
				slog.String("old", rn.Old), slog.String("new", rn.New), slog.String("error", err.Error()))
		}
	}
	outcome.RenamesPerformed = nil
}

// rollbackContent restores each touched file from its backup-keyed
// pre-image, verified by pre_hash, and clears the outcome's record of them.
func (e *Engine) rollbackContent(store *backup.Store, m *backup.Manifest, outcome *Outcome) {
	for _, fr := range outcome.FilesTouched {
		entry, ok := m.Files[fr.Path]
		if !ok {
			continue
		}
		pre, err := store.Get(entry.PreHash)
		if err != nil {
			e.Log.Error("rollback: cannot restore pre-image",
				slog.String("path", fr.Path), slog.String("error", err.Error()))
			continue
		}
		abs := filepath.Join(e.Root, fr.Path)
		if err := util.AtomicWriteFile(abs, pre, filePerm(abs)); err != nil {
			e.Log.Error("rollback: cannot write pre-image",
				slog.String("path", fr.Path), slog.String("error", err.Error()))
		}
	}
	outcome.FilesTouched = nil
}
