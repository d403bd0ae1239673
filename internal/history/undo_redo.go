package history

import (
	"os"
	"path/filepath"
	"time"

	"github.com/renamecraft/renamecraft/internal/backup"
	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/util"
)

// renamePairs converts a ledger entry's recorded renames to
// util.RemapPath's input, preserving their recorded order (deep-first,
// matching how the apply engine performed them).
func renamePairs(renames []RenamePerformed) []util.RenamePair {
	pairs := make([]util.RenamePair, len(renames))
	for i, rn := range renames {
		pairs[i] = util.RenamePair{Old: rn.Old, New: rn.New}
	}
	return pairs
}

// LatestPseudoID is the "latest" input accepted by Undo/Redo in place of a
// concrete plan ID (spec.md §6.1).
const LatestPseudoID = "latest"

// Undo reverses the effects of the entry identified by id (or "latest": the
// most recent plan currently applied, or if none is, the most recent plan
// currently redone) against root: restores each
// touched file's pre-image, verifying it changed only as history recorded,
// then reverses renames shallow-first. It appends a new `undone` entry and
// returns it (spec.md §4.6).
func (s *Store) Undo(id, root string) (*Entry, error) {
	resolved := id
	if id == LatestPseudoID {
		var err error
		resolved, err = s.latestWithStatus(StatusApplied)
		if err != nil {
			return nil, err
		}
		if resolved == "" {
			resolved, err = s.latestWithStatus(StatusRedone)
			if err != nil {
				return nil, err
			}
		}
		if resolved == "" {
			return nil, errs.UnknownHistoryID(id)
		}
	}

	status, found, err := s.currentStatus(resolved)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.UnknownHistoryID(resolved)
	}
	if status != StatusApplied && status != StatusRedone {
		return nil, errs.New(errs.CodeUndoConflict, "entry "+resolved+" is not currently applied")
	}

	original, err := s.findLatest(resolved)
	if err != nil {
		return nil, err
	}

	store := backup.New(s.stateDir, resolved)
	pairs := renamePairs(original.RenamesPerformed)

	// The renames haven't been reversed yet at this point, so a touched
	// file's current location is its recorded path remapped forward through
	// every rename (an ancestor directory rename moves a merely
	// content-rewritten file along with it, not just a file that was itself
	// renamed).
	for _, ft := range original.FilesTouched {
		path := util.RemapPath(ft.Path, pairs)
		abs := filepath.Join(root, path)
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, errs.IoErr(abs, "read for undo", err)
		}
		got := backup.HashBytes(data)
		if got != ft.PostHash && got != ft.PreHash {
			return nil, errs.UndoConflict(ft.Path)
		}

		pre, err := store.Get(ft.PreHash)
		if err != nil {
			return nil, err
		}
		if err := util.AtomicWriteFile(abs, pre, filePermOf(abs)); err != nil {
			return nil, errs.IoErr(abs, "restore pre-image", err)
		}
	}

	// Reverse renames shallow-first: the opposite order from how apply
	// performed them deep-first.
	for i := len(original.RenamesPerformed) - 1; i >= 0; i-- {
		rn := original.RenamesPerformed[i]
		oldAbs := filepath.Join(root, rn.New)
		newAbs := filepath.Join(root, rn.Old)
		if err := os.Rename(oldAbs, newAbs); err != nil {
			return nil, errs.IoErr(oldAbs, "reverse rename", err)
		}
	}

	undone := Entry{
		ID:               resolved,
		CreatedAt:        original.CreatedAt,
		AppliedAt:        time.Now(),
		Search:           original.Search,
		Replace:          original.Replace,
		Styles:           original.Styles,
		FilesTouched:     original.FilesTouched,
		RenamesPerformed: original.RenamesPerformed,
		BackupRef:        original.BackupRef,
		Status:           StatusUndone,
	}
	if err := s.Append(undone); err != nil {
		return nil, err
	}
	return &undone, nil
}

// Redo re-applies the entry identified by id (or "latest" undone entry):
// restores each touched file's post-image and reruns the renames forward,
// deep-first, then appends a new `redone` entry (spec.md §4.6).
func (s *Store) Redo(id, root string) (*Entry, error) {
	resolved := id
	if id == LatestPseudoID {
		var err error
		resolved, err = s.latestWithStatus(StatusUndone)
		if err != nil {
			return nil, err
		}
		if resolved == "" {
			return nil, errs.UnknownHistoryID(id)
		}
	}

	status, found, err := s.currentStatus(resolved)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.UnknownHistoryID(resolved)
	}
	if status != StatusUndone {
		return nil, errs.New(errs.CodeUndoConflict, "entry "+resolved+" is not currently undone")
	}

	original, err := s.findLatest(resolved)
	if err != nil {
		return nil, err
	}

	store := backup.New(s.stateDir, resolved)

	// Replay renames forward (deep-first, same order they were recorded)
	// before restoring content, so a touched file's post-image is written
	// at its actual post-apply location rather than the pre-apply path a
	// directory rename has already moved it out from under.
	for _, rn := range original.RenamesPerformed {
		oldAbs := filepath.Join(root, rn.Old)
		newAbs := filepath.Join(root, rn.New)
		if err := os.Rename(oldAbs, newAbs); err != nil {
			return nil, errs.IoErr(oldAbs, "replay rename", err)
		}
	}

	pairs := renamePairs(original.RenamesPerformed)
	for _, ft := range original.FilesTouched {
		path := util.RemapPath(ft.Path, pairs)
		abs := filepath.Join(root, path)
		post, err := store.Get(ft.PostHash)
		if err != nil {
			return nil, err
		}
		if err := util.AtomicWriteFile(abs, post, filePermOf(abs)); err != nil {
			return nil, errs.IoErr(abs, "restore post-image", err)
		}
	}

	redone := Entry{
		ID:               resolved,
		CreatedAt:        original.CreatedAt,
		AppliedAt:        time.Now(),
		Search:           original.Search,
		Replace:          original.Replace,
		Styles:           original.Styles,
		FilesTouched:     original.FilesTouched,
		RenamesPerformed: original.RenamesPerformed,
		BackupRef:        original.BackupRef,
		Status:           StatusRedone,
	}
	if err := s.Append(redone); err != nil {
		return nil, err
	}
	return &redone, nil
}

func filePermOf(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
