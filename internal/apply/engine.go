// Package apply implements the Apply Engine (spec.md §4.5): backup,
// content rewrite, path rename, and verify, with rollback on any failure
// after backup.
package apply

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/renamecraft/renamecraft/internal/backup"
	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/gitutil"
	"github.com/renamecraft/renamecraft/internal/lock"
	"github.com/renamecraft/renamecraft/internal/plan"
	"github.com/renamecraft/renamecraft/internal/util"
)

// Engine applies Plans against a target tree.
type Engine struct {
	Root     string
	StateDir string
	Git      *gitutil.Repo
	Log      *slog.Logger
}

// NewEngine builds an apply Engine, detecting (best-effort) whether Root is
// a git work tree so renames can be staged (SPEC_FULL.md §12).
func NewEngine(root, stateDir string, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	repo, err := gitutil.Open(root)
	if err != nil {
		log.Warn("git detection failed, renames will not be staged", slog.String("error", err.Error()))
		repo = nil
	}
	return &Engine{Root: root, StateDir: stateDir, Git: repo, Log: log}
}

// Apply runs spec.md §4.5's phases 0–4 against p, rolling back anything
// already done if a later phase fails.
func (e *Engine) Apply(ctx context.Context, p *plan.Plan) (*Outcome, error) {
	l, err := lock.Acquire(e.StateDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := l.Release(); relErr != nil {
			e.Log.Warn("lock release failed", slog.String("error", relErr.Error()))
		}
	}()

	store := backup.New(e.StateDir, p.ID)
	manifest, err := e.backupPhase(p, store)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{PlanID: p.ID, BackupRef: store.Dir()}

	if err := e.rewritePhase(p, store, manifest, outcome); err != nil {
		e.rollbackContent(store, manifest, outcome)
		return nil, err
	}

	if err := e.renamePhase(ctx, p, outcome); err != nil {
		e.rollbackRenames(outcome)
		e.rollbackContent(store, manifest, outcome)
		return nil, err
	}

	if err := e.verifyPhase(p, outcome); err != nil {
		e.rollbackRenames(outcome)
		e.rollbackContent(store, manifest, outcome)
		return nil, err
	}

	if err := store.WriteManifest(*manifest); err != nil {
		return nil, err
	}

	e.Log.Info("apply complete",
		slog.String("plan_id", p.ID),
		slog.Int("files", len(outcome.FilesTouched)),
		slog.Int("renames", len(outcome.RenamesPerformed)))
	return outcome, nil
}

// backupPhase backs up the pre-image of every file with matches plus every
// file-kind rename source (spec.md §4.5 Phase 1).
func (e *Engine) backupPhase(p *plan.Plan, store *backup.Store) (*backup.Manifest, error) {
	m := &backup.Manifest{PlanID: p.ID, Files: map[string]backup.FileManifestEntry{}}

	targets := matchFiles(p)
	for _, rn := range p.Renames {
		if rn.Kind == plan.RenameKindFile {
			targets[rn.OldPath] = true
		}
	}

	for path := range targets {
		abs := filepath.Join(e.Root, path)
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, errs.IoErr(abs, "read for backup", err)
		}
		key, err := store.Put(data)
		if err != nil {
			return nil, err
		}
		m.Files[path] = backup.FileManifestEntry{BackupKey: key, PreHash: key}
	}

	if err := store.WriteManifest(*m); err != nil {
		return nil, err
	}
	return m, nil
}

func matchFiles(p *plan.Plan) map[string]bool {
	out := map[string]bool{}
	for _, m := range p.Matches {
		out[m.File] = true
	}
	return out
}

// rewritePhase applies each file's matches in byte-offset order and
// atomically writes the result (spec.md §4.5 Phase 2).
func (e *Engine) rewritePhase(p *plan.Plan, store *backup.Store, m *backup.Manifest, outcome *Outcome) error {
	byFile := map[string][]plan.Match{}
	for _, match := range p.Matches {
		byFile[match.File] = append(byFile[match.File], match)
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		matches := byFile[path]
		sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })

		abs := filepath.Join(e.Root, path)
		entry := m.Files[path]
		pre, err := store.Get(entry.PreHash)
		if err != nil {
			return err
		}

		post := rewriteBytes(pre, matches)
		if err := util.AtomicWriteFile(abs, post, filePerm(abs)); err != nil {
			return errs.IoErr(abs, "write rewritten content", err)
		}

		postHash, err := store.Put(post)
		if err != nil {
			return err
		}
		entry.PostHash = postHash
		m.Files[path] = entry

		outcome.FilesTouched = append(outcome.FilesTouched, FileResult{
			Path: path, PreHash: entry.PreHash, PostHash: postHash,
		})
	}
	return nil
}

func filePerm(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// rewriteBytes applies matches to pre in left-to-right byte order, each at
// its recorded [start, end) range.
func rewriteBytes(pre []byte, matches []plan.Match) []byte {
	var buf bytes.Buffer
	cursor := 0
	for _, match := range matches {
		if match.Start < cursor || match.End > len(pre) || match.Start > match.End {
			continue // a stale offset from a file that changed after scan
		}
		buf.Write(pre[cursor:match.Start])
		buf.WriteString(match.New)
		cursor = match.End
	}
	buf.Write(pre[cursor:])
	return buf.Bytes()
}

// renamePhase iterates the plan's renames in their stored deep-first order
// (spec.md §4.5 Phase 3).
func (e *Engine) renamePhase(ctx context.Context, p *plan.Plan, outcome *Outcome) error {
	for _, rn := range p.Renames {
		if err := ctx.Err(); err != nil {
			return err
		}
		oldAbs := filepath.Join(e.Root, rn.OldPath)
		newAbs := filepath.Join(e.Root, rn.NewPath)

		if err := e.performRename(oldAbs, newAbs, rn.OldPath, rn.NewPath); err != nil {
			return err
		}
		outcome.RenamesPerformed = append(outcome.RenamesPerformed, RenameResult{Old: rn.OldPath, New: rn.NewPath})
	}
	return nil
}

func (e *Engine) performRename(oldAbs, newAbs, oldRel, newRel string) error {
	if _, err := os.Lstat(newAbs); err == nil {
		if strings.EqualFold(oldAbs, newAbs) && oldAbs != newAbs {
			return e.caseOnlyRename(oldAbs, newAbs, oldRel, newRel)
		}
		return errs.ConflictOnApply(newRel)
	}

	if err := os.MkdirAll(filepath.Dir(newAbs), 0o755); err != nil {
		return errs.IoErr(newAbs, "create parent directory", err)
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return errs.IoErr(oldAbs, "rename", err)
	}
	e.stageGit(oldRel, newRel)
	return nil
}

// caseOnlyRename performs a two-step rename through a temp name so that a
// case-insensitive filesystem — where oldAbs and newAbs name the same
// directory entry — doesn't silently no-op a pure-case rename.
func (e *Engine) caseOnlyRename(oldAbs, newAbs, oldRel, newRel string) error {
	tmp := newAbs + ".rncraft-tmp"
	if err := os.Rename(oldAbs, tmp); err != nil {
		return errs.IoErr(oldAbs, "stage case-only rename", err)
	}
	if err := os.Rename(tmp, newAbs); err != nil {
		return errs.IoErr(tmp, "finish case-only rename", err)
	}
	e.stageGit(oldRel, newRel)
	return nil
}

func (e *Engine) stageGit(oldRel, newRel string) {
	if e.Git == nil {
		return
	}
	if err := e.Git.StageRename(oldRel, newRel); err != nil {
		e.Log.Warn("git stage rename failed",
			slog.String("old", oldRel), slog.String("new", newRel), slog.String("error", err.Error()))
	}
}

// verifyPhase re-hashes every rewritten file at its current on-disk
// location and compares to its recorded post_hash (spec.md §4.5 Phase 4). A
// touched file's current location may differ from the pre-apply path
// recorded in FilesTouched either because the file itself was renamed, or
// because it sits inside a directory that was renamed out from under it, so
// its path is remapped through every rename in the plan (not just an exact
// match) before re-hashing.
func (e *Engine) verifyPhase(p *plan.Plan, outcome *Outcome) error {
	pairs := renamePairs(p.Renames)
	for _, fr := range outcome.FilesTouched {
		path := util.RemapPath(fr.Path, pairs)
		abs := filepath.Join(e.Root, path)
		data, err := os.ReadFile(abs)
		if err != nil {
			return errs.IoErr(abs, "verify", err)
		}
		if got := backup.HashBytes(data); got != fr.PostHash {
			return errs.HashMismatch(abs, fr.PostHash, got)
		}
	}
	return nil
}

// renamePairs converts a plan's renames to util.RemapPath's input, in the
// same deep-first order the builder sorted them and the rename phase
// applied them.
func renamePairs(renames []plan.Rename) []util.RenamePair {
	pairs := make([]util.RenamePair, len(renames))
	for i, rn := range renames {
		pairs[i] = util.RenamePair{Old: rn.OldPath, New: rn.NewPath}
	}
	return pairs
}
