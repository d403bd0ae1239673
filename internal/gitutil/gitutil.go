// Package gitutil wires renamecraft to a git work tree when one is present:
// locating the repository root and its per-repo exclude file (spec.md §4.2's
// ".git/info/exclude"), and staging renames so history survives a rewrite
// when the apply engine runs inside a work tree (SPEC_FULL.md §12).
package gitutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Repo wraps a detected git work tree. A nil *Repo (returned alongside a nil
// error) means the scan root is not inside a git repository; callers treat
// that as "no git integration available" rather than an error.
type Repo struct {
	repo *git.Repository
	root string
}

// Open detects a git repository containing path by walking up to find a
// .git directory, mirroring the teacher's git.Client's use of go-git's
// PlainOpen family. It returns (nil, nil) when path is not inside a work
// tree; any other failure is returned as an error.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, err
	}
	wt, err := r.Worktree()
	if err != nil {
		// A bare repository has no worktree; treat it the same as "not a
		// work tree we can stage renames in."
		return nil, nil
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the work tree's root directory.
func (r *Repo) Root() string { return r.root }

// ExcludesFile returns the path to this repository's .git/info/exclude file
// and whether it exists, for the scanner's ignore-file stack (spec.md §4.2).
func (r *Repo) ExcludesFile() (string, bool) {
	path := filepath.Join(r.root, ".git", "info", "exclude")
	if _, statErr := os.Stat(path); statErr != nil {
		return "", false
	}
	return path, true
}

// StageRename stages a rename that has already happened on disk (old no
// longer exists, new does) so that a later `git commit` — performed by a
// caller outside this package, per spec.md §1's non-goal list — preserves
// file history instead of seeing a delete+add pair. A failure to remove
// oldRelPath from the index (for example because it was never tracked) is
// ignored and newRelPath is still added; only the add's error is returned,
// and the apply engine logs it as a warning rather than failing.
func (r *Repo) StageRename(oldRelPath, newRelPath string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil
	}
	if _, err := wt.Remove(oldRelPath); err != nil {
		// The old path may never have been tracked; that's fine, only the
		// add needs to succeed for the new path to show up staged.
		_ = err
	}
	_, err = wt.Add(newRelPath)
	return err
}
