// Package engine wires the tokenizer, scanner, plan builder, apply engine,
// and history store into the six operations an adapter calls (spec.md
// §6.1, §9 "replace implicit globals with an explicit Engine value that
// holds the repo root and state directory; all operations are methods on
// it").
package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/renamecraft/renamecraft/internal/apply"
	"github.com/renamecraft/renamecraft/internal/config"
	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/gitutil"
	"github.com/renamecraft/renamecraft/internal/history"
	"github.com/renamecraft/renamecraft/internal/plan"
	"github.com/renamecraft/renamecraft/internal/scan"
	"github.com/renamecraft/renamecraft/internal/token"
)

// Name is the tool name reported by the version op.
const Name = "renamecraft"

// Version is overridden at build time via -ldflags, following the
// teacher's cmd_version.go convention of a string var rather than a
// generated file.
var Version = "0.1.0-dev"

// VersionInfo is the version op's output (spec.md §6.1).
type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PendingPlan is what Scan persists to disk (spec.md §6.2's pending plan
// file): the Plan itself plus any conflicts the builder recorded against
// it, since Force keeps a conflicted Plan buildable but a later Apply still
// needs to know whether to demand force_conflicts.
type PendingPlan struct {
	Plan      *plan.Plan      `json:"plan"`
	Conflicts []plan.Conflict `json:"conflicts,omitempty"`
}

// StatusInfo is the status op's output: the pending unapplied plan, if any,
// plus the most recent history entries (spec.md §6.1, SPEC_FULL.md §12).
type StatusInfo struct {
	Pending     *PendingPlan    `json:"pending,omitempty"`
	LastEntries []history.Entry `json:"last_entries,omitempty"`
}

// Engine is the explicit replacement for the source system's global state
// directory and lock file: every operation is a method holding the repo
// root and state directory (spec.md §9).
type Engine struct {
	Root     string
	StateDir string
	Config   *config.Config
	Log      *slog.Logger

	history *history.Store
}

// Open builds an Engine for a repository rooted at root, loading
// config.toml from the state directory chain and opening the history
// ledger. configFileOverride, when non-empty, is the CLI's --config flag
// value and replaces the project-level config.toml lookup entirely
// (config.Load).
func Open(root, configFileOverride string, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg, err := config.Load(root, configFileOverride)
	if err != nil {
		return nil, err
	}
	stateDir := filepath.Join(root, config.StateDirName)

	h, err := history.Open(stateDir, cfg.History.MaxBytes, cfg.Backups.Retain)
	if err != nil {
		return nil, err
	}

	return &Engine{Root: root, StateDir: stateDir, Config: cfg, Log: log, history: h}, nil
}

// Close releases the engine's open resources (the history index).
func (e *Engine) Close() error {
	return e.history.Close()
}

// ScanOptions carries the scan op's inputs (spec.md §6.1).
type ScanOptions struct {
	Old               string
	New               string
	Styles            []string
	Includes          []string
	Excludes          []string
	UnrestrictedLevel int
	Progress          func(scan.ProgressEvent)
}

// Scan runs the tokenizer, variant generator, scanner, and plan builder,
// returning an unapplied Plan. Per spec.md §9's Open Question, Scan never
// touches the lock — only Apply does. The builder runs with Force set so a
// conflicted rename set still yields a Plan; conflicts are surfaced
// alongside it rather than failing the scan.
func (e *Engine) Scan(ctx context.Context, opts ScanOptions) (*PendingPlan, error) {
	styles, err := resolveStyles(opts.Styles, e.Config.DefaultStyles)
	if err != nil {
		return nil, err
	}

	tz := token.NewTokenizer(e.Config.Atomic)
	vm, err := token.Variants(tz, opts.Old, opts.New, styles)
	if err != nil {
		return nil, err
	}

	extra, err := scan.LoadExtraIgnoreRules(globalIgnoreFilePath(), e.excludesFilePath())
	if err != nil {
		e.Log.Warn("failed to load global ignore file", slog.String("error", err.Error()))
	}

	result, err := scan.Scan(ctx, e.Root, vm, tz, scan.Options{
		Includes:          opts.Includes,
		Excludes:          opts.Excludes,
		ExtraIgnoreRules:  extra,
		UnrestrictedLevel: opts.UnrestrictedLevel,
		Progress:          opts.Progress,
	})
	if err != nil {
		return nil, err
	}

	var matches []scan.Match
	for _, fm := range result.Files {
		matches = append(matches, fm.Matches...)
	}

	b := &plan.Builder{
		Search:   opts.Old,
		Replace:  opts.New,
		Styles:   styleNames(styles),
		Includes: opts.Includes,
		Excludes: opts.Excludes,
		Force:    true,
	}
	p, conflicts, err := b.Build(matches, result.Renames)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Now()

	pending := &PendingPlan{Plan: p, Conflicts: conflicts}
	if err := e.savePendingPlan(pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func resolveStyles(requested, defaults []string) ([]token.Style, error) {
	names := requested
	if len(names) == 0 {
		names = defaults
	}
	styles := make([]token.Style, 0, len(names))
	for _, n := range names {
		s, err := token.ParseStyle(n)
		if err != nil {
			return nil, err
		}
		styles = append(styles, s)
	}
	return styles, nil
}

func styleNames(styles []token.Style) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = string(s)
	}
	return out
}

func globalIgnoreFilePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "renamecraft", "ignore")
	}
	return ""
}

// excludesFilePath locates this repository's .git/info/exclude via
// gitutil.Repo.ExcludesFile, which (unlike a hard-coded root-relative join)
// still finds it when e.Root is a subdirectory of the repository rather
// than the repository root itself. Returns "" when e.Root isn't inside a
// git work tree or the exclude file doesn't exist.
func (e *Engine) excludesFilePath() string {
	repo, err := gitutil.Open(e.Root)
	if err != nil || repo == nil {
		return ""
	}
	path, ok := repo.ExcludesFile()
	if !ok {
		return ""
	}
	return path
}

// Apply applies a previously built Plan. force allows applying a Plan that
// still carries recorded conflicts (spec.md §6.1 force_conflicts flag).
func (e *Engine) Apply(ctx context.Context, pending *PendingPlan, force bool) (*apply.Outcome, error) {
	if len(pending.Conflicts) > 0 && !force {
		return nil, errs.New(errs.CodePlanHasConflicts, "plan has unresolved conflicts; pass force to apply anyway")
	}

	eng := apply.NewEngine(e.Root, e.StateDir, e.Log)
	outcome, err := eng.Apply(ctx, pending.Plan)
	if err != nil {
		return nil, err
	}

	entry := outcomeToEntry(pending.Plan, outcome)
	if err := e.history.Append(entry); err != nil {
		return nil, err
	}
	_ = e.clearPendingPlan()
	return outcome, nil
}

func outcomeToEntry(p *plan.Plan, o *apply.Outcome) history.Entry {
	files := make([]history.FileTouched, len(o.FilesTouched))
	for i, f := range o.FilesTouched {
		files[i] = history.FileTouched{Path: f.Path, PreHash: f.PreHash, PostHash: f.PostHash}
	}
	renames := make([]history.RenamePerformed, len(o.RenamesPerformed))
	for i, r := range o.RenamesPerformed {
		renames[i] = history.RenamePerformed{Old: r.Old, New: r.New}
	}
	return history.Entry{
		ID:               p.ID,
		CreatedAt:        p.CreatedAt,
		AppliedAt:        time.Now(),
		Search:           p.Search,
		Replace:          p.Replace,
		Styles:           p.Styles,
		FilesTouched:     files,
		RenamesPerformed: renames,
		BackupRef:        o.BackupRef,
		Status:           history.StatusApplied,
	}
}

// Undo reverses the entry named by id ("latest" for the most recent plan
// currently applied, or if none is, the most recent plan currently redone).
func (e *Engine) Undo(id string) (*history.Entry, error) {
	return e.history.Undo(id, e.Root)
}

// Redo re-applies the entry named by id ("latest" for the most recent plan
// currently undone).
func (e *Engine) Redo(id string) (*history.Entry, error) {
	return e.history.Redo(id, e.Root)
}

// History returns the most recent limit ledger entries.
func (e *Engine) History(limit int) ([]history.Entry, error) {
	return e.history.List(limit)
}

// Status returns the pending plan (if any) plus the last few history
// entries (SPEC_FULL.md §12's status op detail).
func (e *Engine) Status() (*StatusInfo, error) {
	pending, err := e.readPendingPlan()
	if err != nil {
		return nil, err
	}
	entries, err := e.history.List(5)
	if err != nil {
		return nil, err
	}
	return &StatusInfo{Pending: pending, LastEntries: entries}, nil
}

// VersionOp returns the adapter-facing {name, version} pair.
func VersionOp() VersionInfo {
	return VersionInfo{Name: Name, Version: Version}
}
