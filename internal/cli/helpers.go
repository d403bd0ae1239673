// Package cli implements the renamecraft command-line interface.
// This file contains shared helpers used across multiple commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/renamecraft/renamecraft/internal/config"
	"github.com/renamecraft/renamecraft/internal/engine"
	"github.com/renamecraft/renamecraft/internal/plan"
)

// findRoot walks up from the current directory looking for a ".renamecraft"
// state directory or a ".git" directory, the same "nearest project marker"
// convention the teacher's config.FindProjectRoot uses. It falls back to
// the current directory if neither is found.
func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, config.StateDirName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return cwd, nil
}

// newLogger builds the slog.Logger every command threads through the
// engine, text-formatted for a human terminal and JSON-formatted for a
// machine consumer (mirrors wantsJSON's human/machine split).
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if wantsJSON() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openEngine resolves the repository root and opens an Engine against it,
// then overlays any RENAMECRAFT_* environment variables onto the loaded
// config — the topmost layer in the precedence order, above --config and
// the project/user/system files (SPEC_FULL.md §11.1).
func openEngine() (*engine.Engine, error) {
	root, err := findRoot()
	if err != nil {
		return nil, err
	}
	e, err := engine.Open(root, cfgFile, newLogger())
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(e.Config)
	return e, nil
}

// applyEnvOverrides reads RENAMECRAFT_* environment variables (bound by
// root.go's initConfig) and, for each one actually set, overrides the
// matching field on an already-loaded config.Config.
func applyEnvOverrides(cfg *config.Config) {
	if viper.IsSet("default_styles") {
		cfg.DefaultStyles = splitCSV(viper.GetString("default_styles"))
	}
	if viper.IsSet("atomic") {
		cfg.Atomic = splitCSV(viper.GetString("atomic"))
	}
	if viper.IsSet("history.max_bytes") {
		cfg.History.MaxBytes = viper.GetInt64("history.max_bytes")
	}
	if viper.IsSet("backups.retain") {
		cfg.Backups.Retain = viper.GetInt("backups.retain")
	}
}

// splitCSV splits a comma-separated env var value into trimmed, non-empty
// fields (RENAMECRAFT_DEFAULT_STYLES=snake,kebab rather than a TOML array,
// which an env var can't express).
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printJSON marshals v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// terminalWidth returns the current terminal's column width, or a sane
// default of 100 when stdout isn't a terminal (SPEC_FULL.md §11.1: x/term
// is used for plan-preview table width only, never full TUI rendering).
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 100
	}
	return w
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// printPlanPreview renders a human-readable table of a plan's renames,
// clamped to the terminal width, for scan's non-JSON output.
func printPlanPreview(p *plan.Plan) {
	if len(p.Renames) == 0 {
		return
	}

	width := terminalWidth()
	pathWidth := (width - 4) / 2
	if pathWidth < 10 {
		pathWidth = 10
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OLD PATH\tNEW PATH\tKIND")
	for _, r := range p.Renames {
		fmt.Fprintf(w, "%s\t%s\t%s\n", truncate(r.OldPath, pathWidth), truncate(r.NewPath, pathWidth), r.Kind)
	}
	_ = w.Flush()
}
