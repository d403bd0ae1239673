// Package progress renders scan progress to a terminal, the way the
// teacher's internal/progress renders task progress: a throttled,
// single-line status updated in place, safe for concurrent callers.
//
// Unlike the teacher's Display (which owns a whole task's lifecycle of
// phases, gates, and activity states), renamecraft's core exposes only one
// long-running operation worth narrating — the scan — so this package is
// a thin Reporter around spec.md §5's progress sink contract: "invoked from
// worker threads and must be thread-safe."
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/renamecraft/renamecraft/internal/scan"
)

// Reporter renders scan.ProgressEvents to out, throttled so a fast scanner
// doesn't flood the terminal.
type Reporter struct {
	out         io.Writer
	quiet       bool
	minInterval time.Duration

	mu   sync.Mutex
	last time.Time
}

// New builds a Reporter. A nil out defaults to os.Stderr. quiet suppresses
// all output (mirrors the teacher's Display.quiet).
func New(out io.Writer, quiet bool) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{out: out, quiet: quiet, minInterval: 100 * time.Millisecond}
}

// Report is the func(scan.ProgressEvent) passed as scan.Options.Progress.
// Safe to call concurrently from scanner worker goroutines.
func (r *Reporter) Report(e scan.ProgressEvent) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	final := e.FilesTotal > 0 && e.FilesDone >= e.FilesTotal
	if !final && now.Sub(r.last) < r.minInterval {
		return
	}
	r.last = now

	fmt.Fprintf(r.out, "\r🔍 %s | %d/%d files | %d matches   ",
		e.Path, e.FilesDone, e.FilesTotal, e.MatchCount)
	if final {
		fmt.Fprintln(r.out)
	}
}

// Done clears the progress line, for callers that stop narrating before a
// final FilesDone == FilesTotal event arrives (e.g. on cancellation).
func (r *Reporter) Done() {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, "\r"+strings.Repeat(" ", 80)+"\r")
}
