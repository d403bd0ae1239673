// Package scan walks a repository, finds every occurrence of a renamed
// identifier under any enabled naming style, and proposes path renames for
// files and directories whose names themselves contain a match
// (spec.md §4.2).
package scan

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/renamecraft/renamecraft/internal/style"
	"github.com/renamecraft/renamecraft/internal/token"
)

// Match is one in-content occurrence of a variant key, with its resolved
// replacement text after boundary filtering and style coercion.
type Match struct {
	Path    string // relative to the scan root, slash-separated
	Start   int    // byte offset into the file
	End     int
	Old     string
	New     string
	Coerced bool
	Style   string // the VariantMap style tag the matched key was rendered under
}

// FileMatches groups the Matches found in one file.
type FileMatches struct {
	Path    string
	Matches []Match
}

// Result is the outcome of a full scan.
type Result struct {
	Files          []FileMatches
	Renames        []Rename
	FilesScanned   int
	FilesSkipped   int // binary files not content-scanned; ignored files are not counted
	BytesScanned   int64
}

// ProgressEvent is delivered to the caller's progress sink as files complete,
// per the thread-safe callback model of spec.md §5.
type ProgressEvent struct {
	Path        string
	MatchCount  int
	FilesDone   int
	FilesTotal  int
}

// Options configures a scan.
type Options struct {
	Includes          []string
	Excludes          []string
	ExtraIgnoreRules  []rule
	UnrestrictedLevel int
	Workers           int // <=0 sets no limit: one goroutine per file
	Progress          func(ProgressEvent)
}

// Scan walks root, matches every VariantMap key against file contents and
// path components, and returns the matches and rename candidates. It
// cancels outstanding work and returns ctx.Err() if ctx is canceled.
func Scan(ctx context.Context, root string, vm *token.VariantMap, tz *token.Tokenizer, opts Options) (*Result, error) {
	walked, err := Walk(root, WalkOptions{
		Includes:          opts.Includes,
		Excludes:          opts.Excludes,
		ExtraIgnoreRules:  opts.ExtraIgnoreRules,
		UnrestrictedLevel: opts.UnrestrictedLevel,
	})
	if err != nil {
		return nil, err
	}

	auto, err := NewAutomaton(vm.Keys())
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var mu sync.Mutex

	for _, d := range walked.Dirs {
		if rn := renameForPath(d, vm, tz); rn != nil {
			rn.IsDir = true
			res.Renames = append(res.Renames, *rn)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers > 0 {
		eg.SetLimit(workers)
	}

	files := walked.Files
	total := len(files)
	done := 0

	for _, f := range files {
		f := f
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			var matches []Match
			var nbytes int64
			if f.Binary {
				mu.Lock()
				res.FilesSkipped++
				mu.Unlock()
			} else {
				var err error
				matches, nbytes, err = scanFile(f, auto, vm, tz)
				if err != nil {
					return err
				}
			}

			mu.Lock()
			if !f.Binary {
				res.FilesScanned++
				res.BytesScanned += nbytes
			}
			done++
			if len(matches) > 0 {
				res.Files = append(res.Files, FileMatches{Path: f.RelPath, Matches: matches})
			}
			if rn := renameForPath(f.RelPath, vm, tz); rn != nil {
				res.Renames = append(res.Renames, *rn)
			}
			curDone := done
			mu.Unlock()

			if opts.Progress != nil {
				opts.Progress(ProgressEvent{Path: f.RelPath, MatchCount: len(matches), FilesDone: curDone, FilesTotal: total})
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// scanFile matches auto against a single file's contents, filters hits to
// token boundaries, resolves each surviving hit's replacement via the style
// coercer, and returns the matches plus the file's byte length.
func scanFile(f File, auto *Automaton, vm *token.VariantMap, tz *token.Tokenizer) ([]Match, int64, error) {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, 0, err
	}

	var matches []Match
	for _, hit := range auto.FindAll(data) {
		start, end := hit[0], hit[1]

		if !passesBoundary(data, start, end) {
			continue
		}

		key := string(data[start:end])
		repl, ok := vm.Get(key)
		if !ok {
			continue
		}

		newTokens, _ := tz.Tokenize(repl)
		result := style.Coerce(style.Context{
			Before:             windowBefore(data, start),
			After:              windowAfter(data, end),
			NewTokens:          newTokens,
			DefaultReplacement: repl,
		})

		matches = append(matches, Match{
			Path:    f.RelPath,
			Start:   start,
			End:     end,
			Old:     key,
			New:     result.Replacement,
			Coerced: result.Coerced,
			Style:   vm.StyleOf(key),
		})
	}

	return matches, int64(len(data)), nil
}

func windowBefore(data []byte, pos int) []byte {
	start := pos - 32
	if start < 0 {
		start = 0
	}
	return data[start:pos]
}

func windowAfter(data []byte, pos int) []byte {
	end := pos + 32
	if end > len(data) {
		end = len(data)
	}
	return data[pos:end]
}

// passesBoundary reports whether both edges of the [start, end) candidate
// hit satisfy the boundary rule: a file boundary always passes; otherwise
// the outside character's class must differ from the inside character's
// class at that edge (spec.md §4.2).
func passesBoundary(data []byte, start, end int) bool {
	startOK := start > 0
	var outsideStart, insideStart rune
	if startOK {
		outsideStart = lastRune(data[:start])
		insideStart = firstRune(data[start:end])
		if !token.ClassesDiffer(outsideStart, insideStart, true, true) {
			return false
		}
	}

	endOK := end < len(data)
	if endOK {
		insideEnd := lastRune(data[start:end])
		outsideEnd := firstRune(data[end:])
		if !token.ClassesDiffer(insideEnd, outsideEnd, true, true) {
			return false
		}
	}

	return true
}

func lastRune(b []byte) rune {
	r := []rune(string(b))
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

func firstRune(b []byte) rune {
	for _, r := range string(b) {
		return r
	}
	return 0
}
