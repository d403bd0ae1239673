package scan

import (
	"path"
	"strings"

	"github.com/renamecraft/renamecraft/internal/token"
)

// Rename is a candidate path rename: a file or directory whose own name
// (not its contents) contains a matched variant, proposed alongside content
// matches (spec.md §4.2).
type Rename struct {
	OldPath string // relative to the scan root, slash-separated
	NewPath string
	IsDir   bool
}

// renameForPath checks whether relPath's final path component contains any
// VariantMap key, and if so returns the Rename produced by substituteLongest
// on that component, preserving the rest of the path unchanged. The
// tokenizer argument is not consulted, and the renamed component is not
// re-tokenized.
func renameForPath(relPath string, vm *token.VariantMap, tz *token.Tokenizer) *Rename {
	dir := path.Dir(relPath)
	base := path.Base(relPath)

	newBase, changed := substituteLongest(base, vm)
	if !changed {
		return nil
	}

	var newPath string
	if dir == "." {
		newPath = newBase
	} else {
		newPath = dir + "/" + newBase
	}
	return &Rename{OldPath: relPath, NewPath: newPath}
}

// substituteLongest replaces every non-overlapping occurrence of a
// VariantMap key in s with its replacement, preferring the longest key at
// each position and, among equal-length candidates, the lexicographically
// smaller replacement (spec.md §4.2 dedup rule, reused here for rename
// candidates since both apply the same variant set to raw text).
func substituteLongest(s string, vm *token.VariantMap) (string, bool) {
	keys := vm.Keys()
	if len(keys) == 0 {
		return s, false
	}

	var out strings.Builder
	changed := false
	i := 0
	for i < len(s) {
		bestKey := ""
		bestRepl := ""
		for _, k := range keys {
			if k == "" || !strings.HasPrefix(s[i:], k) {
				continue
			}
			if len(k) < len(bestKey) {
				continue
			}
			repl, _ := vm.Get(k)
			if len(k) > len(bestKey) || repl < bestRepl {
				bestKey, bestRepl = k, repl
			}
		}
		if bestKey == "" {
			out.WriteByte(s[i])
			i++
			continue
		}
		out.WriteString(bestRepl)
		i += len(bestKey)
		changed = true
	}
	return out.String(), changed
}
