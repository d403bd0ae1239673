package scan

import (
	"regexp"
	"sort"

	"github.com/renamecraft/renamecraft/internal/token"
)

// Automaton compiles the VariantMap's keys into a single multi-pattern
// matcher and reports every candidate hit regardless of token boundaries;
// boundary filtering happens in the caller (spec.md §4.2: "a regex
// alternation is equivalent" to an Aho-Corasick automaton).
type Automaton struct {
	re   *regexp.Regexp
	keys []string // longest-first, for readability; the regex itself is leftmost-longest
}

// NewAutomaton compiles keys into an Automaton. Keys are sorted
// longest-first purely for documentation/debugging; matching itself uses
// POSIX leftmost-longest semantics so overlapping variants at the same
// position resolve to the longest one without extra bookkeeping.
func NewAutomaton(keys []string) (*Automaton, error) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	pattern := alternation(sorted)
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, err
	}
	return &Automaton{re: re, keys: sorted}, nil
}

// FindAll returns every [start, end) candidate hit in data, longest-match-first
// at each starting position, without boundary filtering.
func (a *Automaton) FindAll(data []byte) [][2]int {
	idx := a.re.FindAllIndex(data, -1)
	out := make([][2]int, len(idx))
	for i, pair := range idx {
		out[i] = [2]int{pair[0], pair[1]}
	}
	return out
}

func alternation(keys []string) string {
	if len(keys) == 0 {
		return `\x00\x01never-matches\x01\x00`
	}
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "|"
		}
		out += regexp.QuoteMeta(k)
	}
	return out
}
