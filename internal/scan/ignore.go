package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreFileNames are evaluated per-directory, in the order spec.md §4.2 and
// §6.4 name them. RnIgnoreFileName is the tool-specific file and is applied
// last, winning over all others within its directory subtree.
var ignoreFileNames = []string{".gitignore", ".ignore", ".rgignore"}

// RnIgnoreFileName is renamecraft's own ignore file.
const RnIgnoreFileName = ".rnignore"

// rule is one parsed line of an ignore file.
type rule struct {
	pattern   string
	negate    bool
	dirOnly   bool // trailing "/"
	anchored  bool // leading "/": only matches relative to the file's directory
	source    string
	fromRnIgn bool
}

// parseIgnoreFile reads an ignore file and returns its rules, skipping blank
// lines and comments ("#" prefix), per the widely-deployed glob-ignore
// syntax named in spec.md §6.4.
func parseIgnoreFile(path string, fromRnIgn bool) ([]rule, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var rules []rule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" || strings.HasPrefix(strings.TrimSpace(trimmed), "#") {
			continue
		}

		r := rule{source: path, fromRnIgn: fromRnIgn}
		if strings.HasPrefix(trimmed, "!") {
			r.negate = true
			trimmed = trimmed[1:]
		}
		if strings.HasPrefix(trimmed, "/") {
			r.anchored = true
			trimmed = trimmed[1:]
		}
		if strings.HasSuffix(trimmed, "/") {
			r.dirOnly = true
			trimmed = strings.TrimSuffix(trimmed, "/")
		}
		r.pattern = trimmed
		rules = append(rules, r)
	}
	return rules, scanner.Err()
}

// dirRules is the resolved rule set for one directory level: the stacked
// gitignore-family rules, followed by .rnignore rules which are evaluated
// last and win within this subtree (spec.md §6.4).
type dirRules struct {
	dir       string
	stacked   []rule // .gitignore, .ignore, .rgignore, in that order
	rnignore  []rule
}

// loadDirRules loads every recognized ignore file present directly in dir.
func loadDirRules(dir string) (dirRules, error) {
	dr := dirRules{dir: dir}
	for _, name := range ignoreFileNames {
		rules, err := parseIgnoreFile(filepath.Join(dir, name), false)
		if err != nil {
			return dr, err
		}
		dr.stacked = append(dr.stacked, rules...)
	}
	rn, err := parseIgnoreFile(filepath.Join(dir, RnIgnoreFileName), true)
	if err != nil {
		return dr, err
	}
	dr.rnignore = rn
	return dr, nil
}

// Stack accumulates dirRules from the repository root down to the directory
// currently being walked, evaluating the nearest file's pattern as winning
// per spec.md §6.4, with .rnignore applied last within its own subtree.
type Stack struct {
	root     string
	levels   []dirRules // root-to-leaf order
	extra    []rule     // global ignore file + .git/info/exclude, lowest precedence
	includes []string   // glob set; include wins over ignore
	excludes []string
	level    int // unrestricted level: 0 = all ignore sources active
}

// NewStack creates an ignore Stack rooted at root with the extra (lowest
// precedence) rules loaded from the global ignore file and
// ".git/info/exclude", and the caller's include/exclude glob sets applied
// last (spec.md §4.2).
func NewStack(root string, extra []rule, includes, excludes []string, unrestrictedLevel int) *Stack {
	return &Stack{root: root, extra: extra, includes: includes, excludes: excludes, level: unrestrictedLevel}
}

// Push loads and stacks the ignore rules for entering dir; Pop returns to
// the previous level.
func (s *Stack) Push(dir string) error {
	if s.level >= 1 {
		// Unrestricted level 1 disables gitignore-family files; .rnignore
		// still applies since it is tool-specific, not part of "gitignore".
		dr, err := loadDirRules(dir)
		if err != nil {
			return err
		}
		dr.stacked = nil
		s.levels = append(s.levels, dr)
		return nil
	}
	dr, err := loadDirRules(dir)
	if err != nil {
		return err
	}
	s.levels = append(s.levels, dr)
	return nil
}

// Pop removes the most recently pushed directory level.
func (s *Stack) Pop() {
	if len(s.levels) > 0 {
		s.levels = s.levels[:len(s.levels)-1]
	}
}

// ShouldSkip reports whether relPath (slash-separated, relative to root)
// should be excluded from the walk. isDir indicates whether relPath names a
// directory.
func (s *Stack) ShouldSkip(relPath string, isDir bool) bool {
	base := filepath.Base(relPath)

	// Hidden entries skipped by default; unrestricted level >= 2 re-includes them.
	if s.level < 2 && strings.HasPrefix(base, ".") && relPath != "." {
		if !s.isExplicitlyIncluded(relPath) {
			return true
		}
	}

	ignored := s.matchesIgnore(relPath, isDir)

	if s.isExplicitlyIncluded(relPath) {
		return false // include wins over ignore
	}
	if s.isExplicitlyExcluded(relPath) {
		return true
	}
	return ignored
}

func (s *Stack) matchesIgnore(relPath string, isDir bool) bool {
	// .rnignore wins over all gitignore-family files within its subtree; the
	// nearest directory's .rnignore is checked first.
	for i := len(s.levels) - 1; i >= 0; i-- {
		if verdict, matched := evalRules(s.levels[i].rnignore, s.levels[i].dir, s.root, relPath, isDir); matched {
			return verdict
		}
	}
	if s.level < 1 {
		for i := len(s.levels) - 1; i >= 0; i-- {
			if verdict, matched := evalRules(s.levels[i].stacked, s.levels[i].dir, s.root, relPath, isDir); matched {
				return verdict
			}
		}
	}
	if verdict, matched := evalRules(s.extra, s.root, s.root, relPath, isDir); matched {
		return verdict
	}
	return false
}

// evalRules evaluates rules (from the most recently added to the least, so
// the last matching rule in file order wins, including negation) against
// relPath. dirBase is the directory the rules were loaded from.
func evalRules(rules []rule, dirBase, root, relPath string, isDir bool) (verdict bool, matched bool) {
	for i := len(rules) - 1; i >= 0; i-- {
		r := rules[i]
		if r.dirOnly && !isDir {
			continue
		}
		if globMatches(r, dirBase, root, relPath) {
			return !r.negate, true
		}
	}
	return false, false
}

func globMatches(r rule, dirBase, root, relPath string) bool {
	relToDir, err := filepath.Rel(dirBase, filepath.Join(root, relPath))
	if err != nil {
		return false
	}
	relToDir = filepath.ToSlash(relToDir)

	pattern := r.pattern
	if !strings.Contains(pattern, "/") && !r.anchored {
		// Unanchored single-component pattern matches at any depth: check
		// just the base name.
		ok, _ := doublestar.Match(pattern, filepath.Base(relToDir))
		if ok {
			return true
		}
		// Also allow it to match any path component for nested matches.
		ok, _ = doublestar.Match("**/"+pattern, relToDir)
		return ok
	}

	ok, _ := doublestar.Match(pattern, relToDir)
	return ok
}

func (s *Stack) isExplicitlyIncluded(relPath string) bool {
	return matchesAny(s.includes, relPath)
}

func (s *Stack) isExplicitlyExcluded(relPath string) bool {
	return matchesAny(s.excludes, relPath)
}

func matchesAny(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}
