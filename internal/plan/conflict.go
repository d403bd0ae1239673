package plan

import (
	"fmt"
	"path"
	"strings"
)

// ConflictKind names the kinds of conflicts the builder detects
// (spec.md §4.4 step 2).
type ConflictKind string

const (
	ConflictRenameCollision ConflictKind = "rename_collision"
	ConflictCaseCollision   ConflictKind = "case_collision"
	ConflictReservedName    ConflictKind = "reserved_name"
)

// Conflict describes one unresolved problem in a candidate rename set.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	Paths   []string     `json:"paths"`
	Message string       `json:"message"`
}

// reservedNames are the platform-specific names that cannot be used as a
// path component on Windows, named explicitly in spec.md §4.4.
var reservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// detectConflicts finds every RenameCollision, case-insensitive collision,
// and ReservedName problem in renames. Parent-child relationships are never
// flagged: they are resolved by depth ordering at apply time instead
// (spec.md §4.4 step 2).
func detectConflicts(renames []Rename) []Conflict {
	var conflicts []Conflict

	byDest := make(map[string][]string) // new_path -> old_paths
	byCaseFold := make(map[string][]string)

	for _, r := range renames {
		byDest[r.NewPath] = append(byDest[r.NewPath], r.OldPath)

		fold := strings.ToLower(r.NewPath)
		byCaseFold[fold] = append(byCaseFold[fold], r.NewPath)

		base := strings.ToLower(path.Base(r.NewPath))
		stem := strings.TrimSuffix(base, path.Ext(base))
		if reservedNames[stem] {
			conflicts = append(conflicts, Conflict{
				Kind:    ConflictReservedName,
				Paths:   []string{r.NewPath},
				Message: fmt.Sprintf("%s uses a reserved platform name", r.NewPath),
			})
		}
	}

	for dest, sources := range byDest {
		if len(sources) > 1 {
			conflicts = append(conflicts, Conflict{
				Kind:    ConflictRenameCollision,
				Paths:   append([]string{dest}, sources...),
				Message: fmt.Sprintf("%d renames target %s", len(sources), dest),
			})
		}
	}

	for fold, paths := range byCaseFold {
		if len(uniqueStrings(paths)) > 1 {
			conflicts = append(conflicts, Conflict{
				Kind:    ConflictCaseCollision,
				Paths:   uniqueStrings(paths),
				Message: fmt.Sprintf("destinations differ only by case under %s", fold),
			})
		}
	}

	sortConflicts(conflicts)
	return conflicts
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func sortConflicts(conflicts []Conflict) {
	for i := 1; i < len(conflicts); i++ {
		for j := i; j > 0 && conflictLess(conflicts[j], conflicts[j-1]); j-- {
			conflicts[j], conflicts[j-1] = conflicts[j-1], conflicts[j]
		}
	}
}

func conflictLess(a, b Conflict) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Message < b.Message
}
