package plan

import (
	"strings"
	"time"

	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/scan"
)

// Builder constructs a Plan from a scan's raw matches and renames, applying
// deduplication, conflict detection, canonical ordering, and stats
// computation (spec.md §4.4).
type Builder struct {
	Search   string
	Replace  string
	Styles   []string
	Includes []string
	Excludes []string

	// Force, when true, allows Build to return a Plan even when conflicts
	// were detected; the conflicts are still recorded in the result.
	Force bool

	// ExistingPaths lists on-disk paths (case-folded comparison) not
	// themselves part of the rename set, used to detect a rename whose
	// destination collides with an untouched sibling only by case.
	ExistingPaths []string
}

// Build assembles matches and renames into a Plan. It returns the detected
// conflicts alongside the Plan; when conflicts exist and Force is false, the
// Plan is nil and the error is PlanHasConflicts.
func (b *Builder) Build(matches []scan.Match, renames []scan.Rename) (*Plan, []Conflict, error) {
	if b.Search == "" || b.Replace == "" {
		return nil, nil, errs.InvalidInput("search and replace must both be non-empty")
	}

	planMatches := dedupMatches(matches)
	planRenames := toPlanRenames(renames)

	conflicts := detectConflicts(planRenames)
	conflicts = append(conflicts, detectExistingCollisions(planRenames, b.ExistingPaths)...)
	sortConflicts(conflicts)

	if len(conflicts) > 0 && !b.Force {
		return nil, conflicts, errs.New(errs.CodePlanHasConflicts, "plan has unresolved conflicts")
	}

	sortMatches(planMatches)
	sortRenames(planRenames)

	p := &Plan{
		Version:   PlanVersion,
		CreatedAt: time.Time{}, // stamped by the caller once apply context (clock) is available
		Search:    b.Search,
		Replace:   b.Replace,
		Styles:    b.Styles,
		Includes:  b.Includes,
		Excludes:  b.Excludes,
		Matches:   planMatches,
		Renames:   planRenames,
		Stats:     computeStats(planMatches, planRenames),
	}

	id, err := p.ComputeID()
	if err != nil {
		return nil, conflicts, err
	}
	p.ID = id

	return p, conflicts, nil
}

// dedupMatches collapses overlapping matches within the same file that
// begin at the same byte offset: the longer match wins, then the
// lexicographically smaller replacement (spec.md §4.4 step 1). Overlapping
// matches that begin at different offsets are kept as separate matches.
func dedupMatches(in []scan.Match) []Match {
	type key struct {
		file  string
		start int
	}
	best := make(map[key]scan.Match)

	for _, m := range in {
		k := key{m.Path, m.Start}
		cur, ok := best[k]
		if !ok {
			best[k] = m
			continue
		}
		if matchLen(m) > matchLen(cur) {
			best[k] = m
			continue
		}
		if matchLen(m) == matchLen(cur) && m.New < cur.New {
			best[k] = m
		}
	}

	out := make([]Match, 0, len(best))
	for _, m := range best {
		out = append(out, Match{
			File:    m.Path,
			Start:   m.Start,
			End:     m.End,
			Old:     m.Old,
			New:     m.New,
			Coerced: m.Coerced,
			Style:   m.Style,
		})
	}
	return out
}

func matchLen(m scan.Match) int { return m.End - m.Start }

func toPlanRenames(in []scan.Rename) []Rename {
	out := make([]Rename, 0, len(in))
	for _, r := range in {
		kind := RenameKindFile
		if r.IsDir {
			kind = RenameKindDir
		}
		out = append(out, Rename{
			OldPath: r.OldPath,
			NewPath: r.NewPath,
			Kind:    kind,
			Depth:   strings.Count(r.OldPath, "/"),
		})
	}
	return out
}

// detectExistingCollisions flags a rename whose destination collides, only
// by case, with an untouched on-disk path outside the rename set.
func detectExistingCollisions(renames []Rename, existing []string) []Conflict {
	if len(existing) == 0 {
		return nil
	}
	existingFold := make(map[string]string, len(existing))
	for _, e := range existing {
		existingFold[strings.ToLower(e)] = e
	}

	var conflicts []Conflict
	for _, r := range renames {
		fold := strings.ToLower(r.NewPath)
		if orig, ok := existingFold[fold]; ok && orig != r.NewPath {
			conflicts = append(conflicts, Conflict{
				Kind:    ConflictCaseCollision,
				Paths:   []string{r.NewPath, orig},
				Message: r.NewPath + " collides by case with existing path " + orig,
			})
		}
	}
	return conflicts
}

func computeStats(matches []Match, renames []Rename) Stats {
	files := make(map[string]bool)
	byStyle := map[string]uint64{}
	for _, m := range matches {
		files[m.File] = true
		byStyle[m.Style]++
	}

	byKind := map[string]uint64{}
	for _, r := range renames {
		byKind[string(r.Kind)]++
	}

	return Stats{
		Files:   uint64(len(files)),
		Matches: uint64(len(matches)),
		Renames: uint64(len(renames)),
		ByStyle: byStyle,
		ByKind:  byKind,
	}
}
