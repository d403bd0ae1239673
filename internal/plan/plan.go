// Package plan builds and serializes the immutable, content-addressed
// description of a proposed rename: the set of content matches and path
// renames a scan discovered, deduplicated, ordered, and checked for
// conflicts (spec.md §4.4).
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// PlanVersion is the schema version written into every Plan JSON document.
const PlanVersion = 1

// Match is one content occurrence scheduled for rewrite.
type Match struct {
	File    string `json:"file"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Coerced bool   `json:"coerced"`
	Style   string `json:"style"`
}

// RenameKind distinguishes file from directory renames for stats purposes.
type RenameKind string

const (
	RenameKindFile RenameKind = "file"
	RenameKindDir  RenameKind = "dir"
)

// Rename is one path rename scheduled for apply.
type Rename struct {
	OldPath string     `json:"old_path"`
	NewPath string     `json:"new_path"`
	Kind    RenameKind `json:"kind"`
	Depth   int        `json:"depth"`
}

// Stats summarizes a Plan's contents for CLI display and diagnostics.
type Stats struct {
	Files   uint64            `json:"files"`
	Matches uint64            `json:"matches"`
	Renames uint64            `json:"renames"`
	ByStyle map[string]uint64 `json:"by_style,omitempty"`
	ByKind  map[string]uint64 `json:"by_kind,omitempty"`
}

// Plan is the complete, immutable description of a proposed transformation,
// content-addressed by ID (spec.md §6.3).
type Plan struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Search    string    `json:"search"`
	Replace   string    `json:"replace"`
	Styles    []string  `json:"styles"`
	Includes  []string  `json:"includes"`
	Excludes  []string  `json:"excludes"`
	Matches   []Match   `json:"matches"`
	Renames   []Rename  `json:"renames"`
	Stats     Stats     `json:"stats"`

	// Diagnostics holds non-fatal scan problems as strings. Neither the
	// scanner nor the builder fills it: the walk silently skips a file it
	// cannot probe, and a file that fails to read during matching aborts
	// the scan.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// canonicalBytes is the canonical byte form the Plan ID is hashed from;
// json.Marshal on Plan is already deterministic since map keys sort and
// field order follows the struct declaration, so no custom marshaler is
// needed beyond the struct tags above.
func (p *Plan) canonicalBytes() ([]byte, error) {
	clone := *p
	clone.ID = "" // ID is derived from everything else, so it's excluded from its own hash
	clone.CreatedAt = time.Time{}
	return json.Marshal(clone)
}

// ComputeID returns the stable content hash of the plan: sha256 over its
// canonical JSON form with ID and CreatedAt zeroed, hex-encoded.
func (p *Plan) ComputeID() (string, error) {
	b, err := p.canonicalBytes()
	if err != nil {
		return "", errs.Internal("plan is not serializable: " + err.Error())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// ToJSON serializes the Plan as indented JSON.
func (p *Plan) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// sortMatches orders matches by (file, byte_start) for deterministic apply
// (spec.md §4.4 step 3).
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].Start < matches[j].Start
	})
}

// sortRenames orders renames by depth descending so children rename before
// parents (spec.md §4.4 step 3, §4.5 Phase 3).
func sortRenames(renames []Rename) {
	sort.SliceStable(renames, func(i, j int) bool {
		if renames[i].Depth != renames[j].Depth {
			return renames[i].Depth > renames[j].Depth
		}
		return renames[i].OldPath < renames[j].OldPath
	})
}
