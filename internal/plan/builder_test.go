package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/scan"
)

func TestBuildOrdersMatchesByFileThenOffset(t *testing.T) {
	b := &Builder{Search: "old_name", Replace: "new_name"}
	matches := []scan.Match{
		{Path: "b.go", Start: 10, End: 18, Old: "old_name", New: "new_name"},
		{Path: "a.go", Start: 20, End: 28, Old: "old_name", New: "new_name"},
		{Path: "a.go", Start: 5, End: 13, Old: "old_name", New: "new_name"},
	}

	p, conflicts, err := b.Build(matches, nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.Len(t, p.Matches, 3)
	assert.Equal(t, "a.go", p.Matches[0].File)
	assert.Equal(t, 5, p.Matches[0].Start)
	assert.Equal(t, "a.go", p.Matches[1].File)
	assert.Equal(t, 20, p.Matches[1].Start)
	assert.Equal(t, "b.go", p.Matches[2].File)
}

func TestBuildDedupsOverlappingMatchesPreferringLonger(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new"}
	matches := []scan.Match{
		{Path: "a.go", Start: 0, End: 3, Old: "old", New: "new"},
		{Path: "a.go", Start: 0, End: 8, Old: "old_name", New: "new_name"},
	}

	p, _, err := b.Build(matches, nil)
	require.NoError(t, err)
	require.Len(t, p.Matches, 1)
	assert.Equal(t, "new_name", p.Matches[0].New)
}

func TestBuildDedupTieBreaksLexicographically(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new"}
	matches := []scan.Match{
		{Path: "a.go", Start: 0, End: 3, Old: "old", New: "zzz"},
		{Path: "a.go", Start: 0, End: 3, Old: "old", New: "aaa"},
	}

	p, _, err := b.Build(matches, nil)
	require.NoError(t, err)
	require.Len(t, p.Matches, 1)
	assert.Equal(t, "aaa", p.Matches[0].New)
}

func TestBuildDetectsRenameCollision(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new"}
	renames := []scan.Rename{
		{OldPath: "a/old.go", NewPath: "a/new.go"},
		{OldPath: "b/old.go", NewPath: "a/new.go"},
	}

	p, conflicts, err := b.Build(nil, renames)
	assert.Nil(t, p)
	require.Error(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictRenameCollision, conflicts[0].Kind)
}

func TestBuildForceReturnsPlanWithConflicts(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new", Force: true}
	renames := []scan.Rename{
		{OldPath: "a/old.go", NewPath: "a/new.go"},
		{OldPath: "b/old.go", NewPath: "a/new.go"},
	}

	p, conflicts, err := b.Build(nil, renames)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, conflicts, 1)
}

func TestBuildDetectsReservedName(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new"}
	renames := []scan.Rename{
		{OldPath: "src/old.go", NewPath: "src/con.go"},
	}

	_, conflicts, err := b.Build(nil, renames)
	require.Error(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictReservedName, conflicts[0].Kind)
}

func TestBuildDoesNotFlagParentChildRename(t *testing.T) {
	b := &Builder{Search: "old", Replace: "new"}
	renames := []scan.Rename{
		{OldPath: "old_dir", NewPath: "new_dir", IsDir: true},
		{OldPath: "old_dir/old_file.go", NewPath: "old_dir/new_file.go"},
	}

	p, conflicts, err := b.Build(nil, renames)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.Len(t, p.Renames, 2)
	// child renames before parent: deeper path first
	assert.Equal(t, "old_dir/old_file.go", p.Renames[0].OldPath)
	assert.Equal(t, "old_dir", p.Renames[1].OldPath)
}

func TestBuildEmptySearchOrReplaceIsInvalid(t *testing.T) {
	b := &Builder{Search: "", Replace: "new"}
	_, _, err := b.Build(nil, nil)
	assert.Error(t, err)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := &Builder{Search: "old_name", Replace: "new_name", Styles: []string{"camel"}}
	matches := []scan.Match{
		{Path: "a.go", Start: 0, End: 8, Old: "old_name", New: "new_name"},
	}

	p1, _, err := b.Build(matches, nil)
	require.NoError(t, err)
	p2, _, err := b.Build(matches, nil)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
}
