// Package e2e exercises the engine against a real git repository end to
// end: scan, apply, undo, redo, confirming renames are staged in git's
// index rather than left as untracked adds/deletes.
package e2e

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/engine"
	"github.com/renamecraft/renamecraft/internal/plan"
	"github.com/renamecraft/renamecraft/tests/testutil"
)

func TestScanApplyUndoRedoAgainstGitRepo(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	repo.WriteFile("old_widget.go", "package oldwidget\n\nfunc OldWidget() {}\n")
	repo.WriteFile("internal/old-widget/doc.md", "# old-widget\n")
	repo.Commit("add old_widget")

	e, err := engine.Open(repo.RootDir, "", nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	ctx := context.Background()
	pending, err := e.Scan(ctx, engine.ScanOptions{
		Old:    "old_widget",
		New:    "new_gadget",
		Styles: []string{"snake", "kebab", "pascal"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, pending.Plan.Renames)
	assert.Empty(t, pending.Conflicts)

	outcome, err := e.Apply(ctx, pending, false)
	require.NoError(t, err)
	assert.NotEmpty(t, outcome.RenamesPerformed)

	repo.AssertFileExists("new_gadget.go")
	repo.AssertFileNotExists("old_widget.go")
	repo.AssertFileContains("new_gadget.go", "NewGadget")

	status := repo.GitStatusPorcelain()
	staged := strings.Contains(status, "R  ") ||
		(strings.Contains(status, "A  ") && strings.Contains(status, "D  "))
	assert.True(t, staged, "expected the rename staged in git's index, got: %q", status)

	undone, err := e.Undo("latest")
	require.NoError(t, err)
	assert.Equal(t, pending.Plan.ID, undone.ID)
	repo.AssertFileExists("old_widget.go")
	repo.AssertFileNotExists("new_gadget.go")

	redone, err := e.Redo("latest")
	require.NoError(t, err)
	assert.Equal(t, pending.Plan.ID, redone.ID)
	repo.AssertFileExists("new_gadget.go")
	repo.AssertFileNotExists("old_widget.go")
}

// TestApplyWithConflictRequiresForce exercises Apply's force-gating logic
// directly: a Plan that would otherwise apply cleanly, but carries a
// conflict recorded against it (as a scan would persist when Builder.Force
// let a conflicted set through), must be rejected unless force is set.
func TestApplyWithConflictRequiresForce(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	repo.WriteFile("old_widget.go", "package oldwidget\n")
	repo.Commit("add old_widget")

	e, err := engine.Open(repo.RootDir, "", nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	ctx := context.Background()
	pending, err := e.Scan(ctx, engine.ScanOptions{Old: "old_widget", New: "new_gadget", Styles: []string{"snake"}})
	require.NoError(t, err)
	require.NotEmpty(t, pending.Plan.Renames)
	require.Empty(t, pending.Conflicts)

	pending.Conflicts = append(pending.Conflicts, plan.Conflict{
		Kind:    plan.ConflictCaseCollision,
		Paths:   []string{"new_gadget.go", "New_Gadget.go"},
		Message: "synthetic conflict for force-gating coverage",
	})

	_, err = e.Apply(ctx, pending, false)
	require.Error(t, err)
	repo.AssertFileExists("old_widget.go")

	_, err = e.Apply(ctx, pending, true)
	require.NoError(t, err)
	repo.AssertFileExists("new_gadget.go")
}
