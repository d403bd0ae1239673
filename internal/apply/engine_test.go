package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/plan"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestApplyRewritesContentAndRenamesFile(t *testing.T) {
	root := t.TempDir()
	stateDir := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "oldWidget.ts"), "export class OldWidget {}")

	p := &plan.Plan{
		Version: plan.PlanVersion,
		ID:      "test-plan-1",
		Search:  "oldWidget",
		Replace: "NewGadget",
		Matches: []plan.Match{
			{File: "src/oldWidget.ts", Start: 13, End: 22, Old: "OldWidget", New: "NewGadget", Style: "pascal"},
		},
		Renames: []plan.Rename{
			{OldPath: "src/oldWidget.ts", NewPath: "src/newGadget.ts", Kind: plan.RenameKindFile, Depth: 1},
		},
	}

	e := NewEngine(root, stateDir, nil)
	outcome, err := e.Apply(context.Background(), p)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "src", "oldWidget.ts"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(root, "src", "newGadget.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class NewGadget {}", string(data))

	require.Len(t, outcome.RenamesPerformed, 1)
	assert.Equal(t, "src/newGadget.ts", outcome.RenamesPerformed[0].New)
}

func TestApplyRollsBackOnDestinationConflict(t *testing.T) {
	root := t.TempDir()
	stateDir := t.TempDir()
	writeFile(t, filepath.Join(root, "old.go"), "package old_name\n")
	writeFile(t, filepath.Join(root, "new.go"), "package already_here\n")

	p := &plan.Plan{
		Version: plan.PlanVersion,
		ID:      "test-plan-2",
		Search:  "old",
		Replace: "new",
		Matches: []plan.Match{
			{File: "old.go", Start: 8, End: 16, Old: "old_name", New: "new_name"},
		},
		Renames: []plan.Rename{
			{OldPath: "old.go", NewPath: "new.go", Kind: plan.RenameKindFile, Depth: 0},
		},
	}

	e := NewEngine(root, stateDir, nil)
	_, err := e.Apply(context.Background(), p)
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(root, "old.go"))
	require.NoError(t, err)
	assert.Equal(t, "package old_name\n", string(data))
}

func TestApplyTwoStepCaseOnlyRename(t *testing.T) {
	root := t.TempDir()
	stateDir := t.TempDir()
	writeFile(t, filepath.Join(root, "oldName.go"), "package x\n")

	p := &plan.Plan{
		Version: plan.PlanVersion,
		ID:      "test-plan-3",
		Search:  "oldName",
		Replace: "OldName",
		Renames: []plan.Rename{
			{OldPath: "oldName.go", NewPath: "OldName.go", Kind: plan.RenameKindFile, Depth: 0},
		},
	}

	e := NewEngine(root, stateDir, nil)
	_, err := e.Apply(context.Background(), p)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "OldName.go"))
	require.NoError(t, err)
	assert.Equal(t, "package x\n", string(data))
}
