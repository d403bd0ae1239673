package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renamecraft/renamecraft/internal/token"
)

func TestRenameForPathNestedFile(t *testing.T) {
	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	rn := renameForPath("pkg/old_name.go", vm, tz)
	require.NotNil(t, rn)
	assert.Equal(t, "pkg/old_name.go", rn.OldPath)
	assert.Equal(t, "pkg/new_name.go", rn.NewPath)
}

func TestRenameForPathNoMatch(t *testing.T) {
	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	rn := renameForPath("pkg/widget.go", vm, tz)
	assert.Nil(t, rn)
}

func TestRenameForPathAtRoot(t *testing.T) {
	tz := token.NewTokenizer(nil)
	vm, err := token.Variants(tz, "old_name", "new_name", nil)
	require.NoError(t, err)

	rn := renameForPath("old_name.go", vm, tz)
	require.NotNil(t, rn)
	assert.Equal(t, "new_name.go", rn.NewPath)
}

func TestSubstituteLongestPrefersLongestKey(t *testing.T) {
	vm := token.NewVariantMap()
	vm.Put("old", "x")
	vm.Put("old_name", "y")

	out, changed := substituteLongest("old_name.go", vm)
	require.True(t, changed)
	assert.Equal(t, "y.go", out)
}
