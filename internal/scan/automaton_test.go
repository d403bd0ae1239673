package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomatonLeftmostLongest(t *testing.T) {
	auto, err := NewAutomaton([]string{"old", "old_name", "oldName"})
	require.NoError(t, err)

	hits := auto.FindAll([]byte("the old_name variant"))
	require.Len(t, hits, 1)
	assert.Equal(t, "old_name", "the old_name variant"[hits[0][0]:hits[0][1]])
}

func TestAutomatonMultipleHits(t *testing.T) {
	auto, err := NewAutomaton([]string{"foo", "bar"})
	require.NoError(t, err)

	hits := auto.FindAll([]byte("foo and bar and foo"))
	require.Len(t, hits, 3)
}

func TestAutomatonEmptyKeys(t *testing.T) {
	auto, err := NewAutomaton(nil)
	require.NoError(t, err)

	hits := auto.FindAll([]byte("anything at all"))
	assert.Empty(t, hits)
}
