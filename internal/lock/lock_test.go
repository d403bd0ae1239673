package lock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireThenReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, l.Release())

	l2, err := Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, l2.Release())
}

func TestAcquireFailsWhileHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	require.NoError(t, err)
	defer l.Release()

	_, err = Acquire(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "held")
}

func TestAcquireReclaimsLockFromDeadPID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	ours := info{PID: deadPID(), Token: "stale-token", StartedAt: time.Now()}
	ok, err := tryCreate(path, ours)
	require.NoError(t, err)
	require.True(t, ok)

	l, err := Acquire(dir)
	require.NoError(t, err)
	defer l.Release()

	got, err := readInfo(path)
	require.NoError(t, err)
	assert.NotEqual(t, "stale-token", got.Token)
}

func TestAcquireReclaimsLockPastGraceWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	ours := info{PID: os.Getpid(), Token: "old-token", StartedAt: time.Now().Add(-2 * StaleGrace)}
	ok, err := tryCreate(path, ours)
	require.NoError(t, err)
	require.True(t, ok)

	l, err := Acquire(dir)
	require.NoError(t, err)
	defer l.Release()
}

func TestReleaseIsANoOpOnceReclaimedByAnother(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.Remove(path))
	other := info{PID: os.Getpid(), Token: "someone-else", StartedAt: time.Now()}
	_, err = tryCreate(path, other)
	require.NoError(t, err)

	require.NoError(t, l.Release())

	got, err := readInfo(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "someone-else", got.Token)
}

// deadPID returns a PID very unlikely to be in use.
func deadPID() int {
	return 1 << 30
}
