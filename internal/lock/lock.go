// Package lock implements the state-directory lock described in spec.md
// §4.5 Phase 0: a single lock file per state directory that guards apply
// from running concurrently against the same target tree. Only apply takes
// it; undo and redo run without it.
//
// It generalizes the teacher's PID-guard idiom (a PID file plus a liveness
// check) with two additions the spec requires: a per-acquisition uuid token
// so two different holders that happen to share a recycled PID are never
// confused for one another, and a grace-window staleness check so a holder
// whose process died without cleaning up doesn't wedge the tool forever.
package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// FileName is the lock file's name within a state directory.
const FileName = "renamecraft.lock"

// StaleGrace is how long a lock may sit unrefreshed before a new acquirer is
// allowed to reclaim it even though its PID still happens to be running
// (e.g. the PID was recycled by an unrelated process).
const StaleGrace = 10 * time.Minute

// info is the on-disk contents of a lock file.
type info struct {
	PID       int       `json:"pid"`
	Token     string    `json:"token"`
	Host      string    `json:"host,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Lock represents a held state-directory lock. Release must be called to
// drop it; a Lock left unreleased by a crashed process becomes reclaimable
// after StaleGrace or once its PID is no longer running.
type Lock struct {
	path  string
	token string
}

// Acquire takes the lock at <stateDir>/renamecraft.lock, reclaiming a stale
// lock left by a dead or expired holder. It returns errs.LockHeld if a live,
// fresh holder already owns it.
func Acquire(stateDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errs.IoErr(stateDir, "create state directory", err)
	}
	path := filepath.Join(stateDir, FileName)

	for {
		existing, err := readInfo(path)
		if err != nil {
			return nil, err
		}
		if existing != nil && !isStale(*existing) {
			return nil, errs.LockHeld(existing.PID)
		}
		if existing != nil {
			// Stale: best-effort reclaim by removing it before retrying.
			_ = os.Remove(path)
		}

		ours := info{
			PID:       os.Getpid(),
			Token:     uuid.NewString(),
			Host:      hostname(),
			StartedAt: time.Now(),
		}
		acquired, err := tryCreate(path, ours)
		if err != nil {
			return nil, err
		}
		if acquired {
			return &Lock{path: path, token: ours.Token}, nil
		}
		// Lost a race with another acquirer; loop and re-evaluate.
	}
}

// tryCreate attempts to exclusively create the lock file. It returns false
// (no error) if another process created it first between our stale check
// and this call.
func tryCreate(path string, ours info) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, errs.IoErr(path, "create lock file", err)
	}
	defer f.Close()

	data, err := json.Marshal(ours)
	if err != nil {
		return false, errs.Internal("marshal lock info: " + err.Error())
	}
	if _, err := f.Write(data); err != nil {
		return false, errs.IoErr(path, "write lock file", err)
	}
	return true, nil
}

// Release drops the lock, but only if it still belongs to this holder's
// token — it never removes a lock file another process has since reclaimed.
func (l *Lock) Release() error {
	existing, err := readInfo(l.path)
	if err != nil || existing == nil {
		return err
	}
	if existing.Token != l.token {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errs.IoErr(l.path, "remove lock file", err)
	}
	return nil
}

func readInfo(path string) (*info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.IoErr(path, "read lock file", err)
	}
	var i info
	if err := json.Unmarshal(data, &i); err != nil {
		// A corrupt lock file is treated as stale: it can't have been
		// written by a live, well-behaved holder.
		return nil, nil
	}
	return &i, nil
}

// isStale reports whether a lock's holder is no longer live: its PID has
// exited, or it has sat unreleased longer than StaleGrace.
func isStale(i info) bool {
	if time.Since(i.StartedAt) > StaleGrace {
		return true
	}
	return !processExists(i.PID)
}

func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}
