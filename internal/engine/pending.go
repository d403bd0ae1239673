package engine

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/util"
)

// pendingPlanFileName is the state-directory file a scan writes its result
// to and apply consumes from, so the two can run as separate process
// invocations (spec.md §6.2).
const pendingPlanFileName = "pending.json"

func (e *Engine) pendingPlanPath() string {
	return filepath.Join(e.StateDir, pendingPlanFileName)
}

func (e *Engine) savePendingPlan(p *PendingPlan) error {
	if err := os.MkdirAll(e.StateDir, 0o755); err != nil {
		return errs.IoErr(e.StateDir, "create state directory", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errs.Internal("marshal pending plan: " + err.Error())
	}
	path := e.pendingPlanPath()
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return errs.IoErr(path, "write pending plan", err)
	}
	return nil
}

// readPendingPlan returns (nil, nil) if no scan has run yet.
func (e *Engine) readPendingPlan() (*PendingPlan, error) {
	path := e.pendingPlanPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.IoErr(path, "read pending plan", err)
	}
	var p PendingPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errs.New(errs.CodeInvalidInput, "pending plan file is malformed").WithCause(err)
	}
	return &p, nil
}

func (e *Engine) clearPendingPlan() error {
	err := os.Remove(e.pendingPlanPath())
	if err != nil && !os.IsNotExist(err) {
		return errs.IoErr(e.pendingPlanPath(), "clear pending plan", err)
	}
	return nil
}
