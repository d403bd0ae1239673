// Package history implements the append-only ledger the Apply Engine
// records into, and the undo/redo operations that reverse or re-apply a
// recorded plan (spec.md §4.6).
package history

import "time"

// Status is a HistoryEntry's lifecycle state (spec.md §3 "HistoryEntry").
type Status string

const (
	StatusApplied Status = "applied"
	StatusUndone  Status = "undone"
	StatusRedone  Status = "redone"
)

// FileTouched records one file's pre/post hashes for a ledger entry.
type FileTouched struct {
	Path     string `json:"path"`
	PreHash  string `json:"pre_hash"`
	PostHash string `json:"post_hash"`
}

// RenamePerformed records one rename for a ledger entry.
type RenamePerformed struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Entry is one row of the append-only ledger. Its ID is the originating
// plan's ID, not a row-unique identifier: undo/redo append new rows sharing
// the same ID with a different Status, so the ledger records a full
// timeline rather than mutating a single row in place (spec.md §3, §4.6).
type Entry struct {
	ID               string            `json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	AppliedAt        time.Time         `json:"applied_at"`
	Search           string            `json:"search"`
	Replace          string            `json:"replace"`
	Styles           []string          `json:"styles,omitempty"`
	FilesTouched     []FileTouched     `json:"files_touched"`
	RenamesPerformed []RenamePerformed `json:"renames_performed"`
	BackupRef        string            `json:"backup_ref"`
	Status           Status            `json:"status"`
}
