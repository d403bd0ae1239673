// Package errs provides structured error types for renamecraft.
package errs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code represents a unique error code returned by a core operation.
type Code string

// Error codes for renamecraft, one per kind named in the error handling
// design: invalid input, conflicts, locking, backup/history integrity.
const (
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeAmbiguousInput   Code = "AMBIGUOUS_INPUT"
	CodeIoError          Code = "IO_ERROR"
	CodePlanHasConflicts Code = "PLAN_HAS_CONFLICTS"
	CodeLockHeld         Code = "LOCK_HELD"
	CodeConflictOnApply  Code = "CONFLICT_ON_APPLY"
	CodeHashMismatch     Code = "HASH_MISMATCH"
	CodeBackupMissing    Code = "BACKUP_MISSING"
	CodeBackupCorrupt    Code = "BACKUP_CORRUPT"
	CodeUnknownHistoryID Code = "UNKNOWN_HISTORY_ID"
	CodeUndoConflict     Code = "UNDO_CONFLICT"
	CodeInternal         Code = "INTERNAL"
)

// Category groups error codes for CLI exit-code mapping (0/1/2/3 per the
// command surface contract).
type Category int

const (
	CategoryUnknown Category = iota
	CategorySuccess
	CategoryConflict
	CategoryInvalid
	CategoryInternal
)

// codeCategories maps error codes to their exit-code category.
var codeCategories = map[Code]Category{
	CodeInvalidInput:     CategoryInvalid,
	CodeAmbiguousInput:   CategoryInvalid,
	CodeIoError:          CategoryInternal,
	CodePlanHasConflicts: CategoryConflict,
	CodeLockHeld:         CategoryConflict,
	CodeConflictOnApply:  CategoryConflict,
	CodeHashMismatch:     CategoryInternal,
	CodeBackupMissing:    CategoryInternal,
	CodeBackupCorrupt:    CategoryInternal,
	CodeUnknownHistoryID: CategoryInvalid,
	CodeUndoConflict:     CategoryConflict,
	CodeInternal:         CategoryInternal,
}

// ExitCode returns the adapter-facing process exit code for a category:
// 0 success, 1 conflicts present, 2 invalid input, 3 internal error.
func (c Category) ExitCode() int {
	switch c {
	case CategorySuccess:
		return 0
	case CategoryConflict:
		return 1
	case CategoryInvalid:
		return 2
	default:
		return 3
	}
}

// RnError is the structured error type for every core operation.
type RnError struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *RnError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause so errors.Is/As see through RnError.
func (e *RnError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly, multi-line message for CLI output.
func (e *RnError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the exit-code category for this error.
func (e *RnError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// ExitCode returns the process exit code an adapter should surface.
func (e *RnError) ExitCode() int {
	return e.Category().ExitCode()
}

// MarshalJSON implements json.Marshaler, folding Cause into a plain string.
func (e *RnError) MarshalJSON() ([]byte, error) {
	type alias RnError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{alias: (*alias)(e)}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is an RnError with the same code, so callers can
// write errors.Is-style checks against a zero-value sentinel carrying only
// the code.
func (e *RnError) Is(target error) bool {
	t, ok := target.(*RnError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause attached.
func (e *RnError) WithCause(err error) *RnError {
	cp := *e
	cp.Cause = err
	return &cp
}

// New constructs an RnError with the given code and message.
func New(code Code, what string) *RnError {
	return &RnError{Code: code, What: what}
}

// Newf constructs an RnError with a formatted message.
func Newf(code Code, format string, args ...any) *RnError {
	return &RnError{Code: code, What: fmt.Sprintf(format, args...)}
}

// --- Error constructors for the kinds named in spec.md §7 ---

// InvalidInput reports a malformed old/new string, glob, or style name.
func InvalidInput(why string) *RnError {
	return &RnError{
		Code: CodeInvalidInput,
		What: "invalid input",
		Why:  why,
		Fix:  "check the search/replace strings, glob patterns, and style names",
	}
}

// AmbiguousInput reports that old has zero tokens or contains characters no
// style can render.
func AmbiguousInput(old string) *RnError {
	return &RnError{
		Code: CodeAmbiguousInput,
		What: fmt.Sprintf("%q has no recognizable tokens", old),
		Why:  "tokenization requires at least one alphanumeric run",
	}
}

// IoErr reports an unreadable or unwritable path.
func IoErr(path, op string, cause error) *RnError {
	return &RnError{
		Code:  CodeIoError,
		What:  fmt.Sprintf("%s failed for %s", op, path),
		Cause: cause,
	}
}

// LockHeld reports that another live process holds the state-directory lock.
func LockHeld(holderPID int) *RnError {
	return &RnError{
		Code: CodeLockHeld,
		What: fmt.Sprintf("lock is held by process %d", holderPID),
		Why:  "another renamecraft invocation is in progress against this repo",
		Fix:  "wait for it to finish, or remove the lock file only if that PID is no longer running",
	}
}

// ConflictOnApply reports that a rename destination already exists.
func ConflictOnApply(path string) *RnError {
	return &RnError{
		Code: CodeConflictOnApply,
		What: fmt.Sprintf("destination %s already exists", path),
	}
}

// HashMismatch reports that a file's content diverged from its recorded hash.
func HashMismatch(path, expected, actual string) *RnError {
	return &RnError{
		Code: CodeHashMismatch,
		What: fmt.Sprintf("hash mismatch for %s", path),
		Why:  fmt.Sprintf("expected %s, got %s", expected, actual),
	}
}

// BackupMissing reports that a backup blob referenced by a manifest is gone.
func BackupMissing(key string) *RnError {
	return &RnError{
		Code: CodeBackupMissing,
		What: fmt.Sprintf("backup blob %s is missing", key),
	}
}

// BackupCorrupt reports that a backup blob's hash no longer matches its key.
func BackupCorrupt(key string) *RnError {
	return &RnError{
		Code: CodeBackupCorrupt,
		What: fmt.Sprintf("backup blob %s failed integrity check", key),
	}
}

// UnknownHistoryID reports that no ledger entry matches the given id.
func UnknownHistoryID(id string) *RnError {
	return &RnError{
		Code: CodeUnknownHistoryID,
		What: fmt.Sprintf("no history entry %s", id),
	}
}

// UndoConflict reports that a file changed since apply in a way that matches
// neither its pre- nor post-image hash.
func UndoConflict(path string) *RnError {
	return &RnError{
		Code: CodeUndoConflict,
		What: fmt.Sprintf("%s changed since it was applied", path),
		Why:  "its current hash matches neither the pre-apply nor post-apply hash",
		Fix:  "resolve the external edit manually, then retry undo",
	}
}

// Internal reports an invariant violation that should never happen.
func Internal(why string) *RnError {
	return &RnError{Code: CodeInternal, What: "internal invariant violation", Why: why}
}
