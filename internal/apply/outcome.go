package apply

// FileResult records one rewritten file's pre/post hashes, mirroring
// HistoryEntry.files_touched (spec.md §3).
type FileResult struct {
	Path     string `json:"path"`
	PreHash  string `json:"pre_hash"`
	PostHash string `json:"post_hash"`
}

// RenameResult records one performed rename.
type RenameResult struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Outcome is what Apply returns on success: enough to build a HistoryEntry
// (spec.md §3, §4.5 Phase 4).
type Outcome struct {
	PlanID           string       `json:"plan_id"`
	BackupRef        string       `json:"backup_ref"`
	FilesTouched     []FileResult `json:"files_touched"`
	RenamesPerformed []RenameResult `json:"renames_performed"`
}
