// Package backup implements the content-addressed pre/post-image store
// backing the Apply Engine and History Store (spec.md §3 "Backup", §4.5
// Phase 1, §4.6 undo/redo).
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/util"
)

// FileManifestEntry maps one original path to its backed-up images. In this
// scheme BackupKey and PreHash are always equal (the key a blob is stored
// under IS its sha256), named separately only to match the manifest shape
// spec.md §4.5 Phase 1 describes.
type FileManifestEntry struct {
	BackupKey string `json:"backup_key"`
	PreHash   string `json:"pre_hash"`
	PostHash  string `json:"post_hash,omitempty"`
}

// Manifest records, for one plan's backup directory, every original path's
// pre- and post-image keys.
type Manifest struct {
	PlanID string                       `json:"plan_id"`
	Files  map[string]FileManifestEntry `json:"files"`
}

// Store is the content-addressed blob store and manifest rooted at
// <state_dir>/backups/<plan_id>/ (spec.md §6.2).
type Store struct {
	dir string
}

// New returns the backup store for a given plan ID under a state directory.
func New(stateDir, planID string) *Store {
	return &Store{dir: filepath.Join(stateDir, "backups", planID)}
}

// Dir returns the backup directory's absolute path.
func (s *Store) Dir() string { return s.dir }

// HashBytes returns the hex-encoded sha256 of data — the content address
// used both as a blob's storage key and as Match/HistoryEntry pre/post
// hashes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *Store) blobPath(key string) string {
	return filepath.Join(s.dir, "blobs", key)
}

// Put stores data content-addressed and returns its key. Calling Put twice
// with identical content is a cheap no-op the second time.
func (s *Store) Put(data []byte) (string, error) {
	key := HashBytes(data)
	path := s.blobPath(key)
	if _, err := os.Stat(path); err == nil {
		return key, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errs.IoErr(path, "create backup blob directory", err)
	}
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return "", errs.IoErr(path, "write backup blob", err)
	}
	return key, nil
}

// Get retrieves a blob by key, failing with BackupMissing or BackupCorrupt
// (if the stored bytes no longer hash to key).
func (s *Store) Get(key string) ([]byte, error) {
	path := s.blobPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.BackupMissing(key)
		}
		return nil, errs.IoErr(path, "read backup blob", err)
	}
	if got := HashBytes(data); got != key {
		return nil, errs.BackupCorrupt(key)
	}
	return data, nil
}

// Exists reports whether a blob for key is present, without reading it.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.blobPath(key))
	return err == nil
}

func (s *Store) manifestPath() string { return filepath.Join(s.dir, "manifest.json") }

// WriteManifest atomically writes m to this store's manifest.json.
func (s *Store) WriteManifest(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Internal("marshal backup manifest: " + err.Error())
	}
	if err := util.AtomicWriteFile(s.manifestPath(), data, 0o644); err != nil {
		return errs.IoErr(s.manifestPath(), "write backup manifest", err)
	}
	return nil
}

// ReadManifest loads this store's manifest.json.
func (s *Store) ReadManifest() (*Manifest, error) {
	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.BackupMissing(s.dir)
		}
		return nil, errs.IoErr(s.manifestPath(), "read backup manifest", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.BackupCorrupt(s.dir)
	}
	return &m, nil
}

// Remove deletes this plan's entire backup directory, used by retention
// pruning (spec.md §3 Lifecycle, §6.5 backups.retain).
func (s *Store) Remove() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return errs.IoErr(s.dir, "remove backup directory", err)
	}
	return nil
}
