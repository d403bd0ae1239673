package history

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/renamecraft/renamecraft/internal/backup"
	"github.com/renamecraft/renamecraft/internal/errs"
	"github.com/renamecraft/renamecraft/internal/util"
)

var entriesBucket = []byte("entries")

// Store is the append-only history ledger at <state_dir>/history.json
// (the canonical, portable artifact, spec.md §6.2), backed by a bbolt index
// at <state_dir>/history.idx for fast List without re-parsing the whole
// ledger file (SPEC_FULL.md §11.2).
type Store struct {
	stateDir string
	path     string
	db       *bbolt.DB
	maxBytes int64
	retain   int
	mu       sync.Mutex
}

// Open opens (creating if necessary) the ledger and its index.
// maxBytes and retain implement spec.md §6.5's history.max_bytes and
// backups.retain config keys.
func Open(stateDir string, maxBytes int64, retain int) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errs.IoErr(stateDir, "create state directory", err)
	}
	dbPath := filepath.Join(stateDir, "history.idx")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.IoErr(dbPath, "open history index", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, errs.IoErr(dbPath, "init history index", err)
	}

	s := &Store{
		stateDir: stateDir,
		path:     filepath.Join(stateDir, "history.json"),
		db:       db,
		maxBytes: maxBytes,
		retain:   retain,
	}
	if err := s.reindexIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the index file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// reindexIfEmpty backfills the bbolt index from history.json on first open
// against a pre-existing ledger (e.g. one carried over from an older build
// with no index yet).
func (s *Store) reindexIfEmpty() error {
	empty := true
	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		c := b.Cursor()
		if k, _ := c.First(); k != nil {
			empty = false
		}
		return nil
	}); err != nil {
		return errs.IoErr(s.path, "read history index", err)
	}
	if !empty {
		return nil
	}

	entries, err := s.readLedger()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		for _, e := range entries {
			if err := putIndexed(b, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func putIndexed(b *bbolt.Bucket, e Entry) error {
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.Put(seqKey(seq), data)
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// readLedger loads the canonical JSON ledger, returning an empty slice if
// it doesn't exist yet.
func (s *Store) readLedger() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.IoErr(s.path, "read history ledger", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errs.New(errs.CodeInvalidInput, "history ledger is malformed").WithCause(err)
	}
	return entries, nil
}

func (s *Store) writeLedger(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errs.Internal("marshal history ledger: " + err.Error())
	}
	if err := util.AtomicWriteFile(s.path, data, 0o644); err != nil {
		return errs.IoErr(s.path, "write history ledger", err)
	}
	return nil
}

// Append records a new entry, updating both the canonical ledger and the
// bbolt index, then prunes if the ledger now exceeds maxBytes.
func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLedger()
	if err != nil {
		return err
	}
	entries = append(entries, e)
	if err := s.writeLedger(entries); err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return putIndexed(tx.Bucket(entriesBucket), e)
	}); err != nil {
		return errs.IoErr(s.path, "update history index", err)
	}

	return s.pruneLocked()
}

// List returns the most recent limit entries, newest last. limit <= 0
// returns everything. Reads from the bbolt index, not the JSON ledger.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []Entry
	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		return b.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			all = append(all, e)
			return nil
		})
	}); err != nil {
		return nil, errs.IoErr(s.path, "read history index", err)
	}

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// currentStatus returns the most recent status recorded for plan id, or
// ("", false) if no entry references it.
func (s *Store) currentStatus(id string) (Status, bool, error) {
	entries, err := s.readLedger()
	if err != nil {
		return "", false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID == id {
			return entries[i].Status, true, nil
		}
	}
	return "", false, nil
}

// latestWithStatus returns the ID of the most recently recorded plan whose
// current status (the status of its newest ledger entry) is st, for
// resolving the "latest" pseudo-ID on undo/redo.
func (s *Store) latestWithStatus(st Status) (string, error) {
	entries, err := s.readLedger()
	if err != nil {
		return "", err
	}
	seen := map[string]bool{}
	for i := len(entries) - 1; i >= 0; i-- {
		id := entries[i].ID
		if seen[id] {
			continue
		}
		seen[id] = true
		if entries[i].Status == st {
			return id, nil
		}
	}
	return "", nil
}

// findLatest returns the most recent entry for plan id.
func (s *Store) findLatest(id string) (*Entry, error) {
	entries, err := s.readLedger()
	if err != nil {
		return nil, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID == id {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, errs.UnknownHistoryID(id)
}

// pruneLocked removes terminal, old entries once the ledger exceeds
// maxBytes: undone entries with no pending redo, and applied entries
// beyond the retention count (spec.md §4.6, §6.5 backups.retain). Caller
// must hold s.mu.
func (s *Store) pruneLocked() error {
	if s.maxBytes <= 0 {
		return nil
	}
	info, err := os.Stat(s.path)
	if err != nil || info.Size() <= s.maxBytes {
		return nil
	}

	entries, err := s.readLedger()
	if err != nil {
		return err
	}

	latestStatus := map[string]Status{}
	order := []string{}
	for _, e := range entries {
		if _, seen := latestStatus[e.ID]; !seen {
			order = append(order, e.ID)
		}
		latestStatus[e.ID] = e.Status
	}

	appliedSeen := 0
	keep := map[string]bool{}
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		switch latestStatus[id] {
		case StatusApplied, StatusRedone:
			appliedSeen++
			keep[id] = appliedSeen <= s.retain
		default:
			keep[id] = false // terminal undone entries are always prunable first
		}
	}

	var kept []Entry
	for _, e := range entries {
		if keep[e.ID] {
			kept = append(kept, e)
		} else {
			bk := backup.New(s.stateDir, e.ID)
			_ = bk.Remove()
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := s.writeLedger(kept); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil {
			return err
		}
		newB, err := tx.CreateBucket(entriesBucket)
		if err != nil {
			return err
		}
		for _, e := range kept {
			if err := putIndexed(newB, e); err != nil {
				return err
			}
		}
		return nil
	})
}
