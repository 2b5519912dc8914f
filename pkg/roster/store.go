package roster

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/errors"
)

// Store is the durable keyed store of participant records. It persists
// its complete contents to a single YAML file mapping participantId to
// the full record mapping, human-readable and round-trippable. Saves
// overwrite the file wholesale via a temp-file rename; the parent
// directory is created on first save.
//
// The store is process-wide shared mutable state. Its operations are
// individually safe for concurrent use; batch-wide exclusivity (all
// records plus the final flush under one critical section) is the
// reconciler's responsibility.
type Store struct {
	mu      sync.Mutex
	path    string
	records *Records
}

// Open creates a store backed by the file at path and loads its
// contents. A missing file starts the store empty.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: NewRecords(),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory creates a store with no backing file. Save and Commit
// persist nothing; everything else behaves identically. Useful for
// tests and dry runs.
func NewMemory() *Store {
	return &Store{records: NewRecords()}
}

// Path returns the backing file path, empty for a memory store.
func (s *Store) Path() string {
	return s.path
}

// collection returns the current Records pointer under the store lock.
// Load and Commit swap the pointer; readers must not observe the swap
// mid-flight.
func (s *Store) collection() *Records {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// Get performs the exact-match primary lookup.
func (s *Store) Get(id string) (*Record, bool) {
	return s.collection().Get(id)
}

// Put inserts or overwrites the record under id.
func (s *Store) Put(id string, record *Record) {
	s.collection().Set(id, record)
}

// FindByComposite performs the secondary lookup by normalized
// (firstName, lastName, email).
func (s *Store) FindByComposite(firstName, lastName, email string) (string, *Record, bool) {
	return s.collection().FindByComposite(firstName, lastName, email)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return s.collection().Len()
}

// List returns copies of all records ordered by identifier.
func (s *Store) List() []*Record {
	return s.collection().List()
}

// Load replaces the in-memory state with the full contents of the
// backing file, or initializes to empty when none exists.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		s.records = NewRecords()
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.records = NewRecords()
			return nil
		}
		return errors.WrapIO("read", s.path, err)
	}

	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	records := NewRecords()
	for id, fields := range raw {
		records.Set(id, Decode(fields))
	}
	s.records = records
	return nil
}

// Save atomically persists the complete in-memory state, overwriting
// prior contents.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	// Key the payload by the collection key, not the record's own field,
	// so a record stored under a diverging identifier keeps its key on
	// disk.
	payload := make(map[string]map[string]any, s.records.Len())
	for id, record := range s.records.Map() {
		payload[id] = record.AsMap()
	}

	data, err := yaml.Marshal(payload)
	if err != nil {
		return errors.WrapIO("encode", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	// Write to a temp file in the same directory, then rename over the
	// target so a crash mid-write never leaves a truncated store.
	tmp, err := os.CreateTemp(dir, ".participants-*.yaml")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}

// Snapshot returns a transient deep copy of the store contents. A batch
// stages all of its mutations on the snapshot and commits atomically,
// so an aborted batch leaves the store exactly as it was.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{records: s.records.Clone()}
}

// Commit swaps the snapshot in as the store's state and persists it.
// When the save fails the previous state is restored, in memory and on
// disk both untouched.
func (s *Store) Commit(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.records
	s.records = snap.records
	if err := s.saveLocked(); err != nil {
		s.records = previous
		return err
	}
	return nil
}

// Snapshot is a transient copy of the store a batch mutates in
// isolation. It is not safe for concurrent use; the reconciler's
// batch-wide exclusivity covers it.
type Snapshot struct {
	records *Records
}

// Get performs the primary lookup against the staged state.
func (sn *Snapshot) Get(id string) (*Record, bool) {
	return sn.records.Get(id)
}

// Put stages an insert or overwrite under id.
func (sn *Snapshot) Put(id string, record *Record) {
	sn.records.Set(id, record)
}

// FindByComposite performs the secondary lookup against the staged
// state, staged mutations of the current batch included.
func (sn *Snapshot) FindByComposite(firstName, lastName, email string) (string, *Record, bool) {
	return sn.records.FindByComposite(firstName, lastName, email)
}

// Len returns the number of staged records.
func (sn *Snapshot) Len() int {
	return sn.records.Len()
}
