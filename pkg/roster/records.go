package roster

import (
	"sort"
	"sync"
)

// Records is a concurrent safe map of participant records keyed by
// participantId, with a secondary index over the normalized composite
// key. The collection owns its records: values are deep-copied on the
// way in and on the way out, so no caller retains a live reference.
type Records struct {
	mu      sync.RWMutex
	records map[string]*Record

	// index maps a composite key to the set of record identifiers
	// currently carrying it. Lookups pick the lexicographically
	// smallest member so a multi-match resolves the same way for any
	// fixed contents, regardless of map iteration order.
	index map[CompositeKey]map[string]struct{}
}

// NewRecords creates an empty Records collection.
func NewRecords() *Records {
	return &Records{
		records: make(map[string]*Record),
		index:   make(map[CompositeKey]map[string]struct{}),
	}
}

// Get returns a copy of the record under id and whether it exists.
func (rs *Records) Get(id string) (*Record, bool) {
	rs.mu.RLock()
	record, ok := rs.records[id]
	rs.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// Set inserts or overwrites the record under id, keeping the composite
// index in step.
func (rs *Records) Set(id string, record *Record) {
	clone := record.Clone()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if old, ok := rs.records[id]; ok {
		rs.dropIndexEntry(old, id)
	}
	rs.records[id] = clone
	rs.addIndexEntry(clone, id)
}

// FindByComposite performs the secondary lookup. All three components
// must be non-empty after normalization or the lookup misses. When
// several records share the key, the smallest identifier wins.
func (rs *Records) FindByComposite(firstName, lastName, email string) (string, *Record, bool) {
	key, ok := NewCompositeKey(firstName, lastName, email)
	if !ok {
		return "", nil, false
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()

	ids, ok := rs.index[key]
	if !ok || len(ids) == 0 {
		return "", nil, false
	}

	chosen := ""
	for id := range ids {
		if chosen == "" || id < chosen {
			chosen = id
		}
	}
	return chosen, rs.records[chosen].Clone(), true
}

// Len returns the number of records.
func (rs *Records) Len() int {
	rs.mu.RLock()
	length := len(rs.records)
	rs.mu.RUnlock()
	return length
}

// List returns copies of all records, ordered by identifier.
func (rs *Records) List() []*Record {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	ids := make([]string, 0, len(rs.records))
	for id := range rs.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, rs.records[id].Clone())
	}
	return out
}

// Map returns a deep copy of the full contents keyed by identifier.
func (rs *Records) Map() map[string]*Record {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make(map[string]*Record, len(rs.records))
	for id, record := range rs.records {
		out[id] = record.Clone()
	}
	return out
}

// Clone returns an independent copy of the collection, index included.
func (rs *Records) Clone() *Records {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	clone := NewRecords()
	for id, record := range rs.records {
		c := record.Clone()
		clone.records[id] = c
		clone.addIndexEntry(c, id)
	}
	return clone
}

// addIndexEntry registers id under the record's composite key, if the
// record has one. Caller holds the write lock.
func (rs *Records) addIndexEntry(record *Record, id string) {
	key, ok := compositeKeyOf(record)
	if !ok {
		return
	}
	ids, exists := rs.index[key]
	if !exists {
		ids = make(map[string]struct{})
		rs.index[key] = ids
	}
	ids[id] = struct{}{}
}

// dropIndexEntry removes id from the record's composite key set.
// Caller holds the write lock.
func (rs *Records) dropIndexEntry(record *Record, id string) {
	key, ok := compositeKeyOf(record)
	if !ok {
		return
	}
	if ids, exists := rs.index[key]; exists {
		delete(ids, id)
		if len(ids) == 0 {
			delete(rs.index, key)
		}
	}
}
