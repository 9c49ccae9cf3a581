package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory rule store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	sets   map[string]map[string]Entry // set -> name -> entry
	closed bool
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory rule store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets: make(map[string]map[string]Entry),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(set string, entry Entry) error {
	if err := validate(set, entry); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	entries := m.sets[set]
	if entries == nil {
		entries = make(map[string]Entry)
		m.sets[set] = entries
	}

	seq := 1
	for _, e := range entries {
		if e.Sequence >= seq {
			seq = e.Sequence + 1
		}
	}

	if entry.ID == "" {
		if prev, ok := entries[entry.Name]; ok {
			entry.ID = prev.ID
		} else {
			entry.ID = uuid.NewString()
		}
	}
	entry.Sequence = seq
	entry.UpdatedAt = time.Now().UTC()
	entries[entry.Name] = entry
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(set, name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	e, ok := m.sets[set][name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// List implements Store.
func (m *MemoryStore) List(set string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]Entry, 0, len(m.sets[set]))
	for _, e := range m.sets[set] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence < entries[j].Sequence
	})
	return entries, nil
}

// Sets implements Store.
func (m *MemoryStore) Sets() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	names := make([]string, 0, len(m.sets))
	for name, entries := range m.sets {
		if len(entries) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(set, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sets[set], name)
	return nil
}

// DeleteSet implements Store.
func (m *MemoryStore) DeleteSet(set string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sets, set)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the total number of stored entries across all sets.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, entries := range m.sets {
		n += len(entries)
	}
	return n
}
