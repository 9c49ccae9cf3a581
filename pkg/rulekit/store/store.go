// Package store persists named rule expressions grouped into sets.
package store

import (
	"errors"
	"time"
)

// Store persists rule expressions keyed by (set, name).
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores an entry in a set. An existing entry with the same name
	// is replaced and moves to the end of the set's order. An empty ID is
	// filled with a new UUID on insert and kept on replace.
	Save(set string, entry Entry) error

	// Load retrieves one entry.
	// Returns ErrNotFound if the entry doesn't exist.
	Load(set, name string) (Entry, error)

	// List returns all entries of a set, ordered by sequence.
	// Returns empty slice (not error) if the set has no entries.
	List(set string) ([]Entry, error)

	// Sets returns the names of all non-empty sets, sorted.
	Sets() ([]string, error)

	// Delete removes one entry.
	// Returns nil if the entry doesn't exist.
	Delete(set, name string) error

	// DeleteSet removes every entry of a set.
	// Returns nil if the set has no entries.
	DeleteSet(set string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one stored rule.
type Entry struct {
	ID          string
	Name        string
	Expression  string
	Description string
	Message     string

	// Set by the store.
	Sequence  int
	UpdatedAt time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("rule not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("rule store closed")

	// ErrInvalidEntry indicates an empty set or rule name.
	ErrInvalidEntry = errors.New("invalid rule entry")
)

func validate(set string, entry Entry) error {
	if set == "" {
		return errors.Join(ErrInvalidEntry, errors.New("empty set name"))
	}
	if entry.Name == "" {
		return errors.Join(ErrInvalidEntry, errors.New("empty rule name"))
	}
	return nil
}
