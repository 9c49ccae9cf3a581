package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists rules to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite rule store.
// The path should be a file path (e.g., "./rules.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every pooled connection to ":memory:" would be a distinct database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rules (
			rule_set TEXT NOT NULL,
			name TEXT NOT NULL,
			id TEXT NOT NULL,
			expression TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			sequence INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (rule_set, name)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_rules_set_sequence
		ON rules(rule_set, sequence)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(set string, entry Entry) error {
	if err := validate(set, entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	keepID := entry.ID == ""
	id := entry.ID
	if keepID {
		id = uuid.NewString()
	}

	_, err := s.db.Exec(`
		INSERT INTO rules (rule_set, name, id, expression, description, message, sequence, updated_at)
		VALUES (
			?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(sequence) FROM rules WHERE rule_set = ?), 0) + 1,
			?
		)
		ON CONFLICT(rule_set, name) DO UPDATE SET
			id = CASE WHEN ? THEN rules.id ELSE excluded.id END,
			expression = excluded.expression,
			description = excluded.description,
			message = excluded.message,
			sequence = (SELECT MAX(sequence) FROM rules WHERE rule_set = excluded.rule_set) + 1,
			updated_at = excluded.updated_at
	`, set, entry.Name, id, entry.Expression, entry.Description, entry.Message,
		set, time.Now().UTC().Format(time.RFC3339Nano), keepID)

	if err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(set, name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`
		SELECT id, name, expression, description, message, sequence, updated_at
		FROM rules
		WHERE rule_set = ? AND name = ?
	`, set, name)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load rule: %w", err)
	}
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List(set string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, name, expression, description, message, sequence, updated_at
		FROM rules
		WHERE rule_set = ?
		ORDER BY sequence
	`, set)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return entries, nil
}

// Sets implements Store.
func (s *SQLiteStore) Sets() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT DISTINCT rule_set FROM rules ORDER BY rule_set`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sets: %w", err)
	}
	return sets, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(set, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM rules WHERE rule_set = ? AND name = ?`, set, name); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

// DeleteSet implements Store.
func (s *SQLiteStore) DeleteSet(set string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM rules WHERE rule_set = ?`, set); err != nil {
		return fmt.Errorf("delete rule set: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var updated string
	if err := row.Scan(&e.ID, &e.Name, &e.Expression, &e.Description, &e.Message, &e.Sequence, &updated); err != nil {
		return Entry{}, err
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return e, nil
}
