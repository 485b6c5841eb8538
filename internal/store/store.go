// Package store implements the forum's record store: named slots in a
// single SQLite file, each holding one JSON-serialized collection that is
// read and replaced whole on every access.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Slot names for the five persisted collections.
const (
	SlotUsers       = "forum_users"
	SlotCategories  = "forum_categories"
	SlotTopics      = "forum_topics"
	SlotPosts       = "forum_posts"
	SlotCurrentUser = "forum_current_user"
)

// Store is a key-value namespace of named slots. Writes replace the whole
// slot value; there is no partial update.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates or opens the store file and ensures the slots table exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the slot and unmarshals it into v. An absent slot leaves v
// untouched, so callers that pass an empty collection observe an empty
// sequence.
func (s *Store) Load(slot string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var raw string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: load %s: %w", slot, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("store: decode %s: %w", slot, err)
	}
	return nil
}

// Save marshals v and fully replaces the slot.
func (s *Store) Save(slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", slot, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO slots (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`, slot, string(raw))
	if err != nil {
		return fmt.Errorf("store: save %s: %w", slot, err)
	}
	return nil
}

// Has reports whether the slot exists, regardless of its value.
func (s *Store) Has(slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM slots WHERE name = ?`, slot).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check %s: %w", slot, err)
	}
	return true, nil
}

// Delete removes the slot. Deleting an absent slot is not an error.
func (s *Store) Delete(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM slots WHERE name = ?`, slot); err != nil {
		return fmt.Errorf("store: delete %s: %w", slot, err)
	}
	return nil
}
