package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

// Store persists the full entry list as one document. Load and save
// always operate on the whole collection.
type Store interface {
	LoadAll() ([]Entry, error)
	SaveAll(entries []Entry) error
}

// JSONStore persists the entry list as a single JSON array on disk.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated catalog.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a store backed by the given file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// LoadAll reads the entry list from disk. A missing file is an empty
// catalog, not an error.
func (s *JSONStore) LoadAll() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read task catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse task catalog: %w", err)
	}
	return entries, nil
}

// SaveAll writes the entry list to disk, replacing the whole document.
// Transient filesystem errors are retried a few times before giving up.
func (s *JSONStore) SaveAll(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task catalog: %w", err)
	}

	return retry.Do(
		func() error { return s.writeFile(data) },
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

func (s *JSONStore) writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write task catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace task catalog: %w", err)
	}
	return nil
}
