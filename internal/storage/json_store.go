package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore persists a single JSON snapshot file. Writes go to a temp file in
// the same directory and are renamed over the snapshot.
type JSONStore struct {
	mu       sync.Mutex
	filePath string
}

// NewJSONStore creates the data directory if needed and returns a store
// writing dataDir/filename.
func NewJSONStore(dataDir, filename string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONStore{filePath: filepath.Join(dataDir, filename)}, nil
}

// Path returns the snapshot location.
func (s *JSONStore) Path() string {
	return s.filePath
}

// Load decodes the snapshot into v. A missing snapshot leaves v untouched and
// reports false.
func (s *JSONStore) Load(v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	return true, nil
}

// Save encodes v and atomically replaces the snapshot.
func (s *JSONStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), filepath.Base(s.filePath)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.filePath)
}
