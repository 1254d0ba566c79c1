package profilestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the profile record in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path. The file is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the record, merging it over defaults. A missing or corrupted
// file yields defaults without error.
func (s *FileStore) Load(_ context.Context) (*StoredProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Defaults(), nil
	}
	return merge(raw), nil
}

// Save writes the full record.
func (s *FileStore) Save(_ context.Context, profile *StoredProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.SchemaVersion = SchemaVersion
	profile.UpdatedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
