// ABOUTME: File-backed design store keeping one JSON document per slot
// ABOUTME: Writes go to a temp file and are renamed into place

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Simtestlab/bess-handbook/models"
)

// FileStore keeps slots as <dir>/<key>.json
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file store rooted at dir. The directory is created
// on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the slot files
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(ctx context.Context, key string) (models.DesignInput, error) {
	if err := ValidateKey(key); err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path(key))
	s.mu.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return models.DesignInput{}, ErrNotFound
	}
	if err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	in, err := Decode(data)
	if err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return in, nil
}

func (s *FileStore) Save(ctx context.Context, key string, in models.DesignInput) error {
	if err := ValidateKey(key); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	data, err := Encode(in)
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(s.path(key), data); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".slot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot file: %w", err)
	}
	return nil
}

// Keys lists saved slot names in order
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, &PersistenceError{Op: "list", Key: "*", Err: err}
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(m), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error {
	return nil
}
