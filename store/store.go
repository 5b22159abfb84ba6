// ABOUTME: Persistence adapter for the last-used design input
// ABOUTME: Store interface, backend factory and recover-and-continue helpers

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Simtestlab/bess-handbook/models"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrNotFound is returned by Load when the slot has never been saved
var ErrNotFound = errors.New("design slot not found")

// keyPattern matches valid slot names (alphanumeric, dots, hyphens, underscores)
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Store loads and saves design inputs under named slots
type Store interface {
	Load(ctx context.Context, key string) (models.DesignInput, error)
	Save(ctx context.Context, key string, in models.DesignInput) error
	Close() error
}

// Lister is implemented by stores that can enumerate their slots
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// PersistenceError wraps a backend failure with the operation and slot involved
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Options selects and configures a backend
type Options struct {
	Backend string
	Path    string // Directory for file, database file for sqlite
	DSN     string // Connection string for postgres
}

// Open creates the store named by opts.Backend
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		dir := opts.Path
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileStore(dir), nil
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			path = filepath.Join(DefaultDir(), "bess.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return OpenSQLite(path)
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a DSN")
		}
		return OpenPostgres(opts.DSN)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// DefaultDir returns the default data directory following the XDG spec
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bess-handbook")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bess-handbook")
}

// ValidateKey rejects slot names that are unsafe as file names
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid slot name %q", key)
	}
	return nil
}

// LoadOrDefault returns the saved input for key, or the defaults when the
// slot is empty or the store fails. Failures are logged, never returned.
func LoadOrDefault(ctx context.Context, s Store, key string) models.DesignInput {
	in, err := s.Load(ctx, key)
	if err == nil {
		return in
	}
	if errors.Is(err, ErrNotFound) {
		slog.Debug("No saved design, using defaults", "slot", key)
	} else {
		slog.Warn("Failed to load saved design, using defaults", "slot", key, "error", err)
	}
	return models.DefaultDesignInput()
}

// SaveOrReport saves in under key. A failure is logged and reported as false
// so the caller can carry on.
func SaveOrReport(ctx context.Context, s Store, key string, in models.DesignInput) bool {
	if err := s.Save(ctx, key, in); err != nil {
		slog.Error("Failed to save design", "slot", key, "error", err)
		return false
	}
	slog.Debug("Design saved", "slot", key)
	return true
}
