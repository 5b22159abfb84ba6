// ABOUTME: SQL-backed design store for SQLite and PostgreSQL
// ABOUTME: One design_slots table keyed by slot name, written with an upsert

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Simtestlab/bess-handbook/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS design_slots (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLStore persists slots in a relational database through sqlx
type SQLStore struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*SQLStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newSQLStore(conn)
}

// OpenPostgres connects to a PostgreSQL database.
func OpenPostgres(dsn string) (*SQLStore, error) {
	conn, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newSQLStore(conn)
}

func newSQLStore(conn *sqlx.DB) (*SQLStore, error) {
	s := &SQLStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLStore) Load(ctx context.Context, key string) (models.DesignInput, error) {
	var value string
	query := s.conn.Rebind("SELECT value FROM design_slots WHERE key = ?")
	err := s.conn.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DesignInput{}, ErrNotFound
	}
	if err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	in, err := Decode([]byte(value))
	if err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return in, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, in models.DesignInput) error {
	data, err := Encode(in)
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	query := s.conn.Rebind(`INSERT INTO design_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	_, err = s.conn.ExecContext(ctx, query, key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// Keys lists saved slot names in order
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.conn.SelectContext(ctx, &keys, "SELECT key FROM design_slots ORDER BY key"); err != nil {
		return nil, &PersistenceError{Op: "list", Key: "*", Err: err}
	}
	return keys, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}
