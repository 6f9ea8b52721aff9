// Package state persists the mod-builder workspace: the authored policies,
// which stay editable until export, and the mod settings.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Sentinel errors.
var (
	ErrPolicyNotFound  = errors.New("policy not found")
	ErrDuplicatePolicy = errors.New("policy already exists")
)

// MemoryPath opens a private in-memory workspace.
const MemoryPath = ":memory:"

// Store is the workspace database.
type Store struct {
	db     *sqlx.DB
	path   string
	logger *slog.Logger
}

// Open opens the workspace at path, creating the file and its directory if
// needed, and applies migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create workspace directory: %w", err)
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	// One connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping workspace: %w", err)
	}
	if err := Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := newStore(db, logger)
	s.path = path
	s.logger.Debug("workspace opened", "path", path)
	return s, nil
}

// NewWithDB wraps an already migrated connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	return newStore(sqlx.NewDb(db, "sqlite"), logger)
}

func newStore(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Path returns the workspace location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Meta returns every mod setting.
func (s *Store) Meta(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, value FROM mod_meta ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to read mod settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// SetMeta stores settings; an empty value removes the key.
func (s *Store) SetMeta(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range values {
		if v == "" {
			_, err = tx.ExecContext(ctx, `DELETE FROM mod_meta WHERE key = ?`, k)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO mod_meta (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v)
		}
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return tx.Commit()
}
