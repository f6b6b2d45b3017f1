// Package cartdb persists the cart in a local SQLite database. The cart
// occupies a single key/value slot so the stored shape mirrors exactly what
// the cart service keeps in memory.
package cartdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/repositories"
)

const cartSlotKey = "forja3d_cart"

const schema = `
CREATE TABLE IF NOT EXISTS kv_slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);`

// Store is a CartStorage backed by a single-row SQLite slot.
type Store struct {
	db *sql.DB
}

var _ repositories.CartStorage = (*Store)(nil)

// Open opens (creating if necessary) the cart database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cart store: database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cart store: unable to open %s: %w", path, err)
	}
	// The slot is written from a single service goroutine at a time, and
	// modernc/sqlite misbehaves with concurrent writers on one connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cart store: unable to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the cart slot. A missing slot yields an empty cart; a slot that
// no longer decodes yields a corrupt StorageError.
func (s *Store) Load(ctx context.Context) ([]domain.CartLine, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, cartSlotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, repositories.NewUnavailableError("cart store", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, repositories.NewCorruptError("cart store", err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

// Save replaces the cart slot with the given lines.
func (s *Store) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart store: unable to encode cart: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		cartSlotKey, string(raw))
	if err != nil {
		return repositories.NewUnavailableError("cart store", err)
	}
	return nil
}

// Ping verifies the database is reachable, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
