// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore is the kiosk's key/value persistence layer.
//
// Each key holds one CBOR-encoded record. Settings aggregates and the
// operator session are stored here under fixed keys; nothing else is.
// The store never interprets values: versioning and default-merging are
// the responsibility of the packages that own each key.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/codec"
	"github.com/bureau-foundation/parkir/lib/sqlitepool"
)

// Schema creates the key/value table. Pass it (possibly concatenated
// with other schemas) as sqlitepool.Config.Schema.
const Schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// ErrNotFound is returned by Get when the key has never been written
// or was deleted.
var ErrNotFound = errors.New("kvstore: key not found")

// Store reads and writes CBOR records by key.
type Store struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// New wraps an open pool. The pool must have been opened with Schema.
func New(pool *sqlitepool.Pool, clk clock.Clock, logger *slog.Logger) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{pool: pool, clock: clk, logger: logger}
}

// Get decodes the record stored under key into value. Returns
// ErrNotFound when the key is absent.
func (s *Store) Get(ctx context.Context, key string, value any) error {
	raw, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := codec.Unmarshal(raw, value); err != nil {
		return fmt.Errorf("kvstore: decoding %q: %w", key, err)
	}
	return nil
}

// GetRaw returns the stored CBOR bytes for key.
func (s *Store) GetRaw(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	defer s.pool.Put(conn)

	var raw []byte
	found := false
	err = sqlitex.Execute(conn, `SELECT value FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			raw = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, raw)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return raw, nil
}

// Set encodes value and stores it under key, replacing any previous
// record.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore: encoding %q: %w", key, err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{key, data, s.clock.Now().UnixMilli()}})
	if err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	s.logger.Debug("record stored", "key", key, "bytes", len(data))
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("kvstore: delete %q: %w", key, err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn, `DELETE FROM kv WHERE key = ?`, &sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("kvstore: delete %q: %w", key, err)
	}
	s.logger.Debug("record deleted", "key", key)
	return nil
}

// Keys lists stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvstore: keys: %w", err)
	}
	defer s.pool.Put(conn)

	var keys []string
	err = sqlitex.Execute(conn, `SELECT key FROM kv ORDER BY key`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: keys: %w", err)
	}
	return keys, nil
}
