// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/parkir/lib/sqlitepool"
)

// Database opens a pool on a fresh database file with schema applied.
func Database(t testing.TB, schema string) *sqlitepool.Pool {
	t.Helper()
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   filepath.Join(t.TempDir(), "parkir.db"),
		Schema: schema,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})
	return pool
}
