// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the kiosk's local SQLite database.
//
// Both the key/value store (settings, session) and the print journal
// live in one database file under the state directory. The pool wraps
// zombiezen.com/go/sqlite's sqlitex.Pool and applies, on every
// connection:
//
//   - journal_mode=WAL so a journal listing never blocks a ticket
//     being recorded.
//   - synchronous=FULL because a kiosk can lose power at any moment
//     and a recorded ticket must survive it.
//   - busy_timeout=5000 to wait out a concurrent writer.
//
// Callers supply an idempotent Schema script that runs after the
// pragmas:
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   filepath.Join(stateDir, "parkir.db"),
//	    Schema: kvstore.Schema + journal.Schema,
//	})
package sqlitepool
