// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for parkir packages.
//
// [Database] opens a throwaway SQLite pool in t.TempDir() with the
// given schema, closed when the test completes. It is the standard
// fixture for kvstore, settings, session, and journal tests.
//
// [RequireReceive] reads from a channel with a timeout so a missing
// value fails the test instead of hanging it.
package testutil
