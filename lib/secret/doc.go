// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps the operator's password and bearer token out of
// the Go heap.
//
// [Buffer] allocates with mmap(MAP_ANONYMOUS), locks the pages with
// mlock so they never reach swap, and marks them MADV_DONTDUMP. Close
// zeroes and unmaps. After Close any read panics; Close itself is
// idempotent.
//
// Strings cannot be scrubbed, so [Buffer.String] is reserved for the
// one place a string is unavoidable: building the Authorization header.
package secret
