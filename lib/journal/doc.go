// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records every emitted ticket so an operator can
// reprint one after a printer jam or hand a lost ticket number to a
// supervisor.
//
// Each entry stores the emission outcome and the rendered document.
// The document is stored CBOR-encoded and compressed; the first byte
// of the stored blob is a [Compression] tag, followed by the
// uncompressed size as a 4-byte big-endian integer and the payload.
// Data that does not shrink is stored with [CompressionNone].
package journal
