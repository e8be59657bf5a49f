// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the kiosk's single CBOR configuration.
//
// The kiosk uses two serialization formats with a clear boundary:
//
//   - JSON for the parking REST API, settings import files and CLI
//     --json output.
//   - CBOR for everything it writes to local storage: settings
//     aggregates, the cached operator profile and journal documents.
//
// Every package that persists a value goes through Marshal and
// Unmarshal here so encodings never drift between writers:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// Types stored only on disk use `cbor` tags. Types that also cross the
// REST boundary or appear in --json output use `json` tags, which
// fxamacker/cbor reads as a fallback. A field never carries both.
package codec
