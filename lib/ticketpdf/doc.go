// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketpdf lays a rendered ticket out as a single-page PDF at
// the document's page geometry (168x400 pt for 58 mm thermal paper).
//
// Output is byte-stable for a given document: the creation and
// modification dates come from the document's issue time and the
// catalog is written in sorted order, so the same ticket always
// produces the same artifact hash.
package ticketpdf
