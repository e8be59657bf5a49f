// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package export implements the file-export capability: the ticket PDF
// is written into an export directory and optionally handed to a share
// command (a desktop "open with" helper, a sync agent) with a
// descriptive title.
package export
