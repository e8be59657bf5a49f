// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package output delivers a rendered ticket to the operator through a
// fixed fallback chain: native print, then file export, then a plain
// text block the operator can copy by hand.
//
// Every stage receives the same [Artifact]. Its ID is a keyed BLAKE3
// hash of the encoded document, so reprints of the same ticket are
// recognizable in logs and export file names. The PDF form is rendered
// at most once, on first use by a stage that needs it; when it cannot
// be rendered only that stage fails. Stages run strictly in order and a
// stage is attempted only after the previous one has failed or is
// absent. Stage failures never propagate: they are logged and recorded
// in [Result.Attempts] as print failures. The text fallback cannot
// fail, so [Pipeline.Emit] errors only when there is no document.
package output
