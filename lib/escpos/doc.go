// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package escpos encodes a rendered ticket as an ESC/POS byte stream
// for 58 mm receipt printers (32 columns in Font A).
//
// Text is transcoded to code page 858 (Western European with the euro
// sign), which every ESC/POS printer in the field supports. Characters
// outside the code page print as '?'.
package escpos
