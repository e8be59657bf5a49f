// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package printer implements the native-print capability.
//
// [NetworkPrinter] streams ESC/POS to a receipt printer's raw TCP port
// (9100 by convention). [SpoolPrinter] hands the PDF artifact to the
// system spooler. Bluetooth printers are reached through the [Scanner]
// and [Connector] interfaces; this build ships only [NoopScanner],
// which finds nothing, so kiosks without a configured printer fall
// through to file export.
package printer
