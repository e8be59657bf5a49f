// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket turns a created parking transaction into a structured
// ticket document.
//
// [Render] is a pure function: the transaction, vehicle type, plate,
// ticket settings and the issue time are all passed in. It performs no
// I/O and reads no clock, so rendering the same inputs twice yields
// identical documents. Callers load settings once and read the clock
// once before rendering.
//
// A [Document] is an ordered list of lines plus the page geometry of a
// 58 mm thermal roll. It is deliberately not markup: serializers in
// other packages turn it into a PDF page (lib/ticketpdf), an ESC/POS
// byte stream (lib/escpos) or plain text ([Document.PlainText]).
//
// # Line order
//
// Company name, "TIKET PARKIR", address, phone, separator, ticket
// number, date and time, vehicle, plate, tariff, separator, footer
// lines, footer date-time stamp. Sections switched off in the settings
// contribute no lines at all.
package ticket
