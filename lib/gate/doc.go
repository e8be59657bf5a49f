// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gate is the one transaction flow a kiosk runs for every
// vehicle: create the parking transaction on the server, render the
// ticket from the returned record, deliver it through the output
// fallback chain, and journal the result.
//
// Rendering starts only after the server has confirmed the
// transaction. Ticket settings are loaded once per issue and passed to
// the renderer. Journal failures are logged and never fail an issue:
// the vehicle is already parked and the operator already holds a
// ticket.
package gate
