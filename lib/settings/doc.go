// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings holds the kiosk's two operator-editable aggregates.
//
// TicketSettings controls what a printed ticket says and which sections
// appear. ConnectivitySettings holds the optional API base-URL
// override. They are stored under separate keys ("printer_settings" and
// "api_url") and have independent lifecycles: resetting the ticket
// copy never touches the server endpoint and vice versa.
//
// Reads never fail for lack of data. A missing record yields defaults,
// and a record written before a field existed is shallow-merged over
// defaults so the new field takes its default value.
package settings
