// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package parking defines the records exchanged with the parking REST
// API: vehicle types, the transaction request and response, and the
// operator profile returned at login.
//
// These types use json tags because they cross the REST boundary and
// appear in CLI --json output. Optional server fields use
// gopkg.in/guregu/null.v4 so "absent" and "zero" stay distinguishable.
package parking
