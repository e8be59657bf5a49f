// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Ticket rendering is a pure function of its inputs, so the moment a
// ticket is issued is read once by the caller and passed in. Code that
// needs "now" accepts a Clock instead of calling time.Now directly:
//
//	type Flow struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	flow := &Flow{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2025, 7, 23, 14, 30, 0, 0, time.Local))
//	flow := &Flow{clock: c}
//	c.Advance(time.Minute)
package clock
