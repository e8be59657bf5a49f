// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kioskui is the operator's parking screen: a vehicle-type
// list with fuzzy filtering, a license plate input, and a notice box
// showing the outcome of the last action. Built on bubbletea.
//
// Submitting runs the gate issue flow in a command. While it runs the
// model is busy and further submissions are ignored, so one keypress
// can never create two transactions. The vehicle list is loaded on
// start and reloaded with ctrl+r.
package kioskui
