// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the parkir
// kiosk CLI.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. The tree is assembled in cmd/parkir/commands and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples. Parameter structs
// declare their flags with struct tags and are bound by
// [FlagsFromParams].
//
// Unknown subcommands and flags get a "did you mean" suggestion based
// on Levenshtein distance (at most 3).
//
// Errors returned by commands carry an [ErrorCategory]. [FromFailure]
// converts the kiosk's classified errors into categorized errors whose
// text is the operator notice rather than the raw server message.
package cli
