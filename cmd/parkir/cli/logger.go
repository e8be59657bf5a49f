// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger handed to every command. When
// stderr is a terminal it uses slog.TextHandler; when piped (a kiosk
// supervisor, a log collector) it uses slog.JSONHandler.
//
// PARKIR_LOG_LEVEL accepts debug, info, warn and error. Anything else
// is info.
func NewCommandLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("PARKIR_LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
