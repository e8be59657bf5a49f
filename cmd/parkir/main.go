// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	_ "time/tzdata" // zone data for ticket.time_zone

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/cmd/parkir/commands"
	"github.com/bureau-foundation/parkir/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that already told the operator what happened (park's
		// text fallback) return a silent exit error.
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := process.SignalContext()
	defer cancel()
	return commands.Root().Execute(ctx, os.Args[1:], cli.NewCommandLogger())
}
