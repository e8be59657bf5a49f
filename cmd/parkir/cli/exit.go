// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. The command has already written its own output.
//
// "parkir park" returns one with code 5 when the ticket could only be
// shown as text, so a wrapper script can tell the operator to copy it
// by hand.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Silent reports whether main should skip printing err.
func (e *ExitError) Silent() bool { return true }
