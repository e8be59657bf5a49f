// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/parkir/lib/failure"
)

// ErrorCategory classifies command errors so scripts driving the CLI
// can decide between retrying, fixing input, and escalating without
// parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: missing arguments, unparseable values, a
	// request the server rejected as invalid. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryAuth: bad credentials or an expired session. Log in
	// again.
	CategoryAuth ErrorCategory = "auth"

	// CategoryNotFound: a referenced record (vehicle type, journaled
	// ticket) does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the operator's role may not do this.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient: network failure, timeout, rate limit or a
	// server error. Back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: bugs, local I/O failures, unrenderable tickets.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps the
// underlying error so errors.Is and errors.As still see the chain.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step printed after the message.
	Hint string
}

// Error returns the message, followed by the hint when one is set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode maps the category to the process exit status: 2 for input
// problems, 3 for auth, 4 for transient failures, 1 otherwise.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation, CategoryNotFound:
		return 2
	case CategoryAuth, CategoryForbidden:
		return 3
	case CategoryTransient:
		return 4
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates an error that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// noticeError presents a classified failure as its operator notice
// while keeping the original error reachable through Unwrap.
type noticeError struct {
	notice failure.OperatorNotice
	err    error
}

func (e *noticeError) Error() string {
	return e.notice.Title + ": " + e.notice.Message
}

func (e *noticeError) Unwrap() error { return e.err }

// FromFailure categorizes err by its failure kind. The message becomes
// the operator notice and the hint its action label. Errors that are
// already a *ToolError pass through; nil stays nil.
func FromFailure(err error) error {
	if err == nil {
		return nil
	}
	var existing *ToolError
	if errors.As(err, &existing) {
		return err
	}

	notice := failure.Notice(err)
	result := &ToolError{
		Category: categoryOf(failure.KindOf(err)),
		Err:      &noticeError{notice: notice, err: err},
	}
	if notice.Action != "" {
		result.Hint = "Langkah berikutnya: " + notice.ActionLabel()
	}
	return result
}

func categoryOf(kind failure.Kind) ErrorCategory {
	switch kind {
	case failure.Validation:
		return CategoryValidation
	case failure.Auth, failure.SessionExpired:
		return CategoryAuth
	case failure.Forbidden:
		return CategoryForbidden
	case failure.NotFound:
		return CategoryNotFound
	case failure.Network, failure.Timeout, failure.Server, failure.RateLimited:
		return CategoryTransient
	}
	return CategoryInternal
}
