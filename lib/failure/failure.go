// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package failure is the kiosk's error taxonomy.
//
// Every error that can reach an operator carries a Kind. Operator-facing
// copy is chosen from the Kind by [Notice], never by inspecting message
// text. Wrap with fmt.Errorf("...: %w", err) freely; [KindOf] walks the
// chain.
package failure

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates failures by how the operator recovers from them.
type Kind int

const (
	// Internal is anything unclassified. It is the zero value so an
	// unwrapped error never masquerades as a recoverable one.
	Internal Kind = iota

	// Validation: bad input shape or a missing required field. Fixed by
	// correcting the input.
	Validation

	// Auth: the server rejected the login credentials.
	Auth

	// SessionExpired: an authenticated call got 401, or no credential
	// is stored. Fixed by logging in again.
	SessionExpired

	// Network: the server could not be reached.
	Network

	// Timeout: the request exceeded its deadline.
	Timeout

	// Server: the server answered 5xx or an unusable body.
	Server

	// RateLimited: the server answered 429.
	RateLimited

	// Forbidden: the operator's role may not do this.
	Forbidden

	// NotFound: the referenced record does not exist.
	NotFound

	// PrintFailure: an output stage failed. Handled by the fallback
	// chain and only surfaced inside an output result.
	PrintFailure

	// RenderPrecondition: no ticket document could be produced. The
	// only output error that reaches the caller.
	RenderPrecondition
)

var kindNames = map[Kind]string{
	Internal:           "internal",
	Validation:         "validation",
	Auth:               "auth",
	SessionExpired:     "session_expired",
	Network:            "network",
	Timeout:            "timeout",
	Server:             "server",
	RateLimited:        "rate_limited",
	Forbidden:          "forbidden",
	NotFound:           "not_found",
	PrintFailure:       "print_failure",
	RenderPrecondition: "render_precondition",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether repeating the same action unchanged can
// succeed.
func (k Kind) Retryable() bool {
	switch k {
	case Network, Timeout, Server, RateLimited, RenderPrecondition:
		return true
	}
	return false
}

// Error is a classified failure.
type Error struct {
	Kind Kind

	// Op names the operation that failed, e.g. "login" or
	// "create transaction".
	Op string

	// Fields holds per-field validation messages from the server or
	// local checks. Only set for Validation.
	Fields map[string][]string

	// Message is server- or check-provided operator copy, used by
	// Notice for Validation when present.
	Message string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	} else if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(FieldNames(e.Fields), ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind alone, so
// errors.Is(err, failure.SessionExpiredError) works regardless of Op.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Op == "" && other.Err == nil && other.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ValidationError         = &Error{Kind: Validation}
	AuthError               = &Error{Kind: Auth}
	SessionExpiredError     = &Error{Kind: SessionExpired}
	NetworkError            = &Error{Kind: Network}
	TimeoutError            = &Error{Kind: Timeout}
	ServerError             = &Error{Kind: Server}
	RateLimitedError        = &Error{Kind: RateLimited}
	PrintFailureError       = &Error{Kind: PrintFailure}
	RenderPreconditionError = &Error{Kind: RenderPrecondition}
)

// New creates a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Invalid creates a Validation error from per-field messages.
func Invalid(op string, fields map[string]string) *Error {
	converted := make(map[string][]string, len(fields))
	for field, message := range fields {
		converted[field] = []string{message}
	}
	return &Error{Kind: Validation, Op: op, Fields: converted}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// Internal when there is none. A nil error has no kind and returns
// Internal as well; callers check for nil first.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return Internal
}

// FieldNames returns the sorted keys of a field-error map.
func FieldNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
