// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds HTTP and socket helpers shared by the API
// client and the network printer.
//
// Response reads are bounded at MaxResponseSize. The parking API
// returns small JSON envelopes; a body larger than the bound is a
// misbehaving server, not a catalog.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// MaxResponseSize bounds JSON API response reads: 4 MB.
const MaxResponseSize int64 = 4 << 20

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseSize)
	}
	return data, nil
}

// ErrorBody reads an error response for diagnostics, truncated to
// limit bytes. Read errors are ignored.
func ErrorBody(body io.Reader, limit int) string {
	data, _ := io.ReadAll(io.LimitReader(body, int64(limit)))
	return string(data)
}

// IsTimeout reports whether err is a deadline: a context deadline or a
// net.Error that timed out.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsConnectionError reports whether err means the peer could not be
// reached or dropped the connection: DNS failure, refused or reset
// connection, unreachable network, broken pipe, unexpected EOF.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return true
		}
	}
	return false
}
