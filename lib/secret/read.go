// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// maxLineLength bounds a secret read from a stream.
const maxLineLength = 4096

// ReadLine reads the first line of r into a buffer, trimming
// surrounding whitespace. Used for "login --password-stdin". Fails when
// the line is empty after trimming.
func ReadLine(r io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), maxLineLength)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		return nil, fmt.Errorf("secret is empty")
	}
	line := scanner.Bytes()
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		Zero(line)
		return nil, fmt.Errorf("secret is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(line)
	return buffer, err
}
