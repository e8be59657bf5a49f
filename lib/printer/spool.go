// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bureau-foundation/parkir/lib/output"
)

// DefaultSpoolCommand submits a job to CUPS.
const DefaultSpoolCommand = "lp"

// SpoolPrinter prints the PDF artifact through a spooler command. The
// PDF is written to the command's stdin.
type SpoolPrinter struct {
	// Command defaults to "lp".
	Command string

	// Destination is the queue name; empty uses the system default.
	Destination string

	// Args are extra arguments placed before the destination.
	// Defaults to the 58 mm media option.
	Args []string
}

// Name identifies the printer in results and logs.
func (p *SpoolPrinter) Name() string {
	if p.Destination == "" {
		return "spool:" + p.command()
	}
	return "spool:" + p.command() + "/" + p.Destination
}

func (p *SpoolPrinter) command() string {
	if p.Command == "" {
		return DefaultSpoolCommand
	}
	return p.Command
}

func (p *SpoolPrinter) arguments(title string) []string {
	args := p.Args
	if args == nil {
		args = []string{"-o", "media=Custom.58x141mm"}
	}
	args = append(append([]string(nil), args...), "-t", title)
	if p.Destination != "" {
		args = append(args, "-d", p.Destination)
	}
	return args
}

// Print submits the artifact.
func (p *SpoolPrinter) Print(ctx context.Context, artifact *output.Artifact) error {
	data, err := artifact.PDF()
	if err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	cmd := exec.CommandContext(ctx, p.command(), p.arguments("tiket-"+artifact.Document.TicketNumber)...)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if message := strings.TrimSpace(stderr.String()); message != "" {
			return fmt.Errorf("%s: %w: %s", p.command(), err, message)
		}
		return fmt.Errorf("%s: %w", p.command(), err)
	}
	return nil
}
