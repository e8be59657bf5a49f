// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bureau-foundation/parkir/lib/escpos"
	"github.com/bureau-foundation/parkir/lib/output"
)

// DefaultPort is the raw printing port.
const DefaultPort = "9100"

// DefaultWriteTimeout bounds the time to push one ticket.
const DefaultWriteTimeout = 10 * time.Second

// NetworkPrinter prints over a raw TCP connection.
type NetworkPrinter struct {
	// Address is host or host:port. The port defaults to 9100.
	Address string

	// Columns is the printer line width; zero means 32.
	Columns int

	// Timeout bounds dial plus write. Zero means DefaultWriteTimeout.
	Timeout time.Duration

	// Dialer is used for the connection; nil means a net.Dialer.
	Dialer interface {
		DialContext(ctx context.Context, network, address string) (net.Conn, error)
	}
}

// Name identifies the printer in results and logs.
func (p *NetworkPrinter) Name() string { return "escpos://" + p.address() }

func (p *NetworkPrinter) address() string {
	if _, _, err := net.SplitHostPort(p.Address); err == nil {
		return p.Address
	}
	return net.JoinHostPort(p.Address, DefaultPort)
}

// Print encodes the ticket and writes it to the printer.
func (p *NetworkPrinter) Print(ctx context.Context, artifact *output.Artifact) error {
	job, err := escpos.Encoder{Columns: p.Columns, Cut: true}.Encode(artifact.Document)
	if err != nil {
		return err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer interface {
		DialContext(ctx context.Context, network, address string) (net.Conn, error)
	} = &net.Dialer{}
	if p.Dialer != nil {
		dialer = p.Dialer
	}
	conn, err := dialer.DialContext(ctx, "tcp", p.address())
	if err != nil {
		return fmt.Errorf("connecting to printer %s: %w", p.address(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("writing to printer %s: %w", p.address(), err)
	}
	return nil
}
