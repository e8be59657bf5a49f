// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/ticket"
	"github.com/bureau-foundation/parkir/lib/ticketpdf"
)

// NativePrinter sends a ticket to a physical printer.
type NativePrinter interface {
	Name() string
	Print(ctx context.Context, artifact *Artifact) error
}

// FileExporter persists a ticket as a file and returns where it went.
type FileExporter interface {
	Export(ctx context.Context, artifact *Artifact) (location string, err error)
}

// Capabilities are the output stages available on this device. A nil
// field means the capability is absent.
type Capabilities struct {
	NativePrint NativePrinter
	FileExport  FileExporter
}

// Outcome is the stage that delivered the ticket.
type Outcome int

const (
	Printed Outcome = iota + 1
	Exported
	TextFallback
)

func (o Outcome) String() string {
	switch o {
	case Printed:
		return "printed"
	case Exported:
		return "exported"
	case TextFallback:
		return "text_fallback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseOutcome is the inverse of String.
func ParseOutcome(name string) (Outcome, error) {
	for _, outcome := range []Outcome{Printed, Exported, TextFallback} {
		if outcome.String() == name {
			return outcome, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", name)
}

// Stage names, as they appear in logs and attempts.
const (
	StagePrint  = "print"
	StageExport = "export"
	StageText   = "text"
)

// Attempt records one stage that was tried and failed.
type Attempt struct {
	Stage string
	Err   error
}

// Result is the outcome of one emission.
type Result struct {
	Outcome Outcome

	// Detail is the printer name for Printed, the file location for
	// Exported, and the full ticket text for TextFallback.
	Detail string

	ArtifactID string
	Attempts   []Attempt
}

// Config configures a Pipeline.
type Config struct {
	// Materialize produces the PDF bytes for stages that need them.
	// Defaults to ticketpdf.Materialize.
	Materialize func(*ticket.Document) ([]byte, error)

	Logger *slog.Logger
}

// Pipeline emits tickets through the fallback chain.
type Pipeline struct {
	materialize func(*ticket.Document) ([]byte, error)
	logger      *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(config Config) *Pipeline {
	materialize := config.Materialize
	if materialize == nil {
		materialize = ticketpdf.Materialize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{materialize: materialize, logger: logger}
}

// Materialize prepares doc as an Artifact. It fails, with a
// RenderPrecondition error, only when there is no document to emit; a
// PDF that cannot be produced fails the stage that needs it instead.
func (p *Pipeline) Materialize(doc *ticket.Document) (*Artifact, error) {
	artifact, err := NewArtifact(doc, p.materialize)
	if err != nil {
		return nil, failure.New(failure.RenderPrecondition, "materialize ticket", err)
	}
	return artifact, nil
}

// Emit delivers doc through the first stage that succeeds.
func (p *Pipeline) Emit(ctx context.Context, doc *ticket.Document, capabilities Capabilities) (*Result, error) {
	artifact, err := p.Materialize(doc)
	if err != nil {
		return nil, err
	}
	return p.EmitArtifact(ctx, artifact, capabilities), nil
}

// EmitArtifact runs the fallback chain for an already materialized
// artifact. It always produces a result.
func (p *Pipeline) EmitArtifact(ctx context.Context, artifact *Artifact, capabilities Capabilities) *Result {
	result := &Result{ArtifactID: artifact.ID}
	logger := p.logger.With("ticket", artifact.Document.TicketNumber, "artifact", artifact.ShortID())

	if capabilities.NativePrint != nil {
		err := capabilities.NativePrint.Print(ctx, artifact)
		if err == nil {
			result.Outcome = Printed
			result.Detail = capabilities.NativePrint.Name()
			logger.Info("ticket printed", "printer", result.Detail)
			return result
		}
		p.recordFailure(logger, result, StagePrint, err)
	}

	if capabilities.FileExport != nil {
		location, err := capabilities.FileExport.Export(ctx, artifact)
		if err == nil {
			result.Outcome = Exported
			result.Detail = location
			logger.Info("ticket exported", "location", location)
			return result
		}
		p.recordFailure(logger, result, StageExport, err)
	}

	result.Outcome = TextFallback
	result.Detail = artifact.Document.PlainText(0)
	logger.Info("ticket shown as text", "failed_stages", len(result.Attempts))
	return result
}

// recordFailure classifies every stage error as a PrintFailure. The
// capability's own error, classified or not, stays reachable through
// Unwrap.
func (p *Pipeline) recordFailure(logger *slog.Logger, result *Result, stage string, err error) {
	cause := failure.KindOf(err)
	err = failure.New(failure.PrintFailure, stage+" ticket", err)
	result.Attempts = append(result.Attempts, Attempt{Stage: stage, Err: err})
	logger.Warn("output stage failed",
		"stage", stage,
		"error", err,
		"kind", failure.KindOf(err).String(),
		"cause", cause.String(),
	)
}
