// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/journal"
	"github.com/bureau-foundation/parkir/lib/output"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/settings"
	"github.com/bureau-foundation/parkir/lib/ticket"
)

// Transactions creates parking transactions. *parkingapi.Client
// satisfies it.
type Transactions interface {
	CreateTransaction(ctx context.Context, transaction parking.ParkingTransaction) (*parking.TransactionRecord, error)
}

// TicketSettings supplies the ticket copy. *settings.Store satisfies
// it.
type TicketSettings interface {
	Ticket(ctx context.Context) settings.TicketSettings
}

// Emitter delivers documents. *output.Pipeline satisfies it.
type Emitter interface {
	Emit(ctx context.Context, doc *ticket.Document, capabilities output.Capabilities) (*output.Result, error)
}

// Journal records emissions. *journal.Journal satisfies it.
type Journal interface {
	Append(ctx context.Context, doc *ticket.Document, result *output.Result) (*journal.Entry, error)
	Lookup(ctx context.Context, ticketNumber string) (*journal.Entry, error)
}

// Config configures a Service.
type Config struct {
	Transactions Transactions
	Settings     TicketSettings
	Emitter      Emitter
	Capabilities output.Capabilities

	// Journal is optional.
	Journal Journal

	Clock    clock.Clock
	Locale   ticket.Locale
	Location *time.Location
	Geometry ticket.Geometry
	Logger   *slog.Logger
}

// Service runs the issue flow.
type Service struct {
	transactions Transactions
	settings     TicketSettings
	emitter      Emitter
	capabilities output.Capabilities
	journal      Journal
	clock        clock.Clock
	locale       ticket.Locale
	location     *time.Location
	geometry     ticket.Geometry
	logger       *slog.Logger
}

// New creates a Service.
func New(config Config) *Service {
	s := &Service{
		transactions: config.Transactions,
		settings:     config.Settings,
		emitter:      config.Emitter,
		capabilities: config.Capabilities,
		journal:      config.Journal,
		clock:        config.Clock,
		locale:       config.Locale,
		location:     config.Location,
		geometry:     config.Geometry,
		logger:       config.Logger,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Capabilities returns the output capabilities tickets are sent to.
func (s *Service) Capabilities() output.Capabilities { return s.capabilities }

// Receipt is the outcome of a successful or partially successful
// issue.
type Receipt struct {
	// Record is set once the server has created the transaction, even
	// when a later step fails.
	Record *parking.TransactionRecord

	// TicketNumber is fixed as soon as Record is set, from the same
	// instant the document is rendered with.
	TicketNumber string

	Document *ticket.Document
	Result   *output.Result

	// JournalID is zero when the journal is disabled or the append
	// failed.
	JournalID int64
}

// Issue creates a transaction for vehicleType and delivers its ticket.
//
// Errors before the server call (validation) and from the server call
// are returned with a nil receipt. A render failure after the
// transaction exists returns a receipt carrying the record and its
// ticket number together with a RenderPrecondition error, so the
// caller can have the ticket recorded instead of a second transaction.
func (s *Service) Issue(ctx context.Context, vehicleType *parking.VehicleType, licensePlate string) (*Receipt, error) {
	if vehicleType == nil || vehicleType.ID <= 0 {
		return nil, failure.Invalid(failure.OpCreateTransaction, map[string]string{
			"vehicle_type_id": "Silakan pilih jenis kendaraan",
		})
	}
	request := parking.NewParkingTransaction(vehicleType.ID, licensePlate)
	if problems := request.Validate(); len(problems) > 0 {
		return nil, failure.Invalid(failure.OpCreateTransaction, problems)
	}

	record, err := s.transactions.CreateTransaction(ctx, request)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("vehicle_type", vehicleType.Name, "transaction_id", record.ID.Int64)
	logger.Info("transaction created")

	now := s.clock.Now().In(s.location)
	receipt := &Receipt{Record: record, TicketNumber: ticket.TicketNumber(record, now)}
	doc, err := ticket.Render(ticket.Input{
		Transaction:  record,
		VehicleType:  vehicleType,
		LicensePlate: request.LicensePlate,
		Settings:     s.settings.Ticket(ctx),
		Now:          now,
		Locale:       s.locale,
		Geometry:     s.geometry,
	})
	if err != nil {
		return receipt, err
	}
	receipt.Document = doc

	if err := s.deliver(ctx, logger, receipt); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// Reprint re-emits a journaled ticket. The stored document is used as
// is; nothing is sent to the server.
func (s *Service) Reprint(ctx context.Context, ticketNumber string) (*Receipt, error) {
	if s.journal == nil {
		return nil, failure.Newf(failure.NotFound, "reprint", "journal is disabled")
	}
	entry, err := s.journal.Lookup(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return nil, failure.New(failure.NotFound, "reprint", err)
		}
		return nil, fmt.Errorf("looking up ticket %s: %w", ticketNumber, err)
	}

	receipt := &Receipt{Document: entry.Document, TicketNumber: entry.Document.TicketNumber}
	logger := s.logger.With("reprint", true, "transaction_id", entry.TransactionID.Int64)
	if err := s.deliver(ctx, logger, receipt); err != nil {
		return receipt, err
	}
	return receipt, nil
}

func (s *Service) deliver(ctx context.Context, logger *slog.Logger, receipt *Receipt) error {
	result, err := s.emitter.Emit(ctx, receipt.Document, s.capabilities)
	if err != nil {
		logger.Error("ticket could not be materialized", "ticket", receipt.Document.TicketNumber, "error", err)
		return err
	}
	receipt.Result = result

	if s.journal != nil {
		entry, err := s.journal.Append(ctx, receipt.Document, result)
		if err != nil {
			logger.Warn("journal append failed", "ticket", receipt.Document.TicketNumber, "error", err)
		} else {
			receipt.JournalID = entry.ID
		}
	}
	return nil
}
