// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/guregu/null.v4"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/codec"
	"github.com/bureau-foundation/parkir/lib/output"
	"github.com/bureau-foundation/parkir/lib/sqlitepool"
	"github.com/bureau-foundation/parkir/lib/ticket"
)

// Schema creates the journal table.
const Schema = `
CREATE TABLE IF NOT EXISTS journal (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket_number  TEXT NOT NULL,
	transaction_id INTEGER,
	outcome        TEXT NOT NULL,
	detail         TEXT NOT NULL,
	artifact_id    TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	document       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS journal_ticket_number ON journal (ticket_number, id);
`

// ErrNotFound is returned by Lookup for an unknown ticket number.
var ErrNotFound = errors.New("journal: ticket not found")

// Entry is one emitted ticket.
type Entry struct {
	ID            int64          `json:"id"`
	TicketNumber  string         `json:"ticket_number"`
	TransactionID null.Int       `json:"transaction_id"`
	Outcome       output.Outcome `json:"-"`
	OutcomeName   string         `json:"outcome"`
	Detail        string         `json:"detail"`
	ArtifactID    string         `json:"artifact_id"`
	CreatedAt     time.Time      `json:"created_at"`

	// Document is nil in List results; Lookup fills it.
	Document *ticket.Document `json:"-"`
}

// Config configures a Journal.
type Config struct {
	Pool        *sqlitepool.Pool
	Compression Compression
	Clock       clock.Clock
	Logger      *slog.Logger
}

// Journal is the emitted-ticket log.
type Journal struct {
	pool        *sqlitepool.Pool
	compression Compression
	clock       clock.Clock
	logger      *slog.Logger
}

// New wraps a pool opened with Schema.
func New(config Config) *Journal {
	j := &Journal{
		pool:        config.Pool,
		compression: config.Compression,
		clock:       config.Clock,
		logger:      config.Logger,
	}
	if j.clock == nil {
		j.clock = clock.Real()
	}
	if j.logger == nil {
		j.logger = slog.New(slog.DiscardHandler)
	}
	return j
}

// Append records an emission. Text-fallback details are stored whole
// so the operator can read the ticket back later.
func (j *Journal) Append(ctx context.Context, doc *ticket.Document, result *output.Result) (*Entry, error) {
	encoded, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("journal: encoding document: %w", err)
	}
	blob, tag, err := pack(encoded, j.compression)
	if err != nil {
		return nil, fmt.Errorf("journal: compressing document: %w", err)
	}

	entry := &Entry{
		TicketNumber:  doc.TicketNumber,
		TransactionID: doc.TransactionID,
		Outcome:       result.Outcome,
		OutcomeName:   result.Outcome.String(),
		Detail:        result.Detail,
		ArtifactID:    result.ArtifactID,
		CreatedAt:     j.clock.Now().UTC().Truncate(time.Millisecond),
		Document:      doc,
	}

	conn, err := j.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal: append: %w", err)
	}
	defer j.pool.Put(conn)

	var transactionID any
	if doc.TransactionID.Valid {
		transactionID = doc.TransactionID.Int64
	}
	err = sqlitex.Execute(conn, `
		INSERT INTO journal (ticket_number, transaction_id, outcome, detail, artifact_id, created_at, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			entry.TicketNumber, transactionID, entry.OutcomeName, entry.Detail,
			entry.ArtifactID, entry.CreatedAt.UnixMilli(), blob,
		}})
	if err != nil {
		return nil, fmt.Errorf("journal: append: %w", err)
	}
	entry.ID = conn.LastInsertRowID()

	j.logger.Debug("ticket journaled",
		"ticket", entry.TicketNumber,
		"outcome", entry.OutcomeName,
		"compression", tag.String(),
		"stored_bytes", len(blob),
		"document_bytes", len(encoded),
	)
	return entry, nil
}

// List returns the newest entries first, at most limit (all when
// limit <= 0). Documents are not decoded.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	conn, err := j.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer j.pool.Put(conn)

	if limit <= 0 {
		limit = -1
	}
	var entries []Entry
	err = sqlitex.Execute(conn, `
		SELECT id, ticket_number, transaction_id, outcome, detail, artifact_id, created_at
		FROM journal ORDER BY id DESC LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entry, err := scanEntry(stmt)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	return entries, nil
}

// Lookup returns the most recent entry for a ticket number with its
// document decoded.
func (j *Journal) Lookup(ctx context.Context, ticketNumber string) (*Entry, error) {
	conn, err := j.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal: lookup: %w", err)
	}
	defer j.pool.Put(conn)

	var (
		entry *Entry
		blob  []byte
	)
	err = sqlitex.Execute(conn, `
		SELECT id, ticket_number, transaction_id, outcome, detail, artifact_id, created_at, document
		FROM journal WHERE ticket_number = ? ORDER BY id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{ticketNumber},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				scanned, err := scanEntry(stmt)
				if err != nil {
					return err
				}
				entry = &scanned
				blob = make([]byte, stmt.ColumnLen(7))
				stmt.ColumnBytes(7, blob)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("journal: lookup %q: %w", ticketNumber, err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	encoded, err := unpack(blob)
	if err != nil {
		return nil, fmt.Errorf("journal: lookup %q: %w", ticketNumber, err)
	}
	var doc ticket.Document
	if err := codec.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("journal: decoding %q: %w", ticketNumber, err)
	}
	entry.Document = &doc
	return entry, nil
}

func scanEntry(stmt *sqlite.Stmt) (Entry, error) {
	entry := Entry{
		ID:           stmt.ColumnInt64(0),
		TicketNumber: stmt.ColumnText(1),
		OutcomeName:  stmt.ColumnText(3),
		Detail:       stmt.ColumnText(4),
		ArtifactID:   stmt.ColumnText(5),
		CreatedAt:    time.UnixMilli(stmt.ColumnInt64(6)).UTC(),
	}
	if stmt.ColumnType(2) != sqlite.TypeNull {
		entry.TransactionID = null.IntFrom(stmt.ColumnInt64(2))
	}
	outcome, err := output.ParseOutcome(entry.OutcomeName)
	if err != nil {
		return Entry{}, err
	}
	entry.Outcome = outcome
	return entry, nil
}
