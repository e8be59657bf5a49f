// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package escpos

import (
	"bytes"
	"errors"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/encoding/charmap"

	"github.com/bureau-foundation/parkir/lib/ticket"
)

// Columns is the Font A line width of a 58 mm printer.
const Columns = 32

// Command bytes.
var (
	cmdInit        = []byte{0x1b, '@'}
	cmdCodePage858 = []byte{0x1b, 't', 19}
	cmdFeedAndCut  = []byte{0x1d, 'V', 66, 3}
)

func cmdAlign(align byte) []byte { return []byte{0x1b, 'a', align} }
func cmdBold(on bool) []byte     { return []byte{0x1b, 'E', boolByte(on)} }
func cmdSize(size byte) []byte   { return []byte{0x1d, '!', size} }
func cmdFeedLines(n byte) []byte { return []byte{0x1b, 'd', n} }
func boolByte(value bool) byte {
	if value {
		return 1
	}
	return 0
}

const (
	alignLeft   = 0
	alignCenter = 1

	sizeNormal     = 0x00
	sizeDoubleHigh = 0x01
)

// Encoder turns documents into printer bytes.
type Encoder struct {
	// Columns overrides the line width. Zero means Columns.
	Columns int

	// Cut appends a feed-and-partial-cut command after the ticket.
	Cut bool
}

// Encode renders doc with the default encoder (32 columns, cut).
func Encode(doc *ticket.Document) ([]byte, error) {
	return Encoder{Cut: true}.Encode(doc)
}

// Encode renders doc as an ESC/POS job.
func (e Encoder) Encode(doc *ticket.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("escpos: nil document")
	}
	columns := e.Columns
	if columns <= 0 {
		columns = Columns
	}

	w := &writer{encoder: charmap.CodePage858.NewEncoder()}
	w.raw(cmdInit)
	w.raw(cmdCodePage858)

	for _, line := range doc.Lines {
		switch line.Kind {
		case ticket.KindSeparator:
			w.raw(cmdAlign(alignLeft))
			w.text(strings.Repeat("-", columns))
		case ticket.KindField:
			w.raw(cmdAlign(alignLeft))
			for _, row := range splitRow(line.Label+":", line.Value, columns) {
				w.text(row)
			}
		default:
			w.raw(cmdAlign(alignCenter))
			strong := line.Emphasis == ticket.EmphasisStrong
			w.raw(cmdBold(strong))
			if line.Kind == ticket.KindHeading || line.Kind == ticket.KindAmount {
				w.raw(cmdSize(sizeDoubleHigh))
			}
			for _, row := range wrap(line.Text(), columns) {
				w.text(row)
			}
			w.raw(cmdSize(sizeNormal))
			w.raw(cmdBold(false))
		}
	}

	w.raw(cmdAlign(alignLeft))
	if e.Cut {
		w.raw(cmdFeedAndCut)
	} else {
		w.raw(cmdFeedLines(3))
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.buffer.Bytes(), nil
}

// splitRow lays out "label    value" in one row when it fits, and
// label on one row with the value right-aligned below when it does
// not.
func splitRow(label, value string, columns int) []string {
	gap := columns - ansi.StringWidth(label) - ansi.StringWidth(value)
	if gap >= 1 {
		return []string{label + strings.Repeat(" ", gap) + value}
	}
	rows := []string{label}
	for _, row := range wrap(value, columns) {
		if pad := columns - ansi.StringWidth(row); pad > 0 {
			row = strings.Repeat(" ", pad) + row
		}
		rows = append(rows, row)
	}
	return rows
}

func wrap(text string, columns int) []string {
	rows := strings.Split(ansi.Wrap(text, columns, " ,.;-/"), "\n")
	for index := range rows {
		rows[index] = strings.TrimRight(rows[index], " ")
	}
	return rows
}

type writer struct {
	buffer  bytes.Buffer
	encoder interface {
		String(string) (string, error)
	}
	err error
}

func (w *writer) raw(command []byte) {
	w.buffer.Write(command)
}

func (w *writer) text(row string) {
	encoded, err := w.encoder.String(replaceUnencodable(row))
	if err != nil && w.err == nil {
		w.err = err
		return
	}
	w.buffer.WriteString(encoded)
	w.buffer.WriteByte('\n')
}

// replaceUnencodable substitutes '?' for runes code page 858 cannot
// represent, so a stray emoji in a footer does not abort the job.
func replaceUnencodable(text string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := charmap.CodePage858.EncodeRune(r); !ok {
			return '?'
		}
		return r
	}, text)
}
