// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// LineKind says what a line is, which decides how serializers lay it
// out.
type LineKind int

const (
	// KindHeading is the company name.
	KindHeading LineKind = iota + 1
	// KindTitle is the fixed "TIKET PARKIR" title.
	KindTitle
	// KindInfo is an address or phone line under the header.
	KindInfo
	// KindSeparator is a dashed rule. Label and Value are empty.
	KindSeparator
	// KindField is a label/value row of the body table.
	KindField
	// KindAmount is the tariff block.
	KindAmount
	// KindFooter is a footer message or the footer date-time stamp.
	KindFooter
)

var lineKindNames = map[LineKind]string{
	KindHeading:   "heading",
	KindTitle:     "title",
	KindInfo:      "info",
	KindSeparator: "separator",
	KindField:     "field",
	KindAmount:    "amount",
	KindFooter:    "footer",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Align is the horizontal placement of a line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	// AlignSplit puts the label on the left and the value on the right.
	AlignSplit
)

// Emphasis is the typographic weight of a line.
type Emphasis int

const (
	EmphasisRegular Emphasis = iota
	EmphasisStrong
	EmphasisFine
)

// Line is one row of the ticket. Lines without a label carry their text
// in Value.
type Line struct {
	Kind     LineKind `cbor:"kind"`
	Label    string   `cbor:"label,omitempty"`
	Value    string   `cbor:"value,omitempty"`
	Align    Align    `cbor:"align"`
	Emphasis Emphasis `cbor:"emphasis"`
}

// Text returns the line as one string: "Label: Value" for labelled
// lines, Value otherwise.
func (l Line) Text() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

// Geometry is the physical page a document is laid out for, in PDF
// points.
type Geometry struct {
	WidthPt  float64 `cbor:"width_pt"`
	HeightPt float64 `cbor:"height_pt"`
	MarginPt float64 `cbor:"margin_pt"`
	// Columns is the character width of the printer's default font at
	// this paper width.
	Columns int `cbor:"columns"`
}

// Thermal58 is a 58 mm roll: 168 pt wide, a generous 400 pt tall so
// nothing is clipped, 8 pt margins, 32 columns in Font A.
var Thermal58 = Geometry{WidthPt: 168, HeightPt: 400, MarginPt: 8, Columns: 32}

// Document is a rendered ticket.
type Document struct {
	// TicketNumber is never empty.
	TicketNumber string `cbor:"ticket_number"`

	// TransactionID is the server identifier, when one was returned.
	TransactionID null.Int `cbor:"transaction_id"`

	VehicleType  string    `cbor:"vehicle_type"`
	LicensePlate string    `cbor:"license_plate,omitempty"`
	IssuedAt     time.Time `cbor:"issued_at"`

	Lines    []Line   `cbor:"lines"`
	Geometry Geometry `cbor:"geometry"`
}

// Fields returns the label/value rows, in order.
func (d *Document) Fields() []Line {
	var fields []Line
	for _, line := range d.Lines {
		if line.Kind == KindField || line.Kind == KindAmount {
			fields = append(fields, line)
		}
	}
	return fields
}

// Field returns the value of the labelled row, if present.
func (d *Document) Field(label string) (string, bool) {
	for _, line := range d.Lines {
		if line.Label == label {
			return line.Value, true
		}
	}
	return "", false
}
