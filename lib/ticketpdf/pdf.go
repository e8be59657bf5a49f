// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticketpdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/bureau-foundation/parkir/lib/ticket"
)

const fontFamily = "Helvetica"

// Type sizes in points, per line kind.
var fontSizes = map[ticket.LineKind]float64{
	ticket.KindHeading: 14,
	ticket.KindTitle:   12,
	ticket.KindInfo:    9,
	ticket.KindField:   10,
	ticket.KindAmount:  12,
	ticket.KindFooter:  8,
}

// lineHeight is the leading as a multiple of the font size.
const lineHeight = 1.3

// ErrOverflow is returned when the ticket content does not fit the
// page height.
var ErrOverflow = errors.New("ticket content exceeds page height")

// Materialize renders doc to PDF bytes.
func Materialize(doc *ticket.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("ticketpdf: nil document")
	}
	geometry := doc.Geometry
	if geometry == (ticket.Geometry{}) {
		geometry = ticket.Thermal58
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geometry.WidthPt, Ht: geometry.HeightPt},
	})
	pdf.SetMargins(geometry.MarginPt, geometry.MarginPt, geometry.MarginPt)
	pdf.SetAutoPageBreak(false, geometry.MarginPt)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)
	pdf.SetCreator("parkir", true)
	pdf.SetTitle(ticket.Title+" "+doc.TicketNumber, true)
	pdf.AddPage()

	layout := &layout{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		width:     geometry.WidthPt - 2*geometry.MarginPt,
		left:      geometry.MarginPt,
		bottom:    geometry.HeightPt - geometry.MarginPt,
	}
	for _, line := range doc.Lines {
		layout.line(line)
	}
	if layout.overflow {
		return nil, fmt.Errorf("ticketpdf: %w", ErrOverflow)
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("ticketpdf: writing pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

type layout struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	width     float64
	left      float64
	bottom    float64
	overflow  bool
}

func (l *layout) line(line ticket.Line) {
	switch line.Kind {
	case ticket.KindSeparator:
		l.dashedRule()
	case ticket.KindField:
		l.field(line)
	case ticket.KindAmount:
		l.amount(line)
	default:
		l.centered(line)
	}
	if l.pdf.GetY() > l.bottom {
		l.overflow = true
	}
}

func (l *layout) setFont(line ticket.Line) float64 {
	size := fontSizes[line.Kind]
	if size == 0 {
		size = 10
	}
	style := ""
	if line.Emphasis == ticket.EmphasisStrong {
		style = "B"
	}
	l.pdf.SetFont(fontFamily, style, size)
	return size * lineHeight
}

func (l *layout) centered(line ticket.Line) {
	height := l.setFont(line)
	l.pdf.SetX(l.left)
	l.pdf.MultiCell(l.width, height, l.translate(line.Text()), "", "C", false)
}

// field draws a bold label on the left and the value right-aligned in
// the same row. A value too wide for the remaining space wraps below
// the label.
func (l *layout) field(line ticket.Line) {
	height := l.setFont(line)
	label := l.translate(line.Label)
	value := l.translate(line.Value)

	l.pdf.SetFont(fontFamily, "B", fontSizes[ticket.KindField])
	labelWidth := l.pdf.GetStringWidth(label) + 4
	l.pdf.SetX(l.left)
	l.pdf.CellFormat(labelWidth, height, label, "", 0, "L", false, 0, "")

	l.pdf.SetFont(fontFamily, "", fontSizes[ticket.KindField])
	remaining := l.width - labelWidth
	if l.pdf.GetStringWidth(value) <= remaining {
		l.pdf.CellFormat(remaining, height, value, "", 1, "R", false, 0, "")
		return
	}
	l.pdf.Ln(height)
	l.pdf.SetX(l.left)
	l.pdf.MultiCell(l.width, height, value, "", "R", false)
}

// amount draws the tariff block: label and amount centered between
// dashed rules.
func (l *layout) amount(line ticket.Line) {
	l.dashedRule()
	height := l.setFont(line)
	l.pdf.SetX(l.left)
	l.pdf.MultiCell(l.width, height, l.translate(line.Text()), "", "C", false)
	l.dashedRule()
}

func (l *layout) dashedRule() {
	y := l.pdf.GetY() + 3
	l.pdf.SetLineWidth(0.5)
	l.pdf.SetDashPattern([]float64{2, 2}, 0)
	l.pdf.Line(l.left, y, l.left+l.width, y)
	l.pdf.SetDashPattern(nil, 0)
	l.pdf.SetY(y + 3)
}
