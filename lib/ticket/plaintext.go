// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// separatorWidth is used for rules when no width is given.
const separatorWidth = 32

// PlainText serializes the document as text.
//
// With width > 0 lines are centered or wrapped to that many display
// columns. With width <= 0 every line is emitted whole and unpadded,
// which is the form shown to an operator who must copy the ticket by
// hand: no value is ever split across lines. Labelled rows always read
// "Label: Value".
func (d *Document) PlainText(width int) string {
	var b strings.Builder
	for _, line := range d.Lines {
		for _, row := range layoutLine(line, width) {
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func layoutLine(line Line, width int) []string {
	if line.Kind == KindSeparator {
		if width <= 0 {
			return []string{strings.Repeat("-", separatorWidth)}
		}
		return []string{strings.Repeat("-", width)}
	}

	text := line.Text()
	if width <= 0 {
		return []string{text}
	}

	rows := strings.Split(ansi.Wrap(text, width, " ,.;-/"), "\n")
	for index, row := range rows {
		row = strings.TrimRight(row, " ")
		if line.Align == AlignCenter {
			row = center(row, width)
		}
		rows[index] = row
	}
	return rows
}

func center(text string, width int) string {
	gap := width - ansi.StringWidth(text)
	if gap <= 1 {
		return text
	}
	return strings.Repeat(" ", gap/2) + text
}
