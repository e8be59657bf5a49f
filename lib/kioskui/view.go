// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/parkir/lib/ticket"
)

const (
	defaultWidth = 48

	// maxListRows keeps the form on a small screen; the filter narrows
	// longer catalogs.
	maxListRows = 8
)

// View renders the screen.
func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = defaultWidth
	}
	var sections []string

	header := model.styles.header.Render(ticket.Title)
	if model.operator != "" {
		header += model.styles.faint.Render("  " + model.operator)
	}
	sections = append(sections, header, "")

	sections = append(sections, model.filter.View())
	sections = append(sections, model.listView(width)...)
	sections = append(sections, "", model.plate.View(), "")

	switch {
	case model.busy:
		sections = append(sections, model.spinner.View()+" Memproses transaksi...")
	case model.loading:
		sections = append(sections, model.spinner.View()+" Memuat jenis kendaraan...")
	}

	if model.notice != nil {
		sections = append(sections, model.noticeView(width))
	}

	sections = append(sections, "", model.helpView())
	return strings.Join(sections, "\n")
}

func (model Model) listView(width int) []string {
	if !model.loaded {
		return nil
	}
	if len(model.filtered) == 0 {
		return []string{model.styles.faint.Render("  Tidak ada jenis kendaraan yang cocok")}
	}

	start := 0
	if model.cursor >= maxListRows {
		start = model.cursor - maxListRows + 1
	}
	end := min(start+maxListRows, len(model.filtered))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		vehicleType := model.filtered[i].VehicleType
		tariff := ticket.Indonesian.Currency(vehicleType.FlatRate)
		gap := max(1, width-4-ansi.StringWidth(vehicleType.Name)-ansi.StringWidth(tariff))
		row := vehicleType.Name + strings.Repeat(" ", gap) + tariff
		if i == model.cursor && model.focus != FocusPlate {
			rows = append(rows, "> "+model.styles.selected.Render(row))
		} else if i == model.cursor {
			rows = append(rows, "> "+model.styles.label.Render(row))
		} else {
			rows = append(rows, "  "+model.styles.normal.Render(row))
		}
	}
	return rows
}

func (model Model) noticeView(width int) string {
	border := model.styles.theme.SuccessBorder
	switch model.notice.Tone {
	case ToneWarning:
		border = model.styles.theme.WarningBorder
	case ToneError:
		border = model.styles.theme.ErrorBorder
	}
	body := model.styles.label.Render(model.notice.Title) + "\n" + model.notice.Message
	if model.notice.Action != "" {
		body += "\n\n" + model.styles.faint.Render("→ "+model.notice.ActionLabel())
	}
	return model.styles.notice.BorderForeground(border).Width(max(20, width-2)).Render(body)
}

func (model Model) helpView() string {
	bindings := []key.Binding{
		model.keys.NextField, model.keys.Submit, model.keys.Refresh, model.keys.Dismiss, model.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", help.Key, help.Desc))
	}
	return model.styles.help.Render(strings.Join(parts, " · "))
}
