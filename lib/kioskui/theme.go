// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the kiosk palette. Colors are ANSI 256 codes so the screen
// looks the same on the cheap terminals kiosks tend to run.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	SuccessBorder lipgloss.Color
	WarningBorder lipgloss.Color
	ErrorBorder   lipgloss.Color
}

// DefaultTheme is used when Options.Theme is nil.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("25"),
	SelectedForeground: lipgloss.Color("231"),
	HeaderForeground:   lipgloss.Color("39"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("245"),
	SuccessBorder:      lipgloss.Color("34"),
	WarningBorder:      lipgloss.Color("214"),
	ErrorBorder:        lipgloss.Color("160"),
}

// styles are the theme's lipgloss styles bound to one renderer.
type styles struct {
	header   lipgloss.Style
	faint    lipgloss.Style
	normal   lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	help     lipgloss.Style
	notice   lipgloss.Style
	theme    Theme
}

// NewRenderer returns a lipgloss renderer for w pinned to profile.
// The kiosk passes termenv.EnvColorProfile(); tests pass termenv.Ascii
// for stable output.
func NewRenderer(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return renderer
}

func newStyles(renderer *lipgloss.Renderer, theme Theme) styles {
	return styles{
		header:   renderer.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		faint:    renderer.NewStyle().Foreground(theme.FaintText),
		normal:   renderer.NewStyle().Foreground(theme.NormalText),
		selected: renderer.NewStyle().Bold(true).Background(theme.SelectedBackground).Foreground(theme.SelectedForeground),
		label:    renderer.NewStyle().Bold(true).Foreground(theme.NormalText),
		help:     renderer.NewStyle().Foreground(theme.HelpText),
		notice:   renderer.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		theme:    theme,
	}
}
