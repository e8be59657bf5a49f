// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the kiosk key bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// NextField cycles focus: filter, list, plate.
	NextField key.Binding

	Submit  key.Binding
	Refresh key.Binding

	// Dismiss clears the notice, or the filter when no notice is shown.
	Dismiss key.Binding

	Quit key.Binding
}

// DefaultKeyMap avoids printable keys outside the text fields so a
// plate can contain any letter.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "naik"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "turun"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "pindah kolom"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "buat tiket"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "muat ulang"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "tutup"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "keluar"),
	),
}
