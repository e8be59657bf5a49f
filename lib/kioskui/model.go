// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/gate"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

// Catalog loads the vehicle types. *parkingapi.Client satisfies it.
type Catalog interface {
	VehicleTypes(ctx context.Context) ([]parking.VehicleType, error)
}

// Issuer runs the issue flow. *gate.Service satisfies it.
type Issuer interface {
	Issue(ctx context.Context, vehicleType *parking.VehicleType, licensePlate string) (*gate.Receipt, error)
}

// Focus is the input region receiving keystrokes.
type Focus int

const (
	FocusFilter Focus = iota
	FocusList
	FocusPlate
)

// Tone colors the notice border.
type Tone int

const (
	ToneSuccess Tone = iota
	ToneWarning
	ToneError
)

// Notice is the message box below the form.
type Notice struct {
	failure.OperatorNotice
	Tone Tone
}

// Options configures a Model.
type Options struct {
	Catalog Catalog
	Issuer  Issuer

	// Operator is shown in the header when non-empty.
	Operator string

	// RequestTimeout bounds each command's context. Zero means no
	// bound beyond the client's own.
	RequestTimeout time.Duration

	Renderer *lipgloss.Renderer
	Theme    *Theme
	Keys     *KeyMap
	Logger   *slog.Logger
}

// Model is the kiosk screen.
type Model struct {
	catalog Catalog
	issuer  Issuer
	timeout time.Duration
	logger  *slog.Logger

	operator string
	keys     KeyMap
	styles   styles
	matcher  *Matcher

	types    []parking.VehicleType
	filtered []Match
	cursor   int
	loaded   bool

	focus  Focus
	filter textinput.Model
	plate  textinput.Model

	spinner spinner.Model
	busy    bool
	loading bool
	notice  *Notice

	width int
}

// vehicleTypesMsg carries a catalog load result. manual is set for a
// ctrl+r refresh so only that case announces success.
type vehicleTypesMsg struct {
	types  []parking.VehicleType
	err    error
	manual bool
}

// issuedMsg carries the result of one submission.
type issuedMsg struct {
	receipt *gate.Receipt
	err     error
}

// NewModel creates the kiosk screen.
func NewModel(options Options) Model {
	renderer := options.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	filter := textinput.New()
	filter.Placeholder = "Cari jenis kendaraan"
	filter.Prompt = "Cari: "
	filter.CharLimit = 32
	filter.Focus()

	plate := textinput.New()
	plate.Placeholder = "B 1234 ABC (opsional)"
	plate.Prompt = "Plat: "
	plate.CharLimit = 20

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		catalog:  options.Catalog,
		issuer:   options.Issuer,
		timeout:  options.RequestTimeout,
		logger:   logger,
		operator: options.Operator,
		keys:     keys,
		styles:   newStyles(renderer, theme),
		matcher:  NewMatcher(),
		focus:    FocusFilter,
		filter:   filter,
		plate:    plate,
		spinner:  spin,
		loading:  true,
	}
}

// Init loads the vehicle types.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, model.loadVehicleTypes(false), model.spinner.Tick)
}

// Busy reports whether a submission is in flight.
func (model Model) Busy() bool { return model.busy }

// Notice returns the current notice, or nil.
func (model Model) Notice() *Notice { return model.notice }

// Selected returns the highlighted vehicle type.
func (model Model) Selected() (parking.VehicleType, bool) {
	if model.cursor < 0 || model.cursor >= len(model.filtered) {
		return parking.VehicleType{}, false
	}
	return model.filtered[model.cursor].VehicleType, true
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		return model, nil

	case spinner.TickMsg:
		if !model.busy && !model.loading {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd

	case vehicleTypesMsg:
		return model.handleVehicleTypes(message), nil

	case issuedMsg:
		return model.handleIssued(message), nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Submit):
		return model.submit()

	case key.Matches(message, model.keys.Refresh):
		if model.loading {
			return model, nil
		}
		model.loading = true
		return model, tea.Batch(model.loadVehicleTypes(true), model.spinner.Tick)

	case key.Matches(message, model.keys.NextField):
		model.setFocus((model.focus + 1) % 3)
		return model, nil

	case key.Matches(message, model.keys.Dismiss):
		if model.notice != nil {
			model.notice = nil
		} else if model.filter.Value() != "" {
			model.filter.SetValue("")
			model.applyFilter()
		}
		return model, nil

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
		return model, nil

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.filtered)-1 {
			model.cursor++
		}
		return model, nil
	}

	var cmd tea.Cmd
	switch model.focus {
	case FocusFilter:
		before := model.filter.Value()
		model.filter, cmd = model.filter.Update(message)
		if model.filter.Value() != before {
			model.applyFilter()
		}
	case FocusPlate:
		model.plate, cmd = model.plate.Update(message)
	}
	return model, cmd
}

func (model *Model) setFocus(focus Focus) {
	model.focus = focus
	model.filter.Blur()
	model.plate.Blur()
	switch focus {
	case FocusFilter:
		model.filter.Focus()
	case FocusPlate:
		model.plate.Focus()
	}
}

func (model *Model) applyFilter() {
	var previous int64
	if selected, ok := model.Selected(); ok {
		previous = selected.ID
	}
	model.filtered = model.matcher.Filter(model.types, model.filter.Value())
	model.cursor = 0
	if model.filter.Value() != "" {
		return
	}
	for i, match := range model.filtered {
		if match.VehicleType.ID == previous {
			model.cursor = i
			return
		}
	}
}

func (model Model) submit() (tea.Model, tea.Cmd) {
	if model.busy {
		return model, nil
	}
	selected, ok := model.Selected()
	if !ok {
		model.notice = &Notice{
			OperatorNotice: failure.OperatorNotice{
				Title:   "Data Tidak Valid",
				Message: "Silakan pilih jenis kendaraan",
				Action:  failure.ActionFixInput,
			},
			Tone: ToneWarning,
		}
		return model, nil
	}

	model.busy = true
	model.notice = nil
	issuer, timeout, plate := model.issuer, model.timeout, model.plate.Value()
	issue := func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		receipt, err := issuer.Issue(ctx, &selected, plate)
		return issuedMsg{receipt: receipt, err: err}
	}
	return model, tea.Batch(issue, model.spinner.Tick)
}

func (model Model) loadVehicleTypes(manual bool) tea.Cmd {
	catalog, timeout := model.catalog, model.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		types, err := catalog.VehicleTypes(ctx)
		return vehicleTypesMsg{types: types, err: err, manual: manual}
	}
}

func (model Model) handleVehicleTypes(message vehicleTypesMsg) Model {
	model.loading = false
	if message.err != nil {
		model.logger.Warn("loading vehicle types failed", "error", message.err)
		model.notice = &Notice{OperatorNotice: failure.Notice(message.err), Tone: ToneError}
		return model
	}
	model.types = message.types
	model.loaded = true
	model.applyFilter()
	if message.manual {
		model.notice = &Notice{
			OperatorNotice: failure.OperatorNotice{
				Title:   "✅ Refresh Berhasil",
				Message: "Data jenis kendaraan telah diperbarui!",
			},
			Tone: ToneSuccess,
		}
	}
	return model
}

func (model Model) handleIssued(message issuedMsg) Model {
	model.busy = false
	if message.err != nil {
		model.logger.Warn("issue failed", "error", message.err, "kind", failure.KindOf(message.err).String())
		notice := failure.Notice(message.err)
		if message.receipt != nil && message.receipt.Record != nil && errors.Is(message.err, failure.RenderPreconditionError) {
			notice.Message = "Transaksi berhasil dibuat, tetapi tiket tidak dapat dibuat. Catat nomor kendaraan secara manual."
			notice.Action = failure.ActionRecordManually
		}
		model.notice = &Notice{OperatorNotice: notice, Tone: ToneError}
		return model
	}

	announcement := gate.Announcement(message.receipt)
	tone := ToneSuccess
	if len(message.receipt.Result.Attempts) > 0 {
		tone = ToneWarning
	}
	model.notice = &Notice{OperatorNotice: announcement, Tone: tone}
	model.plate.SetValue("")
	return model
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
