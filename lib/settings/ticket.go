// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/jsonc"
)

// TicketSettingsVersion is the current schema version of TicketSettings.
// Increment when adding a field that older builds would drop on save.
const TicketSettingsVersion = 1

// TicketKey is the storage key of the ticket-presentation aggregate.
const TicketKey = "printer_settings"

// Length limits, in characters.
const (
	maxCompanyName = 50
	maxAddress     = 100
	maxPhone       = 50
	maxFooter      = 50
)

// TicketSettings is the ticket-presentation aggregate.
type TicketSettings struct {
	// Version is the schema version (see TicketSettingsVersion). Save
	// refuses to overwrite a stored record with a higher version.
	Version int `json:"version"`

	CompanyName    string `json:"companyName"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	FooterMessage1 string `json:"footerMessage1"`
	FooterMessage2 string `json:"footerMessage2"`
	FooterMessage3 string `json:"footerMessage3"`

	ShowDateTime     bool `json:"showDateTime"`
	ShowLicensePlate bool `json:"showLicensePlate"`
	ShowTariff       bool `json:"showTariff"`
	ShowTicketNumber bool `json:"showTicketNumber"`
}

// DefaultTicketSettings returns the first-run ticket copy.
func DefaultTicketSettings() TicketSettings {
	return TicketSettings{
		Version:          TicketSettingsVersion,
		CompanyName:      "MD MALL BLORA",
		Address:          "Jl. Raya Blora No. 123",
		Phone:            "Telp: (0296) 123456",
		FooterMessage1:   "Terima kasih",
		FooterMessage2:   "Simpan tiket ini",
		FooterMessage3:   "Tunjukkan saat keluar",
		ShowDateTime:     true,
		ShowLicensePlate: true,
		ShowTariff:       true,
		ShowTicketNumber: true,
	}
}

// Footers returns the non-empty footer lines in order.
func (s TicketSettings) Footers() []string {
	var footers []string
	for _, line := range []string{s.FooterMessage1, s.FooterMessage2, s.FooterMessage3} {
		if strings.TrimSpace(line) != "" {
			footers = append(footers, line)
		}
	}
	return footers
}

// Validate checks length limits and required fields. All problems are
// joined into one error.
func (s TicketSettings) Validate() error {
	var errs []error
	if s.Version < 1 {
		errs = append(errs, fmt.Errorf("version must be >= 1, got %d", s.Version))
	}
	if strings.TrimSpace(s.CompanyName) == "" {
		errs = append(errs, errors.New("companyName is required"))
	}
	for _, check := range []struct {
		field string
		value string
		limit int
	}{
		{"companyName", s.CompanyName, maxCompanyName},
		{"address", s.Address, maxAddress},
		{"phone", s.Phone, maxPhone},
		{"footerMessage1", s.FooterMessage1, maxFooter},
		{"footerMessage2", s.FooterMessage2, maxFooter},
		{"footerMessage3", s.FooterMessage3, maxFooter},
	} {
		if n := utf8.RuneCountInString(check.value); n > check.limit {
			errs = append(errs, fmt.Errorf("%s is %d characters, limit is %d", check.field, n, check.limit))
		}
	}
	return errors.Join(errs...)
}

// CanModify reports whether this build may overwrite the record without
// losing fields it does not know about.
func (s TicketSettings) CanModify() error {
	if s.Version > TicketSettingsVersion {
		return fmt.Errorf(
			"ticket settings version %d exceeds supported version %d: "+
				"saving would lose fields added in newer versions; "+
				"upgrade before modifying these settings",
			s.Version, TicketSettingsVersion,
		)
	}
	return nil
}

// ticketFields maps each editable field name to a setter. The names are
// the JSON names so "settings set" and import files agree.
var ticketFields = map[string]func(*TicketSettings, string) error{
	"companyName":      func(s *TicketSettings, v string) error { s.CompanyName = v; return nil },
	"address":          func(s *TicketSettings, v string) error { s.Address = v; return nil },
	"phone":            func(s *TicketSettings, v string) error { s.Phone = v; return nil },
	"footerMessage1":   func(s *TicketSettings, v string) error { s.FooterMessage1 = v; return nil },
	"footerMessage2":   func(s *TicketSettings, v string) error { s.FooterMessage2 = v; return nil },
	"footerMessage3":   func(s *TicketSettings, v string) error { s.FooterMessage3 = v; return nil },
	"showDateTime":     boolSetter(func(s *TicketSettings) *bool { return &s.ShowDateTime }),
	"showLicensePlate": boolSetter(func(s *TicketSettings) *bool { return &s.ShowLicensePlate }),
	"showTariff":       boolSetter(func(s *TicketSettings) *bool { return &s.ShowTariff }),
	"showTicketNumber": boolSetter(func(s *TicketSettings) *bool { return &s.ShowTicketNumber }),
}

func boolSetter(field func(*TicketSettings) *bool) func(*TicketSettings, string) error {
	return func(s *TicketSettings, v string) error {
		switch strings.ToLower(v) {
		case "ya", "on", "tampil":
			*field(s) = true
			return nil
		case "tidak", "off", "sembunyi":
			*field(s) = false
			return nil
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected a boolean, got %q", v)
		}
		*field(s) = parsed
		return nil
	}
}

// SetField assigns one field by its JSON name.
func (s *TicketSettings) SetField(name, value string) error {
	setter, ok := ticketFields[name]
	if !ok {
		return fmt.Errorf("unknown ticket setting %q (known: %s)", name, strings.Join(TicketFieldNames(), ", "))
	}
	if err := setter(s, value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// TicketFieldNames lists the editable field names, sorted.
func TicketFieldNames() []string {
	names := make([]string, 0, len(ticketFields))
	for name := range ticketFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTicketSettings reads a JSONC document (comments and trailing
// commas allowed) over the defaults. Fields the document omits keep
// their default values. The result is validated.
func ParseTicketSettings(data []byte) (TicketSettings, error) {
	parsed := DefaultTicketSettings()
	if err := json.Unmarshal(jsonc.ToJSON(data), &parsed); err != nil {
		return TicketSettings{}, fmt.Errorf("parsing ticket settings: %w", err)
	}
	if parsed.Version == 0 {
		parsed.Version = TicketSettingsVersion
	}
	if err := parsed.Validate(); err != nil {
		return TicketSettings{}, err
	}
	return parsed, nil
}
