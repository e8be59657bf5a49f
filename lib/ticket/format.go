// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale carries the formats a ticket is printed with. Labels stay in
// Indonesian regardless of locale; only numbers and dates change.
type Locale struct {
	Tag            language.Tag
	CurrencyPrefix string
	DateLayout     string
	TimeLayout     string
	StampLayout    string
}

// Indonesian is the default locale: "23/07/2025", "14.30", "Rp 2.000".
var Indonesian = Locale{
	Tag:            language.Indonesian,
	CurrencyPrefix: "Rp",
	DateLayout:     "02/01/2006",
	TimeLayout:     "15.04",
	StampLayout:    "02/01/2006, 15.04",
}

// English formats for kiosks configured with an English locale.
var English = Locale{
	Tag:            language.English,
	CurrencyPrefix: "IDR",
	DateLayout:     "01/02/2006",
	TimeLayout:     "03:04 PM",
	StampLayout:    "01/02/2006, 03:04 PM",
}

// LocaleFor returns the locale for a BCP 47 tag, falling back to
// Indonesian.
func LocaleFor(tag string) Locale {
	parsed, err := language.Parse(tag)
	if err != nil {
		return Indonesian
	}
	base, _ := parsed.Base()
	englishBase, _ := language.English.Base()
	if base == englishBase {
		return English
	}
	return Indonesian
}

// Currency formats a whole-rupiah amount with locale grouping and no
// fractional digits.
func (l Locale) Currency(amount int64) string {
	return l.CurrencyPrefix + " " + message.NewPrinter(l.Tag).Sprintf("%d", amount)
}

// Date formats the calendar date.
func (l Locale) Date(t time.Time) string { return t.Format(l.DateLayout) }

// Time formats the wall-clock time to the minute.
func (l Locale) Time(t time.Time) string { return t.Format(l.TimeLayout) }

// Stamp formats the combined footer date-time.
func (l Locale) Stamp(t time.Time) string { return t.Format(l.StampLayout) }
