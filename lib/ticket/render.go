// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/settings"
)

// Title is the fixed line under the company name.
const Title = "TIKET PARKIR"

// NumberPrefix starts every derived ticket number.
const NumberPrefix = "PKR"

// Row labels.
const (
	LabelTicketNumber = "No. Tiket"
	LabelDate         = "Tanggal"
	LabelTime         = "Waktu"
	LabelVehicle      = "Kendaraan"
	LabelPlate        = "Plat"
	LabelTariff       = "Tarif"
)

// Input is everything a ticket depends on.
type Input struct {
	Transaction  *parking.TransactionRecord
	VehicleType  *parking.VehicleType
	LicensePlate string
	Settings     settings.TicketSettings

	// Now is the issue time, already in the zone the ticket is printed
	// for.
	Now time.Time

	// Locale defaults to Indonesian when unset.
	Locale Locale

	// Geometry defaults to Thermal58 when zero.
	Geometry Geometry
}

// Render builds the ticket document. It fails only with a
// RenderPrecondition error when the transaction or vehicle type is
// missing.
func Render(input Input) (*Document, error) {
	if input.Transaction == nil {
		return nil, failure.New(failure.RenderPrecondition, "render ticket", errors.New("transaction is missing"))
	}
	if input.VehicleType == nil {
		return nil, failure.New(failure.RenderPrecondition, "render ticket", errors.New("vehicle type is missing"))
	}

	locale := input.Locale
	if locale.StampLayout == "" {
		locale = Indonesian
	}
	geometry := input.Geometry
	if geometry == (Geometry{}) {
		geometry = Thermal58
	}
	s := input.Settings
	plate := strings.TrimSpace(input.LicensePlate)
	number := TicketNumber(input.Transaction, input.Now)

	var b builder
	b.add(KindHeading, "", s.CompanyName, AlignCenter, EmphasisStrong)
	b.add(KindTitle, "", Title, AlignCenter, EmphasisStrong)
	b.addIfText(KindInfo, s.Address)
	b.addIfText(KindInfo, s.Phone)
	b.separator()

	if s.ShowTicketNumber {
		b.field(LabelTicketNumber, number)
	}
	if s.ShowDateTime {
		b.field(LabelDate, locale.Date(input.Now))
		b.field(LabelTime, locale.Time(input.Now))
	}
	b.field(LabelVehicle, input.VehicleType.Name)
	if s.ShowLicensePlate && plate != "" {
		b.field(LabelPlate, plate)
	}
	if s.ShowTariff {
		b.add(KindAmount, LabelTariff, locale.Currency(input.VehicleType.FlatRate), AlignCenter, EmphasisStrong)
	}
	b.separator()

	for _, footer := range s.Footers() {
		b.add(KindFooter, "", footer, AlignCenter, EmphasisFine)
	}
	if s.ShowDateTime {
		b.add(KindFooter, "", locale.Stamp(input.Now), AlignCenter, EmphasisFine)
	}

	return &Document{
		TicketNumber:  number,
		TransactionID: input.Transaction.ID,
		VehicleType:   input.VehicleType.Name,
		LicensePlate:  plate,
		IssuedAt:      input.Now,
		Lines:         b.lines,
		Geometry:      geometry,
	}, nil
}

// TicketNumber resolves the printed number: an explicit server field,
// else the prefix and the zero-padded six-digit transaction ID, else
// the prefix and the last six digits of now in Unix milliseconds.
func TicketNumber(record *parking.TransactionRecord, now time.Time) string {
	if explicit := record.ExplicitTicketNumber(); explicit != "" {
		return explicit
	}
	if record.ID.Valid && record.ID.Int64 >= 0 {
		return fmt.Sprintf("%s%06d", NumberPrefix, record.ID.Int64)
	}
	return fmt.Sprintf("%s%06d", NumberPrefix, now.UnixMilli()%1_000_000)
}

type builder struct {
	lines []Line
}

func (b *builder) add(kind LineKind, label, value string, align Align, emphasis Emphasis) {
	b.lines = append(b.lines, Line{Kind: kind, Label: label, Value: value, Align: align, Emphasis: emphasis})
}

func (b *builder) addIfText(kind LineKind, value string) {
	if strings.TrimSpace(value) != "" {
		b.add(kind, "", value, AlignCenter, EmphasisFine)
	}
}

func (b *builder) field(label, value string) {
	b.add(KindField, label, value, AlignSplit, EmphasisRegular)
}

func (b *builder) separator() {
	b.lines = append(b.lines, Line{Kind: KindSeparator, Align: AlignCenter})
}
