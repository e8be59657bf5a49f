// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/guregu/null.v4"
)

// VehicleType is one entry of the server's tariff catalog. Fetched
// wholesale and never modified locally.
type VehicleType struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	FlatRate     int64       `json:"flat_rate"`
	PricePerHour null.Int    `json:"price_per_hour"`
	Description  null.String `json:"description"`
}

// Validate rejects catalog entries the kiosk cannot issue a ticket for.
func (v VehicleType) Validate() error {
	if v.ID <= 0 {
		return fmt.Errorf("vehicle type %q: id must be positive, got %d", v.Name, v.ID)
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("vehicle type %d: name is required", v.ID)
	}
	if v.FlatRate < 0 {
		return fmt.Errorf("vehicle type %d: flat_rate must be non-negative, got %d", v.ID, v.FlatRate)
	}
	return nil
}

// Ordering selects how a vehicle-type listing is presented. Exactly one
// policy applies to a listing.
type Ordering string

const (
	// OrderByID sorts by ascending identifier. This is the default and
	// matches the order the server is asked for.
	OrderByID Ordering = "id"

	// OrderMotorFirst lists names containing "motor" first, then the
	// rest, each group alphabetical ignoring case.
	OrderMotorFirst Ordering = "motor-first"
)

// ParseOrdering accepts the configuration spelling of an ordering.
// The empty string selects OrderByID.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(s) {
	case "", OrderByID:
		return OrderByID, nil
	case OrderMotorFirst:
		return OrderMotorFirst, nil
	}
	return "", fmt.Errorf("unknown vehicle ordering %q (want %q or %q)", s, OrderByID, OrderMotorFirst)
}

// Sort orders types in place according to the policy. Ties keep the
// identifier order so listings are stable across refreshes.
func (o Ordering) Sort(types []VehicleType) {
	switch o {
	case OrderMotorFirst:
		slices.SortStableFunc(types, func(a, b VehicleType) int {
			aMotor, bMotor := isMotor(a.Name), isMotor(b.Name)
			if aMotor != bMotor {
				if aMotor {
					return -1
				}
				return 1
			}
			if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return compareID(a, b)
		})
	default:
		slices.SortStableFunc(types, compareID)
	}
}

func isMotor(name string) bool {
	return strings.Contains(strings.ToLower(name), "motor")
}

func compareID(a, b VehicleType) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// FindVehicleType returns the entry with the given identifier.
func FindVehicleType(types []VehicleType, id int64) (VehicleType, bool) {
	for _, vehicleType := range types {
		if vehicleType.ID == id {
			return vehicleType, true
		}
	}
	return VehicleType{}, false
}
