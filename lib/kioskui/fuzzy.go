// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"slices"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

var initAlgo sync.Once

// Match is a vehicle type that matched a query.
type Match struct {
	VehicleType parking.VehicleType
	Score       int
}

// Matcher ranks vehicle types against a query with fzf's scoring. Not
// safe for concurrent use; the slab is reused between calls.
type Matcher struct {
	slab *util.Slab
}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	initAlgo.Do(func() { algo.Init("default") })
	return &Matcher{slab: util.MakeSlab(16*1024, 2048)}
}

// Filter returns the types whose name matches query, best score first.
// Equal scores keep catalog order. An empty query matches everything
// with score zero.
func (m *Matcher) Filter(types []parking.VehicleType, query string) []Match {
	pattern := []rune(strings.ToLower(strings.TrimSpace(query)))
	matches := make([]Match, 0, len(types))
	for _, vehicleType := range types {
		if len(pattern) == 0 {
			matches = append(matches, Match{VehicleType: vehicleType})
			continue
		}
		chars := util.ToChars([]byte(vehicleType.Name))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, m.slab)
		if result.Start < 0 {
			continue
		}
		matches = append(matches, Match{VehicleType: vehicleType, Score: result.Score})
	}
	slices.SortStableFunc(matches, func(a, b Match) int { return b.Score - a.Score })
	return matches
}

// Resolve picks a single vehicle type for query: an exact
// case-insensitive name wins, then a unique best fuzzy match. ok is
// false when nothing matches or the best score is shared.
func (m *Matcher) Resolve(types []parking.VehicleType, query string) (parking.VehicleType, bool) {
	for _, vehicleType := range types {
		if strings.EqualFold(strings.TrimSpace(vehicleType.Name), strings.TrimSpace(query)) {
			return vehicleType, true
		}
	}
	matches := m.Filter(types, query)
	if len(matches) == 0 || strings.TrimSpace(query) == "" {
		return parking.VehicleType{}, false
	}
	if len(matches) > 1 && matches[1].Score == matches[0].Score {
		return parking.VehicleType{}, false
	}
	return matches[0].VehicleType, true
}
