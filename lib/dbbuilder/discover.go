// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"fmt"
	"sort"
	"strings"
)

// locBits is one block instance's bits, sorted by local name as §4.G
// requires before pattern comparison.
type locBits struct {
	Loc      gridLoc
	RegionID uint32
	Offset   uint32 // absolute bit_id of the block's first bit
	Bits     []bitRef
}

// normalizedEntry is one (relative-offset, local-name) pair of a
// block's normalized bit layout.
type normalizedEntry struct {
	Rel  uint32
	Name string
}

// discoveredSet is one repeating segbit-set: every location sharing an
// identical normalized bit layout, plus that layout.
type discoveredSet struct {
	Pattern []normalizedEntry
	Locs    []locBits
}

// groupLocation reduces one (kind, loc) group's raw bit refs to a
// locBits, enforcing the per-block-kind region-consistency invariant.
func groupLocation(loc gridLoc, bits []bitRef) (locBits, error) {
	sorted := append([]bitRef(nil), bits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LocalName < sorted[j].LocalName })

	region := sorted[0].RegionID
	offset := sorted[0].BitID
	for _, b := range sorted[1:] {
		if b.RegionID != region {
			return locBits{}, &IntegrityError{Reason: fmt.Sprintf("block at (%d,%d) spans regions %d and %d", loc.X, loc.Y, region, b.RegionID)}
		}
		if b.BitID < offset {
			offset = b.BitID
		}
	}
	return locBits{Loc: loc, RegionID: region, Offset: offset, Bits: sorted}, nil
}

func normalize(lb locBits) []normalizedEntry {
	out := make([]normalizedEntry, len(lb.Bits))
	for i, b := range lb.Bits {
		out[i] = normalizedEntry{Rel: b.BitID - lb.Offset, Name: b.LocalName}
	}
	return out
}

func patternKey(p []normalizedEntry) string {
	var sb strings.Builder
	for _, e := range p {
		fmt.Fprintf(&sb, "%d:%s;", e.Rel, e.Name)
	}
	return sb.String()
}

// discoverSets runs the seed-and-scan algorithm of §4.G over one
// block kind's locations, grouping them into repeating segbit sets.
func discoverSets(locGroups map[gridLoc][]bitRef) ([]discoveredSet, error) {
	remaining := make([]locBits, 0, len(locGroups))
	for loc, bits := range locGroups {
		lb, err := groupLocation(loc, bits)
		if err != nil {
			return nil, err
		}
		remaining = append(remaining, lb)
	}
	// Deterministic seed order, so discovery (and so variant numbering)
	// doesn't depend on map iteration order.
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Loc.Y != remaining[j].Loc.Y {
			return remaining[i].Loc.Y < remaining[j].Loc.Y
		}
		return remaining[i].Loc.X < remaining[j].Loc.X
	})

	var sets []discoveredSet
	for len(remaining) > 0 {
		seed := remaining[0]
		seedPattern := normalize(seed)
		seedKey := patternKey(seedPattern)

		var claimed []locBits
		var rest []locBits
		for _, lb := range remaining {
			if patternKey(normalize(lb)) == seedKey {
				claimed = append(claimed, lb)
			} else {
				rest = append(rest, lb)
			}
		}
		sets = append(sets, discoveredSet{Pattern: seedPattern, Locs: claimed})
		remaining = rest
	}
	return sets, nil
}
