// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfdb

import "fmt"

// Validate checks the invariants listed in §3 that a freshly-loaded
// Device must satisfy.
func (d *Device) Validate() error {
	var total uint32
	for _, r := range d.Regions {
		total += r.Length
	}
	if total != d.BitstreamSize { // invariant 2
		return &IntegrityError{Reason: fmt.Sprintf(
			"bitstream_size = %d but regions sum to %d", d.BitstreamSize, total)}
	}

	for loc, b := range d.Tiles {
		ft, ok := d.TileFeatures(b)
		if !ok { // invariant 3
			return &IntegrityError{Reason: fmt.Sprintf("tile %v: no feature table for kind %q", loc, b.Kind)}
		}
		region, ok := d.Regions[b.RegionID] // invariant 3
		if !ok {
			return &IntegrityError{Reason: fmt.Sprintf("tile %v: region %d does not exist", loc, b.RegionID)}
		}
		if err := checkFootprint(loc, b.Offset, region, ft); err != nil { // invariant 1
			return err
		}
	}

	for loc, kinds := range d.Routing {
		for _, b := range kinds {
			ft, ok := d.RoutingFeatures(b)
			if !ok {
				return &IntegrityError{Reason: fmt.Sprintf("routing %v %q: no feature table", loc, b.Kind)}
			}
			region, ok := d.Regions[b.RegionID]
			if !ok {
				return &IntegrityError{Reason: fmt.Sprintf("routing %v %q: region %d does not exist", loc, b.Kind, b.RegionID)}
			}
			if err := checkFootprint(loc, b.Offset, region, ft); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkFootprint verifies invariant 1: offset + max_bit_index < region.length.
func checkFootprint(loc fmt.Stringer, offset uint32, region Region, ft FeatureTable) error {
	for name, feat := range ft {
		for idx, pattern := range feat.Patterns {
			max, ok := pattern.MaxIndex()
			if !ok {
				continue
			}
			if uint64(offset)+uint64(max) >= uint64(region.Length) {
				return &IntegrityError{Reason: fmt.Sprintf(
					"block %v feature %q[%d]: offset %d + max bit %d exceeds region %d length %d",
					loc, name, idx, offset, max, region.ID, region.Length)}
			}
		}
	}
	return nil
}
