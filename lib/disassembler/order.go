// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package disassembler

import (
	"fmt"
	"sort"

	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// orderedBlocks returns every tile and routing instance of dev in the
// deterministic disassembly order: tiles row-major by (y, x), then
// routing blocks likewise, ties within a location broken by kind name.
func orderedBlocks(dev *qlfdb.Device) ([]block, error) {
	var out []block

	tileLocs := make([]qlfdb.GridLoc, 0, len(dev.Tiles))
	for loc := range dev.Tiles {
		tileLocs = append(tileLocs, loc)
	}
	sortLocs(tileLocs)
	for _, loc := range tileLocs {
		t := dev.Tiles[loc]
		ft, ok := dev.TileFeatures(t)
		if !ok {
			return nil, fmt.Errorf("no feature table for tile kind %q", t.Kind)
		}
		region, ok := dev.Regions[t.RegionID]
		if !ok {
			return nil, fmt.Errorf("tile at %v references unknown region %d", loc, t.RegionID)
		}
		out = append(out, block{
			Loc:      loc,
			Tag:      fmt.Sprintf("grid_%s_%d__%d_", t.Kind, loc.X, loc.Y),
			Features: ft,
			Region:   region,
			Offset:   t.Offset,
		})
	}

	routingLocs := make([]qlfdb.GridLoc, 0, len(dev.Routing))
	for loc := range dev.Routing {
		routingLocs = append(routingLocs, loc)
	}
	sortLocs(routingLocs)
	for _, loc := range routingLocs {
		kinds := make([]string, 0, len(dev.Routing[loc]))
		for kind := range dev.Routing[loc] {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			r := dev.Routing[loc][kind]
			ft, ok := dev.RoutingFeatures(r)
			if !ok {
				return nil, fmt.Errorf("no feature table for routing %q variant %d", kind, r.Variant)
			}
			region, ok := dev.Regions[r.RegionID]
			if !ok {
				return nil, fmt.Errorf("routing block %q at %v references unknown region %d", kind, loc, r.RegionID)
			}
			out = append(out, block{
				Loc:      loc,
				Tag:      fmt.Sprintf("%s_%d__%d_", r.Kind, loc.X, loc.Y),
				Features: ft,
				Region:   region,
				Offset:   r.Offset,
			})
		}
	}

	return out, nil
}

func sortLocs(locs []qlfdb.GridLoc) {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Y != locs[j].Y {
			return locs[i].Y < locs[j].Y
		}
		return locs[i].X < locs[j].X
	})
}
