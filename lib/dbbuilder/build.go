// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/datawire/dlib/dlog"

	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// BuiltTile is one discovered tile instance, offset already made
// region-local (§4.G, final paragraph).
type BuiltTile struct {
	Kind     string
	Loc      gridLoc
	RegionID uint32
	Offset   uint32
}

// BuiltRouting is one discovered routing instance.
type BuiltRouting struct {
	Kind     string
	Variant  int
	Loc      gridLoc
	RegionID uint32
	Offset   uint32
}

// Database is the builder's output: everything device.json and the
// segbits files need, before being serialized.
type Database struct {
	BitstreamSize uint32
	Regions       map[uint32]qlfdb.Region
	Tiles         []BuiltTile
	Routing       []BuiltRouting
	Features      map[string]qlfdb.FeatureTable // keyed by segbits-name
}

// Build ingests a fabric_bitstream XML dump and produces a Database
// ready to be written with Write (§4.G).
func Build(ctx context.Context, r io.Reader) (*Database, error) {
	refs, err := parseXML(r)
	if err != nil {
		return nil, err
	}
	dlog.Infof(ctx, "parsed %d bit reference(s)", len(refs))

	extents := regionExtents(refs)
	regions := make(map[uint32]qlfdb.Region, len(extents))
	for id, e := range extents {
		regions[id] = qlfdb.Region{ID: id, Offset: e.Min, Length: e.Max - e.Min + 1}
	}
	dlog.Infof(ctx, "discovered %d region(s)", len(regions))

	tileRefs, routingRefs := groupBlocks(refs)
	in := newInterner()

	db := &Database{
		BitstreamSize: sumLengths(regions),
		Regions:       regions,
		Features:      make(map[string]qlfdb.FeatureTable),
	}

	for _, kind := range sortedKeys(tileRefs) {
		sets, err := discoverSets(tileRefs[kind])
		if err != nil {
			return nil, err
		}
		if len(sets) > 1 {
			return nil, &IntegrityError{Reason: fmt.Sprintf("tile kind %q: discovered %d distinct segbit layouts, tiles of the same type must be bit-identical", kind, len(sets))}
		}
		ft, err := buildFeatureTable(sets[0].Pattern, in)
		if err != nil {
			return nil, err
		}
		db.Features[kind] = ft
		for _, lb := range sets[0].Locs {
			db.Tiles = append(db.Tiles, BuiltTile{
				Kind: kind, Loc: lb.Loc, RegionID: lb.RegionID,
				Offset: lb.Offset - regions[lb.RegionID].Offset,
			})
		}
		dlog.Debugf(ctx, "tile kind %q: %d instance(s)", kind, len(sets[0].Locs))
	}

	for _, kind := range sortedKeys(routingRefs) {
		sets, err := discoverSets(routingRefs[kind])
		if err != nil {
			return nil, err
		}
		for variant, set := range sets {
			name := kind
			if len(sets) > 1 {
				name = fmt.Sprintf("%s_%d", kind, variant)
			}
			ft, err := buildFeatureTable(set.Pattern, in)
			if err != nil {
				return nil, err
			}
			db.Features[name] = ft
			for _, lb := range set.Locs {
				db.Routing = append(db.Routing, BuiltRouting{
					Kind: kind, Variant: variant, Loc: lb.Loc, RegionID: lb.RegionID,
					Offset: lb.Offset - regions[lb.RegionID].Offset,
				})
			}
			dlog.Debugf(ctx, "routing kind %q variant %d: %d instance(s)", kind, variant, len(set.Locs))
		}
	}

	return db, nil
}

func sumLengths(regions map[uint32]qlfdb.Region) uint32 {
	var total uint32
	for _, r := range regions {
		total += r.Length
	}
	return total
}

func groupBlocks(refs []bitRef) (tiles map[string]map[gridLoc][]bitRef, routing map[string]map[gridLoc][]bitRef) {
	tiles = map[string]map[gridLoc][]bitRef{}
	routing = map[string]map[gridLoc][]bitRef{}
	for _, r := range refs {
		dst := routing
		if r.IsTile {
			dst = tiles
		}
		if dst[r.Kind] == nil {
			dst[r.Kind] = map[gridLoc][]bitRef{}
		}
		dst[r.Kind][r.Loc] = append(dst[r.Kind][r.Loc], r)
	}
	return tiles, routing
}

func sortedKeys(m map[string]map[gridLoc][]bitRef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type extent struct{ Min, Max uint32 }

func regionExtents(refs []bitRef) map[uint32]extent {
	m := map[uint32]extent{}
	for _, r := range refs {
		e, ok := m[r.RegionID]
		if !ok {
			m[r.RegionID] = extent{Min: r.BitID, Max: r.BitID}
			continue
		}
		if r.BitID < e.Min {
			e.Min = r.BitID
		}
		if r.BitID > e.Max {
			e.Max = r.BitID
		}
		m[r.RegionID] = e
	}
	return m
}
