// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package qlfdb implements the device database: region/tile/routing
// metadata and grouped segbit patterns, loaded from an on-disk
// directory and immutable thereafter.
package qlfdb

import (
	"fmt"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

// Unindexed is the sentinel sub-index for a feature of width 1, used as
// a map key into Feature.Patterns.
const Unindexed = -1

// GridLoc is an unsigned (x, y) grid coordinate.
type GridLoc struct {
	X, Y uint32
}

func (l GridLoc) String() string { return fmt.Sprintf("(%d,%d)", l.X, l.Y) }

// Region is a contiguous sub-range of the flat bit array.
type Region struct {
	ID     uint32
	Offset uint32
	Length uint32
}

// Feature is one entry of a feature table: a width and a mapping from
// sub-index (or Unindexed) to the segbit pattern that realizes it.
type Feature struct {
	Width    uint32
	Patterns map[int]segbit.Pattern
}

// FeatureTable is a tile-kind's or routing-kind-and-variant's shared set
// of features, keyed by local feature path.
type FeatureTable map[string]*Feature

// TileBlock is one instance of a tile in the fabric grid.
type TileBlock struct {
	Kind     string
	Loc      GridLoc
	RegionID uint32
	Offset   uint32
}

// RoutingBlock is one instance of a routing box (switch-box or
// connection-box) in the fabric grid.
type RoutingBlock struct {
	Kind     string // "sb", "cbx", or "cby"
	Variant  int
	Loc      GridLoc
	RegionID uint32
	Offset   uint32
}

// DefaultBitstreamRef names the factory-supplied bitstream a device
// ships, if any.
type DefaultBitstreamRef struct {
	File   string
	Format string
}

// Device is the immutable, loaded device database.
type Device struct {
	BitstreamSize uint32
	Regions       map[uint32]Region
	Tiles         map[GridLoc]*TileBlock
	Routing       map[GridLoc]map[string]*RoutingBlock
	Features      map[string]FeatureTable
	DefaultBitstream *DefaultBitstreamRef
}

// routingTableNames lists the candidate segbits-names (and so the
// on-disk segbits_<kind>[_<variant>].db stems) for a routing block, in
// the order they are tried. Per §4.G, a
// routing kind with only one discovered segbit set has no variant
// suffix; a kind with more than one set is suffixed by its set index.
// Since device.json always records an explicit variant integer (0 for
// the sole-set case), resolution tries the unsuffixed name first for
// variant 0 and falls back to the suffixed name.
func routingTableNames(kind string, variant int) []string {
	if variant == 0 {
		return []string{kind, fmt.Sprintf("%s_%d", kind, variant)}
	}
	return []string{fmt.Sprintf("%s_%d", kind, variant)}
}

// TileFeatures returns the feature table shared by all instances of a
// tile block's kind.
func (d *Device) TileFeatures(b *TileBlock) (FeatureTable, bool) {
	ft, ok := d.Features[b.Kind]
	return ft, ok
}

// RoutingFeatures returns the feature table shared by all instances of
// a routing block's (kind, variant).
func (d *Device) RoutingFeatures(b *RoutingBlock) (FeatureTable, bool) {
	for _, name := range routingTableNames(b.Kind, b.Variant) {
		if ft, ok := d.Features[name]; ok {
			return ft, true
		}
	}
	return nil, false
}

// AbsAddr computes the absolute bit index of a block's bit b: the only
// address computation any other component performs (§4.B).
func AbsAddr(region Region, blockOffset uint32, b bit.Bit) bit.Addr {
	return bit.Addr(region.Offset + blockOffset + b.Index)
}
