// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// blockTagRe matches a grid-location block tag: <name>_<x>__<y>_.
var blockTagRe = regexp.MustCompile(`^(.+)_([0-9]+)__([0-9]+)_$`)

// resolvedBlock is what feature resolution needs from the block a
// record addresses: its feature table and the region/offset used to
// turn a segbit pattern into absolute bit addresses.
type resolvedBlock struct {
	Features qlfdb.FeatureTable
	Region   qlfdb.Region
	Offset   uint32
}

// splitFeature validates and splits a dotted feature path: the prefix
// must be the literal "fpga_top" and there must be at least 3 parts.
func splitFeature(feature string) ([]string, bool) {
	parts := strings.Split(feature, ".")
	if len(parts) < 3 || parts[0] != "fpga_top" {
		return nil, false
	}
	return parts, true
}

// resolveBlock resolves a feature's block tag (parts[1]) to the tile or
// routing block it addresses (§4.D).
func resolveBlock(dev *qlfdb.Device, parts []string) (resolvedBlock, error) {
	tag := parts[1]
	m := blockTagRe.FindStringSubmatch(tag)
	if m == nil {
		return resolvedBlock{}, fmt.Errorf("block tag %q does not match the grid-location pattern", tag)
	}
	name := m[1]
	x, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return resolvedBlock{}, fmt.Errorf("block tag %q: %w", tag, err)
	}
	y, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return resolvedBlock{}, fmt.Errorf("block tag %q: %w", tag, err)
	}
	loc := qlfdb.GridLoc{X: uint32(x), Y: uint32(y)}

	if strings.HasPrefix(name, "grid_") {
		b, ok := dev.Tiles[loc]
		if !ok {
			return resolvedBlock{}, fmt.Errorf("no tile at %v", loc)
		}
		ft, ok := dev.TileFeatures(b)
		if !ok {
			return resolvedBlock{}, fmt.Errorf("no feature table for tile kind %q", b.Kind)
		}
		region, ok := dev.Regions[b.RegionID]
		if !ok {
			return resolvedBlock{}, fmt.Errorf("tile at %v references unknown region %d", loc, b.RegionID)
		}
		return resolvedBlock{Features: ft, Region: region, Offset: b.Offset}, nil
	}

	token := strings.SplitN(name, "_", 2)[0]
	kinds, ok := dev.Routing[loc]
	if !ok {
		return resolvedBlock{}, fmt.Errorf("no routing blocks at %v", loc)
	}
	b, ok := kinds[token]
	if !ok {
		return resolvedBlock{}, fmt.Errorf("no routing block %q at %v", token, loc)
	}
	ft, ok := dev.RoutingFeatures(b)
	if !ok {
		return resolvedBlock{}, fmt.Errorf("no feature table for routing %q variant %d", token, b.Variant)
	}
	region, ok := dev.Regions[b.RegionID]
	if !ok {
		return resolvedBlock{}, fmt.Errorf("routing block %q at %v references unknown region %d", token, loc, b.RegionID)
	}
	return resolvedBlock{Features: ft, Region: region, Offset: b.Offset}, nil
}

// splitInversion strips a leading "NOT_" from the local path's last
// dotted component, reporting whether the record's write is inverted
// and the path to use for the segbit lookup (the database never knows
// about the NOT_ convention; it is purely an assembler-side XOR).
func splitInversion(localPath string) (lookupPath string, inverted bool) {
	comps := strings.Split(localPath, ".")
	last := comps[len(comps)-1]
	if !strings.HasPrefix(last, "NOT_") {
		return localPath, false
	}
	comps[len(comps)-1] = strings.TrimPrefix(last, "NOT_")
	return strings.Join(comps, "."), true
}
