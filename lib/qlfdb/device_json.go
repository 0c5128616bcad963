// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfdb

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quicklogic-corp/qlfasm-go/lib/jsonutil"
)

// scanChainType is the only configuration.type value this codec
// supports; anything else fails with UnsupportedError (§4.B, Non-goals).
const scanChainType = "scan_chain"

type jsonRegion struct {
	ID     uint32 `json:"id"`
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

type jsonConfiguration struct {
	Type    string       `json:"type"`
	Length  uint32       `json:"length"`
	Regions []jsonRegion `json:"regions"`
}

type jsonTile struct {
	Type   string `json:"type"`
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Region uint32 `json:"region"`
	Offset uint32 `json:"offset"`
}

type jsonRouting struct {
	Type    string `json:"type"`
	Variant int    `json:"variant"`
	X       uint32 `json:"x"`
	Y       uint32 `json:"y"`
	Region  uint32 `json:"region"`
	Offset  uint32 `json:"offset"`
}

type jsonDefaultBitstream struct {
	File   string `json:"file"`
	Format string `json:"format"`
}

type jsonDevice struct {
	Configuration    jsonConfiguration     `json:"configuration"`
	Tiles            []jsonTile            `json:"tiles"`
	Routing          []jsonRouting         `json:"routing"`
	DefaultBitstream *jsonDefaultBitstream `json:"default_bitstream,omitempty"`
}

// Load reads a database rooted at dir: a device.json descriptor plus
// one segbits file per distinct (block-kind[, routing-variant]).
func Load(ctx context.Context, dir string) (*Device, error) {
	descPath := filepath.Join(dir, "device.json")
	jd, err := jsonutil.ReadFile[jsonDevice](ctx, descPath)
	if err != nil {
		return nil, &ParseError{File: descPath, Err: err}
	}

	if jd.Configuration.Type != scanChainType {
		return nil, &UnsupportedError{
			Reason: fmt.Sprintf("configuration.type = %q, only %q is supported", jd.Configuration.Type, scanChainType),
		}
	}

	dev := &Device{
		BitstreamSize: jd.Configuration.Length,
		Regions:       make(map[uint32]Region, len(jd.Configuration.Regions)),
		Tiles:         make(map[GridLoc]*TileBlock, len(jd.Tiles)),
		Routing:       make(map[GridLoc]map[string]*RoutingBlock),
		Features:      make(map[string]FeatureTable),
	}
	for _, r := range jd.Configuration.Regions {
		dev.Regions[r.ID] = Region{ID: r.ID, Offset: r.Offset, Length: r.Length}
	}
	if jd.DefaultBitstream != nil {
		dev.DefaultBitstream = &DefaultBitstreamRef{
			File:   jd.DefaultBitstream.File,
			Format: jd.DefaultBitstream.Format,
		}
	}

	tileKinds := make(map[string]struct{})
	for _, t := range jd.Tiles {
		loc := GridLoc{X: t.X, Y: t.Y}
		dev.Tiles[loc] = &TileBlock{
			Kind:     t.Type,
			Loc:      loc,
			RegionID: t.Region,
			Offset:   t.Offset,
		}
		tileKinds[t.Type] = struct{}{}
	}

	routingNames := make(map[string]struct{})
	for _, rt := range jd.Routing {
		loc := GridLoc{X: rt.X, Y: rt.Y}
		if dev.Routing[loc] == nil {
			dev.Routing[loc] = make(map[string]*RoutingBlock)
		}
		dev.Routing[loc][rt.Type] = &RoutingBlock{
			Kind:     rt.Type,
			Variant:  rt.Variant,
			Loc:      loc,
			RegionID: rt.Region,
			Offset:   rt.Offset,
		}
		for _, name := range routingTableNames(rt.Type, rt.Variant) {
			routingNames[name] = struct{}{}
		}
	}

	for kind := range tileKinds {
		ft, err := loadSegbitsFile(ctx, filepath.Join(dir, fmt.Sprintf("segbits_%s.db", kind)))
		if err != nil {
			return nil, err
		}
		dev.Features[kind] = ft
	}
	for name := range routingNames {
		path := filepath.Join(dir, fmt.Sprintf("segbits_%s.db", name))
		ft, err := loadSegbitsFile(ctx, path)
		if err != nil {
			continue // resolved lazily; the other candidate name may exist instead
		}
		dev.Features[name] = ft
	}

	if err := dev.Validate(); err != nil {
		return nil, err
	}
	return dev, nil
}
