// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/quicklogic-corp/qlfasm-go/lib/jsonutil"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

const scanChainType = "scan_chain"

type deviceJSONRegion struct {
	ID     uint32 `json:"id"`
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

type deviceJSONConfiguration struct {
	Type    string             `json:"type"`
	Length  uint32             `json:"length"`
	Regions []deviceJSONRegion `json:"regions"`
}

type deviceJSONTile struct {
	Type   string `json:"type"`
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Region uint32 `json:"region"`
	Offset uint32 `json:"offset"`
}

type deviceJSONRouting struct {
	Type    string `json:"type"`
	Variant int    `json:"variant"`
	X       uint32 `json:"x"`
	Y       uint32 `json:"y"`
	Region  uint32 `json:"region"`
	Offset  uint32 `json:"offset"`
}

type deviceJSON struct {
	Configuration deviceJSONConfiguration `json:"configuration"`
	Tiles         []deviceJSONTile        `json:"tiles"`
	Routing       []deviceJSONRouting     `json:"routing"`
}

// Write serializes db to dir as a device.json descriptor plus one
// segbits_<name>.db file per discovered feature table (§4.G).
func Write(ctx context.Context, dir string, db *Database) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	jd := deviceJSON{
		Configuration: deviceJSONConfiguration{
			Type:   scanChainType,
			Length: db.BitstreamSize,
		},
	}
	for _, id := range sortedRegionIDs(db.Regions) {
		r := db.Regions[id]
		jd.Configuration.Regions = append(jd.Configuration.Regions, deviceJSONRegion{
			ID: r.ID, Offset: r.Offset, Length: r.Length,
		})
	}
	for _, t := range sortedTiles(db.Tiles) {
		jd.Tiles = append(jd.Tiles, deviceJSONTile{
			Type: t.Kind, X: t.Loc.X, Y: t.Loc.Y, Region: t.RegionID, Offset: t.Offset,
		})
	}
	for _, r := range sortedRouting(db.Routing) {
		jd.Routing = append(jd.Routing, deviceJSONRouting{
			Type: r.Kind, Variant: r.Variant, X: r.Loc.X, Y: r.Loc.Y, Region: r.RegionID, Offset: r.Offset,
		})
	}

	descPath := filepath.Join(dir, "device.json")
	fh, err := os.Create(descPath)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()
	if err := jsonutil.WriteFile(fh, jd, lowmemjson.ReEncoder{}); err != nil {
		return err
	}

	for _, name := range sortedFeatureNames(db.Features) {
		path := filepath.Join(dir, fmt.Sprintf("segbits_%s.db", name))
		if err := writeSegbitsFile(path, db.Features[name]); err != nil {
			return err
		}
	}
	return nil
}

func writeSegbitsFile(path string, ft qlfdb.FeatureTable) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()
	w := bufio.NewWriter(fh)

	names := make([]string, 0, len(ft))
	for name := range ft {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		feat := ft[name]
		subs := make([]int, 0, len(feat.Patterns))
		for sub := range feat.Patterns {
			subs = append(subs, sub)
		}
		sort.Ints(subs)
		for _, sub := range subs {
			label := name
			if sub != qlfdb.Unindexed {
				label = fmt.Sprintf("%s[%d]", name, sub)
			}
			if _, err := fmt.Fprint(w, label); err != nil {
				return err
			}
			for _, b := range feat.Patterns[sub] {
				if _, err := fmt.Fprintf(w, " %s", b); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprint(w, "\n"); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func sortedRegionIDs(regions map[uint32]qlfdb.Region) []uint32 {
	ids := make([]uint32, 0, len(regions))
	for id := range regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedTiles(tiles []BuiltTile) []BuiltTile {
	out := append([]BuiltTile(nil), tiles...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Loc.Y != out[j].Loc.Y {
			return out[i].Loc.Y < out[j].Loc.Y
		}
		if out[i].Loc.X != out[j].Loc.X {
			return out[i].Loc.X < out[j].Loc.X
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func sortedRouting(routing []BuiltRouting) []BuiltRouting {
	out := append([]BuiltRouting(nil), routing...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Loc.Y != out[j].Loc.Y {
			return out[i].Loc.Y < out[j].Loc.Y
		}
		if out[i].Loc.X != out[j].Loc.X {
			return out[i].Loc.X < out[j].Loc.X
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Variant < out[j].Variant
	})
	return out
}

func sortedFeatureNames(features map[string]qlfdb.FeatureTable) []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
