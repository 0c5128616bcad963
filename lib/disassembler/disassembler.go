// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package disassembler turns a flat bit array back into canonical FASM
// records and a force-bit list (§4.E).
package disassembler

import (
	"fmt"
	"sort"

	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

// Result is the outcome of Disassemble.
type Result struct {
	Records   []fasm.Record
	ForceBits []fasm.ForceBit
}

// block is one tile or routing instance, reduced to what disassembly
// needs: its feature table, region/offset for address translation, and
// the reconstructed block tag used to build output feature names.
type block struct {
	Loc      qlfdb.GridLoc
	Tag      string
	Features qlfdb.FeatureTable
	Region   qlfdb.Region
	Offset   uint32
}

// Disassemble evaluates every feature of every block against flat,
// emitting one canonical record per feature that is set (or, when
// includeCleared is set, every feature) and a force-bit line per set
// sub-index. Output order is deterministic: tiles row-major by
// (y, x), then routing blocks likewise, ties broken by kind name.
func Disassemble(dev *qlfdb.Device, flat qlfbit.Flat, includeCleared bool) (Result, error) {
	blocks, err := orderedBlocks(dev)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, b := range blocks {
		names := make([]string, 0, len(b.Features))
		for name := range b.Features {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			feat := b.Features[name]
			rec, forces := evalFeature(flat, b, name, feat, includeCleared)
			if rec != nil {
				res.Records = append(res.Records, *rec)
			}
			res.ForceBits = append(res.ForceBits, forces...)
		}
	}
	return res, nil
}

// evalFeature matches one feature's pattern(s) against the bit array
// and builds its canonical record plus force-bit lines, if any.
func evalFeature(flat qlfbit.Flat, b block, name string, feat *qlfdb.Feature, includeCleared bool) (*fasm.Record, []fasm.ForceBit) {
	featureName := fmt.Sprintf("fpga_top.%s.%s", b.Tag, name)

	if feat.Width == 1 {
		matched := patternMatches(flat, b, feat.Patterns[qlfdb.Unindexed])
		if !matched && !includeCleared {
			return nil, nil
		}
		var value uint64
		var forces []fasm.ForceBit
		if matched {
			value = 1
			forces = append(forces, fasm.ForceBit{Feature: featureName, Index: 0})
		}
		rec := &fasm.Record{Feature: featureName, Value: value, Line: fmt.Sprintf("%s=1'b%d", featureName, value)}
		return rec, forces
	}

	var value uint64
	var forces []fasm.ForceBit
	for k := uint32(0); k < feat.Width; k++ {
		if patternMatches(flat, b, feat.Patterns[int(k)]) {
			value |= 1 << k
			forces = append(forces, fasm.ForceBit{Feature: featureName, Index: k})
		}
	}
	if value == 0 && !includeCleared {
		return nil, forces
	}
	start, end := uint32(0), feat.Width-1
	rec := &fasm.Record{
		Feature: featureName,
		Start:   &start,
		End:     &end,
		Value:   value,
		Line:    fmt.Sprintf("%s[%d:0]=%d'b%0*b", featureName, end, feat.Width, feat.Width, value),
	}
	return rec, forces
}

// patternMatches reports whether every bit of a pattern (including
// bits required to be zero) agrees with the flat bit array. A missing
// pattern (no entry for this sub-index) never matches.
func patternMatches(flat qlfbit.Flat, b block, pattern segbit.Pattern) bool {
	if pattern == nil {
		return false
	}
	for _, pb := range pattern {
		addr := qlfdb.AbsAddr(b.Region, b.Offset, pb)
		if flat.Get(addr) != pb.Value {
			return false
		}
	}
	return true
}
