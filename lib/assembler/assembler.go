// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package assembler resolves parsed FASM records against a device
// database and writes the corresponding bits into a flat bit array
// (§4.D).
package assembler

import (
	"fmt"
	"strings"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

type featureKey struct {
	Feature  string
	SubIndex int
}

type valueEntry struct {
	Value bool
	Line  string
}

// Result is the outcome of Assemble: the written bit array and any
// records whose feature reference could not be resolved.
type Result struct {
	Flat    qlfbit.Flat
	Unknown []fasm.Record
}

// Assemble writes records into seed (a copy is made; seed is not
// mutated) and returns the result. Feature-value and bit-level
// conflicts between records abort assembly immediately; unresolved
// feature references are instead accumulated and returned for the
// caller to report (§4.D, §7).
func Assemble(dev *qlfdb.Device, seed qlfbit.Flat, records []fasm.Record) (Result, error) {
	flat := seed.Clone()
	featureConflicts := map[featureKey]valueEntry{}
	bitConflicts := map[bit.Addr]valueEntry{}
	var unknown []fasm.Record

	for _, rec := range records {
		parts, ok := splitFeature(rec.Feature)
		if !ok {
			unknown = append(unknown, rec)
			continue
		}
		block, err := resolveBlock(dev, parts)
		if err != nil {
			unknown = append(unknown, rec)
			continue
		}
		localPath := strings.Join(parts[2:], ".")
		lookupPath, inverted := splitInversion(localPath)

		feat, ok := block.Features[lookupPath]
		if !ok {
			unknown = append(unknown, rec)
			continue
		}

		failed := false
		for _, br := range canonicalize(rec) {
			pattern, found := lookupPattern(feat, br.SubIndex)
			if !found {
				failed = true
				break
			}

			key := featureKey{Feature: rec.Feature, SubIndex: br.SubIndex}
			if prev, exists := featureConflicts[key]; exists {
				if prev.Value != br.Value {
					return Result{}, &FeatureConflictError{
						Kind:      "feature-value",
						Detail:    key.Feature,
						FirstLine: prev.Line,
						NextLine:  rec.Line,
					}
				}
			} else {
				featureConflicts[key] = valueEntry{Value: br.Value, Line: rec.Line}
			}

			if !br.Value {
				continue
			}

			for _, patBit := range pattern {
				addr := qlfdb.AbsAddr(block.Region, block.Offset, patBit)
				final := patBit.Value != inverted
				if prev, exists := bitConflicts[addr]; exists {
					if prev.Value != final {
						return Result{}, &FeatureConflictError{
							Kind:      "bit",
							Detail:    fmt.Sprintf("%v", addr),
							FirstLine: prev.Line,
							NextLine:  rec.Line,
						}
					}
					continue
				}
				bitConflicts[addr] = valueEntry{Value: final, Line: rec.Line}
				flat.Set(addr, final)
			}
		}
		if failed {
			unknown = append(unknown, rec)
		}
	}

	return Result{Flat: flat, Unknown: unknown}, nil
}

// lookupPattern implements the segbit lookup tie-break (§4.D): a
// sub-index of Unindexed or 0 tries the feature's unindexed pattern
// first, falling back to the literal sub-index; any other sub-index is
// looked up directly.
func lookupPattern(feat *qlfdb.Feature, subIndex int) (segbit.Pattern, bool) {
	if subIndex == qlfdb.Unindexed || subIndex == 0 {
		if p, ok := feat.Patterns[qlfdb.Unindexed]; ok {
			return p, true
		}
		if p, ok := feat.Patterns[subIndex]; ok {
			return p, true
		}
		return nil, false
	}
	p, ok := feat.Patterns[subIndex]
	return p, ok
}
