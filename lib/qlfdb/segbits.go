// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfdb

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

// featureNameRe is the feature-name regex from §4.B: everything before
// an optional bracketed decimal sub-index.
var featureNameRe = regexp.MustCompile(`^([^\[\]\s]+)(?:\[([0-9]+)\])?$`)

// loadSegbitsFile parses one segbits_<kind>[_<variant>].db file: one
// "<feature-name>[<index>]? <bit> <bit> ..." line per feature entry,
// grouped into the feature table's per-sub-index pattern mapping.
func loadSegbitsFile(_ context.Context, path string) (FeatureTable, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fh.Close()
	}()

	ft := make(FeatureTable)
	scanner := bufio.NewScanner(fh)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		m := featureNameRe.FindStringSubmatch(fields[0])
		if m == nil {
			return nil, &ParseError{File: path, Err: fmt.Errorf("line %d: malformed feature name %q", lineNo, fields[0])}
		}
		name := m[1]
		key := Unindexed
		if m[2] != "" {
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, &ParseError{File: path, Err: fmt.Errorf("line %d: %w", lineNo, err)}
			}
			key = idx
		}

		pattern := make(segbit.Pattern, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			b, err := bit.Parse(tok)
			if err != nil {
				return nil, &ParseError{File: path, Err: fmt.Errorf("line %d: %w", lineNo, err)}
			}
			pattern = append(pattern, b)
		}

		feat, ok := ft[name]
		if !ok {
			feat = &Feature{Patterns: make(map[int]segbit.Pattern)}
			ft[name] = feat
		}
		feat.Patterns[key] = pattern
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	for name, feat := range ft {
		if err := finalizeWidth(feat); err != nil {
			return nil, &ParseError{File: path, Err: fmt.Errorf("feature %q: %w", name, err)}
		}
	}
	return ft, nil
}

// finalizeWidth derives a feature's width from its recorded sub-indices
// and checks invariant 4 from §3: either a single unindexed pattern, or
// a dense set of indices 0..w-1 with no gaps.
func finalizeWidth(feat *Feature) error {
	if _, ok := feat.Patterns[Unindexed]; ok {
		if len(feat.Patterns) != 1 {
			return fmt.Errorf("has both an unindexed pattern and indexed sub-indices")
		}
		feat.Width = 1
		return nil
	}
	width := len(feat.Patterns)
	for i := 0; i < width; i++ {
		if _, ok := feat.Patterns[i]; !ok {
			return fmt.Errorf("sub-indices are not a dense 0..%d range", width-1)
		}
	}
	feat.Width = uint32(width)
	return nil
}
