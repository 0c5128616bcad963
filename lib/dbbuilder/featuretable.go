// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

// featureNameRe matches a local name's optional sub-index suffix, the
// same grammar a segbits file uses on disk (§4.B).
var featureNameRe = regexp.MustCompile(`^([^\[\]\s]+)(?:\[([0-9]+)\])?$`)

// buildFeatureTable groups a discovered set's normalized bit layout by
// feature name (and sub-index) into a FeatureTable, interning each
// resulting pattern through the shared interner so identical patterns
// across features and blocks share one backing slice.
func buildFeatureTable(pattern []normalizedEntry, in *interner) (qlfdb.FeatureTable, error) {
	type key struct {
		Name string
		Sub  int
	}
	grouped := map[key][]bit.Bit{}
	order := make([]key, 0)

	for _, e := range pattern {
		m := featureNameRe.FindStringSubmatch(e.Name)
		if m == nil {
			return nil, &ParseError{Err: fmt.Errorf("malformed local feature name %q", e.Name)}
		}
		sub := qlfdb.Unindexed
		if m[2] != "" {
			v, err := strconv.ParseUint(m[2], 10, 32)
			if err != nil {
				return nil, &ParseError{Err: err}
			}
			sub = int(v)
		}
		k := key{Name: m[1], Sub: sub}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], bit.Bit{Index: e.Rel, Value: true})
	}

	ft := make(qlfdb.FeatureTable)
	for _, k := range order {
		bits := grouped[k]
		sort.Slice(bits, func(i, j int) bool { return bits[i].Index < bits[j].Index })
		feat, ok := ft[k.Name]
		if !ok {
			feat = &qlfdb.Feature{Patterns: map[int]segbit.Pattern{}}
			ft[k.Name] = feat
		}
		feat.Patterns[k.Sub] = in.Intern(segbit.Pattern(bits))
	}

	for name, feat := range ft {
		if err := finalizeWidth(name, feat); err != nil {
			return nil, err
		}
	}
	return ft, nil
}

// finalizeWidth enforces invariant 4 of §3: a feature's patterns are
// either a single unindexed entry, or a dense 0..w-1 run.
func finalizeWidth(name string, feat *qlfdb.Feature) error {
	if _, ok := feat.Patterns[qlfdb.Unindexed]; ok {
		if len(feat.Patterns) != 1 {
			return &IntegrityError{Reason: fmt.Sprintf("feature %q mixes an unindexed pattern with indexed ones", name)}
		}
		feat.Width = 1
		return nil
	}
	w := uint32(len(feat.Patterns))
	for i := uint32(0); i < w; i++ {
		if _, ok := feat.Patterns[int(i)]; !ok {
			return &IntegrityError{Reason: fmt.Sprintf("feature %q sub-indices are not dense 0..%d", name, w-1)}
		}
	}
	feat.Width = w
	return nil
}
