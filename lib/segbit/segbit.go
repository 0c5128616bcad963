// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package segbit implements the ordered-sequence-of-bits pattern that a
// feature entry maps each of its sub-indices to.
package segbit

import (
	"sort"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
)

// Pattern is an ordered sequence of bits realising one feature.
type Pattern []bit.Bit

// MaxIndex returns the largest bit index referenced by the pattern, and
// false if the pattern is empty.
func (p Pattern) MaxIndex() (uint32, bool) {
	if len(p) == 0 {
		return 0, false
	}
	var max uint32
	for _, b := range p {
		if b.Index > max {
			max = b.Index
		}
	}
	return max, true
}

// Normalized returns a copy of the pattern sorted by bit index and
// re-indexed so that its minimum index is zero. Two patterns with equal
// Normalized() forms are considered the same segbit set (§3's identity
// rule, and the basis for the database builder's pattern-matching in §4.G).
func (p Pattern) Normalized() Pattern {
	if len(p) == 0 {
		return nil
	}
	sorted := make(Pattern, len(p))
	copy(sorted, p)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })
	min := sorted[0].Index
	out := make(Pattern, len(sorted))
	for i, b := range sorted {
		out[i] = bit.Bit{Index: b.Index - min, Value: b.Value}
	}
	return out
}

// Key renders the normalized pattern into a comparable string, for use
// as a map key when comparing patterns by normalized identity.
func (p Pattern) Key() string {
	norm := p.Normalized()
	buf := make([]byte, 0, len(norm)*8)
	for i, b := range norm {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, []byte(b.String())...)
	}
	return string(buf)
}

// Equal reports whether two patterns have the same normalized identity.
func (p Pattern) Equal(other Pattern) bool {
	return p.Key() == other.Key()
}
