// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

// internerCacheSize bounds how many distinct patterns are kept
// resident; databases commonly repeat a handful of small patterns
// (single-bit enables, shared LUT layouts) across thousands of blocks.
const internerCacheSize = 4096

// interner deduplicates identical segbit patterns discovered across
// many blocks and features, so the built database holds one backing
// slice per distinct pattern rather than one per occurrence.
type interner struct {
	cache *lru.Cache
}

func newInterner() *interner {
	cache, err := lru.New(internerCacheSize)
	if err != nil {
		panic(err) // only fails for a non-positive size, which internerCacheSize never is
	}
	return &interner{cache: cache}
}

// Intern returns p, or an earlier-seen pattern with exactly the same
// (index, value) list in the same order, so callers can compare by
// pointer/value without holding duplicate backing arrays. Indexes are
// compared as given, not normalized: patterns at different offsets are
// distinct.
func (in *interner) Intern(p segbit.Pattern) segbit.Pattern {
	var sb strings.Builder
	for _, b := range p {
		sb.WriteString(b.String())
		sb.WriteByte(' ')
	}
	key := sb.String()
	if cached, ok := in.cache.Get(key); ok {
		return cached.(segbit.Pattern)
	}
	in.cache.Add(key, p)
	return p
}
