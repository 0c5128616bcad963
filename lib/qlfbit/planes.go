// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfbit

import (
	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/containers"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// numPlanes is the fixed bit-plane width of the 4-byte encoding: always
// 32 even when a device has fewer regions (§9, "sparse 32-plane array").
const numPlanes = 32

// wordPool backs the scratch word buffers that buildPlaneWords and
// reverseWords allocate once per direction (§4.C). Encoding and
// decoding a bitstream builds several Lmax-sized buffers that live
// only long enough to be reversed or checksummed; callers that know a
// buffer is done with Put it back so the next direction's buffer of
// the same size can reuse its backing array.
var wordPool containers.SlicePool[Word]

// buildPlaneWords renders the flat bit array as a bit-packed stream of
// Lmax words, one per scan position, with region r's data occupying
// plane r. headPadded selects which end of each plane's Lmax-wide slot
// holds the region's real data: true pads at the top (data starts at
// position 0), false pads at the bottom (data ends at position Lmax-1).
func buildPlaneWords(dev *qlfdb.Device, flat Flat, lmax uint32, headPadded bool) []Word {
	words := wordPool.Get(int(lmax))
	for i := range words {
		words[i] = 0
	}
	for r, region := range dev.Regions {
		if r >= numPlanes {
			continue
		}
		var start uint32
		if headPadded {
			start = 0
		} else {
			start = lmax - region.Length
		}
		for i := uint32(0); i < region.Length; i++ {
			if !flat.Get(bit.Addr(region.Offset + i)) {
				continue
			}
			pos := start + i
			words[pos] |= Word(1 << r)
		}
	}
	return words
}

func reverseWords(in []Word) []Word {
	out := wordPool.Get(len(in))
	for i, w := range in {
		out[len(in)-1-i] = w
	}
	return out
}

// planesToFlat is the inverse of buildPlaneWords: given a head-padded
// word stream in forward (not reversed) order, reconstruct the flat bit
// array for a device.
func planesToFlat(dev *qlfdb.Device, words []Word) Flat {
	flat := NewFlat(dev)
	for r, region := range dev.Regions {
		if r >= numPlanes {
			continue
		}
		for i := uint32(0); i < region.Length; i++ {
			if i >= uint32(len(words)) {
				break
			}
			set := words[i]&(1<<r) != 0
			flat.Set(bit.Addr(region.Offset+i), set)
		}
	}
	return flat
}
