// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package qlfbit implements the bitstream container: the flat
// region-contiguous bit array and its two external encodings ("txt"
// and "4byte"), including the 4-byte encoding's Fletcher-style
// checksum pair.
package qlfbit

import (
	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// Flat is the working bit array: one byte (0 or 1) per configuration
// bit, indexed by absolute bit address. Its length is always
// device.BitstreamSize.
type Flat []byte

// NewFlat returns a freshly zeroed flat bit array sized for dev.
func NewFlat(dev *qlfdb.Device) Flat {
	return make(Flat, dev.BitstreamSize)
}

// Clone returns an independent copy, used to seed a working bit array
// from a default bitstream without mutating the original.
func (f Flat) Clone() Flat {
	out := make(Flat, len(f))
	copy(out, f)
	return out
}

// Get reads the bit at an absolute address.
func (f Flat) Get(addr bit.Addr) bool {
	return f[addr] != 0
}

// Set writes the bit at an absolute address.
func (f Flat) Set(addr bit.Addr, value bool) {
	if value {
		f[addr] = 1
	} else {
		f[addr] = 0
	}
}

// maxRegionLength returns Lmax = max(region.length) across all of a
// device's regions, the padded row width both external encodings share.
func maxRegionLength(dev *qlfdb.Device) uint32 {
	var lmax uint32
	for _, r := range dev.Regions {
		if r.Length > lmax {
			lmax = r.Length
		}
	}
	return lmax
}

// regionCount returns R, the number of regions (region ids are assumed
// to densely cover 0..R-1, per §3).
func regionCount(dev *qlfdb.Device) uint32 {
	return uint32(len(dev.Regions))
}
