// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfbit

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// EncodeText renders a flat bit array in the "txt" encoding: characters
// '0'/'1', one per position, region r's length_r bits starting at
// r*Lmax with (Lmax-length_r) trailing zero bits of padding.
func EncodeText(dev *qlfdb.Device, flat Flat) []byte {
	lmax := maxRegionLength(dev)
	out := make([]byte, regionCount(dev)*lmax)
	for i := range out {
		out[i] = '0'
	}
	for r, region := range dev.Regions {
		base := r * lmax
		for i := uint32(0); i < region.Length; i++ {
			if flat.Get(bit.Addr(region.Offset + i)) {
				out[base+i] = '1'
			}
		}
	}
	return out
}

// DecodeText parses the "txt" encoding's inverse: all whitespace is
// ignored, and the input is split back into per-region length_r-bit
// runs starting at r*Lmax. An input shorter than R*Lmax is decoded
// best-effort (logged as an error but not fatal); an input longer than
// R*Lmax has its excess ignored (logged as a warning). This best-effort
// stance is a deliberate, preserved weakness (§9 open questions).
func DecodeText(ctx context.Context, dev *qlfdb.Device, data []byte) Flat {
	lmax := maxRegionLength(dev)
	want := int(regionCount(dev)) * int(lmax)

	bits := make([]byte, 0, len(data))
	for _, c := range data {
		switch c {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		}
	}

	switch {
	case len(bits) < want:
		dlog.Errorf(ctx, "txt bitstream is %d bits, expected %d; decoding best-effort", len(bits), want)
	case len(bits) > want:
		dlog.Warnf(ctx, "txt bitstream is %d bits, expected %d; ignoring trailing excess", len(bits), want)
		bits = bits[:want]
	}

	flat := NewFlat(dev)
	for r, region := range dev.Regions {
		base := int(r) * int(lmax)
		for i := uint32(0); i < region.Length; i++ {
			pos := base + int(i)
			if pos >= len(bits) {
				break
			}
			flat.Set(bit.Addr(region.Offset+i), bits[pos] != 0)
		}
	}
	return flat
}
