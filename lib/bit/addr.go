// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bit

import (
	"fmt"

	"github.com/quicklogic-corp/qlfasm-go/lib/fmtutil"
)

// Addr is an absolute bit index into the flat, region-contiguous bit
// array described in §3 of the device model: regions[b.region].offset +
// block.offset + b.index.
type Addr uint32

func (a Addr) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's', 'q':
		str := fmt.Sprintf("%#010x", uint32(a))
		fmt.Fprintf(f, fmtutil.FmtStateString(f, verb), str)
	default:
		fmt.Fprintf(f, fmtutil.FmtStateString(f, verb), uint32(a))
	}
}
