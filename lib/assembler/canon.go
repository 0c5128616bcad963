// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package assembler

import (
	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// bitRecord is a FASM record after being split into single-bit
// assignments: one per sub-index of the original record's range. Width
// 1 records (no brackets) carry SubIndex == qlfdb.Unindexed.
type bitRecord struct {
	SubIndex int
	Value    bool
}

// canonicalize splits a FASM record's range, if any, into one
// single-bit record per sub-index (§4.D). A record's declared value is
// itself a bit vector; sub-index k takes bit (k - start) of it.
func canonicalize(rec fasm.Record) []bitRecord {
	if rec.Start == nil {
		return []bitRecord{{SubIndex: qlfdb.Unindexed, Value: rec.Value&1 != 0}}
	}
	start := *rec.Start
	end := start
	if rec.End != nil {
		end = *rec.End
	}
	out := make([]bitRecord, 0, end-start+1)
	for k := start; k <= end; k++ {
		v := (rec.Value>>(k-start))&1 != 0
		out = append(out, bitRecord{SubIndex: int(k), Value: v})
	}
	return out
}
