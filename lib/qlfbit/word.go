// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfbit

import (
	"encoding/hex"
	"fmt"

	"github.com/quicklogic-corp/qlfasm-go/lib/binstruct/binint"
	"github.com/quicklogic-corp/qlfasm-go/lib/fmtutil"
)

// Word is one 32-bit word of the 4-byte encoding's word stream: a bit
// plane sample, a checksum, or a zero pad word. Its on-disk form is
// eight hex digits, the hex encoding of its four big-endian bytes.
type Word binint.U32be

func (w Word) String() string {
	bs, _ := binint.U32be(w).MarshalBinary()
	return hex.EncodeToString(bs)
}

func (w Word) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's', 'q':
		fmt.Fprint(f, w.String())
	default:
		fmt.Fprintf(f, fmtutil.FmtStateString(f, verb), uint32(w))
	}
}

// ParseWord parses one line of 4-byte-encoded input: exactly eight hex
// digits.
func ParseWord(line string) (Word, error) {
	if len(line) != 8 {
		return 0, fmt.Errorf("word line must be exactly 8 hex digits, got %d", len(line))
	}
	bs, err := hex.DecodeString(line)
	if err != nil {
		return 0, err
	}
	var u binint.U32be
	if _, err := (&u).UnmarshalBinary(bs); err != nil {
		return 0, err
	}
	return Word(u), nil
}
