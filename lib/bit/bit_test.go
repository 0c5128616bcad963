// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bit_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
)

func TestParseSetBit(t *testing.T) {
	b, err := bit.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, bit.Bit{Index: 42, Value: true}, b)
	assert.Equal(t, "42", b.String())
}

func TestParseClearBit(t *testing.T) {
	b, err := bit.Parse("!7")
	require.NoError(t, err)
	assert.Equal(t, bit.Bit{Index: 7, Value: false}, b)
	assert.Equal(t, "!7", b.String())
}

func TestParseRejectsEmptyIndex(t *testing.T) {
	_, err := bit.Parse("!")
	require.Error(t, err)
	var pErr *bit.ParseError
	require.ErrorAs(t, err, &pErr)
}

func TestParseRejectsNonDecimal(t *testing.T) {
	_, err := bit.Parse("abc")
	require.Error(t, err)
}

func TestCmpOrdersByIndexThenValue(t *testing.T) {
	lo := bit.Bit{Index: 1, Value: false}
	hi := bit.Bit{Index: 1, Value: true}
	assert.Negative(t, lo.Cmp(hi))
	assert.Positive(t, hi.Cmp(lo))
	assert.Zero(t, lo.Cmp(lo))
	assert.Negative(t, bit.Bit{Index: 0}.Cmp(bit.Bit{Index: 1}))
}

func TestAddrFormat(t *testing.T) {
	a := bit.Addr(16)
	assert.Equal(t, "16", fmt.Sprintf("%d", a))
	assert.Equal(t, "0x00000010", fmt.Sprintf("%v", a))
}
