// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package segbit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

func TestNormalizedSortsAndRebases(t *testing.T) {
	p := segbit.Pattern{
		{Index: 5, Value: true},
		{Index: 3, Value: false},
	}
	got := p.Normalized()
	assert.Equal(t, segbit.Pattern{
		{Index: 0, Value: false},
		{Index: 2, Value: true},
	}, got)
}

func TestEqualIgnoresAbsoluteOffset(t *testing.T) {
	a := segbit.Pattern{{Index: 10, Value: true}, {Index: 11, Value: false}}
	b := segbit.Pattern{{Index: 100, Value: true}, {Index: 101, Value: false}}
	assert.True(t, a.Equal(b))
}

func TestEqualDistinguishesValue(t *testing.T) {
	a := segbit.Pattern{{Index: 0, Value: true}}
	b := segbit.Pattern{{Index: 0, Value: false}}
	assert.False(t, a.Equal(b))
}

func TestMaxIndexEmptyPattern(t *testing.T) {
	var p segbit.Pattern
	_, ok := p.MaxIndex()
	assert.False(t, ok)
}

func TestMaxIndex(t *testing.T) {
	p := segbit.Pattern{{Index: 2, Value: true}, {Index: 7, Value: true}, {Index: 1, Value: false}}
	max, ok := p.MaxIndex()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), max)
}
