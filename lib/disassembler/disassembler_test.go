// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package disassembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/disassembler"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

func testDevice() *qlfdb.Device {
	region := qlfdb.Region{ID: 0, Offset: 0, Length: 64}
	tile := &qlfdb.TileBlock{Kind: "clb", Loc: qlfdb.GridLoc{X: 0, Y: 0}, RegionID: 0, Offset: 0}

	luts := &qlfdb.Feature{
		Width: 2,
		Patterns: map[int]segbit.Pattern{
			0: {{Index: 0, Value: true}},
			1: {{Index: 1, Value: true}},
		},
	}
	enable := &qlfdb.Feature{
		Width:    1,
		Patterns: map[int]segbit.Pattern{qlfdb.Unindexed: {{Index: 2, Value: true}, {Index: 3, Value: false}}},
	}

	return &qlfdb.Device{
		BitstreamSize: 64,
		Regions:       map[uint32]qlfdb.Region{0: region},
		Tiles:         map[qlfdb.GridLoc]*qlfdb.TileBlock{tile.Loc: tile},
		Routing:       map[qlfdb.GridLoc]map[string]*qlfdb.RoutingBlock{},
		Features: map[string]qlfdb.FeatureTable{
			"clb": {"LUT_INIT": luts, "ENABLE": enable},
		},
	}
}

func TestDisassembleMultiBitAggregation(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	flat := qlfbit.NewFlat(dev)
	flat.Set(0, true)

	res, err := disassembler.Disassemble(dev, flat, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "fpga_top.grid_clb_0__0_.LUT_INIT", rec.Feature)
	require.NotNil(t, rec.Start)
	require.NotNil(t, rec.End)
	assert.EqualValues(t, 0, *rec.Start)
	assert.EqualValues(t, 1, *rec.End)
	assert.EqualValues(t, 1, rec.Value)

	require.Len(t, res.ForceBits, 1)
	assert.EqualValues(t, 0, res.ForceBits[0].Index)
}

func TestDisassembleZeroRequiredBit(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	flat := qlfbit.NewFlat(dev)
	flat.Set(2, true) // bit 3 left clear, as ENABLE's pattern requires

	res, err := disassembler.Disassemble(dev, flat, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "fpga_top.grid_clb_0__0_.ENABLE", res.Records[0].Feature)
	assert.EqualValues(t, 1, res.Records[0].Value)
}

func TestDisassembleClearedOmittedByDefault(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	flat := qlfbit.NewFlat(dev)

	res, err := disassembler.Disassemble(dev, flat, false)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.ForceBits)
}

func TestDisassembleIncludeCleared(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	flat := qlfbit.NewFlat(dev)

	res, err := disassembler.Disassemble(dev, flat, true)
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Empty(t, res.ForceBits)
}
