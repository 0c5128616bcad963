// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package assembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/assembler"
	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

func u32p(v uint32) *uint32 { return &v }

func testDevice() *qlfdb.Device {
	region := qlfdb.Region{ID: 0, Offset: 0, Length: 64}
	tile := &qlfdb.TileBlock{Kind: "clb", Loc: qlfdb.GridLoc{X: 0, Y: 0}, RegionID: 0, Offset: 0}
	sb := &qlfdb.RoutingBlock{Kind: "sb", Variant: 0, Loc: qlfdb.GridLoc{X: 0, Y: 0}, RegionID: 0, Offset: 32}

	luts := &qlfdb.Feature{
		Width: 2,
		Patterns: map[int]segbit.Pattern{
			0: {{Index: 0, Value: true}},
			1: {{Index: 1, Value: true}},
		},
	}
	sel0 := &qlfdb.Feature{
		Width:    1,
		Patterns: map[int]segbit.Pattern{qlfdb.Unindexed: {{Index: 4, Value: true}}},
	}

	return &qlfdb.Device{
		BitstreamSize: 64,
		Regions:       map[uint32]qlfdb.Region{0: region},
		Tiles:         map[qlfdb.GridLoc]*qlfdb.TileBlock{tile.Loc: tile},
		Routing: map[qlfdb.GridLoc]map[string]*qlfdb.RoutingBlock{
			sb.Loc: {"sb": sb},
		},
		Features: map[string]qlfdb.FeatureTable{
			"clb": {"LUT_INIT": luts},
			"sb":  {"SEL0": sel0},
		},
	}
}

func TestAssembleSetsResolvedBits(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	records := []fasm.Record{
		{Feature: "fpga_top.grid_clb_0__0_.LUT_INIT", Start: u32p(0), End: u32p(1), Value: 1, Line: "line1"},
	}
	res, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), records)
	require.NoError(t, err)
	assert.Empty(t, res.Unknown)
	assert.True(t, res.Flat.Get(bit.Addr(0)))
	assert.False(t, res.Flat.Get(bit.Addr(1)))
}

func TestAssembleInversion(t *testing.T) {
	t.Parallel()
	dev := testDevice()

	plain, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), []fasm.Record{
		{Feature: "fpga_top.sb_0__0_.SEL0", Value: 1, Line: "line1"},
	})
	require.NoError(t, err)
	assert.True(t, plain.Flat.Get(bit.Addr(32+4)))

	inverted, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), []fasm.Record{
		{Feature: "fpga_top.sb_0__0_.NOT_SEL0", Value: 1, Line: "line1"},
	})
	require.NoError(t, err)
	assert.False(t, inverted.Flat.Get(bit.Addr(32+4)))
}

func TestAssembleFeatureValueConflict(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	records := []fasm.Record{
		{Feature: "fpga_top.grid_clb_0__0_.LUT_INIT", Start: u32p(0), End: u32p(1), Value: 1, Line: "line1"},
		{Feature: "fpga_top.grid_clb_0__0_.LUT_INIT", Start: u32p(0), End: u32p(0), Value: 0, Line: "line2"},
	}
	_, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), records)
	require.Error(t, err)
	var conflict *assembler.FeatureConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "feature-value", conflict.Kind)
}

func TestAssembleBitConflict(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	records := []fasm.Record{
		{Feature: "fpga_top.sb_0__0_.SEL0", Value: 1, Line: "line1"},
		{Feature: "fpga_top.sb_0__0_.NOT_SEL0", Value: 1, Line: "line2"},
	}
	_, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), records)
	require.Error(t, err)
	var conflict *assembler.FeatureConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "bit", conflict.Kind)
}

func TestAssembleUnknownFeatureAccumulates(t *testing.T) {
	t.Parallel()
	dev := testDevice()
	records := []fasm.Record{
		{Feature: "fpga_top.grid_clb_0__0_.NO_SUCH_FEATURE", Value: 1, Line: "line1"},
		{Feature: "fpga_top.grid_clb_1__1_.LUT_INIT", Value: 1, Line: "line2"},
	}
	res, err := assembler.Assemble(dev, qlfbit.NewFlat(dev), records)
	require.NoError(t, err)
	assert.Len(t, res.Unknown, 2)
}
