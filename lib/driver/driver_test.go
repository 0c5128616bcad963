// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/driver"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/segbit"
)

func testDevice() *qlfdb.Device {
	region := qlfdb.Region{ID: 0, Offset: 0, Length: 8}
	tile := &qlfdb.TileBlock{Kind: "clb", Loc: qlfdb.GridLoc{X: 0, Y: 0}, RegionID: 0, Offset: 0}
	enable := &qlfdb.Feature{
		Width:    1,
		Patterns: map[int]segbit.Pattern{qlfdb.Unindexed: {{Index: 0, Value: true}}},
	}
	return &qlfdb.Device{
		BitstreamSize: 8,
		Regions:       map[uint32]qlfdb.Region{0: region},
		Tiles:         map[qlfdb.GridLoc]*qlfdb.TileBlock{tile.Loc: tile},
		Routing:       map[qlfdb.GridLoc]map[string]*qlfdb.RoutingBlock{},
		Features:      map[string]qlfdb.FeatureTable{"clb": {"ENABLE": enable}},
	}
}

func TestAssembleDisassembleRoundTripTxt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := testDevice()
	dir := t.TempDir()

	fasmPath := filepath.Join(dir, "in.fasm")
	require.NoError(t, os.WriteFile(fasmPath, []byte("fpga_top.grid_clb_0__0_.ENABLE\n"), 0o644))

	binPath := filepath.Join(dir, "out.bit")
	opts := driver.Options{Format: "txt", NoDefaultBitstream: true, CRC: driver.CrcPolicy{NoCRC: true}}
	require.NoError(t, driver.Assemble(ctx, dev, opts, fasmPath, binPath))

	outFasmPath := filepath.Join(dir, "out.fasm")
	require.NoError(t, driver.Disassemble(ctx, dev, opts, binPath, outFasmPath))

	data, err := os.ReadFile(outFasmPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fpga_top.grid_clb_0__0_.ENABLE")

	forceData, err := os.ReadFile(outFasmPath + ".force")
	require.NoError(t, err)
	assert.Contains(t, string(forceData), "force fpga_top.grid_clb_0__0_.ENABLE[0]=1'b1;")
}

func TestSelectModeMutuallyExclusive(t *testing.T) {
	t.Parallel()
	_, err := driver.SelectMode(true, true, "x.fasm")
	require.Error(t, err)
	var misuse *driver.FlagMisuseError
	require.ErrorAs(t, err, &misuse)
}

func TestSelectModeByExtension(t *testing.T) {
	t.Parallel()
	assemble, err := driver.SelectMode(false, false, "x.fasm")
	require.NoError(t, err)
	assert.True(t, assemble)

	assemble, err = driver.SelectMode(false, false, "x.bit")
	require.NoError(t, err)
	assert.False(t, assemble)
}
