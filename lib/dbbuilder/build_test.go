// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dbbuilder

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoClbFixture = `<?xml version="1.0"?>
<fabric_bitstream>
  <region id="0">
    <bit id="0" path="fpga_top.grid_clb_0__0_.LUT_INIT[0]"/>
    <bit id="1" path="fpga_top.grid_clb_0__0_.LUT_INIT[1]"/>
    <bit id="2" path="fpga_top.grid_clb_1__0_.LUT_INIT[0]"/>
    <bit id="3" path="fpga_top.grid_clb_1__0_.LUT_INIT[1]"/>
    <bit id="4" path="fpga_top.sb_0__0_.SEL0"/>
  </region>
</fabric_bitstream>`

func TestParseXMLClassifiesTilesAndRouting(t *testing.T) {
	refs, err := parseXML(strings.NewReader(twoClbFixture))
	require.NoError(t, err)
	require.Len(t, refs, 5)
	assert.True(t, refs[0].IsTile)
	assert.Equal(t, "clb", refs[0].Kind)
	assert.Equal(t, gridLoc{X: 0, Y: 0}, refs[0].Loc)
	assert.False(t, refs[4].IsTile)
	assert.Equal(t, "sb", refs[4].Kind)
}

func TestParseXMLRejectsFrameStyle(t *testing.T) {
	const frameFixture = `<fabric_bitstream>
	  <region id="0"><bit id="0" path="fpga_top.grid_clb_0__0_.X"><frame/></bit></region>
	</fabric_bitstream>`
	_, err := parseXML(strings.NewReader(frameFixture))
	require.Error(t, err)
	var uErr *UnsupportedError
	require.ErrorAs(t, err, &uErr)
}

func TestBuildDiscoversRepeatedTileLayout(t *testing.T) {
	db, err := Build(context.Background(), strings.NewReader(twoClbFixture))
	require.NoError(t, err)
	require.Len(t, db.Tiles, 2)
	ft, ok := db.Features["clb"]
	require.True(t, ok)
	feat, ok := ft["LUT_INIT"]
	require.True(t, ok)
	assert.Equal(t, uint32(2), feat.Width)
}

func TestBuildFailsOnInconsistentTileLayout(t *testing.T) {
	const mismatched = `<fabric_bitstream>
	  <region id="0">
	    <bit id="0" path="fpga_top.grid_clb_0__0_.LUT_INIT[0]"/>
	    <bit id="1" path="fpga_top.grid_clb_1__0_.ENABLE"/>
	  </region>
	</fabric_bitstream>`
	_, err := Build(context.Background(), strings.NewReader(mismatched))
	require.Error(t, err)
	var iErr *IntegrityError
	require.ErrorAs(t, err, &iErr)
}

func TestDiscoverSetsSplitsRoutingVariants(t *testing.T) {
	locGroups := map[gridLoc][]bitRef{
		{X: 0, Y: 0}: {{RegionID: 0, BitID: 0, LocalName: "SEL0"}},
		{X: 1, Y: 0}: {{RegionID: 0, BitID: 1, LocalName: "SEL0"}, {RegionID: 0, BitID: 2, LocalName: "SEL1"}},
	}
	sets, err := discoverSets(locGroups)
	require.NoError(t, err)
	require.Len(t, sets, 2)
}
