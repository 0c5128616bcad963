// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/bit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

func TestAbsAddrAddsRegionOffsetAndBlockOffset(t *testing.T) {
	region := qlfdb.Region{ID: 0, Offset: 100, Length: 8}
	addr := qlfdb.AbsAddr(region, 4, bit.Bit{Index: 2, Value: true})
	assert.Equal(t, bit.Addr(106), addr)
}

const deviceJSON = `{
  "configuration": {
    "type": "scan_chain",
    "length": 8,
    "regions": [{"id": 0, "offset": 0, "length": 8}]
  },
  "tiles": [{"type": "clb", "x": 0, "y": 0, "region": 0, "offset": 0}],
  "routing": []
}`

func writeFixture(t *testing.T, deviceJSONContent string, segbits map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "device.json"), []byte(deviceJSONContent), 0o644))
	for name, content := range segbits {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadValidDevice(t *testing.T) {
	dir := writeFixture(t, deviceJSON, map[string]string{
		"segbits_clb.db": "clb.ENABLE 0\n",
	})

	dev, err := qlfdb.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), dev.BitstreamSize)
	assert.Len(t, dev.Tiles, 1)

	loc := qlfdb.GridLoc{X: 0, Y: 0}
	tile, ok := dev.Tiles[loc]
	require.True(t, ok)
	assert.Equal(t, "clb", tile.Kind)
}

func TestLoadRejectsNonScanChainConfiguration(t *testing.T) {
	dir := writeFixture(t, `{"configuration":{"type":"packed","length":0,"regions":[]},"tiles":[],"routing":[]}`, nil)

	_, err := qlfdb.Load(context.Background(), dir)
	require.Error(t, err)
	var uErr *qlfdb.UnsupportedError
	require.ErrorAs(t, err, &uErr)
}

func TestLoadFailsWhenTileKindHasNoFeatureTable(t *testing.T) {
	dir := writeFixture(t, deviceJSON, nil) // no segbits_clb.db

	_, err := qlfdb.Load(context.Background(), dir)
	require.Error(t, err)
}

func TestLoadFailsWhenBitstreamSizeDisagreesWithRegions(t *testing.T) {
	bad := `{
  "configuration": {
    "type": "scan_chain",
    "length": 99,
    "regions": [{"id": 0, "offset": 0, "length": 8}]
  },
  "tiles": [],
  "routing": []
}`
	dir := writeFixture(t, bad, nil)

	_, err := qlfdb.Load(context.Background(), dir)
	require.Error(t, err)
	var iErr *qlfdb.IntegrityError
	require.ErrorAs(t, err, &iErr)
}

func TestLoadFailsWhenFeatureExceedsRegionLength(t *testing.T) {
	dir := writeFixture(t, deviceJSON, map[string]string{
		"segbits_clb.db": "clb.ENABLE 20\n",
	})

	_, err := qlfdb.Load(context.Background(), dir)
	require.Error(t, err)
	var iErr *qlfdb.IntegrityError
	require.ErrorAs(t, err, &iErr)
}

func TestRoutingVariantResolutionPrefersUnsuffixedNameForSoleSet(t *testing.T) {
	withRouting := `{
  "configuration": {
    "type": "scan_chain",
    "length": 8,
    "regions": [{"id": 0, "offset": 0, "length": 8}]
  },
  "tiles": [],
  "routing": [{"type": "sb", "variant": 0, "x": 0, "y": 0, "region": 0, "offset": 0}]
}`
	dir := writeFixture(t, withRouting, map[string]string{
		"segbits_sb.db": "sb.SEL0 0\n",
	})

	dev, err := qlfdb.Load(context.Background(), dir)
	require.NoError(t, err)
	loc := qlfdb.GridLoc{X: 0, Y: 0}
	rb, ok := dev.Routing[loc]["sb"]
	require.True(t, ok)
	ft, ok := dev.RoutingFeatures(rb)
	require.True(t, ok)
	assert.Contains(t, ft, "sb.SEL0")
}
