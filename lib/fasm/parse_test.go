// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fasm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
)

func parseOne(t *testing.T, line string) fasm.Record {
	t.Helper()
	rec, ok, err := fasm.ParseLine(fasm.Position{Filename: "t.fasm", Line: 1}, line)
	require.NoError(t, err)
	require.True(t, ok)
	return rec
}

func TestParseLineBareFeature(t *testing.T) {
	rec := parseOne(t, "fpga_top.grid_clb_0__0_.ENABLE")
	assert.Nil(t, rec.Start)
	assert.Equal(t, uint64(1), rec.Value)
	assert.Equal(t, uint32(1), rec.Width())
}

func TestParseLineSingleIndex(t *testing.T) {
	rec := parseOne(t, "fpga_top.grid_clb_0__0_.LUT_INIT[1]=1'b1")
	require.NotNil(t, rec.Start)
	require.NotNil(t, rec.End)
	assert.Equal(t, uint32(1), *rec.Start)
	assert.Equal(t, uint32(1), *rec.End)
	assert.Equal(t, uint64(1), rec.Value)
}

func TestParseLineRange(t *testing.T) {
	rec := parseOne(t, "fpga_top.grid_clb_0__0_.LUT_INIT[1:0]=2'b01")
	assert.Equal(t, uint32(0), *rec.Start)
	assert.Equal(t, uint32(1), *rec.End)
	assert.Equal(t, uint64(1), rec.Value)
	assert.Equal(t, uint32(2), rec.Width())
}

func TestParseLineHexValue(t *testing.T) {
	rec := parseOne(t, "fpga_top.grid_clb_0__0_.LUT_INIT[3:0]=4'hA")
	assert.Equal(t, uint64(0xA), rec.Value)
}

func TestParseLineRejectsInvertedRange(t *testing.T) {
	_, _, err := fasm.ParseLine(fasm.Position{Filename: "t.fasm", Line: 1}, "X[0:3]=4'b0000")
	require.Error(t, err)
	var pErr *fasm.ParseError
	require.ErrorAs(t, err, &pErr)
}

func TestParseLineRejectsMalformed(t *testing.T) {
	_, _, err := fasm.ParseLine(fasm.Position{Filename: "t.fasm", Line: 1}, "not a feature =")
	require.Error(t, err)
}

func TestParseLineIgnoresCommentsAndAnnotations(t *testing.T) {
	rec, ok, err := fasm.ParseLine(fasm.Position{Filename: "t.fasm", Line: 1}, "  # just a comment")
	require.NoError(t, err)
	assert.False(t, ok)

	rec, ok, err = fasm.ParseLine(fasm.Position{Filename: "t.fasm", Line: 1}, "X.Y{ANNOTATION} # trailing")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "X.Y", rec.Feature)
}

func TestParseFileSkipsBlankAndCommentLines(t *testing.T) {
	src := "X.A\n\n# comment\nX.B[0]=1'b0\n"
	recs, err := fasm.ParseFile("t.fasm", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "X.A", recs[0].Feature)
	assert.Equal(t, "X.B", recs[1].Feature)
}

func TestRecordStringRoundTripsCanonicalForms(t *testing.T) {
	assert.Equal(t, "X.A", fasm.Record{Feature: "X.A", Value: 1}.String())
	assert.Equal(t, "X.A=1'b0", fasm.Record{Feature: "X.A", Value: 0}.String())

	rng := parseOne(t, "X.B[1:0]=2'b01")
	assert.Equal(t, "X.B[1:0]=2'b01", rng.String())
}

func TestForceBitString(t *testing.T) {
	fb := fasm.ForceBit{Feature: "fpga_top.grid_clb_0__0_.LUT_INIT", Index: 1}
	assert.Equal(t, "force fpga_top.grid_clb_0__0_.LUT_INIT[1]=1'b1;", fb.String())
}
