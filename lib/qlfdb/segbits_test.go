// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSegbitsFileUnindexedFeature(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "segbits_clb.db", "CLB.ENABLE 4 !5\n")

	ft, err := loadSegbitsFile(context.Background(), path)
	require.NoError(t, err)
	feat, ok := ft["CLB.ENABLE"]
	require.True(t, ok)
	assert.Equal(t, uint32(1), feat.Width)
	pattern, ok := feat.Patterns[Unindexed]
	require.True(t, ok)
	assert.Len(t, pattern, 2)
}

func TestLoadSegbitsFileIndexedFeature(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "segbits_clb.db", strings.Join([]string{
		"CLB.LUT_INIT[0] 0",
		"CLB.LUT_INIT[1] 1",
	}, "\n")+"\n")

	ft, err := loadSegbitsFile(context.Background(), path)
	require.NoError(t, err)
	feat, ok := ft["CLB.LUT_INIT"]
	require.True(t, ok)
	assert.Equal(t, uint32(2), feat.Width)
}

func TestLoadSegbitsFileRejectsSparseIndices(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "segbits_clb.db", "CLB.LUT_INIT[0] 0\nCLB.LUT_INIT[2] 2\n")

	_, err := loadSegbitsFile(context.Background(), path)
	require.Error(t, err)
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
}

func TestLoadSegbitsFileRejectsMixedIndexedAndUnindexed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "segbits_clb.db", "CLB.X 0\nCLB.X[0] 1\n")

	_, err := loadSegbitsFile(context.Background(), path)
	require.Error(t, err)
}

func TestLoadSegbitsFileSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "segbits_clb.db", "\nCLB.X 0\n\n")

	ft, err := loadSegbitsFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, ft, 1)
}
