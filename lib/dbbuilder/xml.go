// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package dbbuilder builds a qlfdb-layout database from a fabric's
// per-bit XML dump (§4.G): region extents, per-block-kind segbit-set
// discovery, and device.json/segbits file emission.
package dbbuilder

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// xmlBit is one <bit id=... path=.../> leaf. A <wl>, <bl>, or <frame>
// child marks a non-scan-chain (word-line/bit-line/frame) dump, which
// this builder does not support.
type xmlBit struct {
	ID    uint32   `xml:"id,attr"`
	Path  string   `xml:"path,attr"`
	WL    *struct{} `xml:"wl"`
	BL    *struct{} `xml:"bl"`
	Frame *struct{} `xml:"frame"`
}

type xmlRegion struct {
	ID   uint32    `xml:"id,attr"`
	Bits []xmlBit  `xml:"bit"`
}

type xmlFabricBitstream struct {
	XMLName xml.Name    `xml:"fabric_bitstream"`
	Regions []xmlRegion `xml:"region"`
}

// bitRef is one parsed <bit>: its region, its bit_id, and the block it
// addresses, decomposed per the same path grammar the assembler and
// disassembler use (§4.D, §4.G).
type bitRef struct {
	RegionID  uint32
	BitID     uint32
	Kind      string // tile kind, or routing token ("sb"/"cbx"/"cby")
	IsTile    bool
	Loc       gridLoc
	LocalName string // everything after the block tag
}

type gridLoc struct{ X, Y uint32 }

var blockTagRe = regexp.MustCompile(`^(.+)_([0-9]+)__([0-9]+)_$`)

// parseXML reads a fabric_bitstream document and flattens it into bit
// references, rejecting any wl/bl/frame-style entry.
func parseXML(r io.Reader) ([]bitRef, error) {
	var doc xmlFabricBitstream
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	var refs []bitRef
	for _, region := range doc.Regions {
		for _, b := range region.Bits {
			if b.WL != nil || b.BL != nil || b.Frame != nil {
				return nil, &UnsupportedError{Reason: fmt.Sprintf("bit %d: wl/bl/frame-style entries are not scan-chain bitstreams", b.ID)}
			}
			ref, err := classifyPath(region.ID, b.ID, b.Path)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// classifyPath splits a bit's dotted path the same way the assembler
// resolves a FASM feature reference: fpga_top.<block-tag>.<local-name>,
// block tag <name>_<x>__<y>_, tile iff name starts with "grid_".
func classifyPath(regionID, bitID uint32, path string) (bitRef, error) {
	parts := strings.Split(path, ".")
	if len(parts) < 3 || parts[0] != "fpga_top" {
		return bitRef{}, &ParseError{Err: fmt.Errorf("bit %d: path %q does not start with fpga_top.<block>", bitID, path)}
	}
	m := blockTagRe.FindStringSubmatch(parts[1])
	if m == nil {
		return bitRef{}, &ParseError{Err: fmt.Errorf("bit %d: block tag %q does not match the grid-location pattern", bitID, parts[1])}
	}
	name := m[1]
	x, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return bitRef{}, &ParseError{Err: err}
	}
	y, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return bitRef{}, &ParseError{Err: err}
	}
	loc := gridLoc{X: uint32(x), Y: uint32(y)}
	localName := strings.Join(parts[2:], ".")

	if strings.HasPrefix(name, "grid_") {
		return bitRef{
			RegionID: regionID, BitID: bitID,
			Kind: strings.TrimPrefix(name, "grid_"), IsTile: true,
			Loc: loc, LocalName: localName,
		}, nil
	}
	token := strings.SplitN(name, "_", 2)[0]
	return bitRef{
		RegionID: regionID, BitID: bitID,
		Kind: token, IsTile: false,
		Loc: loc, LocalName: localName,
	}, nil
}
