// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qlfbit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// Checksums is the stored head/tail checksum pair of a 4-byte bitstream.
type Checksums struct {
	Head Word
	Tail Word
}

// FourByte is the state-machine object for the 4-byte encoding
// described in §4.C:
//
//	empty --read--> parsed{words, crc?} --decode--> flat
//	flat --encode--> built{words, crc=unset} --ComputeChecksums--> built{words, crc=set} --write--> file
type FourByte struct {
	dev   *qlfdb.Device
	words []Word // forward order, head-padded (word 0 first)
	crc   *Checksums
}

// EncodeFourByte builds a FourByte container (state "built", crc unset)
// from a flat bit array.
func EncodeFourByte(dev *qlfdb.Device, flat Flat) *FourByte {
	lmax := maxRegionLength(dev)
	return &FourByte{
		dev:   dev,
		words: buildPlaneWords(dev, flat, lmax, true),
	}
}

// ComputeChecksums stamps the container's checksum pair in place,
// computed from the device's current bit planes. The head checksum is
// fletcher over the same reversed word stream ReadFourByte/write will
// emit; the tail checksum is fletcher over the independently
// tail-padded stream with its first word dropped and a zero word
// appended, per the hardware loader quirk noted in §9.
func (fb *FourByte) ComputeChecksums(flat Flat) {
	lmax := maxRegionLength(fb.dev)
	headStream := reverseWords(fb.words)
	tailWords := buildPlaneWords(fb.dev, flat, lmax, false)
	tailStream := reverseWords(tailWords)
	wordPool.Put(tailWords)
	fb.crc = &Checksums{
		Head: fletcherComplement(headStream),
		Tail: fletcherComplement(tailStreamDropFirst(tailStream)),
	}
	wordPool.Put(headStream)
}

// tailStreamDropFirst applies the hardware loader's tail-checksum quirk
// (§9): drop the first word and append a zero word. The input is
// returned to the pool once its last use (the copy below) completes.
func tailStreamDropFirst(tailStream []Word) []Word {
	if len(tailStream) == 0 {
		return tailStream
	}
	out := append(append([]Word{}, tailStream[1:]...), Word(0))
	wordPool.Put(tailStream)
	return out
}

// Validate recomputes both checksums, as ComputeChecksums does (the
// head from the container's own word stream, the tail from flat), and
// reports whether they equal the stored pair (§4.C validate(device)).
func (fb *FourByte) Validate(flat Flat) (bool, error) {
	if fb.crc == nil {
		return false, fmt.Errorf("no stored checksums to validate")
	}
	stored := *fb.crc
	fb.ComputeChecksums(flat)
	computed := *fb.crc
	fb.crc = &stored
	if computed.Head != stored.Head {
		return false, &CrcMismatchError{Which: "head", Stored: stored.Head, Computed: computed.Head}
	}
	if computed.Tail != stored.Tail {
		return false, &CrcMismatchError{Which: "tail", Stored: stored.Tail, Computed: computed.Tail}
	}
	return true, nil
}

// Checksums returns the container's stored checksum pair, if any.
func (fb *FourByte) Checksums() (Checksums, bool) {
	if fb.crc == nil {
		return Checksums{}, false
	}
	return *fb.crc, true
}

// Decode reconstructs the flat bit array from a parsed FourByte
// container (§4.C: decode ignores crc).
func (fb *FourByte) Decode() Flat {
	return planesToFlat(fb.dev, fb.words)
}

// ReadFourByte parses a 4-byte-encoded bitstream: one 8-hex-digit word
// per line, optionally preceded by a head/tail checksum pair, followed
// by the reversed word stream. withChecksums selects whether the first
// two lines are treated as the checksum pair (policy flag --no-crc).
func ReadFourByte(dev *qlfdb.Device, r io.Reader, withChecksums bool) (*FourByte, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Encoding: "4byte", Err: err}
	}

	fb := &FourByte{dev: dev}
	if withChecksums {
		if len(lines) < 2 {
			return nil, &ParseError{Encoding: "4byte", Err: fmt.Errorf("file too short for checksum header")}
		}
		head, err := ParseWord(lines[0])
		if err != nil {
			return nil, &ParseError{Encoding: "4byte", Err: err}
		}
		tail, err := ParseWord(lines[1])
		if err != nil {
			return nil, &ParseError{Encoding: "4byte", Err: err}
		}
		fb.crc = &Checksums{Head: head, Tail: tail}
		lines = lines[2:]
	}

	reversed := make([]Word, len(lines))
	for i, line := range lines {
		w, err := ParseWord(line)
		if err != nil {
			return nil, &ParseError{Encoding: "4byte", Err: err}
		}
		reversed[i] = w
	}
	fb.words = reverseWords(reversed)
	return fb, nil
}

// Write emits the container to w: the stored checksum pair (if
// withChecksums and ComputeChecksums has run), then the reversed word
// stream, one 8-hex-digit word per line.
func (fb *FourByte) Write(w io.Writer, withChecksums bool) error {
	bw := bufio.NewWriter(w)
	if withChecksums {
		if fb.crc == nil {
			return fmt.Errorf("checksums requested but not computed")
		}
		if _, err := fmt.Fprintln(bw, fb.crc.Head.String()); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, fb.crc.Tail.String()); err != nil {
			return err
		}
	}
	stream := reverseWords(fb.words)
	for _, w2 := range stream {
		if _, err := fmt.Fprintln(bw, w2.String()); err != nil {
			return err
		}
	}
	wordPool.Put(stream)
	return bw.Flush()
}
