// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package driver implements the top-level assemble/disassemble/
// default-FASM flows (§4.F): mode selection, default-bitstream
// overlay, checksum policy, and the user-facing logging of each flow.
// The fasm, assembler and disassembler packages never log. The two
// exceptions among the codec packages log through the context's
// logger: qlfbit.DecodeText reports an under- or over-length txt
// input, and qlfdb.Load reports device.json read progress.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datawire/dlib/dlog"
	"github.com/davecgh/go-spew/spew"

	"github.com/quicklogic-corp/qlfasm-go/lib/assembler"
	"github.com/quicklogic-corp/qlfasm-go/lib/disassembler"
	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// Options bundles the codec CLI's policy flags (§6).
type Options struct {
	Format                 string // -f: "txt" or "4byte"
	UnsetFeatures           bool
	NoDefaultBitstream     bool
	DefaultBitstreamPath   string
	DefaultBitstreamFormat string
	Debug                  bool // --log-level DEBUG: spew.Sdump the device and assembled bit array
	CRC                    CrcPolicy
}

// spewDump renders v with go-spew, pointer addresses disabled so
// repeated runs produce comparable output, and logs it at debug level.
func spewDump(ctx context.Context, label string, v any) {
	cfg := spew.NewDefaultConfig()
	cfg.DisablePointerAddresses = true
	dlog.Debugf(ctx, "%s:\n%s", label, cfg.Sdump(v))
}

// loadSeed produces the working bit array an assemble call starts
// from: zero, or cloned from a default bitstream per policy.
func loadSeed(ctx context.Context, dev *qlfdb.Device, opts Options) (qlfbit.Flat, error) {
	if opts.NoDefaultBitstream {
		return qlfbit.NewFlat(dev), nil
	}

	path, format := opts.DefaultBitstreamPath, opts.DefaultBitstreamFormat
	if path == "" {
		if dev.DefaultBitstream == nil {
			dlog.Infof(ctx, "no default bitstream configured; starting from an all-zero bit array")
			return qlfbit.NewFlat(dev), nil
		}
		path, format = dev.DefaultBitstream.File, dev.DefaultBitstream.Format
	}
	if format == "" {
		format = "4byte"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dlog.Infof(ctx, "loading default bitstream %s (%s)", path, format)
	return decodeContainer(ctx, dev, f, format, opts.CRC)
}

// Assemble runs the assemble flow: read FASM, resolve against dev
// seeded from the default bitstream (unless disabled), write the
// external bitstream in the requested encoding (§4.F).
func Assemble(ctx context.Context, dev *qlfdb.Device, opts Options, inputPath, outputPath string) error {
	if opts.Debug {
		spewDump(ctx, "loaded device", dev)
	}

	seed, err := loadSeed(ctx, dev, opts)
	if err != nil {
		return err
	}

	inFile, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	records, err := fasm.ParseFile(inputPath, inFile)
	inFile.Close()
	if err != nil {
		return err
	}
	dlog.Debugf(ctx, "parsed %d FASM record(s) from %s", len(records), inputPath)

	res, err := assembler.Assemble(dev, seed, records)
	if err != nil {
		return err
	}
	if opts.Debug {
		spewDump(ctx, "assembled bit array", res.Flat)
	}
	if len(res.Unknown) > 0 {
		for _, rec := range res.Unknown {
			dlog.Errorf(ctx, "unresolved feature: %s", rec.Line)
		}
		return &UnresolvedFeaturesError{Records: res.Unknown}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if err := encodeContainer(dev, res.Flat, outFile, opts.Format, opts.CRC); err != nil {
		return err
	}
	dlog.Infof(ctx, "wrote %s (%s)", outputPath, opts.Format)
	return nil
}

// Disassemble runs the disassemble flow: read the external bitstream,
// validate checksums per policy, write canonical FASM and the
// force-bit file (§4.F).
func Disassemble(ctx context.Context, dev *qlfdb.Device, opts Options, inputPath, outputPath string) error {
	if opts.Debug {
		spewDump(ctx, "loaded device", dev)
	}

	inFile, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	flat, err := decodeContainer(ctx, dev, inFile, opts.Format, opts.CRC)
	inFile.Close()
	if err != nil {
		return err
	}

	return writeDisassembly(ctx, dev, flat, opts, outputPath)
}

// DefaultFasm runs the supplemented --default-fasm flow: disassemble
// the device's own default bitstream with no user overlay, so a user
// can inspect factory state as FASM.
func DefaultFasm(ctx context.Context, dev *qlfdb.Device, opts Options, outputPath string) error {
	if opts.Debug {
		spewDump(ctx, "loaded device", dev)
	}
	if dev.DefaultBitstream == nil {
		return fmt.Errorf("device has no default bitstream to disassemble")
	}
	f, err := os.Open(dev.DefaultBitstream.File)
	if err != nil {
		return err
	}
	format := dev.DefaultBitstream.Format
	if format == "" {
		format = "4byte"
	}
	flat, err := decodeContainer(ctx, dev, f, format, opts.CRC)
	f.Close()
	if err != nil {
		return err
	}

	return writeDisassembly(ctx, dev, flat, opts, outputPath)
}

// writeDisassembly runs the disassembler and writes both the FASM file
// and its companion force-bit file, named "<output>.force".
func writeDisassembly(ctx context.Context, dev *qlfdb.Device, flat qlfbit.Flat, opts Options, outputPath string) error {
	res, err := disassembler.Disassemble(dev, flat, opts.UnsetFeatures)
	if err != nil {
		return err
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	for _, rec := range res.Records {
		if _, err := fmt.Fprintln(outFile, rec.String()); err != nil {
			return err
		}
	}
	dlog.Infof(ctx, "wrote %d FASM record(s) to %s", len(res.Records), outputPath)

	forcePath := outputPath + ".force"
	forceFile, err := os.Create(forcePath)
	if err != nil {
		return err
	}
	defer forceFile.Close()
	for _, fb := range res.ForceBits {
		if _, err := fmt.Fprintln(forceFile, fb.String()); err != nil {
			return err
		}
	}
	dlog.Infof(ctx, "wrote %d force-bit line(s) to %s", len(res.ForceBits), forcePath)
	return nil
}

// ResolveDevicePath resolves the database root directory. A non-empty
// dbRoot is returned as-is; otherwise the --device bundled-name form
// resolves to "devices/<name>", relative to the working directory.
func ResolveDevicePath(dbRoot, deviceName string) string {
	if dbRoot != "" {
		return dbRoot
	}
	return filepath.Join("devices", deviceName)
}
