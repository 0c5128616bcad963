// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/datawire/dlib/dlog"

	"github.com/quicklogic-corp/qlfasm-go/lib/qlfbit"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
)

// CrcPolicy is the resolved --no-crc / --no-check-crc pair (§4.F).
type CrcPolicy struct {
	NoCRC      bool // disable reading/writing/computing checksums entirely
	NoCheckCRC bool // read checksums but demote a mismatch to a warning
}

// decodeContainer reads and decodes an external bitstream file of the
// given encoding ("txt" or "4byte"), applying the checksum policy for
// the 4-byte encoding.
func decodeContainer(ctx context.Context, dev *qlfdb.Device, r io.Reader, format string, policy CrcPolicy) (qlfbit.Flat, error) {
	switch format {
	case "txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return qlfbit.DecodeText(ctx, dev, data), nil
	case "4byte":
		fb, err := qlfbit.ReadFourByte(dev, r, !policy.NoCRC)
		if err != nil {
			return nil, err
		}
		flat := fb.Decode()
		if !policy.NoCRC {
			if _, err := fb.Validate(flat); err != nil {
				if policy.NoCheckCRC {
					dlog.Warnf(ctx, "checksum mismatch, proceeding (--no-check-crc): %v", err)
				} else {
					return nil, err
				}
			}
		}
		return flat, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", format)
	}
}

// encodeContainer encodes a flat bit array to the given external
// encoding and writes it to w, computing checksums for the 4-byte
// encoding unless disabled.
func encodeContainer(dev *qlfdb.Device, flat qlfbit.Flat, w io.Writer, format string, policy CrcPolicy) error {
	switch format {
	case "txt":
		_, err := w.Write(qlfbit.EncodeText(dev, flat))
		return err
	case "4byte":
		fb := qlfbit.EncodeFourByte(dev, flat)
		if !policy.NoCRC {
			fb.ComputeChecksums(flat)
		}
		return fb.Write(w, !policy.NoCRC)
	default:
		return fmt.Errorf("unsupported encoding %q", format)
	}
}
