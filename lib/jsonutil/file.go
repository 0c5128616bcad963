// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package jsonutil

import (
	"bufio"
	"context"
	"io"
	"os"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/quicklogic-corp/qlfasm-go/lib/streamio"
)

// ReadFile decodes a single JSON value from filename into a freshly
// zeroed T, reporting read progress on ctx's logger.
func ReadFile[T any](ctx context.Context, filename string) (T, error) {
	var zero T
	fh, err := os.Open(filename)
	if err != nil {
		return zero, err
	}
	scanner, err := streamio.NewRuneScanner(ctx, fh)
	if err != nil {
		_ = fh.Close()
		return zero, err
	}
	defer func() {
		_ = scanner.Close()
	}()
	var ret T
	if err := lowmemjson.DecodeThenEOF(scanner, &ret); err != nil {
		return zero, err
	}
	return ret, nil
}

// WriteFile encodes obj as JSON to w using cfg, flushing a buffered
// writer on the way out.
func WriteFile(w io.Writer, obj any, cfg lowmemjson.ReEncoder) (err error) {
	buffer := bufio.NewWriter(w)
	defer func() {
		if _err := buffer.Flush(); err == nil && _err != nil {
			err = _err
		}
	}()
	cfg.Out = buffer
	return lowmemjson.Encode(&cfg, obj)
}
