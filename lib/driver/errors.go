// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"fmt"
	"strings"

	"github.com/quicklogic-corp/qlfasm-go/lib/fasm"
)

// FlagMisuseError is the one error class that maps to exit code 1
// (§6); every other error is fatal (exit 255).
type FlagMisuseError struct {
	Message string
}

func (e *FlagMisuseError) Error() string { return e.Message }

// UnresolvedFeaturesError reports every FASM record the assembler
// could not resolve to a block or segbit pattern (§4.D, §7, S4).
type UnresolvedFeaturesError struct {
	Records []fasm.Record
}

func (e *UnresolvedFeaturesError) Error() string {
	lines := make([]string, len(e.Records))
	for i, r := range e.Records {
		lines[i] = r.Line
	}
	return fmt.Sprintf("unknown feature reference(s):\n%s", strings.Join(lines, "\n"))
}
