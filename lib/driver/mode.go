// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"fmt"
	"strings"
)

// SelectMode resolves the top-level (assemble_flag, disassemble_flag,
// input-ext) state machine of §4.F. Explicit flags win; otherwise the
// input file's extension drives the choice: ".fasm" assembles,
// ".bit"/".bin" disassembles.
func SelectMode(assembleFlag, disassembleFlag bool, inputPath string) (assemble bool, err error) {
	if assembleFlag && disassembleFlag {
		return false, &FlagMisuseError{Message: "-a and -d are mutually exclusive"}
	}
	if assembleFlag {
		return true, nil
	}
	if disassembleFlag {
		return false, nil
	}

	lower := strings.ToLower(inputPath)
	switch {
	case strings.HasSuffix(lower, ".fasm"):
		return true, nil
	case strings.HasSuffix(lower, ".bit"), strings.HasSuffix(lower, ".bin"):
		return false, nil
	default:
		return false, fmt.Errorf("cannot infer conversion direction from input file %q; pass -a or -d", inputPath)
	}
}
