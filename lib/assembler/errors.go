// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

package assembler

import "fmt"

// LookupError describes a FASM feature reference that does not resolve
// to any block, or a resolved feature's sub-index that does not resolve
// to any segbit pattern (§4.D). Assemble does not return it: it
// collects such records in Result.Unknown, and the driver reports them
// as a fatal driver.UnresolvedFeaturesError.
type LookupError struct {
	Line   string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown feature: %s (%s)", e.Line, e.Reason)
}

// FeatureConflictError is raised immediately, aborting assembly, when
// two FASM records disagree on a feature's value or on an individual
// bit (§4.D, §7).
type FeatureConflictError struct {
	Kind      string // "feature-value" or "bit"
	Detail    string
	FirstLine string
	NextLine  string
}

func (e *FeatureConflictError) Error() string {
	return fmt.Sprintf("%s conflict (%s): %q conflicts with %q", e.Kind, e.Detail, e.FirstLine, e.NextLine)
}
