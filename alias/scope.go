// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package alias provides scope-based aliasing of GPU backing objects.
//
// A Scope identifies a contiguous range of a frame's submission order with
// a value/mask bit pattern, like a subnet test. Two transient resources may
// share one backing object exactly when their scopes do not overlap: the
// schedule then proves their lifetimes are disjoint. The Pool performs the
// bookkeeping: it hands out existing objects when a compatible, non-live
// one exists and materializes new ones otherwise.
//
// Overlap correctness is what keeps aliasing safe. A false "no overlap"
// would hand the same memory to two live resources and corrupt rendering;
// a false "overlap" merely costs an extra allocation.
package alias

// Scope identifies a range of a frame's submission order as a value/mask
// bit pattern. Two scopes overlap when their values agree on the bits both
// masks share. The zero value is NoAlias.
type Scope struct {
	Value uint64
	Mask  uint64
}

// NoAlias returns the distinguished scope that overlaps every scope,
// including itself. Its mask is zero, so the overlap test is vacuously
// true: resources created with it are never shared.
func NoAlias() Scope {
	return Scope{Value: 0, Mask: 0}
}

// Overlaps reports whether the two scopes can be live at the same time.
// Overlap is reflexive and symmetric, but not a partition: several distinct
// scopes may mutually overlap.
func (s Scope) Overlaps(other Scope) bool {
	m := s.Mask & other.Mask
	return s.Value&m == other.Value&m
}
