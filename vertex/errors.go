// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import "errors"

// Sentinel errors for vertex validation failures, following a plain
// errors.New idiom rather than a wrapped-error framework.
// ValidateDAGProperties returns the first three.
var (
	// ErrTooFewParents is returned when a non-genesis vertex has
	// fewer than two parents.
	ErrTooFewParents = errors.New("vertex: non-genesis vertex must have at least 2 parents")

	// ErrDuplicateParent is returned when a vertex lists the same
	// parent hash more than once.
	ErrDuplicateParent = errors.New("vertex: duplicate parent hash")

	// ErrClockNotMonotonic is returned when a vertex's logical clock
	// does not exceed the maximum of its parents' clocks.
	ErrClockNotMonotonic = errors.New("vertex: logical clock not greater than all parents")

	// ErrHashMismatch is returned when a vertex's stored hash does
	// not match its recomputed canonical hash.
	ErrHashMismatch = errors.New("vertex: hash does not match canonical encoding")

	// ErrZeroSignature is returned when a vertex's signature is the
	// all-zero placeholder.
	ErrZeroSignature = errors.New("vertex: signature is all-zero")
)
