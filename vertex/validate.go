// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import "golang.org/x/exp/maps"

// ValidateDAGProperties enforces that a non-genesis vertex has at
// least two parents, no duplicate parents, and a logical clock
// strictly greater than every parent's. parentClocks must contain one
// entry per v.Parents, in the same order, resolved by the caller
// (typically the storage layer) since this package has no notion of a
// DAG beyond a single vertex's own fields.
func ValidateDAGProperties(v *Vertex, parentClocks []uint64) error {
	if v.IsGenesis() {
		return nil
	}
	if len(v.Parents) < 2 {
		return ErrTooFewParents
	}
	if len(parentClocks) != len(v.Parents) {
		return ErrTooFewParents
	}

	seen := make(map[string]struct{}, len(v.Parents))
	var maxParentClock uint64
	for i, p := range v.Parents {
		seen[string(p[:])] = struct{}{}
		if c := parentClocks[i]; c > maxParentClock {
			maxParentClock = c
		}
	}
	if len(maps.Keys(seen)) != len(v.Parents) {
		return ErrDuplicateParent
	}

	if v.LogicalClock <= maxParentClock {
		return ErrClockNotMonotonic
	}
	return nil
}

// VerifyHash reports whether v.Hash equals its recomputed canonical
// hash.
func VerifyHash(v *Vertex) bool {
	return v.Hash == v.CanonicalHash()
}

// VerifySignature returns true iff the vertex's signature is not the
// all-zero placeholder. Real BLS verification is out of scope.
func VerifySignature(v *Vertex) bool {
	return !v.Signature.IsZero()
}
