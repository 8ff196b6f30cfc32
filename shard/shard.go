// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import "time"

// Status is a shard's lifecycle state.
type Status int

const (
	StatusActive Status = iota
	StatusSplitting
	StatusMerging
	StatusInactive
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusSplitting:
		return "Splitting"
	case StatusMerging:
		return "Merging"
	case StatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// HashRange is a half-open [Start, End) slice of the 64-bit hash space
// a shard owns.
type HashRange struct {
	Start uint64
	End   uint64
}

// Contains reports whether h falls within [r.Start, r.End).
func (r HashRange) Contains(h uint64) bool {
	return h >= r.Start && h < r.End
}

// Shard is a namespace-routed partition of the hash space.
type Shard struct {
	ID            uint32
	Namespaces    *NamespaceSet
	HashRange     HashRange
	CreatedAt     time.Time
	ParentShardID *uint32
	Status        Status
}

// newShard constructs an Active shard owning r, with no namespaces yet.
func newShard(id uint32, r HashRange) *Shard {
	return &Shard{
		ID:         id,
		Namespaces: NewNamespaceSet(),
		HashRange:  r,
		CreatedAt:  time.Now(),
		Status:     StatusActive,
	}
}
