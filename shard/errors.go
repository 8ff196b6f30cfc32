// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import "errors"

var (
	// ErrShardNotFound is returned when an operation names a shard ID
	// that the coordinator does not track.
	ErrShardNotFound = errors.New("shard: shard not found")

	// ErrNoActiveShard is returned when assignment cannot find any
	// Active shard whose range covers the computed hash, which would
	// indicate a gap in hash-space coverage.
	ErrNoActiveShard = errors.New("shard: no active shard covers hash")

	// ErrMaxShardsReached is returned when a split is requested but
	// the active shard count is already at MaxShardCount.
	ErrMaxShardsReached = errors.New("shard: max shard count reached")

	// ErrShardNotActive is returned when a split or merge names a
	// shard that is not currently Active.
	ErrShardNotActive = errors.New("shard: shard is not active")
)
