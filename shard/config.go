// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package shard implements namespace-consistent-hash shard assignment
// with split/merge rebalancing under load.
package shard

import "time"

// Config configures a Coordinator via a preset-constructor style
// rather than field-by-field defaults.
type Config struct {
	InitialShardCount     int
	MaxShardTPS           float64
	MinShardTPS           float64
	MaxShardCount         int
	RebalanceIntervalSecs int
}

// DefaultConfig returns reasonable defaults for a single-node deployment.
func DefaultConfig() Config {
	return Config{
		InitialShardCount:     4,
		MaxShardTPS:           10_000,
		MinShardTPS:           1_000,
		MaxShardCount:         1_024,
		RebalanceIntervalSecs: 300,
	}
}

// RebalanceInterval returns RebalanceIntervalSecs as a time.Duration.
func (c Config) RebalanceInterval() time.Duration {
	return time.Duration(c.RebalanceIntervalSecs) * time.Second
}
