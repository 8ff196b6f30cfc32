// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import "time"

// Config configures an Engine via a preset-constructor style rather
// than field-by-field defaults.
type Config struct {
	MinValidators     int
	MaxValidators     int
	BFTThreshold      float64
	RoundTimeoutMs    int
	MaxFinalityRounds int
}

// DefaultConfig returns reasonable defaults for a single-node deployment.
func DefaultConfig() Config {
	return Config{
		MinValidators:     4,
		MaxValidators:     25,
		BFTThreshold:      0.67,
		RoundTimeoutMs:    2000,
		MaxFinalityRounds: 10,
	}
}

// RoundTimeout returns RoundTimeoutMs as a time.Duration.
func (c Config) RoundTimeout() time.Duration {
	return time.Duration(c.RoundTimeoutMs) * time.Millisecond
}
