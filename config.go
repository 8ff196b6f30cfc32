// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package abft

import (
	"github.com/vertexledger/abft/consensus"
	"github.com/vertexledger/abft/shard"
	"github.com/vertexledger/abft/storage"
)

// Config configures an Engine via a preset-constructor style rather
// than field-by-field defaults.
type Config struct {
	StoragePath string

	Consensus consensus.Config
	Shard     shard.Config
	Storage   storage.Config

	// StrictParentChecks toggles parent-existence and
	// clock-monotonicity validation at insertion. Bootstrap modes that
	// insert vertices out of causal order may disable this.
	StrictParentChecks bool
}

// DefaultConfig returns reasonable defaults for a single-node deployment
// rooted at storagePath.
func DefaultConfig(storagePath string) Config {
	return Config{
		StoragePath:        storagePath,
		Consensus:          consensus.DefaultConfig(),
		Shard:              shard.DefaultConfig(),
		Storage:            storage.DefaultConfig(storagePath),
		StrictParentChecks: true,
	}
}
