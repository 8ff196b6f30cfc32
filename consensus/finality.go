// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import "github.com/vertexledger/abft/crypto"

// IsFinalized reports whether hash has a persisted finality proof.
func (e *Engine) IsFinalized(hash crypto.Hash) bool {
	return e.FinalityProofFor(hash) != nil
}

// FinalizedCount returns the number of vertices with a persisted
// finality proof.
func (e *Engine) FinalizedCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.finality)
}
