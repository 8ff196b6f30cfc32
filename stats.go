// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package abft

// Statistics aggregates storage totals, active shard count, an
// estimated cache hit rate, and the current consensus round.
type Statistics struct {
	TotalVertices   uint64
	ActiveShards    int
	CacheHitRate    float64
	ConsensusRounds uint64
}

// GetStatistics returns a point-in-time snapshot of the engine's
// aggregate state.
func (e *Engine) GetStatistics() Statistics {
	storageStats := e.store.Stats()
	stats := Statistics{
		TotalVertices:   storageStats.TotalVertices,
		ActiveShards:    e.coordinator.ActiveShardCount(),
		CacheHitRate:    storageStats.HitRatio(),
		ConsensusRounds: e.consensus.CurrentRound(),
	}
	e.metrics.Observe(stats)
	return stats
}
