// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package abft

import "github.com/prometheus/client_golang/prometheus"

// Metrics registers the engine's point-in-time counters as Prometheus
// collectors. It wraps a bare Registerer rather than owning a private
// registry.
type Metrics struct {
	reg prometheus.Registerer

	totalVertices   prometheus.Gauge
	activeShards    prometheus.Gauge
	cacheHitRate    prometheus.Gauge
	consensusRounds prometheus.Gauge
}

// NewMetrics constructs and registers the engine's collectors against
// reg. Callers that don't want Prometheus export can pass nil, in
// which case Observe becomes a no-op.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return &Metrics{}, nil
	}

	m := &Metrics{
		reg: reg,
		totalVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "abft",
			Name:      "total_vertices",
			Help:      "Total vertices admitted into the DAG.",
		}),
		activeShards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "abft",
			Name:      "active_shards",
			Help:      "Number of shards currently in the Active state.",
		}),
		cacheHitRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "abft",
			Name:      "cache_hit_rate",
			Help:      "Storage cache hit ratio over the process lifetime.",
		}),
		consensusRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "abft",
			Name:      "consensus_rounds_total",
			Help:      "Consensus rounds processed so far.",
		}),
	}

	for _, c := range []prometheus.Collector{m.totalVertices, m.activeShards, m.cacheHitRate, m.consensusRounds} {
		if err := reg.Register(c); err != nil {
			return nil, newError(ErrConfig, "new-metrics", err)
		}
	}
	return m, nil
}

// Observe updates every collector from a fresh Statistics snapshot.
func (m *Metrics) Observe(stats Statistics) {
	if m.reg == nil {
		return
	}
	m.totalVertices.Set(float64(stats.TotalVertices))
	m.activeShards.Set(float64(stats.ActiveShards))
	m.cacheHitRate.Set(stats.CacheHitRate)
	m.consensusRounds.Set(float64(stats.ConsensusRounds))
}
