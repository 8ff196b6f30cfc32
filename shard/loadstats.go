// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

// sampleRetention is how long a TPS sample remains in a shard's
// rolling history before it is pruned.
const sampleRetention = 3600 // seconds

// tpsSample is one recorded throughput observation.
type tpsSample struct {
	Timestamp int64
	TPS       float64
}

// LoadStats tracks a shard's rolling throughput history and derived
// statistics.
type LoadStats struct {
	history []tpsSample
	peak    float64
}

// newLoadStats returns an empty LoadStats.
func newLoadStats() *LoadStats {
	return &LoadStats{}
}

// Record appends a TPS sample at timestamp (unix seconds) and prunes
// samples older than sampleRetention relative to it.
func (l *LoadStats) Record(tps float64, timestamp int64) {
	l.history = append(l.history, tpsSample{Timestamp: timestamp, TPS: tps})
	l.prune(timestamp)
	if tps > l.peak {
		l.peak = tps
	}
}

func (l *LoadStats) prune(now int64) {
	cutoff := now - sampleRetention
	i := 0
	for ; i < len(l.history); i++ {
		if l.history[i].Timestamp >= cutoff {
			break
		}
	}
	if i > 0 {
		l.history = append([]tpsSample(nil), l.history[i:]...)
	}
}

// Current returns the most recently recorded TPS sample, or 0 if none
// has been recorded.
func (l *LoadStats) Current() float64 {
	if len(l.history) == 0 {
		return 0
	}
	return l.history[len(l.history)-1].TPS
}

// Average returns the arithmetic mean of retained samples, or 0 if
// none are retained.
func (l *LoadStats) Average() float64 {
	if len(l.history) == 0 {
		return 0
	}
	var sum float64
	for _, s := range l.history {
		sum += s.TPS
	}
	return sum / float64(len(l.history))
}

// Peak returns the monotone maximum TPS ever recorded.
func (l *LoadStats) Peak() float64 {
	return l.peak
}

// SampleCount returns the number of retained samples.
func (l *LoadStats) SampleCount() int {
	return len(l.history)
}
