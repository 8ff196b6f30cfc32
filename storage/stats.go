// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "sync/atomic"

// stats tracks storage counters with atomic fields rather than taking
// a lock for every read/write operation.
type stats struct {
	totalVertices  atomic.Uint64
	totalSizeBytes atomic.Uint64
	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	cacheEvictions atomic.Uint64
	writeOps       atomic.Uint64
	readOps        atomic.Uint64
}

// Stats is a point-in-time snapshot of storage counters.
type Stats struct {
	TotalVertices   uint64
	TotalSizeBytes  uint64
	CacheHits       uint64
	CacheMisses     uint64
	CacheEvictions  uint64
	WriteOperations uint64
	ReadOperations  uint64
}

// HitRatio returns CacheHits / (CacheHits + CacheMisses), or 0 if no
// cache lookups have happened yet.
func (s Stats) HitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

func (s *stats) snapshot() Stats {
	return Stats{
		TotalVertices:   s.totalVertices.Load(),
		TotalSizeBytes:  s.totalSizeBytes.Load(),
		CacheHits:       s.cacheHits.Load(),
		CacheMisses:     s.cacheMisses.Load(),
		CacheEvictions:  s.cacheEvictions.Load(),
		WriteOperations: s.writeOps.Load(),
		ReadOperations:  s.readOps.Load(),
	}
}
