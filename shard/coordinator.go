// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/vertex"
)

// PlanKind distinguishes a split plan from a merge plan.
type PlanKind int

const (
	PlanSplit PlanKind = iota
	PlanMerge
)

// RebalancePlan describes a single rebalancing operation discovered
// by CheckRebalancing. ShardIDs holds one ID for a split, two or more
// for a merge.
type RebalancePlan struct {
	Kind     PlanKind
	ShardIDs []uint32
}

// Coordinator assigns transactions to shards by consistent-hashing
// their namespace, and rebalances shards by splitting hot ones and
// merging cold ones.
type Coordinator struct {
	cfg Config

	mu          sync.RWMutex
	shards      map[uint32]*Shard
	loadStats   map[uint32]*LoadStats
	nsAssign    map[string]uint32
	nextShardID uint32
}

// NewCoordinator creates a Coordinator with cfg.InitialShardCount
// shards, each owning an equal slice of the 64-bit hash space by
// integer division; the last slice extends to math.MaxUint64 so no
// hash value is left uncovered.
func NewCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{
		cfg:       cfg,
		shards:    make(map[uint32]*Shard, cfg.InitialShardCount),
		loadStats: make(map[uint32]*LoadStats, cfg.InitialShardCount),
		nsAssign:  make(map[string]uint32),
	}

	n := uint64(cfg.InitialShardCount)
	slice := math.MaxUint64 / n
	for i := uint64(0); i < n; i++ {
		id := uint32(i)
		start := i * slice
		end := start + slice
		if i == n-1 {
			end = math.MaxUint64
		}
		c.shards[id] = newShard(id, HashRange{Start: start, End: end})
		c.loadStats[id] = newLoadStats()
	}
	c.nextShardID = uint32(n)
	return c
}

// namespaceOf extracts the routing namespace of tx: the literal
// string "cns" or "cdns" when the transaction classifies as a CNS
// payload carrying that marker, else vertex.DefaultNamespace. The coordinator
// only needs the namespace as a stable hashing key, so it does not
// attempt full JSON extraction of the "p" field's value.
func namespaceOf(tx vertex.Transaction) string {
	if !tx.IsCNSTransaction() {
		return vertex.DefaultNamespace
	}
	return cnsNamespaceValue(tx.UserData)
}

// AssignShard returns the ID of the shard tx routes to, memoizing the
// namespace->shard mapping so it stays stable across calls until a
// rebalance moves it.
func (c *Coordinator) AssignShard(tx vertex.Transaction) (uint32, error) {
	ns := namespaceOf(tx)

	c.mu.RLock()
	if id, ok := c.nsAssign[ns]; ok {
		if s, exists := c.shards[id]; exists && s.Status == StatusActive {
			c.mu.RUnlock()
			return id, nil
		}
	}
	c.mu.RUnlock()

	h := hashNamespace(ns)

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, s := range c.shards {
		if s.Status == StatusActive && s.HashRange.Contains(h) {
			s.Namespaces.Add(ns)
			c.nsAssign[ns] = id
			return id, nil
		}
	}
	return 0, ErrNoActiveShard
}

// hashNamespace computes the consistent-hash routing value for a
// namespace: the first 8 bytes of its BLAKE3 digest, interpreted
// big-endian.
func hashNamespace(namespace string) uint64 {
	digest := crypto.Sum([]byte(namespace))
	return binary.BigEndian.Uint64(digest[:8])
}

// RecordTPS appends a throughput sample for shardID at timestamp
// (unix seconds).
func (c *Coordinator) RecordTPS(shardID uint32, tps float64, timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.loadStats[shardID]
	if !ok {
		stats = newLoadStats()
		c.loadStats[shardID] = stats
	}
	stats.Record(tps, timestamp)
}

// LoadStats returns a shard's load statistics, or nil if shardID is
// unknown.
func (c *Coordinator) LoadStats(shardID uint32) *LoadStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadStats[shardID]
}

// Shard returns a shard by ID, or nil if unknown.
func (c *Coordinator) Shard(shardID uint32) *Shard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shards[shardID]
}

// ActiveShardCount returns the number of shards currently Active.
func (c *Coordinator) ActiveShardCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, s := range c.shards {
		if s.Status == StatusActive {
			n++
		}
	}
	return n
}

// CheckRebalancing inspects every Active shard's rolling-average TPS
// and plans at most one split (the first shard found whose average
// exceeds MaxShardTPS, if active shard count allows growth) and at
// most one merge (the first two shards found whose average is below
// MinShardTPS).
func (c *Coordinator) CheckRebalancing() []RebalancePlan {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var plans []RebalancePlan

	activeCount := 0
	for _, s := range c.shards {
		if s.Status == StatusActive {
			activeCount++
		}
	}

	for id, s := range c.shards {
		if s.Status != StatusActive {
			continue
		}
		stats := c.loadStats[id]
		if stats == nil {
			continue
		}
		if stats.Average() > c.cfg.MaxShardTPS && activeCount < c.cfg.MaxShardCount {
			plans = append(plans, RebalancePlan{Kind: PlanSplit, ShardIDs: []uint32{id}})
			break
		}
	}

	var cold []uint32
	for id, s := range c.shards {
		if s.Status != StatusActive {
			continue
		}
		stats := c.loadStats[id]
		if stats == nil {
			continue
		}
		if stats.Average() < c.cfg.MinShardTPS {
			cold = append(cold, id)
			if len(cold) == 2 {
				break
			}
		}
	}
	if len(cold) == 2 {
		plans = append(plans, RebalancePlan{Kind: PlanMerge, ShardIDs: cold})
	}

	return plans
}

// ExecuteSplit splits shardID's hash range at its midpoint into two
// fresh Active shards, transitioning the parent Active -> Splitting ->
// Inactive. It returns the two new shard IDs.
func (c *Coordinator) ExecuteSplit(shardID uint32) (uint32, uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parent, ok := c.shards[shardID]
	if !ok {
		return 0, 0, ErrShardNotFound
	}
	if parent.Status != StatusActive {
		return 0, 0, ErrShardNotActive
	}

	activeCount := 0
	for _, s := range c.shards {
		if s.Status == StatusActive {
			activeCount++
		}
	}
	if activeCount >= c.cfg.MaxShardCount {
		return 0, 0, ErrMaxShardsReached
	}

	parent.Status = StatusSplitting

	mid := parent.HashRange.Start + (parent.HashRange.End-parent.HashRange.Start)/2

	leftID := c.nextShardID
	rightID := c.nextShardID + 1
	c.nextShardID += 2

	left := newShard(leftID, HashRange{Start: parent.HashRange.Start, End: mid})
	right := newShard(rightID, HashRange{Start: mid, End: parent.HashRange.End})
	left.ParentShardID = ptr(shardID)
	right.ParentShardID = ptr(shardID)

	for _, ns := range parent.Namespaces.List() {
		h := hashNamespace(ns)
		if left.HashRange.Contains(h) {
			left.Namespaces.Add(ns)
		} else {
			right.Namespaces.Add(ns)
		}
		c.nsAssign[ns] = leftID
		if right.HashRange.Contains(h) {
			c.nsAssign[ns] = rightID
		}
	}

	c.shards[leftID] = left
	c.shards[rightID] = right
	c.loadStats[leftID] = newLoadStats()
	c.loadStats[rightID] = newLoadStats()

	parent.Status = StatusInactive

	return leftID, rightID, nil
}

// ExecuteMerge unions two shards' hash ranges and namespace sets into
// a new Active shard, transitioning both originals Active -> Merging
// -> Inactive. Range adjacency is not required: the merged shard's
// range is the min start and max end across the originals, which is
// conservative but only ever widens coverage.
func (c *Coordinator) ExecuteMerge(shardIDs []uint32) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(shardIDs) < 2 {
		return 0, ErrShardNotFound
	}

	originals := make([]*Shard, 0, len(shardIDs))
	for _, id := range shardIDs {
		s, ok := c.shards[id]
		if !ok {
			return 0, ErrShardNotFound
		}
		if s.Status != StatusActive {
			return 0, ErrShardNotActive
		}
		originals = append(originals, s)
	}

	for _, s := range originals {
		s.Status = StatusMerging
	}

	start, end := originals[0].HashRange.Start, originals[0].HashRange.End
	for _, s := range originals[1:] {
		if s.HashRange.Start < start {
			start = s.HashRange.Start
		}
		if s.HashRange.End > end {
			end = s.HashRange.End
		}
	}

	mergedID := c.nextShardID
	c.nextShardID++
	merged := newShard(mergedID, HashRange{Start: start, End: end})

	for _, s := range originals {
		for _, ns := range s.Namespaces.List() {
			merged.Namespaces.Add(ns)
			c.nsAssign[ns] = mergedID
		}
	}

	c.shards[mergedID] = merged
	c.loadStats[mergedID] = newLoadStats()

	for _, s := range originals {
		s.Status = StatusInactive
	}

	return mergedID, nil
}

// ReassignNamespace moves a single namespace's routing from whatever
// shard it currently resolves to, to toShardID, without altering
// shard topology. It is used for fine-grained load smoothing.
func (c *Coordinator) ReassignNamespace(namespace string, toShardID uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.shards[toShardID]
	if !ok {
		return ErrShardNotFound
	}
	if target.Status != StatusActive {
		return ErrShardNotActive
	}

	if fromID, ok := c.nsAssign[namespace]; ok {
		if from, ok := c.shards[fromID]; ok {
			from.Namespaces.Remove(namespace)
		}
	}

	target.Namespaces.Add(namespace)
	c.nsAssign[namespace] = toShardID
	return nil
}

func ptr[T any](v T) *T { return &v }
