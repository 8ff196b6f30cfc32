// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexledger/abft/vertex"
)

func testConfig() Config {
	return Config{
		InitialShardCount:     4,
		MaxShardTPS:           2000,
		MinShardTPS:           500,
		MaxShardCount:         64,
		RebalanceIntervalSecs: 300,
	}
}

func TestInitialShardsCoverHashSpace(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())
	require.Equal(4, c.ActiveShardCount())

	var minStart, maxEnd uint64 = ^uint64(0), 0
	for id := uint32(0); id < 4; id++ {
		s := c.Shard(id)
		require.NotNil(s)
		require.Equal(StatusActive, s.Status)
		if s.HashRange.Start < minStart {
			minStart = s.HashRange.Start
		}
		if s.HashRange.End > maxEnd {
			maxEnd = s.HashRange.End
		}
	}
	require.Equal(uint64(0), minStart)
	require.Equal(^uint64(0), maxEnd)
}

func TestShardSplitUnderLoad(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())

	for i := 0; i < 5; i++ {
		c.RecordTPS(0, 2500, int64(i))
	}
	for shardID := uint32(1); shardID < 4; shardID++ {
		for i := 0; i < 3; i++ {
			c.RecordTPS(shardID, 1000, int64(i))
		}
	}

	plans := c.CheckRebalancing()
	require.Len(plans, 1)
	require.Equal(PlanSplit, plans[0].Kind)
	require.Equal([]uint32{0}, plans[0].ShardIDs)

	left, right, err := c.ExecuteSplit(0)
	require.NoError(err)
	require.NotEqual(left, right)

	require.Equal(5, c.ActiveShardCount())
	require.Equal(StatusInactive, c.Shard(0).Status)
	require.Equal(StatusActive, c.Shard(left).Status)
	require.Equal(StatusActive, c.Shard(right).Status)
}

func TestShardMergeUnderLowLoad(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())

	for shardID := uint32(0); shardID < 4; shardID++ {
		for i := 0; i < 3; i++ {
			c.RecordTPS(shardID, 100, int64(i))
		}
	}

	plans := c.CheckRebalancing()
	require.NotEmpty(plans)

	var mergePlan *RebalancePlan
	for i := range plans {
		if plans[i].Kind == PlanMerge {
			mergePlan = &plans[i]
		}
	}
	require.NotNil(mergePlan)
	require.Len(mergePlan.ShardIDs, 2)

	merged, err := c.ExecuteMerge(mergePlan.ShardIDs)
	require.NoError(err)
	require.Equal(StatusActive, c.Shard(merged).Status)
	for _, id := range mergePlan.ShardIDs {
		require.Equal(StatusInactive, c.Shard(id).Status)
	}
}

func TestCNSNamespaceRoutingStable(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())

	tx1 := vertex.Transaction{UserData: []byte(`{"p":"cns","name":"alice"}`)}
	tx2 := vertex.Transaction{UserData: []byte(`{"p":"cns","name":"bob"}`)}

	shard1, err := c.AssignShard(tx1)
	require.NoError(err)
	shard2, err := c.AssignShard(tx2)
	require.NoError(err)
	require.Equal(shard1, shard2)

	// Same namespace value is stable across repeated calls.
	shard1Again, err := c.AssignShard(tx1)
	require.NoError(err)
	require.Equal(shard1, shard1Again)
}

func TestCDNSNamespaceMayDifferButIsStable(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())

	tx := vertex.Transaction{UserData: []byte(`{"p":"cdns","name":"alice"}`)}
	shardA, err := c.AssignShard(tx)
	require.NoError(err)
	shardB, err := c.AssignShard(tx)
	require.NoError(err)
	require.Equal(shardA, shardB)
}

func TestAssignShardPurity(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())
	tx := vertex.Transaction{UserData: []byte("regular payload")}

	first, err := c.AssignShard(tx)
	require.NoError(err)
	for i := 0; i < 5; i++ {
		again, err := c.AssignShard(tx)
		require.NoError(err)
		require.Equal(first, again)
	}
}

func TestReassignNamespace(t *testing.T) {
	require := require.New(t)

	c := NewCoordinator(testConfig())
	tx := vertex.Transaction{UserData: []byte(`{"p":"cns","name":"carol"}`)}

	original, err := c.AssignShard(tx)
	require.NoError(err)

	var target uint32
	for id := uint32(0); id < 4; id++ {
		if id != original {
			target = id
			break
		}
	}

	require.NoError(c.ReassignNamespace("cns", target))
	reassigned, err := c.AssignShard(tx)
	require.NoError(err)
	require.Equal(target, reassigned)
}
