// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package abft

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vertexledger/abft/consensus"
	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/vertex"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	e, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestInsertGenesisVertex(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	g := vertex.NewGenesis()
	require.NoError(e.InsertVertex(g))

	got, err := e.GetVertex(g.Hash)
	require.NoError(err)
	require.Equal(g.Hash, got.Hash)
}

func TestInsertVertexPipelineAssignsShard(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	g := vertex.NewGenesis()
	require.NoError(e.InsertVertex(g))

	p0, p1 := crypto.Hash{0x01}, crypto.Hash{0x02}
	sig := crypto.Sign([]byte("tx"), [crypto.PubKeySize]byte{1})
	v := vertex.New([]crypto.Hash{p0, p1}, 1, 0, vertex.Transaction{}, sig)

	// Disable strict parent checks since p0/p1 are synthetic hashes
	// not present in storage.
	e.cfg.StrictParentChecks = false

	require.NoError(e.InsertVertex(v))

	got, err := e.GetVertex(v.Hash)
	require.NoError(err)
	require.Equal(v.ShardID, got.ShardID)

	stats := e.GetStatistics()
	require.Equal(uint64(2), stats.TotalVertices)
	require.True(stats.ActiveShards > 0)
}

func TestInsertVertexRejectsTooFewParents(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	sig := crypto.Sign([]byte("tx"), [crypto.PubKeySize]byte{1})
	v := vertex.New([]crypto.Hash{{0x01}}, 1, 0, vertex.Transaction{}, sig)

	err := e.InsertVertex(v)
	require.Error(err)
	var abftErr *Error
	require.ErrorAs(err, &abftErr)
	require.Equal(ErrInvalidVertex, abftErr.Kind)
}

func TestProcessConsensusRoundEmitsFinality(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	for i := byte(1); i <= 4; i++ {
		var id consensus.ValidatorID
		id[0] = i
		e.AddValidator(id, id, 100_000)
	}

	candidate := crypto.Sum([]byte("candidate"))
	proofs, err := e.ProcessConsensusRound([]crypto.Hash{candidate})
	require.NoError(err)
	require.Len(proofs, 1)
	require.True(proofs[0].BFTProof.SafetySatisfied)

	stats := e.GetStatistics()
	require.Equal(uint64(1), stats.ConsensusRounds)
	require.Equal(vertex.StatusAccepted, e.VertexStatus(candidate))
}

func TestVertexStatusTracksLifecycle(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	require.Equal(vertex.StatusUnknown, e.VertexStatus(crypto.Hash{0xee}))

	g := vertex.NewGenesis()
	require.NoError(e.InsertVertex(g))
	require.Equal(vertex.StatusProcessing, e.VertexStatus(g.Hash))
}

func TestSubscribeEventsReceivesInsertion(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	ch, unsubscribe := e.SubscribeEvents()
	defer unsubscribe()

	g := vertex.NewGenesis()
	require.NoError(e.InsertVertex(g))

	event := <-ch
	require.Equal(EventVertexInserted, event.Kind)
	require.Equal(g.Hash, event.VertexHash)
	require.Equal(vertex.StatusProcessing, event.Status)
}

func TestRegisterMetricsExportsGauges(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	reg := prometheus.NewRegistry()
	require.NoError(e.RegisterMetrics(reg))

	g := vertex.NewGenesis()
	require.NoError(e.InsertVertex(g))
	e.GetStatistics()

	families, err := reg.Gather()
	require.NoError(err)
	require.NotEmpty(families)

	var found bool
	for _, f := range families {
		if f.GetName() == "abft_total_vertices" {
			found = true
			require.Equal(float64(1), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(found, "expected abft_total_vertices to be registered")
}

func TestCheckRebalancingExecutesSplit(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t)
	for i := 0; i < 5; i++ {
		e.RecordShardTPS(0, 20_000, int64(i))
	}
	// Keep the other shards between MinShardTPS and MaxShardTPS so no
	// merge is planned alongside the split.
	for shardID := uint32(1); shardID < 4; shardID++ {
		for i := 0; i < 3; i++ {
			e.RecordShardTPS(shardID, 5_000, int64(i))
		}
	}

	before := e.GetStatistics().ActiveShards
	require.NoError(e.CheckRebalancing())
	after := e.GetStatistics().ActiveShards
	require.Equal(before+1, after)
}
