// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexledger/abft/crypto"
)

func mkValidatorID(b byte) ValidatorID {
	var id ValidatorID
	id[0] = b
	return id
}

func TestFinalityWithFiveValidators(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	for i := byte(1); i <= 5; i++ {
		vs.AddValidator(mkValidatorID(i), mkValidatorID(i), 100_000)
	}

	engine := NewEngine(DefaultConfig(), vs)

	candidate1 := crypto.Sum([]byte("candidate-1"))
	candidate2 := crypto.Sum([]byte("candidate-2"))

	proofs, stats := engine.ProcessRound([]crypto.Hash{candidate1, candidate2})

	require.Len(proofs, 2)
	require.Equal(2, stats.VerticesProposed)
	require.Equal(2, stats.VerticesFinalized)
	require.Equal(5, stats.ActiveValidators)

	for _, p := range proofs {
		require.Equal(5, p.SupportingVoteCount)
		require.Equal(uint64(500_000), p.SupportingStake)
		require.Equal(1, p.BFTProof.MaxByzantineFaults)
		require.True(p.BFTProof.SafetySatisfied)
	}
}

func TestTierAssignment(t *testing.T) {
	require := require.New(t)

	require.Equal(TierBronze, tierForStake(75_000))
	require.Equal(TierSilver, tierForStake(150_000))
	require.Equal(TierGold, tierForStake(350_000))
	require.Equal(TierPlatinum, tierForStake(750_000))
}

func TestAddValidatorDerivesTier(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	id := mkValidatorID(1)
	vs.AddValidator(id, id, 350_000)

	info := vs.Get(id)
	require.NotNil(info)
	require.Equal(TierGold, info.Tier)
	require.Equal(uint64(350_000), vs.TotalStake())
}

func TestRemoveValidatorSaturatingStake(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	id := mkValidatorID(1)
	vs.AddValidator(id, id, 100_000)

	vs.RemoveValidator(id)
	require.Equal(uint64(0), vs.TotalStake())

	// Removing again (already gone) must not underflow.
	vs.RemoveValidator(id)
	require.Equal(uint64(0), vs.TotalStake())
}

func TestPerformanceScoreClamped(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	id := mkValidatorID(1)
	vs.AddValidator(id, id, 100_000)

	vs.SetPerformanceScore(id, 1.5)
	require.Equal(1.0, vs.Get(id).PerformanceScore)

	vs.SetPerformanceScore(id, -0.5)
	require.Equal(0.0, vs.Get(id).PerformanceScore)
}

func TestVoteHashDeterminism(t *testing.T) {
	require := require.New(t)

	vote := VirtualVote{
		Validator:  mkValidatorID(1),
		VertexHash: crypto.Sum([]byte("v")),
		VoteType:   VoteApprove,
		Round:      1,
	}
	other := vote
	require.Equal(vote.Hash(), other.Hash())

	other.Round = 2
	require.NotEqual(vote.Hash(), other.Hash())
}

func TestEmptyValidatorSetDoesNotPanic(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	engine := NewEngine(DefaultConfig(), vs)

	candidate := crypto.Sum([]byte("lonely"))
	proofs, stats := engine.ProcessRound([]crypto.Hash{candidate})

	require.Empty(proofs)
	require.Equal(0, stats.ActiveValidators)
}

func TestRoundAdvancesMonotonically(t *testing.T) {
	require := require.New(t)

	vs := NewValidatorSet()
	for i := byte(1); i <= 4; i++ {
		vs.AddValidator(mkValidatorID(i), mkValidatorID(i), 100_000)
	}
	engine := NewEngine(DefaultConfig(), vs)

	candidate := crypto.Sum([]byte("x"))
	_, _ = engine.ProcessRound([]crypto.Hash{candidate})
	require.Equal(uint64(1), engine.CurrentRound())
	_, _ = engine.ProcessRound([]crypto.Hash{candidate})
	require.Equal(uint64(2), engine.CurrentRound())
}
