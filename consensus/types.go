// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus implements a stake-weighted virtual-voting round
// driver with a gossip-about-gossip witness phase and an explicit BFT
// safety proof.
package consensus

import (
	"github.com/vertexledger/abft/crypto"
)

// ValidatorID identifies a validator by its BLS-shaped public key.
type ValidatorID = [crypto.PubKeySize]byte

// VoteType is a validator's disposition toward a candidate vertex.
type VoteType int

const (
	VoteApprove VoteType = iota
	VoteReject
)

// StakeProof accompanies a vote with the stake commitment it was cast
// under.
type StakeProof struct {
	Stake       uint64
	MerkleProof []crypto.Hash
	Commitment  crypto.Hash
}

// VirtualVote is one validator's vote on one candidate vertex in one
// round.
type VirtualVote struct {
	Validator  ValidatorID
	VertexHash crypto.Hash
	VoteType   VoteType
	Round      uint64
	Timestamp  int64
	Signature  [crypto.SigSize]byte
	StakeProof StakeProof
}

// canonicalBytes returns the fixed-order field concatenation hashed
// to derive a vote's content hash. Equal votes must produce identical
// bytes so gossip votes can collate on it.
func (v VirtualVote) canonicalBytes() []byte {
	out := make([]byte, 0, 32+32+4+8+8+48+8+8+32)
	out = append(out, v.Validator[:]...)
	out = append(out, v.VertexHash[:]...)
	out = append(out, crypto.PutUint32(uint32(v.VoteType))...)
	out = append(out, crypto.PutUint64(v.Round)...)
	out = append(out, crypto.PutUint64(uint64(v.Timestamp))...)
	out = append(out, v.Signature[:]...)
	out = append(out, crypto.PutUint64(v.StakeProof.Stake)...)
	for _, h := range v.StakeProof.MerkleProof {
		out = append(out, h[:]...)
	}
	out = append(out, v.StakeProof.Commitment[:]...)
	return out
}

// Hash returns the vote's content hash, used to key a GossipVoteRecord
// and to detect repeated votes.
func (v VirtualVote) Hash() crypto.Hash {
	return crypto.Sum(v.canonicalBytes())
}

// VoteRecord aggregates every VirtualVote cast for a single candidate
// vertex in a round.
type VoteRecord struct {
	VertexHash       crypto.Hash
	Votes            []VirtualVote
	Approvals        uint32
	Rejections       uint32
	TotalVotingStake uint64
	ConsensusReached bool
}

// WitnessType describes how a validator learned of a vote during the
// gossip-about-gossip phase.
type WitnessType int

const (
	WitnessDirect WitnessType = iota
	WitnessIndirect
)

// GossipVote is one validator's attestation that it witnessed another
// validator's VirtualVote.
type GossipVote struct {
	Validator        ValidatorID
	OriginalVoteHash crypto.Hash
	WitnessType      WitnessType
	Round            uint64
	Timestamp        int64
	Signature        [crypto.SigSize]byte
}

// GossipVoteRecord aggregates the gossip attestations collected for a
// single original vote.
type GossipVoteRecord struct {
	OriginalVote      VirtualVote
	GossipVotes       []GossipVote
	DirectWitnesses   uint32
	IndirectWitnesses uint32
	GossipConsensus   bool
}

// BFTProof carries the safety arithmetic behind a FinalityProof.
type BFTProof struct {
	TotalValidators    int
	MaxByzantineFaults int
	RequiredVotes      int
	SupportingStake    uint64
	TotalStake         uint64
	SafetySatisfied    bool
}

// FinalityProof is the durable artifact emitted once a candidate
// vertex reaches BFT-safe finality.
type FinalityProof struct {
	VertexHash          crypto.Hash
	Round               uint64
	SupportingVotes     []VirtualVote
	WitnessVotes        []GossipVote
	SupportingVoteCount int
	SupportingStake     uint64
	BFTProof            BFTProof
}
