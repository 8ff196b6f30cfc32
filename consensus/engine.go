// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sync"
	"time"

	"github.com/vertexledger/abft/crypto"
)

// WitnessFunc reports whether validator witnessed voteHash during
// gossip, directly or transitively. The engine polls one of these per
// (validator, vote) pair in Phase 2; a nil WitnessFunc defaults every
// pair to Direct, matching a single-node bootstrap where gossip is a
// no-op.
type WitnessFunc func(validator ValidatorID, voteHash crypto.Hash) (witnessed bool, direct bool)

// LocalValidateFunc reports whether a validator's local validation of
// a candidate vertex succeeds. A nil LocalValidateFunc approves every
// candidate, matching the placeholder-always-approve behavior.
type LocalValidateFunc func(validator ValidatorID, vertexHash crypto.Hash) bool

// RoundStats summarizes one processed round.
type RoundStats struct {
	Round              uint64
	VerticesProposed   int
	VerticesFinalized  int
	ActiveValidators   int
	DurationMs         int64
	AvgConsensusTimeMs float64
}

// Engine drives rounds of virtual voting, gossip-about-gossip
// witnessing, and BFT-safe finality checks over a validator set.
type Engine struct {
	cfg        Config
	validators *ValidatorSet

	LocalValidate LocalValidateFunc
	Witness       WitnessFunc

	mu            sync.RWMutex
	currentRound  uint64
	finality      map[crypto.Hash]*FinalityProof
	roundHistory  []RoundStats
}

// NewEngine constructs an Engine over validators.
func NewEngine(cfg Config, validators *ValidatorSet) *Engine {
	return &Engine{
		cfg:        cfg,
		validators: validators,
		finality:   make(map[crypto.Hash]*FinalityProof),
	}
}

// CurrentRound returns the most recently completed round number.
func (e *Engine) CurrentRound() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentRound
}

// FinalityProofFor returns the finality proof previously persisted
// for hash, or nil if none has been emitted yet.
func (e *Engine) FinalityProofFor(hash crypto.Hash) *FinalityProof {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if p, ok := e.finality[hash]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// ProcessRound advances current_round and runs the three-phase
// pipeline over candidates, returning a FinalityProof for every
// candidate that reaches BFT-safe finality this round.
func (e *Engine) ProcessRound(candidates []crypto.Hash) ([]FinalityProof, RoundStats) {
	start := time.Now()

	e.mu.Lock()
	e.currentRound++
	round := e.currentRound
	e.mu.Unlock()

	ids := e.validators.IDs()
	n := len(ids)
	totalStake := e.validators.TotalStake()

	var proofs []FinalityProof
	for _, candidate := range candidates {
		record := e.collectVotes(candidate, round, ids)
		record.ConsensusReached = int(record.Approvals) >= requiredVoteCount(n) &&
			record.TotalVotingStake >= requiredStake(totalStake)

		if !record.ConsensusReached {
			continue
		}

		gossipRecords := e.gossipAboutGossip(record, round, ids)

		proof, ok := e.checkFinality(record, gossipRecords, n, totalStake, round)
		if !ok {
			continue
		}

		e.mu.Lock()
		e.finality[candidate] = &proof
		e.mu.Unlock()
		proofs = append(proofs, proof)
	}

	durationMs := time.Since(start).Milliseconds()
	denom := len(candidates)
	if denom == 0 {
		denom = 1
	}
	stats := RoundStats{
		Round:              round,
		VerticesProposed:   len(candidates),
		VerticesFinalized:  len(proofs),
		ActiveValidators:   n,
		DurationMs:         durationMs,
		AvgConsensusTimeMs: float64(durationMs) / float64(denom),
	}

	e.mu.Lock()
	e.roundHistory = append(e.roundHistory, stats)
	e.mu.Unlock()

	return proofs, stats
}

// collectVotes runs Phase 1: one VirtualVote per (candidate,
// validator) pair, tallied into a VoteRecord.
func (e *Engine) collectVotes(candidate crypto.Hash, round uint64, ids []ValidatorID) *VoteRecord {
	record := &VoteRecord{VertexHash: candidate}

	for _, id := range ids {
		approve := true
		if e.LocalValidate != nil {
			approve = e.LocalValidate(id, candidate)
		}
		voteType := VoteApprove
		if !approve {
			voteType = VoteReject
		}

		v := e.validators.Get(id)
		var stake uint64
		if v != nil {
			stake = v.Stake
		}

		vote := VirtualVote{
			Validator:  id,
			VertexHash: candidate,
			VoteType:   voteType,
			Round:      round,
			Timestamp:  time.Now().UnixMilli(),
			StakeProof: StakeProof{Stake: stake},
		}

		record.Votes = append(record.Votes, vote)
		if voteType == VoteApprove {
			record.Approvals++
			record.TotalVotingStake += stake
		} else {
			record.Rejections++
		}
	}

	return record
}

// gossipAboutGossip runs Phase 2: for every vote in record, every
// other validator emits one GossipVote, collated into a
// GossipVoteRecord keyed by the original vote's content hash.
func (e *Engine) gossipAboutGossip(record *VoteRecord, round uint64, ids []ValidatorID) []*GossipVoteRecord {
	n := len(ids)
	q := requiredVoteCount(n)

	records := make([]*GossipVoteRecord, 0, len(record.Votes))
	for _, vote := range record.Votes {
		voteHash := vote.Hash()
		gr := &GossipVoteRecord{OriginalVote: vote}

		for _, witness := range ids {
			if witness == vote.Validator {
				continue
			}
			witnessed, direct := true, true
			if e.Witness != nil {
				witnessed, direct = e.Witness(witness, voteHash)
			}
			if !witnessed {
				continue
			}
			wType := WitnessIndirect
			if direct {
				wType = WitnessDirect
				gr.DirectWitnesses++
			} else {
				gr.IndirectWitnesses++
			}
			gr.GossipVotes = append(gr.GossipVotes, GossipVote{
				Validator:        witness,
				OriginalVoteHash: voteHash,
				WitnessType:      wType,
				Round:            round,
				Timestamp:        time.Now().UnixMilli(),
			})
		}

		gr.GossipConsensus = int(gr.DirectWitnesses+gr.IndirectWitnesses) >= q
		records = append(records, gr)
	}
	return records
}

// checkFinality runs Phase 3: computes the BFT safety proof and, if
// satisfied, constructs the FinalityProof for record's vertex.
func (e *Engine) checkFinality(record *VoteRecord, gossipRecords []*GossipVoteRecord, n int, totalStake uint64, round uint64) (FinalityProof, bool) {
	var supportingVotes []VirtualVote
	for _, v := range record.Votes {
		if v.VoteType == VoteApprove {
			supportingVotes = append(supportingVotes, v)
		}
	}

	var witnessVotes []GossipVote
	for _, gr := range gossipRecords {
		if gr.GossipConsensus && gr.OriginalVote.VoteType == VoteApprove {
			witnessVotes = append(witnessVotes, gr.GossipVotes...)
		}
	}

	f := maxByzantineFaults(n)
	required := requiredSafetyVotes(n)
	safety := len(supportingVotes) >= required && record.TotalVotingStake > totalStake*2/3

	proof := FinalityProof{
		VertexHash:          record.VertexHash,
		Round:               round,
		SupportingVotes:     supportingVotes,
		WitnessVotes:        witnessVotes,
		SupportingVoteCount: len(supportingVotes),
		SupportingStake:     record.TotalVotingStake,
		BFTProof: BFTProof{
			TotalValidators:    n,
			MaxByzantineFaults: f,
			RequiredVotes:      required,
			SupportingStake:    record.TotalVotingStake,
			TotalStake:         totalStake,
			SafetySatisfied:    safety,
		},
	}

	if !safety {
		return FinalityProof{}, false
	}
	return proof, true
}

// RoundHistory returns every round's statistics recorded so far.
func (e *Engine) RoundHistory() []RoundStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]RoundStats(nil), e.roundHistory...)
}
