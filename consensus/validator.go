// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sync"

	"golang.org/x/exp/maps"
)

// Tier buckets a validator by its staked amount.
type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
)

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "Bronze"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierPlatinum:
		return "Platinum"
	default:
		return "Unknown"
	}
}

// tierForStake returns the tier for a half-open stake bracket: Bronze
// [50k, 100k), Silver [100k, 250k), Gold [250k, 500k), Platinum
// [500k, inf).
func tierForStake(stake uint64) Tier {
	switch {
	case stake >= 500_000:
		return TierPlatinum
	case stake >= 250_000:
		return TierGold
	case stake >= 100_000:
		return TierSilver
	default:
		return TierBronze
	}
}

// ValidatorInfo is one validator's stake, tier and activity record.
type ValidatorInfo struct {
	PubKey           [48]byte
	Stake            uint64
	Tier             Tier
	LastActivity     int64
	PerformanceScore float64
}

// ValidatorSet tracks the active validator roster and its total stake.
// Add/Remove keep a running total stake (Remove subtracts with
// saturating arithmetic), mirroring
// the weighted-threshold tallying idiom of accumulating a running
// for/against stake total alongside a per-node map.
type ValidatorSet struct {
	mu         sync.RWMutex
	validators map[ValidatorID]*ValidatorInfo
	totalStake uint64
	epoch      uint64
}

// NewValidatorSet returns an empty validator set at epoch 0.
func NewValidatorSet() *ValidatorSet {
	return &ValidatorSet{
		validators: make(map[ValidatorID]*ValidatorInfo),
	}
}

// AddValidator inserts or replaces a validator, deriving its tier from
// its stake bracket and adjusting total stake accordingly.
func (vs *ValidatorSet) AddValidator(id ValidatorID, pubKey [48]byte, stake uint64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if existing, ok := vs.validators[id]; ok {
		vs.totalStake -= existing.Stake
	}
	vs.validators[id] = &ValidatorInfo{
		PubKey:           pubKey,
		Stake:            stake,
		Tier:             tierForStake(stake),
		PerformanceScore: 1.0,
	}
	vs.totalStake += stake
}

// RemoveValidator deletes a validator, subtracting its stake from the
// total with saturating arithmetic so total stake never underflows.
func (vs *ValidatorSet) RemoveValidator(id ValidatorID) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	existing, ok := vs.validators[id]
	if !ok {
		return
	}
	if existing.Stake > vs.totalStake {
		vs.totalStake = 0
	} else {
		vs.totalStake -= existing.Stake
	}
	delete(vs.validators, id)
}

// SetPerformanceScore updates a validator's performance score, clamped
// to [0, 1].
func (vs *ValidatorSet) SetPerformanceScore(id ValidatorID, score float64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, ok := vs.validators[id]
	if !ok {
		return
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	v.PerformanceScore = score
}

// Get returns a validator's info, or nil if id is unknown.
func (vs *ValidatorSet) Get(id ValidatorID) *ValidatorInfo {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if v, ok := vs.validators[id]; ok {
		cp := *v
		return &cp
	}
	return nil
}

// Len returns the number of validators in the set.
func (vs *ValidatorSet) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.validators)
}

// TotalStake returns the set's accumulated stake.
func (vs *ValidatorSet) TotalStake() uint64 {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.totalStake
}

// IDs returns every validator ID currently in the set. Order is
// non-deterministic.
func (vs *ValidatorSet) IDs() []ValidatorID {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return maps.Keys(vs.validators)
}

// Epoch returns the set's current epoch.
func (vs *ValidatorSet) Epoch() uint64 {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.epoch
}

// AdvanceEpoch increments the set's epoch counter.
func (vs *ValidatorSet) AdvanceEpoch() {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.epoch++
}
