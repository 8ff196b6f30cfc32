// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package abft wires the vertex model, storage engine, shard
// coordinator and consensus engine into a single admission pipeline:
// structural validation, shard assignment, durable storage, hot-cache
// admission and event broadcast.
package abft

import (
	"sync"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vertexledger/abft/consensus"
	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/shard"
	"github.com/vertexledger/abft/storage"
	"github.com/vertexledger/abft/vertex"
)

// Engine is the façade over the DAG vertex model, storage engine,
// shard coordinator and consensus engine.
type Engine struct {
	cfg Config
	log log.Logger

	store       *storage.Store
	coordinator *shard.Coordinator
	consensus   *consensus.Engine
	validators  *consensus.ValidatorSet

	events  *eventBus
	metrics *Metrics

	mu     sync.RWMutex
	hot    map[crypto.Hash]*vertex.Vertex
	hotCap int

	statusMu sync.RWMutex
	status   map[crypto.Hash]vertex.Status
}

// New constructs an Engine from cfg, opening its storage backend.
func New(cfg Config, logger log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, newError(ErrStorage, "new", err)
	}

	validators := consensus.NewValidatorSet()

	m, err := NewMetrics(nil)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		log:         logger,
		store:       store,
		coordinator: shard.NewCoordinator(cfg.Shard),
		consensus:   consensus.NewEngine(cfg.Consensus, validators),
		validators:  validators,
		events:      newEventBus(),
		metrics:     m,
		hot:         make(map[crypto.Hash]*vertex.Vertex),
		hotCap:      10_000,
		status:      make(map[crypto.Hash]vertex.Status),
	}
	return e, nil
}

// RegisterMetrics attaches a Prometheus registry so subsequent
// GetStatistics calls also update exported collectors. Safe to call at
// most once; a nil reg is a no-op.
func (e *Engine) RegisterMetrics(reg prometheus.Registerer) error {
	m, err := NewMetrics(reg)
	if err != nil {
		return err
	}
	e.metrics = m
	return nil
}

// Close releases the engine's storage backend.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		return newError(ErrStorage, "close", err)
	}
	return nil
}

// InsertVertex runs the five-step admission pipeline: structural
// validation, shard assignment, durable store, hot-cache admission,
// and a VertexInserted broadcast.
func (e *Engine) InsertVertex(v *vertex.Vertex) error {
	if err := e.validateStructure(v); err != nil {
		return newError(ErrInvalidVertex, "insert-vertex", err)
	}

	shardID, err := e.coordinator.AssignShard(v.Transaction)
	if err != nil {
		return newError(ErrShard, "insert-vertex", err)
	}
	v.ShardID = shardID

	if err := e.store.StoreVertex(v); err != nil {
		return newError(ErrStorage, "insert-vertex", err)
	}

	e.admitHotCache(v)
	e.setStatus(v.Hash, vertex.StatusProcessing)

	e.events.Publish(DAGEvent{
		Kind:       EventVertexInserted,
		VertexHash: v.Hash,
		ShardID:    shardID,
		Status:     vertex.StatusProcessing,
	})

	e.log.Debug("inserted vertex", log.String("hash", v.Hash.String()), log.Uint32("shard", shardID))
	return nil
}

// validateStructure enforces the DAG-invariant checks that are always
// required, plus the parent-existence and clock-monotonicity checks
// that StrictParentChecks may toggle off for bootstrap insertion.
func (e *Engine) validateStructure(v *vertex.Vertex) error {
	if !vertex.VerifyHash(v) {
		return vertex.ErrHashMismatch
	}

	if v.IsGenesis() {
		return nil
	}

	if !e.cfg.StrictParentChecks {
		if len(v.Parents) < 2 {
			return vertex.ErrTooFewParents
		}
		seen := make(map[crypto.Hash]struct{}, len(v.Parents))
		for _, p := range v.Parents {
			if _, dup := seen[p]; dup {
				return vertex.ErrDuplicateParent
			}
			seen[p] = struct{}{}
		}
		return nil
	}

	parentClocks := make([]uint64, len(v.Parents))
	for i, p := range v.Parents {
		parent, err := e.store.GetVertex(p)
		if err != nil {
			return err
		}
		if parent == nil {
			return vertex.ErrTooFewParents
		}
		parentClocks[i] = parent.LogicalClock
	}
	return vertex.ValidateDAGProperties(v, parentClocks)
}

// admitHotCache adds v to the in-memory hot vertex map, evicting an
// arbitrary entry if the map is at capacity. The durable store's own
// caches remain the authoritative read path; this map only serves the
// façade's own fast-path lookups.
func (e *Engine) admitHotCache(v *vertex.Vertex) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.hot) >= e.hotCap {
		for k := range e.hot {
			delete(e.hot, k)
			break
		}
	}
	e.hot[v.Hash] = v
}

// setStatus records hash's current lifecycle status.
func (e *Engine) setStatus(hash crypto.Hash, s vertex.Status) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status[hash] = s
}

// VertexStatus returns hash's last recorded lifecycle status:
// Processing once inserted, Accepted once finalized, or Unknown if
// hash has never been inserted through this engine.
func (e *Engine) VertexStatus(hash crypto.Hash) vertex.Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	if s, ok := e.status[hash]; ok {
		return s
	}
	return vertex.StatusUnknown
}

// GetVertex returns the vertex for hash, consulting the façade's hot
// cache before the storage engine.
func (e *Engine) GetVertex(hash crypto.Hash) (*vertex.Vertex, error) {
	e.mu.RLock()
	if v, ok := e.hot[hash]; ok {
		e.mu.RUnlock()
		return v, nil
	}
	e.mu.RUnlock()

	v, err := e.store.GetVertex(hash)
	if err != nil {
		return nil, newError(ErrStorage, "get-vertex", err)
	}
	return v, nil
}

// AddValidator registers a validator with the consensus engine.
func (e *Engine) AddValidator(id consensus.ValidatorID, pubKey [crypto.PubKeySize]byte, stake uint64) {
	e.validators.AddValidator(id, pubKey, stake)
}

// RemoveValidator deregisters a validator from the consensus engine.
func (e *Engine) RemoveValidator(id consensus.ValidatorID) {
	e.validators.RemoveValidator(id)
}

// ProcessConsensusRound advances the consensus engine by one round
// over candidates, broadcasting a VertexFinalized event for every
// vertex that reaches finality and then one ConsensusReached event for
// the round.
func (e *Engine) ProcessConsensusRound(candidates []crypto.Hash) ([]consensus.FinalityProof, error) {
	proofs, stats := e.consensus.ProcessRound(candidates)

	for i := range proofs {
		proof := proofs[i]
		e.setStatus(proof.VertexHash, vertex.StatusAccepted)
		e.events.Publish(DAGEvent{
			Kind:          EventVertexFinalized,
			VertexHash:    proof.VertexHash,
			Status:        vertex.StatusAccepted,
			FinalityProof: &proof,
		})
	}

	e.events.Publish(DAGEvent{
		Kind:       EventConsensusReached,
		Round:      stats.Round,
		Validators: e.validators.IDs(),
	})

	return proofs, nil
}

// CheckRebalancing inspects shard load and executes any planned split
// or merge, broadcasting the corresponding event.
func (e *Engine) CheckRebalancing() error {
	plans := e.coordinator.CheckRebalancing()
	for _, plan := range plans {
		switch plan.Kind {
		case shard.PlanSplit:
			left, right, err := e.coordinator.ExecuteSplit(plan.ShardIDs[0])
			if err != nil {
				return newError(ErrShard, "check-rebalancing", err)
			}
			e.events.Publish(DAGEvent{
				Kind:        EventShardSplit,
				OldShardIDs: plan.ShardIDs,
				NewShardIDs: []uint32{left, right},
			})
		case shard.PlanMerge:
			merged, err := e.coordinator.ExecuteMerge(plan.ShardIDs)
			if err != nil {
				return newError(ErrShard, "check-rebalancing", err)
			}
			e.events.Publish(DAGEvent{
				Kind:        EventShardMerge,
				OldShardIDs: plan.ShardIDs,
				NewShardIDs: []uint32{merged},
			})
		}
	}
	return nil
}

// RecordShardTPS feeds a throughput sample into the shard coordinator.
func (e *Engine) RecordShardTPS(shardID uint32, tps float64, timestampUnix int64) {
	e.coordinator.RecordTPS(shardID, tps, timestampUnix)
}

// SubscribeEvents returns a channel of subsequent DAGEvents and an
// unsubscribe function. The stream is lossy: a subscriber that falls
// behind drops older events once the buffer overflows.
func (e *Engine) SubscribeEvents() (<-chan DAGEvent, func()) {
	return e.events.Subscribe()
}
