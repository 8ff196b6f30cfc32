// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package abft

import (
	"sync"

	"github.com/vertexledger/abft/consensus"
	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/vertex"
)

// eventBufferSize bounds each subscriber's channel; a subscriber that
// falls behind by this many events starts losing the oldest ones.
const eventBufferSize = 1000

// EventKind tags a DAGEvent's payload type.
type EventKind int

const (
	EventVertexInserted EventKind = iota
	EventVertexFinalized
	EventShardSplit
	EventShardMerge
	EventConsensusReached
)

// DAGEvent is one item on the engine's broadcast event stream.
type DAGEvent struct {
	Kind EventKind

	VertexHash crypto.Hash
	ShardID    uint32
	Status     vertex.Status

	FinalityProof *consensus.FinalityProof

	OldShardIDs []uint32
	NewShardIDs []uint32

	Round      uint64
	Validators []consensus.ValidatorID
}

// eventBus is a multi-producer, multi-consumer lossy broadcast: each
// subscriber gets its own buffered channel, and a publish that would
// block a slow subscriber drops that subscriber's oldest buffered
// event to make room instead of blocking the publisher.
type eventBus struct {
	mu   sync.Mutex
	subs map[int]chan DAGEvent
	next int
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[int]chan DAGEvent)}
}

// Subscribe returns a channel of subsequent events and an unsubscribe
// function. The channel only receives events published after
// Subscribe returns.
func (b *eventBus) Subscribe() (<-chan DAGEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan DAGEvent, eventBufferSize)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
	}
	return ch, unsubscribe
}

// Publish sends event to every subscriber. For a subscriber whose
// buffer is currently full, the oldest buffered event is discarded to
// make room for event.
func (b *eventBus) Publish(event DAGEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}
