// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vertex implements the DAG vertex model:
// content-addressed vertices with multi-parent DAG invariants.
package vertex

import (
	"time"

	"github.com/vertexledger/abft/crypto"
)

// GenesisMarker is the fixed byte string stamped into a genesis
// vertex's UserData.
var GenesisMarker = []byte("vertexledger/genesis")

// Vertex is a single DAG node: identity (content hash), causal
// parents, Lamport clock, shard tag, embedded transaction, signature,
// and optional proof.
type Vertex struct {
	Hash         crypto.Hash
	TxHash       crypto.Hash
	LogicalClock uint64
	Parents      []crypto.Hash
	ShardID      uint32
	Transaction  Transaction
	Signature    crypto.Signature
	Timestamp    int64
	Proof        *Proof
}

// IsGenesis reports whether v has no parents, the only way a vertex
// may legally have fewer than two parents.
func (v *Vertex) IsGenesis() bool {
	return len(v.Parents) == 0
}

// canonicalFields returns the fixed-order field list hashed to derive
// v.Hash. The Hash field itself is never part of its own input.
func (v *Vertex) canonicalFields() [][]byte {
	fields := make([][]byte, 0, 6+len(v.Parents))
	fields = append(fields,
		v.TxHash[:],
		crypto.PutUint64(v.LogicalClock),
		crypto.PutUint32(v.ShardID),
		crypto.PutUint64(uint64(v.Timestamp)),
	)
	for _, p := range v.Parents {
		fields = append(fields, p[:])
	}
	fields = append(fields,
		v.Transaction.CanonicalBytes(),
		v.Signature.Sig[:],
		v.Signature.PubKey[:],
	)
	return fields
}

// CanonicalHash recomputes the vertex's content hash from its
// semantic fields. It must equal v.Hash for every accepted vertex.
func (v *Vertex) CanonicalHash() crypto.Hash {
	return crypto.Sum(v.canonicalFields()...)
}

// Seal computes TxHash and Hash from the vertex's current fields and
// stores them, making the vertex content-addressed. Callers build a
// Vertex with every field except Hash/TxHash populated, signature
// included, then call Seal before storing it; the signature is part of
// the hashed fields, so changing it afterwards invalidates Hash.
func (v *Vertex) Seal() {
	v.TxHash = v.Transaction.Hash()
	v.Hash = v.CanonicalHash()
}

// NewGenesis constructs the unique genesis vertex: empty parents,
// logical clock zero, shard zero, all-zero tx/signature fields, and
// GenesisMarker stamped into user_data.
func NewGenesis() *Vertex {
	v := &Vertex{
		LogicalClock: 0,
		ShardID:      0,
		Transaction: Transaction{
			UserData: append([]byte(nil), GenesisMarker...),
		},
		Timestamp: 0,
	}
	v.Seal()
	return v
}

// New builds and seals a non-genesis vertex. Callers are responsible
// for satisfying the DAG invariants (minimum parent count, unique
// parents, monotonic clock) before calling Store; New itself only
// fills in TxHash and Hash, and sets Timestamp to the current time.
func New(parents []crypto.Hash, logicalClock uint64, shardID uint32, tx Transaction, sig crypto.Signature) *Vertex {
	v := &Vertex{
		Parents:      append([]crypto.Hash(nil), parents...),
		LogicalClock: logicalClock,
		ShardID:      shardID,
		Transaction:  tx,
		Signature:    sig,
		Timestamp:    time.Now().UnixMilli(),
	}
	v.Seal()
	return v
}
