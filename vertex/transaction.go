// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import "github.com/vertexledger/abft/crypto"

// AddressSize is the length in bytes of a source/target account address.
const AddressSize = 32

// Transaction is the payload embedded in every vertex.
type Transaction struct {
	Source   [AddressSize]byte
	Target   [AddressSize]byte
	Amount   uint64
	Currency uint32
	Fee      uint64
	Nonce    uint64
	UserData []byte
}

// CanonicalBytes returns the fixed-order field concatenation used both
// to derive TxHash and as the canonical transaction encoding folded
// into the vertex's own canonical hash.
func (tx Transaction) CanonicalBytes() []byte {
	out := make([]byte, 0, 2*AddressSize+8+4+8+8+len(tx.UserData))
	out = append(out, tx.Source[:]...)
	out = append(out, tx.Target[:]...)
	out = append(out, crypto.PutUint64(tx.Amount)...)
	out = append(out, crypto.PutUint32(tx.Currency)...)
	out = append(out, crypto.PutUint64(tx.Fee)...)
	out = append(out, crypto.PutUint64(tx.Nonce)...)
	out = append(out, tx.UserData...)
	return out
}

// Hash returns tx_hash, the BLAKE3 digest of the transaction's
// canonical serialization.
func (tx Transaction) Hash() crypto.Hash {
	return crypto.Sum(tx.CanonicalBytes())
}
