// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

// Proof is an optional zero-knowledge proof attached to a vertex.
// Verification is treated as an external concern; this type only
// carries the bytes.
type Proof struct {
	Proof        []byte
	PublicInputs []byte
	VKHash       [32]byte
}
