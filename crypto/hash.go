// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto provides the hashing and signature placeholder
// primitives the DAG engine treats as black-box dependencies: BLAKE3
// content hashing and a BLS12-381-shaped signature stub.
package crypto

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// HashSize is the length in bytes of a canonical content hash.
const HashSize = 32

// Hash is a content-addressed 32-byte digest, used for vertex hashes,
// vote hashes and namespace routing hashes alike.
type Hash [HashSize]byte

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, 2*HashSize)
	for i, b := range h {
		buf[2*i] = hextable[b>>4]
		buf[2*i+1] = hextable[b&0x0f]
	}
	return string(buf)
}

// Bytes returns a fresh copy of h's bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// Sum hashes concatenated byte fields with BLAKE3 and truncates the
// output to the first HashSize bytes.
func Sum(fields ...[]byte) Hash {
	h := blake3.New()
	for _, f := range fields {
		_, _ = h.Write(f)
	}
	var out Hash
	copy(out[:], h.Sum(nil)[:HashSize])
	return out
}

// PutUint64 is a small helper so callers building canonical field lists
// don't each hand-roll big-endian encoding of clocks and amounts.
func PutUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// PutUint32 big-endian encodes a 32-bit field (shard IDs, currency codes).
func PutUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}
