// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"

	"github.com/vertexledger/abft/crypto"
)

// Keyspace prefixes, one byte each.
const (
	prefixVertex   byte = 0x01
	prefixShard    byte = 0x02
	prefixChildren byte = 0x03
	prefixMeta     byte = 0x04
)

// vertexKey builds the 0x01 ∥ hash[32] ∥ clock_be[8] ∥ shard_be[4] key
// layout.
func vertexKey(h crypto.Hash, logicalClock uint64, shardID uint32) []byte {
	key := make([]byte, 0, 1+crypto.HashSize+8+4)
	key = append(key, prefixVertex)
	key = append(key, h[:]...)
	key = append(key, crypto.PutUint64(logicalClock)...)
	key = append(key, crypto.PutUint32(shardID)...)
	return key
}

// childrenKey builds the 0x03 ∥ parent_hash[32] key layout.
func childrenKey(parent crypto.Hash) []byte {
	key := make([]byte, 0, 1+crypto.HashSize)
	key = append(key, prefixChildren)
	key = append(key, parent[:]...)
	return key
}

// shardKey builds the 0x02 ∥ "shard_" ∥ decimal(shard_id) key layout.
func shardKey(shardID uint32) []byte {
	key := []byte{prefixShard}
	key = append(key, []byte(fmt.Sprintf("shard_%d", shardID))...)
	return key
}

// metaKey builds a 0x04-prefixed metadata key.
func metaKey(name string) []byte {
	return append([]byte{prefixMeta}, []byte(name)...)
}
