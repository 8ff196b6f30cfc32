// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/vertexledger/abft/crypto"
)

// encodeHashList serializes a list of hashes as a count-prefixed
// concatenation, the on-disk format for both the children index
// (0x03) and the shard membership index (0x02).
func encodeHashList(hashes []crypto.Hash) []byte {
	buf := make([]byte, 4, 4+len(hashes)*crypto.HashSize)
	binary.BigEndian.PutUint32(buf, uint32(len(hashes)))
	for _, h := range hashes {
		buf = append(buf, h[:]...)
	}
	return buf
}

func decodeHashList(data []byte) ([]crypto.Hash, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("hash list: truncated count")
	}
	n := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if len(data) != int(n)*crypto.HashSize {
		return nil, fmt.Errorf("hash list: length mismatch")
	}
	out := make([]crypto.Hash, n)
	for i := range out {
		copy(out[i][:], data[i*crypto.HashSize:(i+1)*crypto.HashSize])
	}
	return out, nil
}

// dedupHashes preserves order while dropping repeats, used by
// StoreVertex's read-modify-write append to the children index.
func dedupHashes(hashes []crypto.Hash) []crypto.Hash {
	seen := make(map[crypto.Hash]struct{}, len(hashes))
	out := make([]crypto.Hash, 0, len(hashes))
	for _, h := range hashes {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

func beUint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
func beUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

// parseShardKey extracts the shard ID from a 0x02-prefixed
// "shard_<decimal>" key.
func parseShardKey(key []byte) (uint32, bool) {
	if len(key) < 1 || key[0] != prefixShard {
		return 0, false
	}
	s := string(key[1:])
	const p = "shard_"
	if !strings.HasPrefix(s, p) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[len(p):], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
