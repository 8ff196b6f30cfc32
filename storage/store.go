// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage implements the durable DAG storage engine: a
// pebble-backed key-value store with secondary indices for parent→
// children, shard membership and logical-clock ordering, plus a
// write-through cache and two LRU read caches.
package storage

import (
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/luxfi/log"

	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/vertex"
)

// clockEntry is the in-memory "clock index" entry recovered from a
// vertex key's suffix on rebuild.
type clockEntry struct {
	Clock   uint64
	ShardID uint32
}

// Store is the durable vertex store: a pebble-backed key-value store
// with in-memory secondary indices and bounded caches.
type Store struct {
	cfg Config
	log log.Logger
	db  *pebble.DB

	vertexCache *lru[crypto.Hash, *vertex.Vertex]
	parentCache *lru[crypto.Hash, []crypto.Hash]
	writeCache  *lru[crypto.Hash, *vertex.Vertex]

	mu            sync.RWMutex
	clockIndex    map[crypto.Hash]clockEntry
	childrenIndex map[crypto.Hash][]crypto.Hash
	shardIndex    map[uint32][]crypto.Hash

	stats stats
}

// Open opens (creating if absent) the pebble store at cfg.Path and
// rebuilds its in-memory indices from persisted state.
func Open(cfg Config, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	db, err := pebble.Open(cfg.Path, &pebble.Options{})
	if err != nil {
		return nil, ioErr("open", err)
	}

	parentCacheSize := cfg.CacheSize / 2
	if parentCacheSize < 1 {
		parentCacheSize = 1
	}

	s := &Store{
		cfg:           cfg,
		log:           logger,
		db:            db,
		clockIndex:    make(map[crypto.Hash]clockEntry),
		childrenIndex: make(map[crypto.Hash][]crypto.Hash),
		shardIndex:    make(map[uint32][]crypto.Hash),
	}
	s.vertexCache = newLRU[crypto.Hash, *vertex.Vertex](cfg.CacheSize, 0, func(*vertex.Vertex) int { return 1 },
		func(crypto.Hash, *vertex.Vertex) { s.stats.cacheEvictions.Add(1) })
	s.parentCache = newLRU[crypto.Hash, []crypto.Hash](parentCacheSize, 0, func([]crypto.Hash) int { return 1 },
		func(crypto.Hash, []crypto.Hash) { s.stats.cacheEvictions.Add(1) })
	s.writeCache = newLRU[crypto.Hash, *vertex.Vertex](cfg.MaxWriteCacheSize, 0, func(*vertex.Vertex) int { return 1 }, nil)

	if err := s.rebuildIndices(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close flushes and closes the backing store.
func (s *Store) Close() error {
	if err := s.db.Flush(); err != nil {
		return ioErr("close-flush", err)
	}
	if err := s.db.Close(); err != nil {
		return ioErr("close", err)
	}
	return nil
}

// rebuildIndices iterates every vertex-prefix key and reconstructs the
// clock index; children and shard indices are reconstructed from their
// own persisted prefixes, since both are themselves durable secondary
// indices written alongside every StoreVertex call.
func (s *Store) rebuildIndices() error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixVertex},
		UpperBound: []byte{prefixVertex + 1},
	})
	if err != nil {
		return ioErr("rebuild-vertex-scan", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != 1+crypto.HashSize+8+4 {
			continue
		}
		var h crypto.Hash
		copy(h[:], key[1:1+crypto.HashSize])
		clock := beUint64(key[1+crypto.HashSize : 1+crypto.HashSize+8])
		shardID := beUint32(key[1+crypto.HashSize+8:])
		s.clockIndex[h] = clockEntry{Clock: clock, ShardID: shardID}
		s.stats.totalVertices.Add(1)
	}
	if err := iter.Error(); err != nil {
		return ioErr("rebuild-vertex-scan", err)
	}

	childIter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixChildren},
		UpperBound: []byte{prefixChildren + 1},
	})
	if err != nil {
		return ioErr("rebuild-children-scan", err)
	}
	defer childIter.Close()

	for childIter.First(); childIter.Valid(); childIter.Next() {
		key := childIter.Key()
		if len(key) != 1+crypto.HashSize {
			continue
		}
		var parent crypto.Hash
		copy(parent[:], key[1:])
		children, err := decodeHashList(childIter.Value())
		if err != nil {
			return serializationErr("rebuild-children-scan", err)
		}
		s.childrenIndex[parent] = children
	}
	if err := childIter.Error(); err != nil {
		return ioErr("rebuild-children-scan", err)
	}

	shardIter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixShard},
		UpperBound: []byte{prefixShard + 1},
	})
	if err != nil {
		return ioErr("rebuild-shard-scan", err)
	}
	defer shardIter.Close()

	for shardIter.First(); shardIter.Valid(); shardIter.Next() {
		shardID, ok := parseShardKey(shardIter.Key())
		if !ok {
			continue
		}
		hashes, err := decodeHashList(shardIter.Value())
		if err != nil {
			return serializationErr("rebuild-shard-scan", err)
		}
		s.shardIndex[shardID] = hashes
	}
	if err := shardIter.Error(); err != nil {
		return ioErr("rebuild-shard-scan", err)
	}

	return nil
}

// StoreVertex persists v, updates its secondary indices, and admits
// it to both the vertex and write-through caches.
func (s *Store) StoreVertex(v *vertex.Vertex) error {
	encoded, err := v.Marshal()
	if err != nil {
		return serializationErr("store-vertex", err)
	}

	batch := s.db.NewBatch()
	key := vertexKey(v.Hash, v.LogicalClock, v.ShardID)
	if err := batch.Set(key, encoded, nil); err != nil {
		return ioErr("store-vertex", err)
	}

	s.mu.Lock()
	for _, parent := range v.Parents {
		children := append(append([]crypto.Hash(nil), s.childrenIndex[parent]...), v.Hash)
		children = dedupHashes(children)
		s.childrenIndex[parent] = children
		if err := batch.Set(childrenKey(parent), encodeHashList(children), nil); err != nil {
			s.mu.Unlock()
			return ioErr("store-vertex-children", err)
		}
	}

	members := dedupHashes(append(append([]crypto.Hash(nil), s.shardIndex[v.ShardID]...), v.Hash))
	s.shardIndex[v.ShardID] = members
	if err := batch.Set(shardKey(v.ShardID), encodeHashList(members), nil); err != nil {
		s.mu.Unlock()
		return ioErr("store-vertex-shard", err)
	}
	s.clockIndex[v.Hash] = clockEntry{Clock: v.LogicalClock, ShardID: v.ShardID}
	s.mu.Unlock()

	if err := batch.Commit(pebble.Sync); err != nil {
		return ioErr("store-vertex-commit", err)
	}

	s.vertexCache.Put(v.Hash, v)
	s.parentCache.Put(v.Hash, append([]crypto.Hash(nil), v.Parents...))
	s.admitWriteCache(v)

	s.stats.totalVertices.Add(1)
	s.stats.totalSizeBytes.Add(uint64(len(encoded)))
	s.stats.writeOps.Add(1)
	s.log.Debug("stored vertex", log.String("hash", v.Hash.String()), log.Uint64("clock", v.LogicalClock))
	return nil
}

// admitWriteCache adds v to the write-through cache, flushing and
// clearing it once the cache itself reports it is full.
func (s *Store) admitWriteCache(v *vertex.Vertex) {
	s.writeCache.Put(v.Hash, v)
	if !s.writeCache.Full() {
		return
	}
	if err := s.db.Flush(); err != nil {
		s.log.Warn("write cache flush failed", log.Err(err))
	}
	s.writeCache.Clear()
}

// StoreVerticesBatch stores each vertex sequentially, best-effort,
// with a single flush at the end of the batch.
func (s *Store) StoreVerticesBatch(vertices []*vertex.Vertex) error {
	for _, v := range vertices {
		if err := s.StoreVertex(v); err != nil {
			return err
		}
	}
	if err := s.db.Flush(); err != nil {
		return ioErr("store-vertices-batch-flush", err)
	}
	return nil
}

// GetVertex returns the vertex for h, consulting the vertex cache
// before the backing store. A miss returns (nil, nil).
func (s *Store) GetVertex(h crypto.Hash) (*vertex.Vertex, error) {
	s.stats.readOps.Add(1)
	if v, ok := s.vertexCache.Get(h); ok {
		s.stats.cacheHits.Add(1)
		return v, nil
	}
	s.stats.cacheMisses.Add(1)

	s.mu.RLock()
	entry, ok := s.clockIndex[h]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	data, closer, err := s.db.Get(vertexKey(h, entry.Clock, entry.ShardID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, ioErr("get-vertex", err)
	}
	v, decErr := vertex.Unmarshal(data)
	_ = closer.Close()
	if decErr != nil {
		return nil, serializationErr("get-vertex", decErr)
	}

	s.vertexCache.Put(h, v)
	return v, nil
}

// GetParents returns h's parents, consulting the parent cache before
// reading the stored vertex itself. A vertex with no parents, or an
// unknown hash, yields an empty list and a nil error.
func (s *Store) GetParents(h crypto.Hash) ([]crypto.Hash, error) {
	if parents, ok := s.parentCache.Get(h); ok {
		return parents, nil
	}
	v, err := s.GetVertex(h)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s.parentCache.Put(h, v.Parents)
	return v.Parents, nil
}

// GetChildren returns the hashes of every vertex that names h as a
// parent.
func (s *Store) GetChildren(h crypto.Hash) []crypto.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]crypto.Hash(nil), s.childrenIndex[h]...)
}

// GetShardVertices returns every vertex hash assigned to shardID.
func (s *Store) GetShardVertices(shardID uint32) []crypto.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]crypto.Hash(nil), s.shardIndex[shardID]...)
}

// VertexExists reports whether h has been stored.
func (s *Store) VertexExists(h crypto.Hash) bool {
	if s.vertexCache.Peek(h) {
		return true
	}
	s.mu.RLock()
	_, ok := s.clockIndex[h]
	s.mu.RUnlock()
	return ok
}

// ClearCaches evicts every entry from the read caches, forcing the
// next lookup of each to fall through to the backing store. The
// write-through cache is left alone since clearing it outside of its
// own flush cycle would drop unflushed writes.
func (s *Store) ClearCaches() {
	s.vertexCache.Clear()
	s.parentCache.Clear()
}

// Compact flushes outstanding writes and advisory-compacts the
// backing store.
func (s *Store) Compact() error {
	if err := s.db.Flush(); err != nil {
		return ioErr("compact-flush", err)
	}
	if err := s.db.Compact(nil, nil, false); err != nil {
		return ioErr("compact", err)
	}
	return nil
}

// Stats returns a point-in-time snapshot of storage counters.
func (s *Store) Stats() Stats {
	return s.stats.snapshot()
}
