// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexledger/abft/crypto"
	"github.com/vertexledger/abft/vertex"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGenesisOnlyScenario(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	g := vertex.NewGenesis()
	require.NoError(s.StoreVertex(g))

	require.Equal(uint64(1), s.Stats().TotalVertices)

	got, err := s.GetVertex(g.Hash)
	require.NoError(err)
	require.Equal(g, got)
}

func TestTwoParentInsertScenario(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)

	p0 := crypto.Hash{0x00}
	p1 := crypto.Hash{0x01}
	v := vertex.New([]crypto.Hash{p0, p1}, 1, 0, vertex.Transaction{}, crypto.Sign([]byte("x"), [crypto.PubKeySize]byte{1}))

	require.NoError(s.StoreVertex(v))

	children := s.GetChildren(p0)
	require.Contains(children, v.Hash)
}

func TestReadYourWrites(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	v := vertex.NewGenesis()
	require.NoError(s.StoreVertex(v))

	got, err := s.GetVertex(v.Hash)
	require.NoError(err)
	require.NotNil(got)
	require.Equal(v.Hash, got.Hash)
}

func TestGetVertexMissReturnsNilNil(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	got, err := s.GetVertex(crypto.Hash{0xff})
	require.NoError(err)
	require.Nil(got)
}

func TestChildrenIndexDedup(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	parent := crypto.Hash{0x05}
	other := crypto.Hash{0x06}

	v := vertex.New([]crypto.Hash{parent, other}, 1, 0, vertex.Transaction{Nonce: 1}, crypto.Sign([]byte("a"), [crypto.PubKeySize]byte{1}))
	require.NoError(s.StoreVertex(v))
	require.NoError(s.StoreVertex(v)) // idempotent re-insert

	children := s.GetChildren(parent)
	count := 0
	for _, h := range children {
		if h == v.Hash {
			count++
		}
	}
	require.Equal(1, count)
}

func TestShardMembership(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	p0, p1 := crypto.Hash{0x01}, crypto.Hash{0x02}
	v := vertex.New([]crypto.Hash{p0, p1}, 1, 3, vertex.Transaction{}, crypto.Sign([]byte("x"), [crypto.PubKeySize]byte{1}))
	require.NoError(s.StoreVertex(v))

	require.Contains(s.GetShardVertices(3), v.Hash)
	require.True(s.VertexExists(v.Hash))
}

func TestClearCachesForcesStoreFallthrough(t *testing.T) {
	require := require.New(t)

	s := openTestStore(t)
	v := vertex.NewGenesis()
	require.NoError(s.StoreVertex(v))
	require.True(s.vertexCache.Peek(v.Hash))

	s.ClearCaches()
	require.False(s.vertexCache.Peek(v.Hash))

	got, err := s.GetVertex(v.Hash)
	require.NoError(err)
	require.Equal(v.Hash, got.Hash)
}

func TestCacheEvictionsCounted(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig(t.TempDir())
	cfg.CacheSize = 1
	s, err := Open(cfg, nil)
	require.NoError(err)
	t.Cleanup(func() { _ = s.Close() })

	p0, p1 := crypto.Hash{0x01}, crypto.Hash{0x02}
	v1 := vertex.New([]crypto.Hash{p0, p1}, 1, 0, vertex.Transaction{Nonce: 1}, crypto.Sign([]byte("a"), [crypto.PubKeySize]byte{1}))
	v2 := vertex.New([]crypto.Hash{p0, p1}, 1, 0, vertex.Transaction{Nonce: 2}, crypto.Sign([]byte("b"), [crypto.PubKeySize]byte{1}))
	require.NoError(s.StoreVertex(v1))
	require.NoError(s.StoreVertex(v2))

	require.True(s.Stats().CacheEvictions > 0)
}

func TestIndexRebuildOnReopen(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	cfg := DefaultConfig(dir)

	s, err := Open(cfg, nil)
	require.NoError(err)

	p0, p1 := crypto.Hash{0x0a}, crypto.Hash{0x0b}
	v := vertex.New([]crypto.Hash{p0, p1}, 1, 2, vertex.Transaction{}, crypto.Sign([]byte("x"), [crypto.PubKeySize]byte{1}))
	require.NoError(s.StoreVertex(v))
	require.NoError(s.Close())

	reopened, err := Open(cfg, nil)
	require.NoError(err)
	defer reopened.Close()

	require.True(reopened.VertexExists(v.Hash))
	require.Contains(reopened.GetChildren(p0), v.Hash)
	require.Contains(reopened.GetShardVertices(2), v.Hash)

	got, err := reopened.GetVertex(v.Hash)
	require.NoError(err)
	require.Equal(v, got)
}
