// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumDeterministic(t *testing.T) {
	require := require.New(t)

	a := Sum([]byte("alpha"), PutUint64(1), PutUint32(2))
	b := Sum([]byte("alpha"), PutUint64(1), PutUint32(2))
	require.Equal(a, b)

	c := Sum([]byte("alpha"), PutUint64(2), PutUint32(2))
	require.NotEqual(a, c)
}

func TestHashStringRoundTrip(t *testing.T) {
	require := require.New(t)

	h := Sum([]byte("genesis"))
	require.Len(h.String(), 2*HashSize)
	require.False(h.IsZero())
	require.True(Hash{}.IsZero())
}

func TestSignatureVerify(t *testing.T) {
	require := require.New(t)

	var pk [PubKeySize]byte
	pk[0] = 0x01

	sig := Sign([]byte("msg"), pk)
	require.False(sig.IsZero())
	require.True(Verify(sig, []byte("msg")))

	require.False(Verify(Signature{}, []byte("msg")))
}

func TestAggregatePartial(t *testing.T) {
	require := require.New(t)

	var pk [PubKeySize]byte
	sigs := []Signature{
		Sign([]byte("a"), pk),
		{},
		Sign([]byte("b"), pk),
	}
	agg := AggregatePartial(sigs...)
	require.Equal(uint32(3), agg.Count)
	require.Equal(byte(0b101), agg.ParticipantBitmap[0])
}
