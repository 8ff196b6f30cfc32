// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexledger/abft/crypto"
)

func TestGenesisVertex(t *testing.T) {
	require := require.New(t)

	g := NewGenesis()
	require.True(g.IsGenesis())
	require.Equal(uint64(0), g.LogicalClock)
	require.Equal(uint32(0), g.ShardID)
	require.NoError(ValidateDAGProperties(g, nil))
	require.True(VerifyHash(g))
}

func TestTwoParentVertex(t *testing.T) {
	require := require.New(t)

	p0 := crypto.Hash{0x00}
	p1 := crypto.Hash{0x01}
	tx := Transaction{Amount: 10, Nonce: 1}
	sig := crypto.Sign([]byte("tx"), [crypto.PubKeySize]byte{1})

	v := New([]crypto.Hash{p0, p1}, 1, 3, tx, sig)

	require.False(v.IsGenesis())
	require.NoError(ValidateDAGProperties(v, []uint64{0, 0}))
	require.True(VerifyHash(v))
	require.True(VerifySignature(v))
}

func TestValidateDAGPropertiesRejectsTooFewParents(t *testing.T) {
	require := require.New(t)

	v := New([]crypto.Hash{{0x01}}, 1, 0, Transaction{}, crypto.Signature{})
	err := ValidateDAGProperties(v, []uint64{0})
	require.ErrorIs(err, ErrTooFewParents)
}

func TestValidateDAGPropertiesRejectsDuplicateParents(t *testing.T) {
	require := require.New(t)

	dup := crypto.Hash{0x02}
	v := New([]crypto.Hash{dup, dup}, 1, 0, Transaction{}, crypto.Signature{})
	err := ValidateDAGProperties(v, []uint64{0, 0})
	require.ErrorIs(err, ErrDuplicateParent)
}

func TestValidateDAGPropertiesRejectsNonMonotonicClock(t *testing.T) {
	require := require.New(t)

	p0, p1 := crypto.Hash{0x01}, crypto.Hash{0x02}
	v := New([]crypto.Hash{p0, p1}, 5, 0, Transaction{}, crypto.Signature{})
	err := ValidateDAGProperties(v, []uint64{5, 3})
	require.ErrorIs(err, ErrClockNotMonotonic)
}

func TestCanonicalHashTamperDetection(t *testing.T) {
	require := require.New(t)

	v := NewGenesis()
	require.True(VerifyHash(v))

	v.LogicalClock = 7
	require.False(VerifyHash(v))
}

func TestClassification(t *testing.T) {
	require := require.New(t)

	cns := Transaction{UserData: []byte(`{"p":"cns","op":"reg","cns":"alice"}`)}
	require.True(cns.IsCNSTransaction())
	require.False(cns.IsOrdinalTransaction())

	cdns := Transaction{UserData: []byte(`{"p":"cdns","op":"reg"}`)}
	require.True(cdns.IsCNSTransaction())

	mint := Transaction{UserData: []byte(`{"op":"mint","amt":1}`)}
	require.True(mint.IsOrdinalTransaction())
	require.False(mint.IsCNSTransaction())

	plain := Transaction{UserData: []byte(`hello world`)}
	require.False(plain.IsCNSTransaction())
	require.False(plain.IsOrdinalTransaction())

	invalidUTF8 := Transaction{UserData: []byte{0xff, 0xfe, 0xfd}}
	require.False(invalidUTF8.IsCNSTransaction())
}
