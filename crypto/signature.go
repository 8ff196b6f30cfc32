// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

// SigSize and PubKeySize describe a BLS12-381-shaped signature: 48
// bytes each for the signature and the compressed public key. Real
// pairing verification is out of scope; Verify only rejects the
// all-zero placeholder.
const (
	SigSize    = 48
	PubKeySize = 48
)

// Signature is a placeholder BLS signature plus an optional aggregate
// descriptor.
type Signature struct {
	Sig           [SigSize]byte
	PubKey        [PubKeySize]byte
	AggregateInfo *AggregateInfo
}

// AggregateInfo describes an aggregated multi-signature.
type AggregateInfo struct {
	Count             uint32
	ParticipantBitmap []byte
}

// IsZero reports whether the signature is the all-zero placeholder.
func (s Signature) IsZero() bool {
	return s.Sig == [SigSize]byte{}
}

// Sign produces a placeholder signature over msg. It never fails and
// never actually signs anything cryptographically: callers only
// require that a produced signature be non-zero.
func Sign(msg []byte, pubKey [PubKeySize]byte) Signature {
	var sig [SigSize]byte
	digest := Sum(msg, pubKey[:])
	copy(sig[:], digest[:])
	return Signature{Sig: sig, PubKey: pubKey}
}

// Verify reports whether sig is a structurally valid placeholder
// signature: its Sig bytes are not all zero. Neither msg nor the public
// key is checked; real BLS12-381 verification is not performed.
func Verify(sig Signature, msg []byte) bool {
	if sig.IsZero() {
		return false
	}
	return true
}

// AggregatePartial combines partial signatures into one aggregate
// descriptor without performing real signature aggregation.
func AggregatePartial(sigs ...Signature) AggregateInfo {
	bitmap := make([]byte, (len(sigs)+7)/8)
	for i, sig := range sigs {
		if !sig.IsZero() {
			bitmap[i/8] |= 1 << uint(i%8)
		}
	}
	return AggregateInfo{Count: uint32(len(sigs)), ParticipantBitmap: bitmap}
}
