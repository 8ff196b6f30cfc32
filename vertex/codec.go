// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vertexledger/abft/crypto"
)

// ErrTruncated is returned by Unmarshal when the input ends before a
// length-prefixed field is fully present.
var ErrTruncated = errors.New("vertex: truncated encoding")

// Marshal produces the externally-stable binary encoding of v.
// Encode -> decode -> encode must be byte-identical.
func (v *Vertex) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 256+len(v.Transaction.UserData))

	buf = append(buf, v.Hash[:]...)
	buf = append(buf, v.TxHash[:]...)
	buf = appendU64(buf, v.LogicalClock)
	buf = appendU32(buf, v.ShardID)
	buf = appendU64(buf, uint64(v.Timestamp))

	buf = appendU32(buf, uint32(len(v.Parents)))
	for _, p := range v.Parents {
		buf = append(buf, p[:]...)
	}

	buf = append(buf, v.Transaction.Source[:]...)
	buf = append(buf, v.Transaction.Target[:]...)
	buf = appendU64(buf, v.Transaction.Amount)
	buf = appendU32(buf, v.Transaction.Currency)
	buf = appendU64(buf, v.Transaction.Fee)
	buf = appendU64(buf, v.Transaction.Nonce)
	buf = appendBytes(buf, v.Transaction.UserData)

	buf = append(buf, v.Signature.Sig[:]...)
	buf = append(buf, v.Signature.PubKey[:]...)
	if v.Signature.AggregateInfo != nil {
		buf = append(buf, 1)
		buf = appendU32(buf, v.Signature.AggregateInfo.Count)
		buf = appendBytes(buf, v.Signature.AggregateInfo.ParticipantBitmap)
	} else {
		buf = append(buf, 0)
	}

	if v.Proof != nil {
		buf = append(buf, 1)
		buf = appendBytes(buf, v.Proof.Proof)
		buf = appendBytes(buf, v.Proof.PublicInputs)
		buf = append(buf, v.Proof.VKHash[:]...)
	} else {
		buf = append(buf, 0)
	}

	return buf, nil
}

// Unmarshal decodes a vertex previously produced by Marshal.
func Unmarshal(data []byte) (*Vertex, error) {
	r := &reader{buf: data}

	v := &Vertex{}
	if err := r.readHash(&v.Hash); err != nil {
		return nil, err
	}
	if err := r.readHash(&v.TxHash); err != nil {
		return nil, err
	}
	clock, err := r.readU64()
	if err != nil {
		return nil, err
	}
	v.LogicalClock = clock

	shardID, err := r.readU32()
	if err != nil {
		return nil, err
	}
	v.ShardID = shardID

	ts, err := r.readU64()
	if err != nil {
		return nil, err
	}
	v.Timestamp = int64(ts)

	numParents, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if numParents > 0 {
		v.Parents = make([]crypto.Hash, numParents)
		for i := range v.Parents {
			if err := r.readHash(&v.Parents[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := r.readHash((*crypto.Hash)(&v.Transaction.Source)); err != nil {
		return nil, err
	}
	if err := r.readHash((*crypto.Hash)(&v.Transaction.Target)); err != nil {
		return nil, err
	}
	if v.Transaction.Amount, err = r.readU64(); err != nil {
		return nil, err
	}
	if v.Transaction.Currency, err = r.readU32(); err != nil {
		return nil, err
	}
	if v.Transaction.Fee, err = r.readU64(); err != nil {
		return nil, err
	}
	if v.Transaction.Nonce, err = r.readU64(); err != nil {
		return nil, err
	}
	if v.Transaction.UserData, err = r.readBytes(); err != nil {
		return nil, err
	}
	if len(v.Transaction.UserData) == 0 {
		v.Transaction.UserData = nil
	}

	if err := r.readFixed(v.Signature.Sig[:]); err != nil {
		return nil, err
	}
	if err := r.readFixed(v.Signature.PubKey[:]); err != nil {
		return nil, err
	}
	hasAgg, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if hasAgg == 1 {
		count, err := r.readU32()
		if err != nil {
			return nil, err
		}
		bitmap, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		v.Signature.AggregateInfo = &crypto.AggregateInfo{Count: count, ParticipantBitmap: bitmap}
	}

	hasProof, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if hasProof == 1 {
		p := &Proof{}
		if p.Proof, err = r.readBytes(); err != nil {
			return nil, err
		}
		if p.PublicInputs, err = r.readBytes(); err != nil {
			return nil, err
		}
		if err := r.readFixed(p.VKHash[:]); err != nil {
			return nil, err
		}
		v.Proof = p
	}

	if r.off != len(r.buf) {
		return nil, fmt.Errorf("vertex: %d trailing bytes after decode", len(r.buf)-r.off)
	}
	return v, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendBytes(buf []byte, data []byte) []byte {
	buf = appendU32(buf, uint32(len(data)))
	return append(buf, data...)
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) readFixed(dst []byte) error {
	if r.off+len(dst) > len(r.buf) {
		return ErrTruncated
	}
	copy(dst, r.buf[r.off:r.off+len(dst)])
	r.off += len(dst)
	return nil
}

func (r *reader) readHash(dst *crypto.Hash) error {
	return r.readFixed(dst[:])
}

func (r *reader) readU64() (uint64, error) {
	if r.off+8 > len(r.buf) {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint64(r.buf[r.off : r.off+8])
	r.off += 8
	return v, nil
}

func (r *reader) readU32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *reader) readByte() (byte, error) {
	if r.off+1 > len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readBytes() ([]byte, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if r.off+int(n) > len(r.buf) {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}
