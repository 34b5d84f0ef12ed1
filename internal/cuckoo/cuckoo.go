package cuckoo

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/optable/okvs/internal/crypto"
	"github.com/optable/okvs/internal/hash"
	"github.com/optable/okvs/internal/util"
)

const (
	// MinArity is the number of bucket hashes of the two-hash tables
	MinArity = 2
	// MaxArity is the number of bucket hashes of the three-hash tables
	MaxArity = 3
)

var (
	ErrArity   = fmt.Errorf("cuckoo hashing supports %d or %d hash functions", MinArity, MaxArity)
	ErrKeyNum  = fmt.Errorf("need one key per bucket hash plus one for the dense hash")
	ErrBuckets = fmt.Errorf("not enough buckets to derive distinct positions")
)

// Expander fills dst with a pseudorandom function of src.
type Expander interface {
	Expand(dst, src []byte)
}

// Hasher derives, for an item, arity bucket indices in [0, lm) and a
// dense bit vector of length rm. It holds no per item state and is safe
// for concurrent use.
type Hasher struct {
	arity int
	// number of buckets, the sparse (left) part of the table
	lm int
	// length of the dense (right) bit vector
	rm int
	// h_0 .. h_{arity-1}
	hashers []hash.Hasher
	// h_r
	dense Expander
}

// NewHasher instantiates a Hasher of the given arity from arity+1 keys
// of hash.SaltLength bytes: one per bucket hash of type t, the last one
// keying the dense hash.
func NewHasher(arity, lm, rm int, t hash.Type, keys [][]byte) (*Hasher, error) {
	if arity != MinArity && arity != MaxArity {
		return nil, ErrArity
	}
	if len(keys) != arity+1 {
		return nil, ErrKeyNum
	}

	hashers := make([]hash.Hasher, arity)
	var err error
	for i := range hashers {
		if hashers[i], err = hash.New(t, keys[i]); err != nil {
			return nil, err
		}
	}

	dense, err := crypto.NewKeyedExpander(keys[arity])
	if err != nil {
		return nil, err
	}

	return FromHashers(arity, lm, rm, hashers, dense)
}

// FromHashers builds a Hasher on top of already keyed functions.
func FromHashers(arity, lm, rm int, hashers []hash.Hasher, dense Expander) (*Hasher, error) {
	if arity != MinArity && arity != MaxArity {
		return nil, ErrArity
	}
	if len(hashers) != arity {
		return nil, ErrKeyNum
	}
	if lm < arity {
		return nil, ErrBuckets
	}

	return &Hasher{
		arity:   arity,
		lm:      lm,
		rm:      rm,
		hashers: hashers,
		dense:   dense,
	}, nil
}

// Arity returns the number of bucket indices derived per item.
func (h *Hasher) Arity() int {
	return h.arity
}

// BucketIndices returns the bucket indices of an item.
// The two-hash indices may coincide. The three-hash indices are
// pairwise distinct: h_1 is resampled with an increasing counter until
// it differs from h_0, then h_2 until it differs from both.
func (h *Hasher) BucketIndices(item []byte) []int {
	idxs := make([]int, h.arity)
	buf := make([]byte, 4+len(item))
	copy(buf[4:], item)

	idxs[0] = h.bucket(0, 0, buf)
	idxs[1] = h.bucket(1, 0, buf)
	if h.arity == MinArity {
		return idxs
	}

	for counter := uint32(1); idxs[1] == idxs[0]; counter++ {
		idxs[1] = h.bucket(1, counter, buf)
	}

	idxs[2] = h.bucket(2, 0, buf)
	for counter := uint32(1); idxs[2] == idxs[0] || idxs[2] == idxs[1]; counter++ {
		idxs[2] = h.bucket(2, counter, buf)
	}

	return idxs
}

// bucket evaluates h_i(counter || item). buf holds 4 free bytes
// followed by the item.
func (h *Hasher) bucket(i int, counter uint32, buf []byte) int {
	binary.LittleEndian.PutUint32(buf, counter)
	return int(h.hashers[i].Hash64(buf) % uint64(h.lm))
}

// DenseVector returns the rm bit vector of an item. Bit i is bit i%8 of
// byte i/8 of the dense hash output.
func (h *Hasher) DenseVector(item []byte) *bitset.BitSet {
	raw := make([]byte, (h.rm+7)/8)
	h.dense.Expand(raw, item)

	rx := bitset.New(uint(h.rm))
	for i := 0; i < h.rm; i++ {
		if util.BitSetInByte(raw, i) {
			rx.Set(uint(i))
		}
	}

	return rx
}
