// Package okvs implements an oblivious key-value store on top of a garbled
// cuckoo table.
//
// A table encodes up to n key-value pairs into a storage array of m = lm + rm
// field elements. Every key selects 2 or 3 cells of the left part through
// its bucket hashes and a pseudorandom subset of the right part through its
// dense vector; the selected cells sum to the value of the key. Storage for
// different maps of the same size is indistinguishable, and decoding a key
// that was not encoded returns an unrelated field element.
package okvs

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/optable/okvs/internal/crypto"
	"github.com/optable/okvs/internal/cuckoo"
	"github.com/optable/okvs/internal/hash"
	"github.com/optable/okvs/pkg/field"
)

// KeyLength is the length of every hash key.
const KeyLength = crypto.KeyLength

// OKVS is a garbled cuckoo table over the field of elements E. An OKVS
// holds no per encoding state: Decode may be called concurrently, and so
// may Encode as long as the random source is safe for concurrent use,
// which the default crypto/rand.Reader is.
type OKVS[E any] struct {
	t      Type
	f      field.Field[E]
	n      int
	lm, rm int

	hasher *cuckoo.Hasher
	finder cuckoo.Finder

	rand     io.Reader
	hashType hash.Type
	logger   logr.Logger
}

// Option configures an OKVS.
type Option func(*options)

type options struct {
	rand     io.Reader
	hashType hash.Type
	logger   logr.Logger
}

// WithRandom sets the source of the random cells drawn by Encode. Encoding
// the same map twice with identical hash keys and identical random streams
// yields identical storage.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithHashType selects the keyed hash family of the bucket hashes.
func WithHashType(t hash.Type) Option {
	return func(o *options) {
		o.hashType = t
	}
}

// WithLogger sets the logger. Parameters are logged at V(1), the sizes of
// the peeled graph and of the linear system at V(2).
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New instantiates a table of type t over f for up to n pairs. keys holds
// HashNum(t) keys of KeyLength bytes, one per bucket hash followed by the
// key of the dense vector.
func New[E any](t Type, f field.Field[E], n int, keys [][]byte, opts ...Option) (*OKVS[E], error) {
	lm, rm, err := Params(t, n)
	if err != nil {
		return nil, err
	}

	hashNum, _ := HashNum(t)
	if len(keys) != hashNum {
		return nil, fmt.Errorf("%w: %s needs %d keys, got %d", ErrKeyNum, t, hashNum, len(keys))
	}
	for i, k := range keys {
		if len(k) != KeyLength {
			return nil, fmt.Errorf("%w: key %d has %d bytes", ErrKeyLength, i, len(k))
		}
	}

	o := options{
		rand:     rand.Reader,
		hashType: hash.Highway,
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	arity, _ := t.arity()
	hasher, err := cuckoo.NewHasher(arity, lm, rm, o.hashType, keys)
	if err != nil {
		return nil, err
	}

	logger := o.logger.WithValues("okvs", t.String())
	logger.V(1).Info("instantiated garbled cuckoo table",
		"field", fmt.Sprint(f), "n", n, "lm", lm, "rm", rm, "hash", o.hashType.String())

	return &OKVS[E]{
		t:        t,
		f:        f,
		n:        n,
		lm:       lm,
		rm:       rm,
		hasher:   hasher,
		finder:   t.finder(),
		rand:     o.rand,
		hashType: o.hashType,
		logger:   logger,
	}, nil
}

// Type returns the table type.
func (o *OKVS[E]) Type() Type {
	return o.t
}

// Field returns the field of the stored values.
func (o *OKVS[E]) Field() field.Field[E] {
	return o.f
}

// N returns the maximum number of encodable pairs.
func (o *OKVS[E]) N() int {
	return o.n
}

// M returns the storage length.
func (o *OKVS[E]) M() int {
	return o.lm + o.rm
}

// L returns the bit length of the stored values.
func (o *OKVS[E]) L() int {
	return o.f.BitLength()
}

// LM returns the length of the left, bucket indexed, part of the storage.
func (o *OKVS[E]) LM() int {
	return o.lm
}

// RM returns the length of the right, densely indexed, part of the storage.
func (o *OKVS[E]) RM() int {
	return o.rm
}

// Rate returns n/m.
func (o *OKVS[E]) Rate() float64 {
	return float64(o.n) / float64(o.M())
}

// NegLogFailureProbability returns -log2 of the probability that Encode
// fails with ErrEncodingInfeasible.
func (o *OKVS[E]) NegLogFailureProbability() int {
	return Lambda
}

// HashType returns the keyed hash family of the bucket hashes.
func (o *OKVS[E]) HashType() hash.Type {
	return o.hashType
}
