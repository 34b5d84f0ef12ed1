package main

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/big"

	gr "github.com/bwesterb/go-ristretto"
	"github.com/go-logr/logr"
	r255 "github.com/gtank/ristretto255"
	"github.com/optable/okvs/internal/crypto"
	"github.com/optable/okvs/pkg/field"
	"github.com/optable/okvs/pkg/okvs"
)

// table is a garbled cuckoo table whose values travel as field encodings,
// so that the commands do not depend on the element type.
type table interface {
	N() int
	M() int
	L() int
	LM() int
	RM() int
	Rate() float64
	NegLogFailureProbability() int
	Type() okvs.Type
	// CellSize is the byte length of an encoded value.
	CellSize() int
	FieldName() string

	// RandomValue returns the encoding of a random value.
	RandomValue() ([]byte, error)
	// EncodeTo encodes kv and writes the storage to w.
	EncodeTo(w io.Writer, kv map[string][]byte) error
	// ReadStorage reads storage written by EncodeTo.
	ReadStorage(r io.Reader) (storage, error)
}

// storage decodes keys from a read storage array.
type storage interface {
	Decode(key []byte) []byte
}

// typedTable adapts an OKVS over elements E to table.
type typedTable[E any] struct {
	*okvs.OKVS[E]
	f    field.Field[E]
	rand io.Reader
}

type typedStorage[E any] struct {
	o     *okvs.OKVS[E]
	f     field.Field[E]
	cells []E
}

// newTable instantiates the table described by cfg with the given hash keys.
func newTable(cfg *Config, keys [][]byte, logger logr.Logger) (table, error) {
	switch cfg.Field {
	case "gf2e":
		f, err := field.NewGF2E(cfg.Bits)
		if err != nil {
			return nil, err
		}
		return asTable[[]byte](newTypedTable[[]byte](cfg, f, keys, logger))
	case "zp":
		p, ok := new(big.Int).SetString(cfg.Modulus, 0)
		if !ok {
			return nil, fmt.Errorf("%w: modulus %q", field.ErrModulus, cfg.Modulus)
		}
		f, err := field.NewZp(p)
		if err != nil {
			return nil, err
		}
		return asTable[*big.Int](newTypedTable[*big.Int](cfg, f, keys, logger))
	case "ristretto255":
		return asTable[*r255.Scalar](newTypedTable(cfg, field.Field[*r255.Scalar](field.NewRistretto255()), keys, logger))
	case "ristretto":
		return asTable[*gr.Scalar](newTypedTable(cfg, field.Field[*gr.Scalar](field.NewRistretto()), keys, logger))
	default:
		return nil, fmt.Errorf("%w: %q", ErrField, cfg.Field)
	}
}

// asTable keeps a failed construction from yielding a non nil table.
func asTable[E any](t *typedTable[E], err error) (table, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

func newTypedTable[E any](cfg *Config, f field.Field[E], keys [][]byte, logger logr.Logger) (*typedTable[E], error) {
	t, err := cfg.TableType()
	if err != nil {
		return nil, err
	}
	ht, err := cfg.HashType()
	if err != nil {
		return nil, err
	}

	opts := []okvs.Option{okvs.WithHashType(ht), okvs.WithLogger(logger)}
	rand := io.Reader(nil)
	seed, err := cfg.RandomSeed()
	if err != nil {
		return nil, err
	}
	if seed != nil {
		rand = crypto.NewPRG(seed)
		opts = append(opts, okvs.WithRandom(rand))
	}

	o, err := okvs.New(t, f, cfg.N, keys, opts...)
	if err != nil {
		return nil, err
	}
	return &typedTable[E]{OKVS: o, f: f, rand: rand}, nil
}

func (t *typedTable[E]) CellSize() int {
	return t.f.ByteLength()
}

func (t *typedTable[E]) FieldName() string {
	return fmt.Sprint(t.f)
}

func (t *typedTable[E]) RandomValue() ([]byte, error) {
	r := t.rand
	if r == nil {
		r = cryptorand.Reader
	}
	v, err := t.f.Random(r)
	if err != nil {
		return nil, err
	}
	return t.f.Encode(v), nil
}

func (t *typedTable[E]) EncodeTo(w io.Writer, kv map[string][]byte) error {
	values := make(map[string]E, len(kv))
	for k, b := range kv {
		v, err := t.f.Decode(b)
		if err != nil {
			return fmt.Errorf("value of %s: %w", k, err)
		}
		values[k] = v
	}

	cells, err := t.Encode(values)
	if err != nil {
		return err
	}
	return okvs.WriteStorage(w, t.f, cells)
}

func (t *typedTable[E]) ReadStorage(r io.Reader) (storage, error) {
	cells, err := okvs.ReadStorage(r, t.f)
	if err != nil {
		return nil, err
	}
	if err := t.CheckStorage(cells); err != nil {
		return nil, err
	}
	return &typedStorage[E]{o: t.OKVS, f: t.f, cells: cells}, nil
}

func (s *typedStorage[E]) Decode(key []byte) []byte {
	return s.f.Encode(s.o.Decode(s.cells, key))
}
