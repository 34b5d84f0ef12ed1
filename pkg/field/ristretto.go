package field

import (
	"bytes"
	"io"

	gr "github.com/bwesterb/go-ristretto"
	r255 "github.com/gtank/ristretto255"
)

const (
	// ScalarLength is the encoded length of a ristretto scalar.
	ScalarLength = 32
	// uniformLength is the number of random bytes reduced into a scalar.
	uniformLength = 64
	// scalarBits is the bit length of the group order
	// l = 2^252 + 27742317777372353535851937790883648493.
	scalarBits = 253
)

// R255 is the prime field of the ristretto255 group order, backed by
// github.com/gtank/ristretto255.
type R255 struct{}

// NewRistretto255 returns the ristretto255 scalar field.
func NewRistretto255() R255 {
	return R255{}
}

func (R255) Add(a, b *r255.Scalar) *r255.Scalar {
	return r255.NewScalar().Add(a, b)
}

func (R255) Sub(a, b *r255.Scalar) *r255.Scalar {
	return r255.NewScalar().Subtract(a, b)
}

func (R255) Neg(a *r255.Scalar) *r255.Scalar {
	return r255.NewScalar().Negate(a)
}

func (R255) Mul(a, b *r255.Scalar) *r255.Scalar {
	return r255.NewScalar().Multiply(a, b)
}

func (f R255) Inv(a *r255.Scalar) (*r255.Scalar, error) {
	if f.IsZero(a) {
		return nil, ErrNotInvertible
	}
	return r255.NewScalar().Invert(a), nil
}

func (R255) Zero() *r255.Scalar {
	return r255.NewScalar()
}

func (R255) One() *r255.Scalar {
	var one [ScalarLength]byte
	one[0] = 1
	s := r255.NewScalar()
	if err := s.Decode(one[:]); err != nil {
		panic(err)
	}
	return s
}

func (R255) IsZero(a *r255.Scalar) bool {
	return a.Equal(r255.NewScalar()) == 1
}

func (R255) Equal(a, b *r255.Scalar) bool {
	return a.Equal(b) == 1
}

func (R255) Random(r io.Reader) (*r255.Scalar, error) {
	var uniform [uniformLength]byte
	if _, err := io.ReadFull(r, uniform[:]); err != nil {
		return nil, err
	}
	return r255.NewScalar().FromUniformBytes(uniform[:]), nil
}

func (f R255) NonZeroRandom(r io.Reader) (*r255.Scalar, error) {
	return nonZero[*r255.Scalar](f, r)
}

func (R255) BitLength() int {
	return scalarBits
}

func (R255) ByteLength() int {
	return ScalarLength
}

func (R255) Encode(a *r255.Scalar) []byte {
	return a.Encode(make([]byte, 0, ScalarLength))
}

func (R255) Decode(b []byte) (*r255.Scalar, error) {
	if len(b) != ScalarLength {
		return nil, ErrElementLength
	}
	s := r255.NewScalar()
	if err := s.Decode(b); err != nil {
		return nil, ErrOutOfRange
	}
	return s, nil
}

func (R255) String() string {
	return "ristretto255"
}

// GR is the same scalar field backed by github.com/bwesterb/go-ristretto.
type GR struct{}

// NewRistretto returns the ristretto scalar field of go-ristretto.
func NewRistretto() GR {
	return GR{}
}

func (GR) Add(a, b *gr.Scalar) *gr.Scalar {
	return new(gr.Scalar).Add(a, b)
}

func (GR) Sub(a, b *gr.Scalar) *gr.Scalar {
	return new(gr.Scalar).Sub(a, b)
}

func (GR) Neg(a *gr.Scalar) *gr.Scalar {
	return new(gr.Scalar).Neg(a)
}

func (GR) Mul(a, b *gr.Scalar) *gr.Scalar {
	return new(gr.Scalar).Mul(a, b)
}

func (f GR) Inv(a *gr.Scalar) (*gr.Scalar, error) {
	if f.IsZero(a) {
		return nil, ErrNotInvertible
	}
	return new(gr.Scalar).Inverse(a), nil
}

func (GR) Zero() *gr.Scalar {
	return new(gr.Scalar).SetZero()
}

func (GR) One() *gr.Scalar {
	return new(gr.Scalar).SetOne()
}

func (f GR) IsZero(a *gr.Scalar) bool {
	return a.Equals(f.Zero())
}

func (GR) Equal(a, b *gr.Scalar) bool {
	return a.Equals(b)
}

func (GR) Random(r io.Reader) (*gr.Scalar, error) {
	var uniform [uniformLength]byte
	if _, err := io.ReadFull(r, uniform[:]); err != nil {
		return nil, err
	}
	return new(gr.Scalar).SetReduced(&uniform), nil
}

func (f GR) NonZeroRandom(r io.Reader) (*gr.Scalar, error) {
	return nonZero[*gr.Scalar](f, r)
}

func (GR) BitLength() int {
	return scalarBits
}

func (GR) ByteLength() int {
	return ScalarLength
}

func (GR) Encode(a *gr.Scalar) []byte {
	var buf [ScalarLength]byte
	a.BytesInto(&buf)
	return buf[:]
}

// Decode rejects encodings that are not reduced modulo the group order.
func (GR) Decode(b []byte) (*gr.Scalar, error) {
	if len(b) != ScalarLength {
		return nil, ErrElementLength
	}
	var buf [ScalarLength]byte
	copy(buf[:], b)
	s := new(gr.Scalar).SetBytes(&buf)
	if !bytes.Equal(s.Bytes(), b) {
		return nil, ErrOutOfRange
	}
	return s, nil
}

func (GR) String() string {
	return "go-ristretto"
}
