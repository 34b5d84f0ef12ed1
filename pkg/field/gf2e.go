package field

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/optable/okvs/internal/util"
)

var ErrBitLength = fmt.Errorf("GF(2^l) requires a positive l that is a multiple of 8")

// moduli caches the reduction polynomial of every l in use.
var moduli sync.Map

// GF2E is the binary extension field GF(2^l). Elements are l/8 byte
// slices holding the coefficients of a polynomial over GF(2) in big-endian
// order: the last bit of the last byte is the constant term. Addition and
// subtraction are XOR.
type GF2E struct {
	l       int
	byteLen int
	// modulus is the irreducible polynomial of degree l defining the field
	modulus *big.Int
}

// NewGF2E returns GF(2^l).
func NewGF2E(l int) (*GF2E, error) {
	if l <= 0 || l%8 != 0 {
		return nil, ErrBitLength
	}

	var modulus *big.Int
	if m, ok := moduli.Load(l); ok {
		modulus = m.(*big.Int)
	} else {
		modulus = irreduciblePentanomial(l)
		moduli.Store(l, modulus)
	}

	return &GF2E{l: l, byteLen: l / 8, modulus: modulus}, nil
}

// Modulus returns a copy of the reduction polynomial, bit i being the
// coefficient of x^i.
func (f *GF2E) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

func (f *GF2E) Add(a, b []byte) []byte {
	dst, err := util.XorBytes(a, b)
	if err != nil {
		panic(err)
	}
	return dst
}

func (f *GF2E) Sub(a, b []byte) []byte {
	return f.Add(a, b)
}

func (f *GF2E) Neg(a []byte) []byte {
	return bytes.Clone(a)
}

func (f *GF2E) Mul(a, b []byte) []byte {
	return f.fromPoly(polyMulMod(f.toPoly(a), f.toPoly(b), f.modulus))
}

// Inv computes a^(2^l - 2).
func (f *GF2E) Inv(a []byte) ([]byte, error) {
	if f.IsZero(a) {
		return nil, ErrNotInvertible
	}

	s := f.toPoly(a)
	r := big.NewInt(1)
	for i := 1; i < f.l; i++ {
		s = polyMulMod(s, s, f.modulus)
		r = polyMulMod(r, s, f.modulus)
	}

	return f.fromPoly(r), nil
}

func (f *GF2E) Zero() []byte {
	return make([]byte, f.byteLen)
}

func (f *GF2E) One() []byte {
	one := make([]byte, f.byteLen)
	one[f.byteLen-1] = 1
	return one
}

func (f *GF2E) IsZero(a []byte) bool {
	return util.IsZero(a)
}

func (f *GF2E) Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

func (f *GF2E) Random(r io.Reader) ([]byte, error) {
	e := make([]byte, f.byteLen)
	if _, err := io.ReadFull(r, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (f *GF2E) NonZeroRandom(r io.Reader) ([]byte, error) {
	return nonZero[[]byte](f, r)
}

func (f *GF2E) BitLength() int {
	return f.l
}

func (f *GF2E) ByteLength() int {
	return f.byteLen
}

func (f *GF2E) Encode(a []byte) []byte {
	return bytes.Clone(a)
}

func (f *GF2E) Decode(b []byte) ([]byte, error) {
	if len(b) != f.byteLen {
		return nil, ErrElementLength
	}
	return bytes.Clone(b), nil
}

func (f *GF2E) String() string {
	return fmt.Sprintf("GF(2^%d)", f.l)
}

func (f *GF2E) toPoly(a []byte) *big.Int {
	if len(a) != f.byteLen {
		panic(ErrElementLength)
	}
	return new(big.Int).SetBytes(a)
}

func (f *GF2E) fromPoly(p *big.Int) []byte {
	return p.FillBytes(make([]byte, f.byteLen))
}
