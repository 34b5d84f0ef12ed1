package field

import (
	"fmt"
	"io"
	"math/big"
)

var ErrModulus = fmt.Errorf("Zp requires a prime modulus greater than 2")

// Zp is the prime field of integers modulo p. Elements are *big.Int in
// [0, p); cells are encoded big-endian on the byte length of p.
type Zp struct {
	p       *big.Int
	l       int
	byteLen int
}

// NewZp returns the field of integers modulo the prime p.
func NewZp(p *big.Int) (*Zp, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 || !p.ProbablyPrime(20) {
		return nil, ErrModulus
	}

	return &Zp{p: new(big.Int).Set(p), l: p.BitLen(), byteLen: (p.BitLen() + 7) / 8}, nil
}

// Prime returns a copy of the modulus.
func (f *Zp) Prime() *big.Int {
	return new(big.Int).Set(f.p)
}

func (f *Zp) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	if r.Cmp(f.p) >= 0 {
		r.Sub(r, f.p)
	}
	return r
}

func (f *Zp) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.Add(r, f.p)
	}
	return r
}

func (f *Zp) Neg(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(f.p, a)
}

func (f *Zp) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

func (f *Zp) Inv(a *big.Int) (*big.Int, error) {
	if a.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	return new(big.Int).ModInverse(a, f.p), nil
}

func (f *Zp) Zero() *big.Int {
	return new(big.Int)
}

func (f *Zp) One() *big.Int {
	return big.NewInt(1)
}

func (f *Zp) IsZero(a *big.Int) bool {
	return a.Sign() == 0
}

func (f *Zp) Equal(a, b *big.Int) bool {
	return a.Cmp(b) == 0
}

// Random draws byteLen bytes, masks the excess high bits and rejects
// values >= p, so the stream consumed from r is deterministic.
func (f *Zp) Random(r io.Reader) (*big.Int, error) {
	buf := make([]byte, f.byteLen)
	mask := byte(0xff >> uint(f.byteLen*8-f.l))
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		buf[0] &= mask
		e := new(big.Int).SetBytes(buf)
		if e.Cmp(f.p) < 0 {
			return e, nil
		}
	}
}

func (f *Zp) NonZeroRandom(r io.Reader) (*big.Int, error) {
	return nonZero[*big.Int](f, r)
}

func (f *Zp) BitLength() int {
	return f.l
}

func (f *Zp) ByteLength() int {
	return f.byteLen
}

func (f *Zp) Encode(a *big.Int) []byte {
	return a.FillBytes(make([]byte, f.byteLen))
}

func (f *Zp) Decode(b []byte) (*big.Int, error) {
	if len(b) != f.byteLen {
		return nil, ErrElementLength
	}
	e := new(big.Int).SetBytes(b)
	if e.Cmp(f.p) >= 0 {
		return nil, ErrOutOfRange
	}
	return e, nil
}

func (f *Zp) String() string {
	return fmt.Sprintf("Z_%s", f.p)
}
