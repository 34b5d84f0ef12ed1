package field

import (
	"math/big"
)

// Polynomials over GF(2) are stored in a big.Int, bit i holding the
// coefficient of x^i.

// polyMod returns a mod f.
func polyMod(a, f *big.Int) *big.Int {
	r := new(big.Int).Set(a)
	t := new(big.Int)
	fl := f.BitLen()
	for r.BitLen() >= fl {
		t.Lsh(f, uint(r.BitLen()-fl))
		r.Xor(r, t)
	}
	return r
}

// polyMulMod returns a * b mod f. a must already be reduced modulo f.
func polyMulMod(a, b, f *big.Int) *big.Int {
	deg := f.BitLen() - 1
	r := new(big.Int)
	for i := b.BitLen() - 1; i >= 0; i-- {
		r.Lsh(r, 1)
		if r.Bit(deg) == 1 {
			r.Xor(r, f)
		}
		if b.Bit(i) == 1 {
			r.Xor(r, a)
		}
	}
	return r
}

func polyGCD(a, b *big.Int) *big.Int {
	x, y := new(big.Int).Set(a), new(big.Int).Set(b)
	for y.Sign() != 0 {
		x, y = y, polyMod(x, y)
	}
	return x
}

// isIrreducible runs Ben-Or's test: f of degree n is irreducible iff
// gcd(f, x^(2^i) - x) = 1 for every 1 <= i <= n/2.
func isIrreducible(f *big.Int) bool {
	n := f.BitLen() - 1
	if n < 1 {
		return false
	}

	one := big.NewInt(1)
	x := big.NewInt(2)
	u := polyMod(x, f)
	for i := 1; i <= n/2; i++ {
		u = polyMulMod(u, u, f)
		if polyGCD(f, new(big.Int).Xor(u, x)).Cmp(one) != 0 {
			return false
		}
	}
	return true
}

// irreduciblePentanomial returns the first irreducible
// x^l + x^a + x^b + x^c + 1, l > a > b > c > 0, in lexicographic order of
// (a, b, c). Degrees that are multiples of 8 have no irreducible trinomial
// (Swan), so pentanomials are the sparsest choice.
func irreduciblePentanomial(l int) *big.Int {
	for a := 3; a < l; a++ {
		for b := 2; b < a; b++ {
			for c := 1; c < b; c++ {
				f := big.NewInt(1)
				f.SetBit(f, l, 1)
				f.SetBit(f, a, 1)
				f.SetBit(f, b, 1)
				f.SetBit(f, c, 1)
				if isIrreducible(f) {
					return f
				}
			}
		}
	}

	panic("no irreducible pentanomial found")
}
