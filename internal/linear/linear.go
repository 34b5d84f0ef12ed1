// Package linear solves the dense linear systems of a garbled cuckoo
// table: binary coefficient matrices with right hand sides in a finite field.
package linear

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/optable/okvs/pkg/field"
)

var (
	ErrInconsistent = fmt.Errorf("linear system has no solution")
	ErrDimension    = fmt.Errorf("matrix and right hand side dimensions do not match")
)

// MaxLinearIndependentRows returns, in increasing order, the indices of a
// maximal set of rows that are linearly independent over GF(2). The
// choice is greedy: a row is kept iff it is independent of the rows kept
// before it. Every row must be at least width bits long; bits at or past
// width are ignored.
func MaxLinearIndependentRows(rows []*bitset.BitSet, width int) []int {
	// basis[p] is a kept row, reduced so that its lowest set bit is p
	basis := make(map[uint]*bitset.BitSet, width)
	independent := make([]int, 0, width)

	for i, row := range rows {
		if len(basis) == width {
			break
		}

		r := truncate(row, width)
		for {
			p, ok := r.NextSet(0)
			if !ok {
				// reduced to zero, dependent
				break
			}
			b, found := basis[p]
			if !found {
				basis[p] = r
				independent = append(independent, i)
				break
			}
			r.InPlaceSymmetricDifference(b)
		}
	}

	return independent
}

// Rank returns the GF(2) rank of rows.
func Rank(rows []*bitset.BitSet, width int) int {
	return len(MaxLinearIndependentRows(rows, width))
}

func truncate(row *bitset.BitSet, width int) *bitset.BitSet {
	r := bitset.New(uint(width))
	for i, ok := row.NextSet(0); ok && i < uint(width); i, ok = row.NextSet(i + 1) {
		r.Set(i)
	}
	return r
}

// Solve returns x such that A x = b over f, where row i of A is the
// binary vector rows[i] of length cols. The system is reduced by Gaussian
// elimination over f. Variables left free by a rank deficient A are drawn
// uniformly from rand, in increasing column order. ErrInconsistent is
// returned when no solution exists.
func Solve[E any](f field.Field[E], rows []*bitset.BitSet, cols int, b []E, rand io.Reader) ([]E, error) {
	if len(rows) != len(b) {
		return nil, ErrDimension
	}

	zero, one := f.Zero(), f.One()
	a := make([][]E, len(rows))
	for i, row := range rows {
		a[i] = make([]E, cols)
		for j := range a[i] {
			if row.Test(uint(j)) {
				a[i][j] = one
			} else {
				a[i][j] = zero
			}
		}
	}
	rhs := make([]E, len(b))
	copy(rhs, b)

	// reduced row echelon form
	pivots := make([]int, 0, cols)
	r := 0
	for c := 0; c < cols && r < len(a); c++ {
		p := -1
		for i := r; i < len(a); i++ {
			if !f.IsZero(a[i][c]) {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		a[r], a[p] = a[p], a[r]
		rhs[r], rhs[p] = rhs[p], rhs[r]

		if !f.Equal(a[r][c], one) {
			inv, err := f.Inv(a[r][c])
			if err != nil {
				return nil, err
			}
			for k := c; k < cols; k++ {
				a[r][k] = f.Mul(inv, a[r][k])
			}
			rhs[r] = f.Mul(inv, rhs[r])
		}

		for i := range a {
			if i == r || f.IsZero(a[i][c]) {
				continue
			}
			factor := a[i][c]
			for k := c; k < cols; k++ {
				if !f.IsZero(a[r][k]) {
					a[i][k] = f.Sub(a[i][k], scale(f, factor, a[r][k]))
				}
			}
			rhs[i] = f.Sub(rhs[i], scale(f, factor, rhs[r]))
		}

		pivots = append(pivots, c)
		r++
	}

	for i := r; i < len(a); i++ {
		if !f.IsZero(rhs[i]) {
			return nil, ErrInconsistent
		}
	}

	x := make([]E, cols)
	isPivot := make([]bool, cols)
	for _, c := range pivots {
		isPivot[c] = true
	}
	for c := range x {
		if isPivot[c] {
			continue
		}
		v, err := f.Random(rand)
		if err != nil {
			return nil, err
		}
		x[c] = v
	}

	for k, c := range pivots {
		v := rhs[k]
		for j := range x {
			if !isPivot[j] && !f.IsZero(a[k][j]) {
				v = f.Sub(v, scale(f, a[k][j], x[j]))
			}
		}
		x[c] = v
	}

	return x, nil
}

// scale multiplies without calling Mul for the 0 and 1 coefficients a
// binary matrix is made of.
func scale[E any](f field.Field[E], factor, v E) E {
	switch {
	case f.IsZero(factor):
		return f.Zero()
	case f.Equal(factor, f.One()):
		return v
	default:
		return f.Mul(factor, v)
	}
}
