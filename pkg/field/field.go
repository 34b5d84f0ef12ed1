// Package field defines the finite field arithmetic consumed by the OKVS
// encoder, along with its GF(2^l) and prime field implementations.
package field

import (
	"fmt"
	"io"
)

var (
	ErrElementLength = fmt.Errorf("encoded element has the wrong length")
	ErrNotInvertible = fmt.Errorf("zero has no multiplicative inverse")
	ErrOutOfRange    = fmt.Errorf("encoded element is not reduced")
)

// Field is a finite field whose elements have type E. Elements returned by
// a Field are fresh values: callers may keep them without copying and the
// operations never modify their arguments.
type Field[E any] interface {
	// Add returns a + b.
	Add(a, b E) E
	// Sub returns a - b.
	Sub(a, b E) E
	// Neg returns -a.
	Neg(a E) E
	// Mul returns a * b.
	Mul(a, b E) E
	// Inv returns the multiplicative inverse of a.
	Inv(a E) (E, error)

	Zero() E
	One() E
	IsZero(a E) bool
	Equal(a, b E) bool

	// Random samples a uniform element using bytes read from r.
	Random(r io.Reader) (E, error)
	// NonZeroRandom samples a uniform non zero element using bytes read from r.
	NonZeroRandom(r io.Reader) (E, error)

	// BitLength is l, the number of bits of an element.
	BitLength() int
	// ByteLength is the size of an encoded element.
	ByteLength() int
	// Encode returns the fixed size ByteLength encoding of a.
	Encode(a E) []byte
	// Decode parses an element encoded by Encode.
	Decode(b []byte) (E, error)
}

// nonZero keeps sampling until a non zero element is drawn.
func nonZero[E any](f Field[E], r io.Reader) (E, error) {
	for {
		e, err := f.Random(r)
		if err != nil {
			return e, err
		}
		if !f.IsZero(e) {
			return e, nil
		}
	}
}
