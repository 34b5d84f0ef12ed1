//go:build !amd64 || generic
// +build !amd64 generic

package util

// Xor performs dst ^= a using the portable implementation. Panic if a
// and dst do not have the same length.
func Xor(dst, a []byte) {
	if len(dst) != len(a) {
		panic(ErrByteLengthMissMatch)
	}

	xorWords(dst, a)
}
