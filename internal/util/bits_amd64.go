//go:build amd64 && !generic
// +build amd64,!generic

package util

import (
	"github.com/alecthomas/unsafeslice"
)

// Xor casts the first part of the byte slices (length divisible
// by 8) into uint64 and then performs XOR on the slices of uint64.
// The excess elements that could not be cast are XORed conventionally.
// The whole operation is performed in place. Panic if a and dst do
// not have the same length.
// Only tested on x86-64.
func Xor(dst, a []byte) {
	if len(dst) != len(a) {
		panic(ErrByteLengthMissMatch)
	}

	// unsafeslice cannot cast an empty slice
	if n := len(dst) &^ 7; n > 0 {
		castDst := unsafeslice.Uint64SliceFromByteSlice(dst[:n])
		castA := unsafeslice.Uint64SliceFromByteSlice(a[:n])

		for i := range castDst {
			castDst[i] ^= castA[i]
		}
	}

	// deal with excess bytes which could not be cast to uint64
	// in the conventional manner
	for j := 0; j < len(dst)%8; j++ {
		dst[len(dst)-j-1] ^= a[len(a)-j-1]
	}
}
