package util

import (
	"encoding/binary"
	"fmt"
)

var ErrByteLengthMissMatch = fmt.Errorf("provided bytes do not have the same length for XOR operations")

// XorBytes xors each byte from a with b and returns dst
// if a and b are the same length
func XorBytes(a, b []byte) (dst []byte, err error) {
	var n = len(b)
	if n != len(a) {
		return nil, ErrByteLengthMissMatch
	}

	dst = make([]byte, n)
	copy(dst, a)
	Xor(dst, b)

	return
}

// IsZero returns true if every byte of b is 0.
func IsZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}

	return acc == 0
}

// BitSetInByte returns true if bit i (little-endian bit order
// across the slice) is set in b.
func BitSetInByte(b []byte, i int) bool {
	return b[i/8]&(1<<(i%8)) != 0
}

// xorWords XORs a into dst eight bytes at a time through
// encoding/binary, then the excess bytes one by one. It does not rely on
// the memory layout of the platform and backs Xor on generic builds.
func xorWords(dst, a []byte) {
	var uDst, uA uint64
	for i := 0; i < len(dst)/8; i++ {
		uDst = binary.LittleEndian.Uint64(dst[i*8 : (i+1)*8])
		uA = binary.LittleEndian.Uint64(a[i*8 : (i+1)*8])
		binary.LittleEndian.PutUint64(dst[i*8:(i+1)*8], uDst^uA)
	}

	// deal with excess bytes that couldn't be operated
	// as uint64s
	for j := 0; j < len(dst)%8; j++ {
		dst[len(dst)-j-1] ^= a[len(dst)-j-1]
	}
}
