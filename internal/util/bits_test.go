package util

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/unsafeslice"
)

var prng = rand.New(rand.NewSource(time.Now().UnixNano()))

func sampleByteSlice(prng *rand.Rand, b []byte) (err error) {
	if _, err = prng.Read(b); err != nil {
		return nil
	}
	return nil
}

func sampleUint64Slice(prng *rand.Rand, u []uint64) {
	for i := range u {
		u[i] = prng.Uint64()
	}
}

func TestBitSetInByte(t *testing.T) {
	b := []byte{1}

	for i := 0; i < 8; i++ {
		if i == 0 {
			if !BitSetInByte(b, i) {
				t.Fatalf("bit extraction failed")
			}
		} else {
			if BitSetInByte(b, i) {
				t.Fatalf("bit extraction failed")
			}
		}
	}

	b = []byte{161}
	for i := 0; i < 8; i++ {
		if i == 0 || i == 7 || i == 5 {
			if !BitSetInByte(b, i) {
				t.Fatalf("bit extraction failed")
			}
		} else {
			if BitSetInByte(b, i) {
				t.Fatalf("bit extraction failed")
			}
		}
	}

	b = []byte{0, 2}
	if !BitSetInByte(b, 9) || BitSetInByte(b, 8) {
		t.Fatalf("bit extraction across bytes failed")
	}
}

// Note the double conversion of bytes to uint64s to bytes does
// result in added 0s.
// Only tested on AMD64.
func TestSliceConversions(t *testing.T) {
	lengths := []int{8, 16, 24, 32, 40, 48}
	for _, l := range lengths {
		// Bytes to Uint64s
		b := make([]byte, l)
		sampleByteSlice(prng, b)
		u := unsafeslice.Uint64SliceFromByteSlice(b)
		bb := unsafeslice.ByteSliceFromUint64Slice(u)

		// test
		for i, e := range b {
			if e != bb[i] {
				t.Errorf("Byte-to-Uint64-to-Byte conversion did not result in identical slices")
			}
		}
	}
	lengths = []int{2, 8, 16, 34, 100}
	for _, l := range lengths {
		// Uint64s to Bytes
		u := make([]uint64, l)
		sampleUint64Slice(prng, u)
		b := unsafeslice.ByteSliceFromUint64Slice(u)
		uu := unsafeslice.Uint64SliceFromByteSlice(b)

		//test
		for i, e := range u {
			if e != uu[i] {
				t.Errorf("Uint64-to-Byte-to-Uint64 conversion did not result in identical slices")
			}
		}
	}
}

func TestXor(t *testing.T) {
	// odd lengths exercise the excess byte path
	lengths := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 13, 16, 31, 64}
	for _, l := range lengths {
		a := make([]byte, l)
		b := make([]byte, l)
		sampleByteSlice(prng, a)
		sampleByteSlice(prng, b)

		want := make([]byte, l)
		for i := range want {
			want[i] = a[i] ^ b[i]
		}

		got, err := XorBytes(a, b)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(want, got) {
			t.Fatalf("XorBytes(%d): want %v, got %v", l, want, got)
		}

		Xor(a, b)
		if !bytes.Equal(want, a) {
			t.Fatalf("Xor(%d): want %v, got %v", l, want, a)
		}
	}

	if _, err := XorBytes([]byte{1}, []byte{1, 2}); err != ErrByteLengthMissMatch {
		t.Fatalf("expected length mismatch, got %v", err)
	}
}

// Xor is the unsafeslice version on amd64 and xorWords elsewhere, both
// must agree on every length, including those shorter than a word.
func TestXorMatchesPortable(t *testing.T) {
	for l := 0; l <= 33; l++ {
		a := make([]byte, l)
		b := make([]byte, l)
		sampleByteSlice(prng, a)
		sampleByteSlice(prng, b)

		got := append([]byte(nil), a...)
		Xor(got, b)
		want := append([]byte(nil), a...)
		xorWords(want, b)

		if !bytes.Equal(want, got) {
			t.Fatalf("Xor(%d): want %v, got %v", l, want, got)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(make([]byte, 9)) {
		t.Fatalf("zero slice reported as non zero")
	}
	if IsZero([]byte{0, 0, 0, 0, 0, 0, 0, 0, 4}) {
		t.Fatalf("non zero slice reported as zero")
	}
}

func TestCountAndExhaust(t *testing.T) {
	src := "alice\t01\n\nbob\t02\ncarol\t03"
	n, err := Count(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("want 3 lines, got %d", n)
	}

	var keys []string
	for line := range Exhaust(n, strings.NewReader(src)) {
		k, v, err := SplitPair(line)
		if err != nil {
			t.Fatal(err)
		}
		if len(v) != 2 {
			t.Fatalf("unexpected value %q", v)
		}
		keys = append(keys, string(k))
	}
	if strings.Join(keys, ",") != "alice,bob,carol" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if _, _, err := SplitPair([]byte("no separator")); err != ErrMalformedPair {
		t.Fatalf("expected ErrMalformedPair, got %v", err)
	}
}

func BenchmarkXor(b *testing.B) {
	a := make([]byte, 10000000)
	if _, err := prng.Read(a); err != nil {
		b.Fatalf("error generating random bytes")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Xor(a, a)
	}
}
