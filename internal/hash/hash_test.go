package hash

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
)

var xxx = []byte("e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e")

var hashTypes = []Type{Highway, Murmur3, Metro, XXH3}

func makeSalt() ([]byte, error) {
	var s = make([]byte, SaltLength)

	if n, err := rand.Read(s); err != nil {
		return nil, err
	} else if n != SaltLength {
		return nil, fmt.Errorf("requested %d rand bytes and got %d", SaltLength, n)
	} else {
		return s, nil
	}
}

func TestDeterministicAndKeyed(t *testing.T) {
	s1, _ := makeSalt()
	s2, _ := makeSalt()

	for _, typ := range hashTypes {
		h1, err := New(typ, s1)
		if err != nil {
			t.Fatalf("%v: %v", typ, err)
		}
		again, _ := New(typ, s1)
		h2, _ := New(typ, s2)

		if h1.Hash64(xxx) != again.Hash64(xxx) {
			t.Errorf("%v: same salt produced different hashes", typ)
		}
		if h1.Hash64(xxx) == h2.Hash64(xxx) {
			t.Errorf("%v: different salts produced the same hash", typ)
		}
	}
}

func TestSaltIsCopied(t *testing.T) {
	s, _ := makeSalt()
	for _, typ := range hashTypes {
		h, _ := New(typ, s)
		before := h.Hash64(xxx)
		s[0] ^= 0xff
		if h.Hash64(xxx) != before {
			t.Errorf("%v: hasher aliases the caller's salt", typ)
		}
		s[0] ^= 0xff
	}
}

func TestSaltLength(t *testing.T) {
	for _, typ := range hashTypes {
		if _, err := New(typ, make([]byte, SaltLength-1)); err != ErrSaltLengthMismatch {
			t.Errorf("%v: expected ErrSaltLengthMismatch, got %v", typ, err)
		}
	}
}

func TestUnknownHasher(t *testing.T) {
	s, _ := makeSalt()
	h, err := New(666, s)
	if err != ErrUnknownHash {
		t.Fatalf("requested impossible hasher and got %v", h)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range hashTypes {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%s): got %v, %v", typ, got, err)
		}
	}
	if _, err := ParseType("md5"); !errors.Is(err, ErrUnknownHash) {
		t.Errorf("expected ErrUnknownHash, got %v", err)
	}
}

func BenchmarkHighway(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewHighwayHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkMurmur3(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewMurmur3Hasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkMetro(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewMetroHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkXXH3(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewXXH3Hasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}
