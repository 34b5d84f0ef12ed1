package crypto

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/zeebo/blake3"
)

var (
	p    = []byte("example testing plaintext that holds important secrets: %QWEQW$##%Y^&%^*(*)&, []m")
	key  = make([]byte, KeyLength)
	prng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func init() {
	prng.Read(key)
}

func BenchmarkBlake3(b *testing.B) {
	for i := 0; i < b.N; i++ {
		blake3.Sum256(p)
	}
}

func TestPRGIsDeterministic(t *testing.T) {
	a := make([]byte, 1000)
	b := make([]byte, 1000)
	if _, err := io.ReadFull(NewPRG(p), a); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(NewPRG(p), b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("same seed produced different streams")
	}

	if _, err := io.ReadFull(NewPRG(p[1:]), b); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("different seeds produced the same stream")
	}
}

func TestPRGStreamContinues(t *testing.T) {
	whole := make([]byte, 64)
	io.ReadFull(NewPRG(p), whole)

	r := NewPRG(p)
	first := make([]byte, 32)
	second := make([]byte, 32)
	io.ReadFull(r, first)
	io.ReadFull(r, second)

	if !bytes.Equal(whole, append(first, second...)) {
		t.Fatalf("split reads do not match a single read")
	}
}

func TestKeyedExpander(t *testing.T) {
	e, err := NewKeyedExpander(key)
	if err != nil {
		t.Fatal(err)
	}

	a := make([]byte, 25)
	b := make([]byte, 25)
	e.Expand(a, p)
	e.Expand(b, p)
	if !bytes.Equal(a, b) {
		t.Fatalf("expander is not deterministic")
	}

	other := make([]byte, KeyLength)
	copy(other, key)
	other[0] ^= 1
	f, _ := NewKeyedExpander(other)
	f.Expand(b, p)
	if bytes.Equal(a, b) {
		t.Fatalf("expander output does not depend on the key")
	}

	// a prefix of a longer output equals the shorter output
	long := make([]byte, 100)
	e.Expand(long, p)
	if !bytes.Equal(a, long[:25]) {
		t.Fatalf("XOF output is not prefix consistent")
	}
}

func TestKeyedExpanderKeyLength(t *testing.T) {
	if _, err := NewKeyedExpander(key[:16]); err != ErrKeyLength {
		t.Fatalf("expected ErrKeyLength, got %v", err)
	}
}
