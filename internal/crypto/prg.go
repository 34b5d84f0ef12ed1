package crypto

import (
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// KeyLength is the length of a blake3 key.
const KeyLength = 32

var ErrKeyLength = fmt.Errorf("blake3 keys must be %d bytes", KeyLength)

// PseudorandomGenerate is a pseudorandom generator (PRG) using a
// deterministic random bit generator (DRBG) as specified by NIST
// Special Publication 800-90A Revision 1. Blake3 is used here.
func PseudorandomGenerate(dst []byte, seed []byte, h *blake3.Hasher) error {
	// reset internal state
	h.Reset()
	if _, err := h.Write(seed); err != nil {
		return err
	}

	drbg := h.Digest()

	_, err := drbg.Read(dst)

	return err
}

// NewPRG returns an endless deterministic stream of pseudorandom bytes
// expanded from seed. Two readers built from the same seed produce the
// same stream. The reader is not safe for concurrent use.
func NewPRG(seed []byte) io.Reader {
	h := blake3.New()
	// writes into a hasher never fail
	h.Write(seed)
	return h.Digest()
}

// KeyedExpander is a PRF with arbitrary output length built on keyed blake3:
// Expand(dst, src) fills dst with blake3_key(src) read from the XOF.
// It is safe for concurrent use.
type KeyedExpander struct {
	key []byte
}

// NewKeyedExpander returns a KeyedExpander using key, which must be
// KeyLength bytes.
func NewKeyedExpander(key []byte) (*KeyedExpander, error) {
	if len(key) != KeyLength {
		return nil, ErrKeyLength
	}

	k := make([]byte, KeyLength)
	copy(k, key)
	return &KeyedExpander{key: k}, nil
}

// Expand fills dst with the keyed XOF output of src.
func (e *KeyedExpander) Expand(dst, src []byte) {
	// the key length is checked at construction
	h, err := blake3.NewKeyed(e.key)
	if err != nil {
		panic(err)
	}

	if err := PseudorandomGenerate(dst, src, h); err != nil {
		panic(err)
	}
}
