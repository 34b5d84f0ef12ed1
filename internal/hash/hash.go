package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"
)

const (
	// SaltLength is the length in bytes of the key of every hasher.
	SaltLength = 32
)

// Type enumerates the keyed hash families that can back a bucket hash.
type Type int

const (
	Highway Type = iota
	Murmur3
	Metro
	XXH3
)

var (
	ErrUnknownHash        = fmt.Errorf("cannot create a hasher of unknown hash type")
	ErrSaltLengthMismatch = fmt.Errorf("provided salt is not %d length", SaltLength)
)

// Hasher implements different keyed 64 bit hashing functions.
// Implementations are safe for concurrent use.
type Hasher interface {
	Hash64([]byte) uint64
}

// New creates a hasher of type t
func New(t Type, salt []byte) (Hasher, error) {
	switch t {
	case Highway:
		return NewHighwayHasher(salt)
	case Murmur3:
		return NewMurmur3Hasher(salt)
	case Metro:
		return NewMetroHasher(salt)
	case XXH3:
		return NewXXH3Hasher(salt)
	default:
		return nil, ErrUnknownHash
	}
}

// ParseType maps a configuration string onto a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "highway", "":
		return Highway, nil
	case "murmur3":
		return Murmur3, nil
	case "metro":
		return Metro, nil
	case "xxh3":
		return XXH3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHash, s)
	}
}

func (t Type) String() string {
	switch t {
	case Highway:
		return "highway"
	case Murmur3:
		return "murmur3"
	case Metro:
		return "metro"
	case XXH3:
		return "xxh3"
	default:
		return "undefined"
	}
}

// copySalt returns a private copy so that callers can't mutate the key
// and appends never alias the caller's backing array.
func copySalt(salt []byte) ([]byte, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}
	s := make([]byte, SaltLength)
	copy(s, salt)
	return s, nil
}

// HighwayHash implementation of Hasher, keyed with the salt
type highway struct {
	key []byte
}

// NewHighwayHasher returns a highwayhash hasher that uses salt as its key
func NewHighwayHasher(salt []byte) (highway, error) {
	key, err := copySalt(salt)
	if err != nil {
		return highway{}, err
	}

	return highway{key: key}, nil
}

func (h highway) Hash64(p []byte) uint64 {
	return highwayhash.Sum64(p, h.key)
}

// Murmur3 implementation of Hasher
type murmur64 struct {
	salt []byte
}

// NewMurmur3Hasher returns a Murmur3 hasher that uses salt as a prefix to the
// bytes being summed
func NewMurmur3Hasher(salt []byte) (murmur64, error) {
	s, err := copySalt(salt)
	if err != nil {
		return murmur64{}, err
	}

	return murmur64{salt: s}, nil
}

func (t murmur64) Hash64(p []byte) uint64 {
	// prepend the salt in m and then Sum
	buf := make([]byte, 0, len(t.salt)+len(p))
	buf = append(buf, t.salt...)
	return murmur3.Sum64(append(buf, p...))
}

// Metro Hash implementation of Hasher
type metro struct {
	salt []byte
}

// NewMetroHasher returns a metro64 hasher that uses salt as a
// prefix to the bytes being summed
func NewMetroHasher(salt []byte) (metro, error) {
	s, err := copySalt(salt)
	if err != nil {
		return metro{}, err
	}

	return metro{salt: s}, nil
}

func (m metro) Hash64(p []byte) uint64 {
	h := metrohash.NewMetroHash64()
	h.Write(m.salt)
	h.Write(p)
	return h.Sum64()
}

// xxh3 implementation of Hasher. The first 8 bytes of the salt seed
// the hash, the rest is prepended to the input.
type xxh3Hasher struct {
	seed uint64
	salt []byte
}

// NewXXH3Hasher returns a seeded xxh3 hasher
func NewXXH3Hasher(salt []byte) (xxh3Hasher, error) {
	s, err := copySalt(salt)
	if err != nil {
		return xxh3Hasher{}, err
	}

	return xxh3Hasher{seed: binary.LittleEndian.Uint64(s[:8]), salt: s[8:]}, nil
}

func (x xxh3Hasher) Hash64(p []byte) uint64 {
	buf := make([]byte, 0, len(x.salt)+len(p))
	buf = append(buf, x.salt...)
	return xxh3.HashSeed(append(buf, p...), x.seed)
}
