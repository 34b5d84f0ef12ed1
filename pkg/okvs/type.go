package okvs

import (
	"fmt"
	"math"
	"strings"

	"github.com/optable/okvs/internal/cuckoo"
)

const (
	H2TwoCoreGCT = iota
	H2SingletonGCT
	H3SingletonGCT
)

// Type is the garbled cuckoo table enumeration. It fixes the number of
// bucket hashes and the peeling strategy of the table.
type Type int

var (
	TypeH2TwoCoreGCT   Type = H2TwoCoreGCT
	TypeH2SingletonGCT Type = H2SingletonGCT
	TypeH3SingletonGCT Type = H3SingletonGCT
)

const (
	// Lambda is the statistical security parameter: encoding fails with
	// probability at most 2^-Lambda.
	Lambda = 40

	twoHashLeftFactor   = 2.4
	twoHashRightFactor  = 1.4
	threeHashLeftFactor = 1.3
	// only holds asymptotically, see threeHashRight
	threeHashRightFactor = 0.5
)

// threeHashRight overrides the asymptotic three-hash right size for small
// inputs, where it is known not to reach 2^-Lambda.
var threeHashRight = []struct {
	n, rm int
}{
	{1 << 8, 186},
	{1 << 9, 328},
	{1 << 10, 561},
	{1 << 11, 907},
}

func (t Type) String() string {
	switch t {
	case TypeH2TwoCoreGCT:
		return "h2-twocore"
	case TypeH2SingletonGCT:
		return "h2-singleton"
	case TypeH3SingletonGCT:
		return "h3-singleton"
	default:
		return "undefined"
	}
}

// ParseType returns the Type named s, as printed by Type.String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "h2-twocore", "":
		return TypeH2TwoCoreGCT, nil
	case "h2-singleton":
		return TypeH2SingletonGCT, nil
	case "h3-singleton":
		return TypeH3SingletonGCT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// arity returns the number of bucket hashes of t.
func (t Type) arity() (int, error) {
	switch t {
	case TypeH2TwoCoreGCT, TypeH2SingletonGCT:
		return cuckoo.MinArity, nil
	case TypeH3SingletonGCT:
		return cuckoo.MaxArity, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

// finder returns the peeling strategy of t.
func (t Type) finder() cuckoo.Finder {
	if t == TypeH2TwoCoreGCT {
		return cuckoo.TwoCore{}
	}
	return cuckoo.Singleton{}
}

// HashNum returns the number of PRF keys a table of type t is
// instantiated with: one per bucket hash and one for the dense vector.
func HashNum(t Type) (int, error) {
	a, err := t.arity()
	if err != nil {
		return 0, err
	}
	return a + 1, nil
}

// Params returns the left (bucket) and right (dense) storage sizes of a
// table of type t holding up to n pairs. Both are multiples of 8.
func Params(t Type, n int) (lm, rm int, err error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidN, n)
	}

	arity, err := t.arity()
	if err != nil {
		return 0, 0, err
	}

	logN := math.Log2(float64(n))
	if arity == cuckoo.MinArity {
		lm = byteAligned(int(math.Ceil(twoHashLeftFactor * float64(n))))
		rm = byteAligned(int(math.Ceil(twoHashRightFactor*logN)) + Lambda)
		return lm, rm, nil
	}

	lm = byteAligned(int(math.Ceil(threeHashLeftFactor * float64(n))))
	for _, o := range threeHashRight {
		if n <= o.n {
			return lm, byteAligned(o.rm), nil
		}
	}
	rm = byteAligned(int(math.Ceil(threeHashRightFactor*logN)) + Lambda)
	return lm, rm, nil
}

// GetM returns the storage length m = lm + rm of a table of type t
// holding up to n pairs.
func GetM(t Type, n int) (int, error) {
	lm, rm, err := Params(t, n)
	if err != nil {
		return 0, err
	}
	return lm + rm, nil
}

// byteAligned rounds x up to a multiple of 8.
func byteAligned(x int) int {
	return (x + 7) / 8 * 8
}
