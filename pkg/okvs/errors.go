package okvs

import "fmt"

var (
	// ErrInputTooLarge is returned when more than n pairs are encoded.
	ErrInputTooLarge = fmt.Errorf("more key-value pairs than the table was sized for")
	// ErrEncodingInfeasible is the probabilistic failure of the scheme:
	// the core is larger than the dense part or its linear system has no
	// solution. Instantiate again with fresh keys and retry.
	ErrEncodingInfeasible = fmt.Errorf("encoding infeasible with these hash keys")

	ErrKeyNum        = fmt.Errorf("wrong number of hash keys")
	ErrKeyLength     = fmt.Errorf("hash keys must be %d bytes", KeyLength)
	ErrInvalidN      = fmt.Errorf("table size must be positive")
	ErrUnknownType   = fmt.Errorf("unknown garbled cuckoo table type")
	ErrStorageLength = fmt.Errorf("storage length does not match the table")
)

// invariant panics on a broken encoding invariant. Reaching it is a bug:
// the storage would silently decode to wrong values.
func invariant(format string, args ...interface{}) {
	panic(fmt.Sprintf("okvs: invariant violation: "+format, args...))
}
