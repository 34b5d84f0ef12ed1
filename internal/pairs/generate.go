// Package pairs generates key-value files for the okvs command:
// one pair per line, a prefixed hex identifier and the hex encoding of
// its value separated by a tab.
//
// example:
//
//	e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e	9f03
//	e:59245d7c68b28404e068b15cba430082549b845ab412c4c3b31fb8632fd794e1	4be1
package pairs

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

const (
	Prefix  = "e:"
	HashLen = 32
)

// ValueFunc returns the encoding of a fresh value.
type ValueFunc func() ([]byte, error)

// Generate writes n random pairs to a channel and then closes it. Values
// are drawn from value. Generation stops at the first error, which is
// reported on the error channel.
func Generate(n int, value ValueFunc) (<-chan []byte, <-chan error) {
	return generate(n, rand.Reader, value)
}

func generate(n int, random io.Reader, value ValueFunc) (<-chan []byte, <-chan error) {
	errs := make(chan error, 1)
	return lines(identifiers(n, random, errs), value, errs), errs
}

// report keeps the first error, later ones are dropped
func report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}

// identifiers will write n fresh identifiers to a channel and then close it
func identifiers(total int, random io.Reader, errs chan<- error) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for i := 0; i < total; i++ {
			b := make([]byte, HashLen)
			if _, err := io.ReadFull(random, b); err != nil {
				report(errs, err)
				return
			}
			out <- b
		}
	}()
	return out
}

// lines pairs every identifier with a value and formats the result
func lines(ids <-chan []byte, value ValueFunc, errs chan<- error) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for id := range ids {
			v, err := value()
			if err != nil {
				report(errs, err)
				// drain so that the identifiers goroutine exits
				for range ids {
				}
				return
			}
			out <- Format(id, v)
		}
	}()
	return out
}

// Format returns the line of the pair (id, value), terminated by \n.
func Format(id, value []byte) []byte {
	out := make([]byte, 0, len(Prefix)+hex.EncodedLen(len(id))+1+hex.EncodedLen(len(value))+1)
	out = append(out, Prefix...)
	out = hex.AppendEncode(out, id)
	out = append(out, '\t')
	out = hex.AppendEncode(out, value)
	return append(out, '\n')
}
