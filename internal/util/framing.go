package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
)

// ErrMalformedPair is returned when a line does not hold a key
// and a value separated by a tab.
var ErrMalformedPair = fmt.Errorf("line is not a tab separated key/value pair")

// SafeReadLine blocks until a whole line can be read or
// r returns an error.
// ***warning: expects lines to be \n separated***
func SafeReadLine(r *bufio.Reader) (line []byte, err error) {
	line, err = r.ReadBytes('\n')
	if len(line) > 0 && line[len(line)-1] == '\n' {
		// strip the \n
		line = line[:len(line)-1]
	}
	return
}

// Exhaust all the lines in r, skipping empty ones.
// The format of a line is string\n
func Exhaust(n int64, r io.Reader) <-chan []byte {
	// make the output channel
	var lines = make(chan []byte)
	// wrap r in a bufio reader
	src := bufio.NewReader(r)
	go func() {
		defer close(lines)
		for sent := int64(0); sent < n; {
			line, err := SafeReadLine(src)
			if len(line) != 0 {
				lines <- line
				sent++
			}
			if err != nil {
				if err != io.EOF {
					log.Printf("error reading lines: %v", err)
				}
				return
			}
		}
	}()

	return lines
}

// SplitPair splits a key\tvalue line.
func SplitPair(line []byte) (key, value []byte, err error) {
	i := bytes.IndexByte(line, '\t')
	if i < 0 {
		return nil, nil, ErrMalformedPair
	}

	return line[:i], bytes.TrimSpace(line[i+1:]), nil
}
