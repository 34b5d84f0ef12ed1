package pairs

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/optable/okvs/internal/util"
)

const Cardinality = 10000

func initDataSource(value ValueFunc) (*bufio.Reader, <-chan error) {
	// get an io pipe to read results
	i, o := io.Pipe()
	b := bufio.NewReader(i)
	lines, errs := Generate(Cardinality, value)
	go func() {
		defer o.Close()
		for line := range lines {
			if _, err := o.Write(line); err != nil {
				return
			}
		}
	}()
	return b, errs
}

func TestGenerate(t *testing.T) {
	r, _ := initDataSource(func() ([]byte, error) { return []byte{0xbe, 0xef}, nil })

	for i := 0; i < Cardinality; i++ {
		line, err := util.SafeReadLine(r)
		if err != nil {
			t.Fatalf("not error expected, got error %v", err)
		}
		if !strings.HasPrefix(string(line), Prefix) {
			t.Fatalf("expected prefix %s, got %s", Prefix, string(line))
		}

		key, value, err := util.SplitPair(line)
		if err != nil {
			t.Fatal(err)
		}
		if len(key) != len(Prefix)+2*HashLen {
			t.Fatalf("unexpected key %s", key)
		}
		if string(value) != "beef" {
			t.Fatalf("expected value beef, got %s", value)
		}
	}

	if _, err := util.SafeReadLine(r); err != io.EOF {
		t.Fatalf("expected EOF after %d lines, got %v", Cardinality, err)
	}
}

func TestGenerateError(t *testing.T) {
	calls := 0
	lines, errs := Generate(Cardinality, func() ([]byte, error) {
		calls++
		if calls == 10 {
			return nil, fmt.Errorf("no more values")
		}
		return []byte{1}, nil
	})

	n := 0
	for range lines {
		n++
	}
	if n != 9 {
		t.Fatalf("expected 9 lines before the error, got %d", n)
	}
	if err := <-errs; err == nil {
		t.Fatal("expected an error")
	}
}

// shortReader returns n bytes and then fails
type shortReader struct{ n int }

func (r *shortReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		return 0, fmt.Errorf("source exhausted")
	}
	k := len(p)
	if k > r.n {
		k = r.n
	}
	r.n -= k
	return k, nil
}

func TestGenerateBothStagesFail(t *testing.T) {
	lines, errs := generate(Cardinality, &shortReader{n: HashLen}, func() ([]byte, error) {
		return nil, fmt.Errorf("no values")
	})

	done := make(chan int)
	go func() {
		n := 0
		for range lines {
			n++
		}
		done <- n
	}()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("expected no lines, got %d", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("generation did not stop after both stages failed")
	}
	if err := <-errs; err == nil {
		t.Fatal("expected an error")
	}
}

func TestFormat(t *testing.T) {
	id := bytes.Repeat([]byte{0xab}, HashLen)
	line := Format(id, []byte{0x01, 0x02})
	want := Prefix + hex.EncodeToString(id) + "\t0102\n"
	if string(line) != want {
		t.Fatalf("expected %q, got %q", want, line)
	}
}
