package okvs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/optable/okvs/pkg/field"
)

// maxPrealloc bounds the cells allocated upfront when reading a storage
// array of untrusted length.
const maxPrealloc = 1 << 16

// MarshalStorage concatenates the encodings of the storage cells.
func MarshalStorage[E any](f field.Field[E], storage []E) []byte {
	size := f.ByteLength()
	b := make([]byte, 0, size*len(storage))
	for _, c := range storage {
		b = append(b, f.Encode(c)...)
	}
	return b
}

// UnmarshalStorage parses storage marshaled by MarshalStorage.
func UnmarshalStorage[E any](f field.Field[E], b []byte) ([]E, error) {
	size := f.ByteLength()
	if len(b)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrStorageLength, len(b), size)
	}

	storage := make([]E, len(b)/size)
	for i := range storage {
		c, err := f.Decode(b[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		storage[i] = c
	}
	return storage, nil
}

// WriteStorage writes the number of cells as a big-endian uint64 followed
// by the marshaled storage.
func WriteStorage[E any](w io.Writer, f field.Field[E], storage []E) error {
	if err := binary.Write(w, binary.BigEndian, uint64(len(storage))); err != nil {
		return err
	}
	for _, c := range storage {
		if _, err := w.Write(f.Encode(c)); err != nil {
			return err
		}
	}
	return nil
}

// ReadStorage reads storage written by WriteStorage.
func ReadStorage[E any](r io.Reader, f field.Field[E]) ([]E, error) {
	var m uint64
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return nil, err
	}

	storage := make([]E, 0, min(m, maxPrealloc))
	buf := make([]byte, f.ByteLength())
	for i := uint64(0); i < m; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: read %d of %d cells: %w", ErrStorageLength, i, m, err)
		}
		c, err := f.Decode(buf)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		storage = append(storage, c)
	}
	return storage, nil
}

// CheckStorage returns an error unless storage has the length of the
// table's storage.
func (o *OKVS[E]) CheckStorage(storage []E) error {
	if len(storage) != o.M() {
		return fmt.Errorf("%w: %d cells, want %d", ErrStorageLength, len(storage), o.M())
	}
	return nil
}
