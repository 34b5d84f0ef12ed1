package okvs

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/optable/okvs/pkg/field"
	"github.com/stretchr/testify/require"
)

func TestStorageStream(t *testing.T) {
	f, err := field.NewGF2E(24)
	require.NoError(t, err)

	o, err := New[[]byte](TypeH2TwoCoreGCT, f, 50, genKeys(t, TypeH2TwoCoreGCT, "keys"))
	require.NoError(t, err)
	kv := genPairs[[]byte](t, f, 50, "pairs")
	storage, err := o.Encode(kv)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStorage[[]byte](&buf, f, storage))
	require.Equal(t, 8+o.M()*3, buf.Len())

	read, err := ReadStorage[[]byte](&buf, f)
	require.NoError(t, err)
	require.Equal(t, storage, read)
	for k, v := range kv {
		require.Equal(t, v, o.Decode(read, []byte(k)))
	}
}

func TestStorageBytes(t *testing.T) {
	f, err := field.NewZp(big.NewInt(65521))
	require.NoError(t, err)

	o, err := New[*big.Int](TypeH3SingletonGCT, f, 20, genKeys(t, TypeH3SingletonGCT, "keys"))
	require.NoError(t, err)
	kv := genPairs[*big.Int](t, f, 20, "pairs")
	storage, err := o.Encode(kv)
	require.NoError(t, err)

	b := MarshalStorage[*big.Int](f, storage)
	require.Len(t, b, o.M()*2)

	parsed, err := UnmarshalStorage[*big.Int](f, b)
	require.NoError(t, err)
	require.NoError(t, o.CheckStorage(parsed))
	for k, v := range kv {
		require.Zero(t, v.Cmp(o.Decode(parsed, []byte(k))))
	}

	_, err = UnmarshalStorage[*big.Int](f, b[:len(b)-1])
	require.ErrorIs(t, err, ErrStorageLength)

	// 0xffff is not reduced modulo 65521
	b[0], b[1] = 0xff, 0xff
	_, err = UnmarshalStorage[*big.Int](f, b)
	require.ErrorIs(t, err, field.ErrOutOfRange)
}

func TestReadTruncatedStorage(t *testing.T) {
	f, err := field.NewGF2E(8)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStorage[[]byte](&buf, f, [][]byte{{1}, {2}, {3}}))
	truncated := buf.Bytes()[:buf.Len()-1]

	_, err = ReadStorage[[]byte](bytes.NewReader(truncated), f)
	require.ErrorIs(t, err, ErrStorageLength)

	// a length prefix far beyond the data must not be trusted
	huge := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1}
	_, err = ReadStorage[[]byte](bytes.NewReader(huge), f)
	require.ErrorIs(t, err, ErrStorageLength)
}
