package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/optable/okvs/internal/hash"
	"github.com/optable/okvs/pkg/okvs"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.Equal(t, defaultType, cfg.Type)
	require.Equal(t, defaultField, cfg.Field)
	require.Equal(t, defaultBits, cfg.Bits)
	require.Equal(t, defaultN, cfg.N)

	_, err = cfg.HashKeys()
	require.ErrorIs(t, err, ErrNoKeys)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "okvs.yaml")
	content := `type: h3-singleton
field: zp
modulus: "65537"
n: 10
hash: metro
seed: 00ff
keys:
  - "0101010101010101010101010101010101010101010101010101010101010101"
  - "0202020202020202020202020202020202020202020202020202020202020202"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	typ, err := cfg.TableType()
	require.NoError(t, err)
	require.Equal(t, okvs.TypeH3SingletonGCT, typ)

	ht, err := cfg.HashType()
	require.NoError(t, err)
	require.Equal(t, hash.Metro, ht)

	keys, err := cfg.HashKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Equal(t, byte(2), keys[1][31])

	seed, err := cfg.RandomSeed()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0xff}, seed)
}

func TestLoadConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "okvs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n: 10\nfield: gf2e\n"), 0o600))

	t.Setenv("OKVS_N", "20")
	t.Setenv("OKVS_TYPE", "h2-singleton")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.N)
	require.Equal(t, "h2-singleton", cfg.Type)
}

func TestLoadConfigInvalid(t *testing.T) {
	invalid := []string{
		"type: h5\n",
		"field: gf7\n",
		"hash: md5\n",
		"n: 0\n",
		"seed: xyz\n",
	}

	for _, content := range invalid {
		path := filepath.Join(t.TempDir(), "okvs.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		_, err := LoadConfig(path, nil)
		require.Error(t, err, content)
	}
}
