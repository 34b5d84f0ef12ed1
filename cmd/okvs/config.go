package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/optable/okvs/internal/hash"
	"github.com/optable/okvs/pkg/okvs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".okvs"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for okvs settings.
const envPrefix = "OKVS"

const (
	defaultType  = "h2-twocore"
	defaultField = "gf2e"
	defaultBits  = 128
	defaultN     = 1000
	defaultHash  = "highway"
)

var (
	ErrNoKeys = errors.New("no hash keys configured, run okvs keygen")
	ErrField  = errors.New("unknown field, use gf2e, zp, ristretto255 or ristretto")
)

// Config describes a garbled cuckoo table. Field tags use mapstructure
// for viper unmarshalling.
type Config struct {
	Type  string `mapstructure:"type"`
	Field string `mapstructure:"field"`
	// bit length of GF(2^l) elements
	Bits int `mapstructure:"bits"`
	// prime of the zp field, decimal or 0x prefixed hex
	Modulus string `mapstructure:"modulus"`
	N       int    `mapstructure:"n"`
	Hash    string `mapstructure:"hash"`
	// hex encoded hash keys, as printed by okvs keygen
	Keys []string `mapstructure:"keys"`
	// hex seed of the random cells; empty draws them from crypto/rand
	Seed      string `mapstructure:"seed"`
	Verbosity int    `mapstructure:"verbosity"`
}

// LoadConfig loads configuration from flags, env vars, file and defaults,
// in decreasing precedence. If configPath is non-empty, it is used as the
// explicit config file path. Otherwise, the config file is searched in CWD
// and $HOME. Missing config file is not an error; defaults are used.
func LoadConfig(configPath string, cmd *cobra.Command) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	// only the table settings, subcommand flags are not configuration
	if cmd != nil {
		if err := viperCfg.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("type", defaultType)
	viperCfg.SetDefault("field", defaultField)
	viperCfg.SetDefault("bits", defaultBits)
	viperCfg.SetDefault("modulus", "")
	viperCfg.SetDefault("n", defaultN)
	viperCfg.SetDefault("hash", defaultHash)
	viperCfg.SetDefault("keys", []string{})
	viperCfg.SetDefault("seed", "")
	viperCfg.SetDefault("verbosity", 0)
}

// Validate checks the settings that do not depend on the command. Hash
// keys are only checked by the commands that need them.
func (c *Config) Validate() error {
	if _, err := c.TableType(); err != nil {
		return err
	}
	if _, err := c.HashType(); err != nil {
		return err
	}
	if c.N <= 0 {
		return fmt.Errorf("%w: %d", okvs.ErrInvalidN, c.N)
	}
	switch c.Field {
	case "gf2e", "zp", "ristretto255", "ristretto":
	default:
		return fmt.Errorf("%w: %q", ErrField, c.Field)
	}
	if _, err := c.RandomSeed(); err != nil {
		return err
	}
	return nil
}

// TableType returns the configured table type.
func (c *Config) TableType() (okvs.Type, error) {
	return okvs.ParseType(c.Type)
}

// HashType returns the configured bucket hash family.
func (c *Config) HashType() (hash.Type, error) {
	return hash.ParseType(c.Hash)
}

// HashKeys decodes the configured hash keys.
func (c *Config) HashKeys() ([][]byte, error) {
	if len(c.Keys) == 0 {
		return nil, ErrNoKeys
	}

	keys := make([][]byte, len(c.Keys))
	for i, k := range c.Keys {
		b, err := hex.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys[i] = b
	}
	return keys, nil
}

// RandomSeed decodes the configured seed, nil if none.
func (c *Config) RandomSeed() ([]byte, error) {
	if c.Seed == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return seed, nil
}
