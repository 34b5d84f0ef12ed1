// Package main provides the okvs command: sizing, key generation, encoding
// and decoding of garbled cuckoo tables.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/optable/okvs/pkg/log"
	"github.com/spf13/cobra"
)

// app holds the state shared by the commands once the configuration is
// loaded.
type app struct {
	cfg *Config
}

// table instantiates the configured table with the configured keys.
func (a *app) table(logger logr.Logger) (table, error) {
	keys, err := a.cfg.HashKeys()
	if err != nil {
		return nil, err
	}
	return newTable(a.cfg, keys, logger)
}

func newRootCommand() *cobra.Command {
	var configPath string
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "okvs",
		Short: "Oblivious key-value store on garbled cuckoo tables",
		Long: `okvs encodes key-value pairs into a storage array from which every
encoded key decodes to its value, while revealing nothing about the keys.

Commands:
  params    Show the storage layout of the configured table
  keygen    Generate hash keys
  generate  Generate random key-value pairs
  encode    Encode a key-value file into a storage file
  decode    Decode keys from a storage file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath, cmd)
			if err != nil {
				return err
			}
			a.cfg = cfg
			cmd.SetContext(log.ContextWithLogger(cmd.Context(), log.GetLogger(cfg.Verbosity)))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default .okvs.yaml in . or $HOME)")
	flags.IntP("verbosity", "v", 0, "verbosity level, 0 for info level messages, 1 for debug messages and 2 for trace level messages")
	flags.String("type", defaultType, "table type (h2-twocore, h2-singleton, h3-singleton)")
	flags.String("field", defaultField, "value field (gf2e, zp, ristretto255, ristretto)")
	flags.Int("bits", defaultBits, "bit length of gf2e values")
	flags.String("modulus", "", "prime modulus of the zp field")
	flags.IntP("n", "n", defaultN, "maximum number of key-value pairs")
	flags.String("hash", defaultHash, "bucket hash (highway, murmur3, metro, xxh3)")
	flags.String("seed", "", "hex seed of the random cells, for reproducible storage")

	rootCmd.AddCommand(paramsCmd(a))
	rootCmd.AddCommand(keygenCmd(a))
	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(encodeCmd(a))
	rootCmd.AddCommand(decodeCmd(a))

	return rootCmd
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
