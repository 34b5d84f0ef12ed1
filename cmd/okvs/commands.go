package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/optable/okvs/internal/pairs"
	"github.com/optable/okvs/internal/util"
	"github.com/optable/okvs/pkg/log"
	"github.com/optable/okvs/pkg/okvs"
	"github.com/spf13/cobra"
)

func paramsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Show the storage layout of the configured table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.cfg.TableType()
			if err != nil {
				return err
			}
			num, err := okvs.HashNum(t)
			if err != nil {
				return err
			}
			// sizes do not depend on the keys
			keys := make([][]byte, num)
			for i := range keys {
				keys[i] = make([]byte, okvs.KeyLength)
			}

			tbl, err := newTable(a.cfg, keys, log.GetLoggerFromContextWithName(cmd.Context(), "params"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:     %s (%d hash keys)\n", tbl.Type(), num)
			fmt.Fprintf(out, "field:    %s (%d bits, %d bytes per cell)\n", tbl.FieldName(), tbl.L(), tbl.CellSize())
			fmt.Fprintf(out, "n:        %s\n", humanize.Comma(int64(tbl.N())))
			fmt.Fprintf(out, "m:        %s (lm %s, rm %s)\n",
				humanize.Comma(int64(tbl.M())), humanize.Comma(int64(tbl.LM())), humanize.Comma(int64(tbl.RM())))
			fmt.Fprintf(out, "rate:     %.4f\n", tbl.Rate())
			fmt.Fprintf(out, "storage:  %s\n", humanize.Bytes(uint64(tbl.M()*tbl.CellSize())))
			fmt.Fprintf(out, "failure:  2^-%d\n", tbl.NegLogFailureProbability())
			return nil
		},
	}
}

func keygenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate hash keys for the configured table type, in config file format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.cfg.TableType()
			if err != nil {
				return err
			}
			num, err := okvs.HashNum(t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "keys:")
			for i := 0; i < num; i++ {
				k := make([]byte, okvs.KeyLength)
				if _, err := io.ReadFull(rand.Reader, k); err != nil {
					return err
				}
				fmt.Fprintf(out, "  - %q\n", hex.EncodeToString(k))
			}
			return nil
		},
	}
}

func generateCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate n random key-value pairs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.GetLoggerFromContextWithName(cmd.Context(), "generate")
			tbl, err := a.table(logger)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w := bufio.NewWriter(f)

			lines, errs := pairs.Generate(tbl.N(), tbl.RandomValue)
			for line := range lines {
				if _, err := w.Write(line); err != nil {
					return err
				}
			}
			select {
			case err := <-errs:
				return err
			default:
			}

			logger.Info("generated pairs", "n", tbl.N(), "file", output)
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "pairs.txt", "pairs file, one key\\thexvalue per line")
	return cmd
}

func encodeCmd(a *app) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a key-value file into a storage file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.GetLoggerFromContextWithName(cmd.Context(), "encode")
			tbl, err := a.table(logger)
			if err != nil {
				return err
			}

			kv, err := readPairs(input)
			if err != nil {
				return err
			}
			logger.V(1).Info("read pairs", "file", input, "n", len(kv))

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w := bufio.NewWriter(f)

			if err := tbl.EncodeTo(w, kv); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}

			logger.Info("encoded storage", "pairs", len(kv), "cells", tbl.M(),
				"size", humanize.Bytes(uint64(tbl.M()*tbl.CellSize())), "file", output)
			log.MemUsage(logger)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "pairs.txt", "pairs file, one key\\thexvalue per line")
	cmd.Flags().StringVarP(&output, "output", "o", "storage.bin", "storage file")
	return cmd
}

func decodeCmd(a *app) *cobra.Command {
	var input, keysFile string
	cmd := &cobra.Command{
		Use:   "decode [key...]",
		Short: "Decode keys from a storage file",
		Long: `Decode the keys given as arguments, or read one key per line from
the keys file. Every key is printed with the hex encoding of its value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.GetLoggerFromContextWithName(cmd.Context(), "decode")
			tbl, err := a.table(logger)
			if err != nil {
				return err
			}

			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()
			s, err := tbl.ReadStorage(bufio.NewReader(f))
			if err != nil {
				return err
			}

			keys := make([][]byte, 0, len(args))
			for _, k := range args {
				keys = append(keys, []byte(k))
			}
			if keysFile != "" {
				read, err := readKeys(keysFile)
				if err != nil {
					return err
				}
				keys = append(keys, read...)
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			for _, k := range keys {
				fmt.Fprintf(out, "%s\t%s\n", k, hex.EncodeToString(s.Decode(k)))
			}
			return out.Flush()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "storage.bin", "storage file")
	cmd.Flags().StringVarP(&keysFile, "key-file", "k", "", "file of keys to decode, one per line")
	return cmd
}

// readPairs reads a key\thexvalue file. Keys must be unique.
func readPairs(name string) (map[string][]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := util.Count(f)
	if err != nil {
		return nil, err
	}
	// rewind
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	lines := util.Exhaust(n, f)
	// let the reader finish when a line is rejected
	defer func() {
		for range lines {
		}
	}()

	kv := make(map[string][]byte, n)
	for line := range lines {
		k, v, err := util.SplitPair(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", line, err)
		}
		if _, ok := kv[string(k)]; ok {
			return nil, fmt.Errorf("duplicate key %s", k)
		}
		value, err := hex.DecodeString(string(v))
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", k, err)
		}
		kv[string(k)] = value
	}
	return kv, nil
}

// readKeys reads one key per line.
func readKeys(name string) ([][]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := util.Count(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	lines := util.Exhaust(n, f)
	defer func() {
		for range lines {
		}
	}()

	keys := make([][]byte, 0, n)
	for line := range lines {
		keys = append(keys, line)
	}
	return keys, nil
}
