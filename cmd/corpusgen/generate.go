// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdutil "github.com/algorand/go-flexcorpus/cmd/util"
	"github.com/algorand/go-flexcorpus/corpus"
)

var (
	count      int
	seedOffset uint64
	workers    int
	manifest   string
	maxDepth   int
	formatFlag = cmdutil.MakeCobraStringValue(string(corpus.FormatFlexBuffers), []string{string(corpus.FormatMsgpack)})
)

func init() {
	defaults := corpus.DefaultConfig()
	randomCmd.Flags().IntVarP(&count, "count", "n", defaults.Count, "Number of samples to generate")
	randomCmd.Flags().Uint64Var(&seedOffset, "seed-offset", defaults.SeedOffset, "Seed of the first sample")
	randomCmd.Flags().IntVarP(&workers, "workers", "w", defaults.Workers, "Number of samples generated in parallel")
	randomCmd.Flags().VarP(formatFlag, "format", "f", fmt.Sprintf("Output format (%s)", formatFlag.AllowedString()))
	randomCmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Write a YAML manifest of the run to this file")
	randomCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Force every tree to this nesting depth")

	samplesCmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Write a YAML manifest of the fixtures to this file")
}

// dirArg requires one existing directory argument.
func dirArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &corpus.UsageError{Err: corpus.ErrMissingOutputDir}
	}
	err := cmdutil.SinglePathArg("directory", corpus.CheckOutputDir)(cmd, args)
	if err != nil && !corpus.IsUsageError(err) {
		return &corpus.UsageError{Err: err}
	}
	return err
}

// positiveFlags rejects explicit zero or negative values for flags that
// count something.
func positiveFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		n, err := strconv.Atoi(f.Value.String())
		if err != nil || n <= 0 {
			return &corpus.UsageError{Err: fmt.Errorf("--%s must be a positive number, got %s", name, f.Value.String())}
		}
	}
	return nil
}

var randomCmd = &cobra.Command{
	Use:   "random <dir>",
	Short: "Write randomly generated documents named 0, 1, 2, ... into dir",
	Args:  dirArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := positiveFlags(cmd, "count", "workers", "max-depth"); err != nil {
			return err
		}
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("count") {
			cfg.Count = count
		}
		if flags.Changed("seed-offset") {
			cfg.SeedOffset = seedOffset
		}
		if flags.Changed("workers") {
			cfg.Workers = workers
		}
		if formatFlag.IsSet() {
			cfg.Format = corpus.Format(formatFlag.String())
		}
		if flags.Changed("manifest") {
			cfg.Manifest = manifest
		}
		if flags.Changed("max-depth") {
			cfg.Generator.MinDepth = maxDepth
			cfg.Generator.MaxDepth = maxDepth
		}

		d, err := corpus.NewDriver(cfg, newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		m, err := d.Run(cmd.Context())
		if err != nil {
			return err
		}
		printSummary(cmd, m)
		return nil
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples <dir>",
	Short: "Write the handcrafted FlexBuffers fixtures into dir",
	Args:  dirArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("manifest") {
			cfg.Manifest = manifest
		}
		d, err := corpus.NewDriver(cfg, newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		m, err := d.WriteFixtures(cmd.Context(), corpus.Fixtures())
		if err != nil {
			return err
		}
		printSummary(cmd, m)
		return nil
	},
}

func printSummary(cmd *cobra.Command, m *corpus.Manifest) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.New(color.FgGreen).Sprintf("Wrote %d %s files (%d bytes) to %s",
		len(m.Entries), m.Format, m.TotalBytes(), m.Dir))
	if dups := m.Duplicates(); dups > 0 {
		fmt.Fprintln(out, color.New(color.FgYellow).Sprintf("%d files repeat earlier content", dups))
	}
}
