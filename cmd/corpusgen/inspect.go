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
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdutil "github.com/algorand/go-flexcorpus/cmd/util"
	"github.com/algorand/go-flexcorpus/corpus"
)

var (
	encodeOutput   string
	dumpFormat     = cmdutil.MakeCobraStringValue(string(corpus.FormatFlexBuffers), []string{string(corpus.FormatMsgpack)})
	validateFormat = cmdutil.MakeCobraStringValue(string(corpus.FormatFlexBuffers), []string{string(corpus.FormatMsgpack)})
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "FlexBuffers file to write (default: the input with the .flexbuf extension)")
	dumpCmd.Flags().VarP(dumpFormat, "format", "f", fmt.Sprintf("Format of files without the fixture extension (%s)", dumpFormat.AllowedString()))
	validateCmd.Flags().VarP(validateFormat, "format", "f", fmt.Sprintf("Format of files without the fixture extension (%s)", validateFormat.AllowedString()))
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &corpus.UsageError{Err: err}
	}
	if !info.Mode().IsRegular() {
		return &corpus.UsageError{Err: fmt.Errorf("%s is not a regular file", path)}
	}
	return nil
}

func fileArg(cmd *cobra.Command, args []string) error {
	err := cmdutil.SinglePathArg("file", checkFile)(cmd, args)
	if err != nil && !corpus.IsUsageError(err) {
		return &corpus.UsageError{Err: err}
	}
	return err
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print one corpus file as JSON",
	Args:  fileArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := corpus.Dump(args[0], corpus.Format(dumpFormat.String()))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Decode every file in dir and report the ones that are malformed",
	Args:  dirArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := corpus.ValidateDir(args[0], corpus.Format(validateFormat.String()))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		failed := report.Failed()
		for _, f := range failed {
			fmt.Fprintln(out, color.New(color.FgRed).Sprintf("%s: %v", f.Name, f.Err))
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files in %s failed to decode", len(failed), len(report.Files), report.Dir)
		}
		fmt.Fprintln(out, color.New(color.FgGreen).Sprintf("%d files in %s decoded", len(report.Files), report.Dir))
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file.json>",
	Short: "Write one JSON document as a FlexBuffers corpus file",
	Args:  fileArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		dst, err := corpus.EncodeFile(args[0], encodeOutput)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen).Sprintf("Wrote %s", dst))
		return nil
	},
}
