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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/algorand/go-flexcorpus/corpus"
	"github.com/algorand/go-flexcorpus/logging"
)

var (
	verbose    bool
	debugLog   bool
	jsonLog    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "corpusgen",
	Short:         "Generate FlexBuffers fuzzing corpora",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(validateCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every written file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Write log entries as JSON")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML file with corpus and generator settings")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &corpus.UsageError{Err: err}
	})
}

func newLogger(out io.Writer) logging.Logger {
	log := logging.NewLogger()
	log.SetOutput(out)
	switch {
	case debugLog:
		log.SetLevel(logging.Debug)
	case verbose:
		log.SetLevel(logging.Info)
	default:
		log.SetLevel(logging.Warn)
	}
	if jsonLog {
		log.SetJSONFormatter()
	}
	return log
}

// loadConfig starts from the config file, if any, and targets dir.
func loadConfig(dir string) (corpus.Config, error) {
	cfg := corpus.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = corpus.LoadConfig(configFile)
		if err != nil {
			return cfg, &corpus.UsageError{Err: err}
		}
	}
	cfg.OutputDir = dir
	return cfg, nil
}

func exitCode(err error) int {
	if corpus.IsUsageError(err) {
		return 2
	}
	return 1
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportErrorf("corpusgen: %v", err)
		if corpus.IsUsageError(err) {
			fmt.Fprintln(os.Stderr, "Run 'corpusgen --help' for usage.")
		}
		os.Exit(exitCode(err))
	}
}
