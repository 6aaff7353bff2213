// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hhclamp tabulates the rate functions of the standard ion channels and
// runs voltage-clamp protocols on them, writing the results as CSV.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/emer/hhchans/chans"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hhclamp",
	Short: "Hodgkin-Huxley channel rate tables and voltage-clamp runs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		chans.SetLogger(logger.Named("chans"))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")

	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(clampCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// output returns the writer for path, which is stdout for "" or "-".
// The returned close function must be called when done.
func output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
