// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/c2h5oh/datasize"
	"github.com/emer/hhchans/vclamp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clampCmd = &cobra.Command{
	Use:   "clamp",
	Short: "Run a voltage-clamp protocol and write the per-step log",
	Long: `Run a voltage-clamp protocol on the standard channels and write the
per-step currents and gate states of node 0 as CSV.

The protocol is read from a TOML file (--config), with any missing
parameters taking their defaults.  Use --dump to write the default
protocol as a starting point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pr := vclamp.NewProtocol()
		if dump, _ := cmd.Flags().GetString("dump"); dump != "" {
			return pr.SaveProtocol(dump)
		}
		if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
			var err error
			if pr, err = vclamp.LoadProtocol(cfg); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("nodes") {
			pr.Nodes, _ = cmd.Flags().GetInt("nodes")
		}
		if cmd.Flags().Changed("threads") {
			pr.Threads, _ = cmd.Flags().GetInt("threads")
		}

		rn, err := vclamp.NewRunner(pr, logger.Named("vclamp"))
		if err != nil {
			return err
		}
		defer rn.Close()
		logger.Info("channel state allocated",
			zap.String("size", stateSize(rn).HumanReadable()))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := rn.Run(ctx); err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("out")
		w, closeFn, err := output(path)
		if err != nil {
			return err
		}
		if err := vclamp.WriteCSV(rn.Log, w); err != nil {
			closeFn()
			return fmt.Errorf("write log: %w", err)
		}
		return closeFn()
	},
}

// stateSize returns the memory held in per-node state vectors.
func stateSize(rn *vclamp.Runner) datasize.ByteSize {
	nvec := 2 + len(rn.ChanCur) // Vm, Cur
	for _, ch := range rn.Set.Chans {
		nvec += 3 * len(ch.Gates) // state, alpha, beta
	}
	return datasize.ByteSize(nvec*rn.Proto.Nodes) * 8
}

func init() {
	clampCmd.Flags().StringP("config", "c", "", "protocol TOML file")
	clampCmd.Flags().String("dump", "", "write the default protocol TOML to this file and exit")
	clampCmd.Flags().Int("nodes", 1, "override number of cable nodes")
	clampCmd.Flags().Int("threads", 1, "override number of threads")
	clampCmd.Flags().StringP("out", "o", "-", "output CSV file (- for stdout)")
}
