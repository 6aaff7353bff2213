// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/emer/hhchans/chanplot"
	"github.com/emer/hhchans/chans"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ratesPars chanplot.Params

var ratesCmd = &cobra.Command{
	Use:   "rates <species>",
	Short: "Write alpha, beta, steady state and tau of each gate over a voltage sweep",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, err := chans.ParseSpecies(args[0])
		if err != nil {
			return err
		}
		ch, err := chans.New(sp, 1)
		if err != nil {
			return err
		}
		dt, err := chanplot.RateTable(ch, &ratesPars)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("out")
		w, closeFn, err := output(path)
		if err != nil {
			return err
		}
		if err := chanplot.WriteCSV(dt, w); err != nil {
			closeFn()
			return fmt.Errorf("write rates: %w", err)
		}
		logger.Info("wrote rate table",
			zap.String("channel", ch.Name),
			zap.Int("gates", len(ch.Gates)),
			zap.Int("rows", dt.Rows),
			zap.String("out", path))
		return closeFn()
	},
}

func init() {
	ratesPars.Defaults()
	ratesCmd.Flags().Float64Var(&ratesPars.Vrange.Min, "vmin", ratesPars.Vrange.Min, "sweep start voltage (V)")
	ratesCmd.Flags().Float64Var(&ratesPars.Vrange.Max, "vmax", ratesPars.Vrange.Max, "sweep end voltage (V)")
	ratesCmd.Flags().Float64Var(&ratesPars.Vstep, "vstep", ratesPars.Vstep, "sweep voltage increment (V)")
	ratesCmd.Flags().StringP("out", "o", "-", "output CSV file (- for stdout)")
}
