// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chanplot tabulates the voltage dependence of channel gates
// (alpha and beta rates, steady state and time constant) into an
// etable.Table, for plotting or saving as CSV.
package chanplot

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
	"github.com/emer/hhchans/chans"
)

// LogPrec is precision for saving float values in tables
const LogPrec = 6

// Params control the voltage sweep.
type Params struct {

	// voltage range to sweep, in volts
	Vrange minmax.F64 `view:"inline"`

	// voltage increment, in volts
	Vstep float64 `def:"0.0005" min:"0"`
}

func (pr *Params) Defaults() {
	pr.Vrange.Min = -0.1
	pr.Vrange.Max = 0.06
	pr.Vstep = 0.0005
}

// Validate returns an error if the sweep is empty or ill-formed.
func (pr *Params) Validate() error {
	if !(pr.Vstep > 0) {
		return fmt.Errorf("chanplot: Vstep must be > 0, got %v", pr.Vstep)
	}
	if !(pr.Vrange.Max >= pr.Vrange.Min) {
		return fmt.Errorf("chanplot: Vrange max %v < min %v", pr.Vrange.Max, pr.Vrange.Min)
	}
	return nil
}

// NSteps returns the number of voltages in the sweep, including both ends.
func (pr *Params) NSteps() int {
	return int(math.Floor((pr.Vrange.Max-pr.Vrange.Min)/pr.Vstep+1e-9)) + 1
}

// Voltages returns the swept voltages, in volts.
func (pr *Params) Voltages() []float64 {
	n := pr.NSteps()
	vm := make([]float64, n)
	for i := range vm {
		vm[i] = pr.Vrange.Min + float64(i)*pr.Vstep
	}
	return vm
}

// ColNames returns the table column names for the given gate.
func ColNames(gate string) (alpha, beta, inf, tau string) {
	return gate + "_alpha", gate + "_beta", gate + "_inf", gate + "_tau"
}

// ConfigTable configures dt with a V column and the per-gate columns of ch.
func ConfigTable(dt *etable.Table, ch *chans.Channel) {
	dt.SetMetaData("name", ch.Name)
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"V", etensor.FLOAT64, nil, nil},
	}
	for _, gt := range ch.Gates {
		a, b, inf, tau := ColNames(gt.Name)
		sch = append(sch,
			etable.Column{a, etensor.FLOAT64, nil, nil},
			etable.Column{b, etensor.FLOAT64, nil, nil},
			etable.Column{inf, etensor.FLOAT64, nil, nil},
			etable.Column{tau, etensor.FLOAT64, nil, nil},
		)
	}
	dt.SetFromSchema(sch, 0)
}

// RateTable returns a table of the rate functions, steady state and
// time constant (sec) of every gate of ch over the voltage sweep.
// Where a gate has no defined steady state, inf is NaN and tau is +Inf.
// The gate states of ch are not modified.
func RateTable(ch *chans.Channel, pars *Params) (*etable.Table, error) {
	if err := pars.Validate(); err != nil {
		return nil, err
	}
	dt := &etable.Table{}
	ConfigTable(dt, ch)
	vm := pars.Voltages()
	dt.SetNumRows(len(vm))
	for i, v := range vm {
		dt.SetCellFloat("V", i, v)
	}
	for _, gt := range ch.Gates {
		a, b, inf, tau := ColNames(gt.Name)
		alpha := chans.EvalRates(gt.Alpha, vm)
		beta := chans.EvalRates(gt.Beta, vm)
		xinf := gt.SteadyState(vm)
		xtau := gt.Tau(vm)
		for i := range vm {
			dt.SetCellFloat(a, i, alpha[i])
			dt.SetCellFloat(b, i, beta[i])
			dt.SetCellFloat(inf, i, xinf[i])
			dt.SetCellFloat(tau, i, xtau[i])
		}
	}
	return dt, nil
}

// WriteCSV writes dt as comma-separated values with a header row.
func WriteCSV(dt *etable.Table, w io.Writer) error {
	return dt.WriteCSV(w, etable.Comma, true)
}
