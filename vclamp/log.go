// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vclamp

import (
	"io"
	"strconv"
	"strings"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/hhchans/chans"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// ChanCol returns the log column name of the current of a channel.
func ChanCol(ch *chans.Channel) string {
	return "I_" + shortName(ch)
}

// GateCol returns the log column name of a gate state of a channel.
func GateCol(ch *chans.Channel, gt *chans.Gate) string {
	return shortName(ch) + "_" + gt.Name
}

// shortName is the first word of the channel name, e.g., Sodium.
func shortName(ch *chans.Channel) string {
	nm, _, _ := strings.Cut(ch.Name, " ")
	return nm
}

// ConfigLog configures the step log columns for the channels of cs.
func ConfigLog(dt *etable.Table, cs *chans.Set) {
	dt.SetMetaData("name", "VClampLog")
	dt.SetMetaData("desc", "voltage clamp currents and gate states at node 0")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Step", etensor.INT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
		{"V", etensor.FLOAT64, nil, nil},
		{"I_total", etensor.FLOAT64, nil, nil},
	}
	for _, ch := range cs.Chans {
		sch = append(sch, etable.Column{ChanCol(ch), etensor.FLOAT64, nil, nil})
	}
	for _, ch := range cs.Chans {
		for _, gt := range ch.Gates {
			sch = append(sch, etable.Column{GateCol(ch, gt), etensor.FLOAT64, nil, nil})
		}
	}
	dt.SetFromSchema(sch, 0)
}

// LogStep adds a row for the last step of rn at node 0.  Step is the
// index of that step and Time its start, at which V was commanded.
// Currents and gate states are those at the end of the step.
func LogStep(dt *etable.Table, rn *Runner) {
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Step", row, float64(rn.Time.Step-1))
	dt.SetCellFloat("Time", row, rn.StepSt)
	dt.SetCellFloat("V", row, rn.Vm[0])
	dt.SetCellFloat("I_total", row, rn.Cur[0])
	for ci, ch := range rn.Set.Chans {
		dt.SetCellFloat(ChanCol(ch), row, rn.ChanCur[ci][0])
	}
	for _, ch := range rn.Set.Chans {
		for _, gt := range ch.Gates {
			dt.SetCellFloat(GateCol(ch, gt), row, gt.State[0])
		}
	}
}

// WriteCSV writes the log as comma-separated values with a header row.
func WriteCSV(dt *etable.Table, w io.Writer) error {
	return dt.WriteCSV(w, etable.Comma, true)
}
