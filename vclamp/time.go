// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vclamp

// vclamp.Time contains the timing state and step size for a clamp run.
type Time struct {

	// accumulated amount of simulated time, in seconds.
	Time float64

	// step counter: number of integration steps taken since the last Reset.
	Step int

	// amount of time to increment per step, in seconds.
	Dt float64 `def:"1e-05"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 1.0e-5
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments at the step level.  Time is Step * Dt, not a
// running sum.
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time = float64(tm.Step) * tm.Dt
}
