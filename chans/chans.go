// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides Hodgkin-Huxley style voltage-gated ion channels for
computing the transmembrane current of each node of a discretized neuron
cable.

A Channel has a maximal conductance (Gbar), a reversal potential (Erev) and
zero or more Gates.  Each Gate holds one open-state probability per node,
integrated from a pair of voltage-dependent rate functions (Alpha = opening,
Beta = closing) with the exact exponential (exponential Euler) update.
The channel current at each node is:

	I = Gbar * Prod_i(state_i ^ power_i) * (V - Erev)

Voltages are passed in volts.  All rate functions rescale their input by
VmScale into millivolts internally and return rates in 1/sec (the literal
RateScale factor), so the timestep dt is in seconds.

The engine holds no reference to the host simulation: voltage and dt are
plain call parameters.  The host must call Update on every gate of a channel
with one voltage snapshot before reading Current for that step -- Set.Step
does this in the required order.
*/
package chans

const (
	// VmScale converts volts into the millivolt units that the
	// rate function constants are expressed in.
	VmScale = 1.0e3

	// RateScale converts per-msec rate constants into per-sec rates.
	RateScale = 1.0e3

	// LimitTol is the tolerance on the exponent argument of an
	// x / (exp(x/c) - 1) expression below which the analytic limit is used.
	LimitTol = 1.0e-6
)
