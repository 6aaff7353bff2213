// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hhchans is the overall repository for Hodgkin-Huxley style ion
channel kinetics implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* chans: the core engine.  Rate functions (alpha, beta) of membrane voltage,
gating variables integrated with the exponential Euler method, channels that
combine gates into a current Gbar * prod(state^power) * (V - Erev), and the
standard Potassium, Sodium, Calcium and Leakage channels.  All state is held
per node as []float64 vectors, with voltage in volts and time in seconds.

* chanplot: tabulates alpha, beta, steady state and time constant of every
gate over a voltage sweep, into an etable.Table that can be saved as CSV.

* vclamp: runs voltage-clamp protocols (hold, step, return) on a set of
channels, optionally split across threads by node range, logging the
currents and gate states of each step.

* cmd/hhclamp: command-line tool exposing the rate tables and clamp runs.
*/
package hhchans
