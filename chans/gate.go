// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"
)

// Gate is a Hodgkin-Huxley gating variable: the per-node probability that
// one gating subunit is in its permissive state, integrated from the
// voltage-dependent opening (Alpha) and closing (Beta) rates.
// The state raised to Power is the gate's contribution to the channel
// open probability.
type Gate struct {
	Name  string    `desc:"name of the gate, e.g., n, m, h"`
	Alpha RateFunc  `desc:"opening rate as a function of voltage"`
	Beta  RateFunc  `desc:"closing rate as a function of voltage"`
	Power int       `min:"1" desc:"exponent applied to the state in the channel open probability"`
	Init  float64   `desc:"initial state value for every node"`
	State []float64 `desc:"per-node state, in [0,1]"`

	// Violations counts node updates that produced a state outside [0,1]
	// and had to be clamped.
	Violations atomic.Int64 `view:"-"`

	alpha []float64
	beta  []float64
}

// NewGate returns a gate for n nodes with every state set to init.
func NewGate(name string, alpha, beta RateFunc, power int, init float64, n int) (*Gate, error) {
	if err := checkNodes(n); err != nil {
		return nil, err
	}
	if power < 1 {
		return nil, fmt.Errorf("chans: gate %s: power must be >= 1, got %d", name, power)
	}
	if !(init >= 0 && init <= 1) {
		return nil, fmt.Errorf("chans: gate %s: initial state %v outside [0,1]", name, init)
	}
	gt := &Gate{Name: name, Alpha: alpha, Beta: beta, Power: power, Init: init}
	gt.State = make([]float64, n)
	gt.alpha = make([]float64, n)
	gt.beta = make([]float64, n)
	gt.InitState()
	return gt, nil
}

// NNodes returns the number of nodes.
func (gt *Gate) NNodes() int {
	return len(gt.State)
}

// InitState resets the state of every node to Init.
func (gt *Gate) InitState() {
	for i := range gt.State {
		gt.State[i] = gt.Init
	}
}

// Update advances the state of every node by dt seconds at the given
// voltages (volts), using the exact solution of dx/dt = (xinf - x) / tau
// for rates held constant over the step:
//
//	x(t+dt) = xinf + (x(t) - xinf) * exp(-dt / tau)
//	xinf = alpha / (alpha + beta), tau = 1 / (alpha + beta)
func (gt *Gate) Update(vm []float64, dt float64) error {
	if err := gt.check(vm, dt); err != nil {
		return err
	}
	Rates(gt.Alpha, vm, gt.alpha)
	Rates(gt.Beta, vm, gt.beta)
	gt.integrate(dt, 0, len(gt.State))
	return nil
}

// UpdateRange is Update restricted to nodes [st, ed).  Disjoint ranges
// of the same gate may be updated concurrently.
func (gt *Gate) UpdateRange(vm []float64, dt float64, st, ed int) error {
	if err := gt.check(vm, dt); err != nil {
		return err
	}
	if st < 0 || ed > len(gt.State) || st > ed {
		return fmt.Errorf("%w: node range [%d, %d) outside [0, %d)", ErrLength, st, ed, len(gt.State))
	}
	RatesRange(gt.Alpha, vm, gt.alpha, st, ed)
	RatesRange(gt.Beta, vm, gt.beta, st, ed)
	gt.integrate(dt, st, ed)
	return nil
}

func (gt *Gate) check(vm []float64, dt float64) error {
	if err := checkLen("voltage", len(vm), len(gt.State)); err != nil {
		return fmt.Errorf("gate %s: %w", gt.Name, err)
	}
	if !(dt >= 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("gate %s: %w: got %v", gt.Name, ErrTimestep, dt)
	}
	return nil
}

// integrate applies the exponential update over [st, ed) using the
// rates already computed into gt.alpha, gt.beta.
func (gt *Gate) integrate(dt float64, st, ed int) {
	for i := st; i < ed; i++ {
		a, b := gt.alpha[i], gt.beta[i]
		sum := a + b
		if !validSum(sum) {
			continue // tau undefined: hold state
		}
		inf := a / sum
		x := inf + (gt.State[i]-inf)*math.Exp(-dt*sum)
		switch {
		case math.IsNaN(x):
			gt.violation(i, x, gt.State[i])
			continue
		case x < 0:
			gt.violation(i, x, 0)
			x = 0
		case x > 1:
			gt.violation(i, x, 1)
			x = 1
		}
		gt.State[i] = x
	}
}

func (gt *Gate) violation(node int, got, kept float64) {
	lg := Logger()
	log := lg.Debug
	if gt.Violations.Add(1) == 1 {
		log = lg.Warn // first one per gate, the rest at debug level
	}
	log("gate state outside [0,1]",
		zap.String("gate", gt.Name),
		zap.Int("node", node),
		zap.Float64("state", got),
		zap.Float64("clamped", kept))
}

// SteadyState returns alpha / (alpha + beta) at each voltage (volts).
// It is a sweep helper: vm may have any length, and gate state is not
// used.  Voltages where the rate sum is zero or not finite, for which
// Update holds the state, return NaN.
func (gt *Gate) SteadyState(vm []float64) []float64 {
	a := EvalRates(gt.Alpha, vm)
	b := EvalRates(gt.Beta, vm)
	inf := make([]float64, len(vm))
	for i := range inf {
		sum := a[i] + b[i]
		if !validSum(sum) {
			inf[i] = math.NaN()
			continue
		}
		inf[i] = a[i] / sum
	}
	return inf
}

// Tau returns the time constant 1 / (alpha + beta) in seconds at each
// voltage (volts).  Like SteadyState, vm may have any length.
// Voltages where the rate sum is zero or not finite return +Inf.
func (gt *Gate) Tau(vm []float64) []float64 {
	a := EvalRates(gt.Alpha, vm)
	b := EvalRates(gt.Beta, vm)
	tau := make([]float64, len(vm))
	for i := range tau {
		sum := a[i] + b[i]
		if !validSum(sum) {
			tau[i] = math.Inf(1)
			continue
		}
		tau[i] = 1 / sum
	}
	return tau
}

// validSum reports whether a rate sum defines a steady state and time constant.
func validSum(sum float64) bool {
	return sum != 0 && !math.IsNaN(sum) && !math.IsInf(sum, 0)
}

// Open multiplies open by State^Power for each node.
func (gt *Gate) Open(open []float64) {
	gt.OpenRange(open, 0, len(gt.State))
}

// OpenRange is Open restricted to nodes [st, ed).
func (gt *Gate) OpenRange(open []float64, st, ed int) {
	for i := st; i < ed; i++ {
		open[i] *= math.Pow(gt.State[i], float64(gt.Power))
	}
}
