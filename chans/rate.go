// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RateFunc is a voltage-dependent transition rate (alpha or beta) of a Gate.
// Rate takes a single membrane potential in millivolts and returns the
// rate in 1/sec.  Implementations must be pure and node-local.
type RateFunc interface {
	Rate(mv float64) float64
}

// RateFn adapts an ordinary function of millivolts into a RateFunc.
type RateFn func(mv float64) float64

func (fn RateFn) Rate(mv float64) float64 { return fn(mv) }

// Rates evaluates rf for each voltage in vm (volts) into rates, which
// must be the same length as vm.  vm is copied and rescaled to millivolts
// before evaluation and is never modified.
func Rates(rf RateFunc, vm, rates []float64) {
	mv := floats.ScaleTo(make([]float64, len(vm)), VmScale, vm)
	for i, v := range mv {
		rates[i] = rf.Rate(v)
	}
}

// RatesRange is Rates restricted to nodes [st, ed).
func RatesRange(rf RateFunc, vm, rates []float64, st, ed int) {
	for i := st; i < ed; i++ {
		rates[i] = rf.Rate(vm[i] * VmScale)
	}
}

// EvalRates returns a new vector with rf evaluated at each voltage in vm (volts).
func EvalRates(rf RateFunc, vm []float64) []float64 {
	rates := make([]float64, len(vm))
	Rates(rf, vm, rates)
	return rates
}

//////////////////////////////////////////////////////////////////////////////////////
//  ExpLinear

// ExpLinear is the linear-over-exponential rate form:
//
//	RateScale * A * x / (exp(y) - 1),  x = Dir*(Num - V),  y = Dir*(Den - V) / C
//
// Dir is +1 for the (B - V) orientation and -1 for (V - B).
// When Num == Den the expression has a removable singularity at y = 0,
// where the analytic limit RateScale * A * C is used for |y| < LimitTol.
// When Num != Den the singularity is a true pole, and y is held at
// +/- LimitTol so that the result stays finite.
type ExpLinear struct {
	A   float64 `desc:"rate constant, in 1/msec"`
	Num float64 `desc:"offset of the linear numerator term, in mV"`
	Den float64 `desc:"offset of the exponential denominator term, in mV"`
	C   float64 `desc:"slope factor of the exponential, in mV"`
	Dir float64 `desc:"+1 for (B - V) orientation, -1 for (V - B)"`
}

// Removable returns true if the y = 0 singularity has a finite limit.
func (el ExpLinear) Removable() bool {
	return el.Num == el.Den
}

// Limit returns the analytic value of the rate at the removable singularity.
func (el ExpLinear) Limit() float64 {
	return RateScale * el.A * el.C
}

func (el ExpLinear) Rate(mv float64) float64 {
	y := el.Dir * (el.Den - mv) / el.C
	if math.Abs(y) < LimitTol {
		if el.Removable() {
			return el.Limit()
		}
		y = math.Copysign(LimitTol, y)
	}
	x := el.Dir * (el.Num - mv)
	return RateScale * el.A * x / math.Expm1(y)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Exponential

// Exponential is the pure exponential rate form:
//
//	RateScale * A * exp(Dir*(B - V) / C)
type Exponential struct {
	A   float64 `desc:"rate constant, in 1/msec"`
	B   float64 `desc:"voltage offset, in mV"`
	C   float64 `desc:"slope factor, in mV"`
	Dir float64 `desc:"+1 for (B - V) orientation, -1 for (V - B)"`
}

func (ex Exponential) Rate(mv float64) float64 {
	return RateScale * ex.A * math.Exp(ex.Dir*(ex.B-mv)/ex.C)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Sigmoid

// Sigmoid is the logistic rate form:
//
//	RateScale * A / (exp(Dir*(B - V) / C) + 1)
type Sigmoid struct {
	A   float64 `desc:"maximal rate, in 1/msec"`
	B   float64 `desc:"half-activation voltage, in mV"`
	C   float64 `desc:"slope factor, in mV"`
	Dir float64 `desc:"+1 for (B - V) orientation, -1 for (V - B)"`
}

func (sg Sigmoid) Rate(mv float64) float64 {
	return RateScale * sg.A / (math.Exp(sg.Dir*(sg.B-mv)/sg.C) + 1)
}
