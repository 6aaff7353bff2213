// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "fmt"

///////////////////////////////////////////////////////////////////////
//  premade.go has the catalog of standard channel species.
//  Constants are written in mantissa * power-of-ten form, and evaluate
//  to the same bits as the published double-precision values.

// typed scale factors, so products are rounded as float64
const (
	deca  float64 = 1.0e1
	milli float64 = 1.0e-3
)

// Reference maximal conductances and reversal potentials (volts).
const (
	GbarK  = 5.0 * deca
	ErevK  = -90.0 * milli
	GbarNa = 60.0 * deca
	ErevNa = 50.0 * milli
	GbarCa = 1.0 * deca
	ErevCa = 120.0 * milli
	GbarL  = 0.0
	ErevL  = -70.0 * milli
)

// Reference rate functions, in terms of millivolts.
var (
	// AlphaN = 0.032 (15 - V) / (exp((15 - V) / 5) - 1)
	AlphaN = ExpLinear{A: 0.032, Num: 15, Den: 15, C: 5, Dir: 1}
	// BetaN = 0.5 exp((10 - V) / 40)
	BetaN = Exponential{A: 0.5, B: 10, C: 40, Dir: 1}

	// AlphaM = 0.32 (13 - V) / (exp((13 - V) / 4) - 1)
	AlphaM = ExpLinear{A: 0.32, Num: 13, Den: 13, C: 4, Dir: 1}
	// BetaM = 0.28 (V - 40) / (exp((V - 40) / 5) - 1)
	BetaM = ExpLinear{A: 0.28, Num: 40, Den: 40, C: 5, Dir: -1}
	// AlphaH = 0.128 exp((17 - V) / 18)
	AlphaH = Exponential{A: 0.128, B: 17, C: 18, Dir: 1}
	// BetaH = 4 / (exp((40 - V) / 5) + 1)
	BetaH = Sigmoid{A: 4, B: 40, C: 5, Dir: 1}

	// AlphaQ = 0.055 (27 - V) / (exp((-27 - V) / 3.8) - 1).
	// The numerator and denominator offsets differ, so V = -27 is a pole.
	AlphaQ = ExpLinear{A: 0.055, Num: 27, Den: -27, C: 3.8, Dir: 1}
	// BetaQ = 0.94 exp((-75 - V) / 17)
	BetaQ = Exponential{A: 0.94, B: -75, C: 17, Dir: 1}
	// AlphaR = 0.000457 exp((-13 - V) / 50)
	AlphaR = Exponential{A: 0.000457, B: -13, C: 50, Dir: 1}
	// BetaR = 0.0065 / (exp((-15 - V) / 28) + 1)
	BetaR = Sigmoid{A: 0.0065, B: -15, C: 28, Dir: 1}
)

// gateDef is the literal definition of one gate of a catalog channel.
type gateDef struct {
	name        string
	alpha, beta RateFunc
	power       int
	init        float64
}

// speciesDef is the literal definition of a catalog channel.
type speciesDef struct {
	name  string
	gbar  float64
	erev  float64
	gates []gateDef
}

var speciesDefs = [SpeciesN]speciesDef{
	Potassium: {"Potassium Channel", GbarK, ErevK, []gateDef{
		{"n", AlphaN, BetaN, 4, 0.0376969},
	}},
	Sodium: {"Sodium Channel", GbarNa, ErevNa, []gateDef{
		{"m", AlphaM, BetaM, 3, 0.0147567},
		{"h", AlphaH, BetaH, 1, 0.9959410},
	}},
	Calcium: {"Calcium Channel", GbarCa, ErevCa, []gateDef{
		{"q", AlphaQ, BetaQ, 2, 0.0},
		{"r", AlphaR, BetaR, 1, 0.0},
	}},
	Leakage: {"Leakage Channel", GbarL, ErevL, nil},
}

// New returns a new channel of the given species for n nodes,
// with every gate at its reference initial state.
func New(sp Species, n int) (*Channel, error) {
	if sp < 0 || sp >= SpeciesN {
		return nil, fmt.Errorf("%w: %d", ErrSpecies, int(sp))
	}
	def := &speciesDefs[sp]
	ch, err := NewChannel(def.name, def.gbar, def.erev, n)
	if err != nil {
		return nil, err
	}
	for _, gd := range def.gates {
		if _, err := ch.AddGate(gd.name, gd.alpha, gd.beta, gd.power, gd.init); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

// NewPotassium returns the potassium channel for n nodes.
func NewPotassium(n int) (*Channel, error) { return New(Potassium, n) }

// NewSodium returns the sodium channel for n nodes.
func NewSodium(n int) (*Channel, error) { return New(Sodium, n) }

// NewCalcium returns the calcium channel for n nodes.
func NewCalcium(n int) (*Channel, error) { return New(Calcium, n) }

// NewLeakage returns the leakage channel for n nodes.
func NewLeakage(n int) (*Channel, error) { return New(Leakage, n) }
