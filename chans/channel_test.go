// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"errors"
	"math"
	"testing"
)

func TestChannelCurrent(t *testing.T) {
	ch, err := NewSodium(2)
	if err != nil {
		t.Fatal(err)
	}
	vm := []float64{-0.065, 0.010}
	cur, err := ch.Current(vm)
	if err != nil {
		t.Fatal(err)
	}
	m := ch.Gate("m").State
	h := ch.Gate("h").State
	for i := range vm {
		open := math.Pow(m[i], 3) * h[i]
		cor := GbarNa * open * (vm[i] - ErevNa)
		if dif := relDif(cur[i], cor); dif > difTol {
			t.Errorf("node %d: current: %v, cor: %v, dif: %v\n", i, cur[i], cor, dif)
		}
	}
}

func TestChannelCurrentReadOnly(t *testing.T) {
	ch, err := NewPotassium(3)
	if err != nil {
		t.Fatal(err)
	}
	vm := []float64{-0.065, -0.020, 0.030}
	orig := append([]float64(nil), ch.Gates[0].State...)
	c1, _ := ch.Current(vm)
	c2, _ := ch.Current(vm)
	for i := range vm {
		if c1[i] != c2[i] {
			t.Errorf("node %d: repeated current differs: %v vs %v\n", i, c1[i], c2[i])
		}
		if ch.Gates[0].State[i] != orig[i] {
			t.Errorf("node %d: Current modified gate state\n", i)
		}
	}
}

func TestLeakCurrent(t *testing.T) {
	vm := []float64{-0.1, -0.07, -0.065, 0, 0.04}

	lk, err := NewLeakage(len(vm))
	if err != nil {
		t.Fatal(err)
	}
	cur, err := lk.Current(vm)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cur {
		if c != 0 {
			t.Errorf("zero-conductance leak node %d: current: %v, want 0\n", i, c)
		}
	}

	gl, el := 0.3, -0.07
	ch, err := NewChannel("Leak", gl, el, len(vm))
	if err != nil {
		t.Fatal(err)
	}
	cur, err = ch.Current(vm)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cur {
		if cor := gl * (vm[i] - el); c != cor {
			t.Errorf("leak node %d: current: %v, want exactly: %v\n", i, c, cor)
		}
	}
	open := ch.Open()
	for i, o := range open {
		if o != 1 {
			t.Errorf("ungated node %d: open: %v, want 1\n", i, o)
		}
	}
}

func TestPotassiumAtReversal(t *testing.T) {
	ch, err := NewPotassium(1)
	if err != nil {
		t.Fatal(err)
	}
	vm := []float64{ErevK}
	for step := 0; step < 10; step++ {
		if err := ch.Update(vm, 1.0e-5); err != nil {
			t.Fatal(err)
		}
		cur, err := ch.Current(vm)
		if err != nil {
			t.Fatal(err)
		}
		if cur[0] != 0 {
			t.Errorf("step %d: current at Erev: %v, want 0\n", step, cur[0])
		}
	}
	// arbitrary gate state does not matter at Erev
	ch.Gates[0].State[0] = 0.77
	cur, _ := ch.Current(vm)
	if cur[0] != 0 {
		t.Errorf("current at Erev with n = 0.77: %v, want 0\n", cur[0])
	}
}

func TestSodiumAtSingularity(t *testing.T) {
	// 13 mV is the removable singularity of AlphaM
	vm := []float64{0.013, 0.013, 0.013}
	ch, err := NewSodium(len(vm))
	if err != nil {
		t.Fatal(err)
	}
	am := EvalRates(ch.Gate("m").Alpha, vm)
	for i, r := range am {
		if dif := relDif(r, AlphaM.Limit()); dif > difTol {
			t.Errorf("node %d: AlphaM: %v, limit: %v\n", i, r, AlphaM.Limit())
		}
	}
	if err := ch.Update(vm, 1.0e-5); err != nil {
		t.Fatal(err)
	}
	cur, err := ch.Current(vm)
	if err != nil {
		t.Fatal(err)
	}
	if len(cur) != 3 {
		t.Fatalf("current len: %d, want 3\n", len(cur))
	}
	for i, c := range cur {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("node %d: current %v not finite\n", i, c)
		}
	}

	// the same channel at -13 mV is regular and finite as well
	neg := []float64{-0.013, -0.013, -0.013}
	if err := ch.Update(neg, 1.0e-5); err != nil {
		t.Fatal(err)
	}
	cur, _ = ch.Current(neg)
	for i, c := range cur {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("node %d at -13 mV: current %v not finite\n", i, c)
		}
	}
}

func TestChannelErrors(t *testing.T) {
	if _, err := NewChannel("x", 1, 0, 0); !errors.Is(err, ErrNodeCount) {
		t.Errorf("zero nodes: err = %v, want ErrNodeCount\n", err)
	}
	if _, err := NewChannel("x", -1, 0, 1); err == nil {
		t.Errorf("negative Gbar accepted\n")
	}
	ch, err := NewCalcium(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ch.Current([]float64{0}); !errors.Is(err, ErrLength) {
		t.Errorf("short voltage: err = %v, want ErrLength\n", err)
	}
	if err := ch.CurrentTo([]float64{0, 0}, make([]float64, 3)); !errors.Is(err, ErrLength) {
		t.Errorf("long output: err = %v, want ErrLength\n", err)
	}
	if err := ch.Update([]float64{0, 0, 0}, 1.0e-5); !errors.Is(err, ErrLength) {
		t.Errorf("long voltage: err = %v, want ErrLength\n", err)
	}
	if err := ch.Update([]float64{0, 0}, -1); !errors.Is(err, ErrTimestep) {
		t.Errorf("negative dt: err = %v, want ErrTimestep\n", err)
	}
}

func TestChannelUpdateRange(t *testing.T) {
	vm := []float64{-0.065, -0.040, -0.010, 0.020, 0.045}
	full, _ := NewSodium(len(vm))
	part, _ := NewSodium(len(vm))
	if err := full.Update(vm, 1.0e-5); err != nil {
		t.Fatal(err)
	}
	for _, rng := range [][2]int{{0, 2}, {2, 5}} {
		if err := part.UpdateRange(vm, 1.0e-5, rng[0], rng[1]); err != nil {
			t.Fatal(err)
		}
	}
	fc, _ := full.Current(vm)
	pc := make([]float64, len(vm))
	part.CurrentRange(vm, pc, 0, 2)
	part.CurrentRange(vm, pc, 2, 5)
	for i := range vm {
		if fc[i] != pc[i] {
			t.Errorf("node %d: range current: %v, full current: %v\n", i, pc[i], fc[i])
		}
	}
}
