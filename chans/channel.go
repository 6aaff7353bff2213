// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"fmt"
	"math"
)

// Channel is a population of voltage-gated ion channels of one species,
// present at every node of the cable.  A Channel with no Gates is a
// constant-conductance leak (or inert if Gbar == 0).
type Channel struct {
	Name  string  `desc:"name of the channel"`
	Gbar  float64 `min:"0" desc:"maximal conductance"`
	Erev  float64 `desc:"reversal potential, in volts"`
	Gates []*Gate `desc:"gating variables, each exclusively owned by this channel"`

	nodes int
}

// NewChannel returns a channel with no gates for n nodes.
func NewChannel(name string, gbar, erev float64, n int) (*Channel, error) {
	if err := checkNodes(n); err != nil {
		return nil, fmt.Errorf("channel %s: %w", name, err)
	}
	if !(gbar >= 0) {
		return nil, fmt.Errorf("chans: channel %s: Gbar must be >= 0, got %v", name, gbar)
	}
	return &Channel{Name: name, Gbar: gbar, Erev: erev, nodes: n}, nil
}

// NNodes returns the number of nodes.
func (ch *Channel) NNodes() int {
	return ch.nodes
}

// AddGate adds a new gate to the channel, created for the channel's node count.
func (ch *Channel) AddGate(name string, alpha, beta RateFunc, power int, init float64) (*Gate, error) {
	gt, err := NewGate(name, alpha, beta, power, init, ch.nodes)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	ch.Gates = append(ch.Gates, gt)
	return gt, nil
}

// Gate returns the gate with the given name, or nil if not found.
func (ch *Channel) Gate(name string) *Gate {
	for _, gt := range ch.Gates {
		if gt.Name == name {
			return gt
		}
	}
	return nil
}

// InitGates resets every gate to its initial state.
func (ch *Channel) InitGates() {
	for _, gt := range ch.Gates {
		gt.InitState()
	}
}

// Update advances all gates of the channel by dt seconds using the same
// voltage snapshot.  Either all gates are updated or, on a
// configuration error, none are.
func (ch *Channel) Update(vm []float64, dt float64) error {
	if err := ch.checkUpdate(vm, dt); err != nil {
		return err
	}
	for _, gt := range ch.Gates {
		if err := gt.Update(vm, dt); err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
	}
	return nil
}

// UpdateRange is Update restricted to nodes [st, ed).
func (ch *Channel) UpdateRange(vm []float64, dt float64, st, ed int) error {
	if err := ch.checkUpdate(vm, dt); err != nil {
		return err
	}
	for _, gt := range ch.Gates {
		if err := gt.UpdateRange(vm, dt, st, ed); err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
	}
	return nil
}

func (ch *Channel) checkUpdate(vm []float64, dt float64) error {
	if err := checkLen("voltage", len(vm), ch.nodes); err != nil {
		return fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	if !(dt >= 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("channel %s: %w: got %v", ch.Name, ErrTimestep, dt)
	}
	return nil
}

// Open returns the open-probability factor Prod_i(state_i ^ power_i)
// for each node, which is 1 when the channel has no gates.
func (ch *Channel) Open() []float64 {
	open := make([]float64, ch.nodes)
	ch.OpenRange(open, 0, ch.nodes)
	return open
}

// OpenRange sets open[st:ed] to the open-probability factor.
func (ch *Channel) OpenRange(open []float64, st, ed int) {
	for i := st; i < ed; i++ {
		open[i] = 1
	}
	for _, gt := range ch.Gates {
		gt.OpenRange(open, st, ed)
	}
}

// Current returns the transmembrane current Gbar * open * (V - Erev)
// at each node for the given voltages (volts), using the gate states as
// they are at the time of the call.  It does not modify any state.
func (ch *Channel) Current(vm []float64) ([]float64, error) {
	cur := make([]float64, ch.nodes)
	if err := ch.CurrentTo(vm, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// CurrentTo is Current writing into cur, which must have one value per node.
func (ch *Channel) CurrentTo(vm, cur []float64) error {
	if err := checkLen("voltage", len(vm), ch.nodes); err != nil {
		return fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	if err := checkLen("current", len(cur), ch.nodes); err != nil {
		return fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	ch.CurrentRange(vm, cur, 0, ch.nodes)
	return nil
}

// CurrentRange computes the current for nodes [st, ed) into cur,
// without checking vector lengths.
func (ch *Channel) CurrentRange(vm, cur []float64, st, ed int) {
	ch.OpenRange(cur, st, ed)
	for i := st; i < ed; i++ {
		cur[i] = ch.Gbar * cur[i] * (vm[i] - ch.Erev)
	}
}
