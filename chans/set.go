// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Set is the collection of channels present on one cable, all sharing the
// same node count.  It implements the host calling convention: every gate
// of every channel is updated with one voltage snapshot before any
// current is read.
type Set struct {
	Chans []*Channel `desc:"channels, in the order they were added"`

	nodes int
	tmp   []float64
}

// NewSet returns a set for n nodes containing a new channel for each species.
func NewSet(n int, sps ...Species) (*Set, error) {
	if err := checkNodes(n); err != nil {
		return nil, err
	}
	cs := &Set{nodes: n, tmp: make([]float64, n)}
	for _, sp := range sps {
		ch, err := New(sp, n)
		if err != nil {
			return nil, err
		}
		cs.Chans = append(cs.Chans, ch)
	}
	return cs, nil
}

// NNodes returns the number of nodes.
func (cs *Set) NNodes() int {
	return cs.nodes
}

// Add adds a channel, which must have the set's node count.
func (cs *Set) Add(ch *Channel) error {
	if err := checkLen("channel "+ch.Name, ch.NNodes(), cs.nodes); err != nil {
		return err
	}
	cs.Chans = append(cs.Chans, ch)
	return nil
}

// Channel returns the channel with the given name, or nil if not found.
func (cs *Set) Channel(name string) *Channel {
	for _, ch := range cs.Chans {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// InitGates resets every gate of every channel to its initial state.
func (cs *Set) InitGates() {
	for _, ch := range cs.Chans {
		ch.InitGates()
	}
}

// Update advances every gate of every channel by dt seconds.
func (cs *Set) Update(vm []float64, dt float64) error {
	for _, ch := range cs.Chans {
		if err := ch.Update(vm, dt); err != nil {
			return err
		}
	}
	return nil
}

// Current writes the total current over all channels at each node into cur.
func (cs *Set) Current(vm, cur []float64) error {
	if err := checkLen("current", len(cur), cs.nodes); err != nil {
		return err
	}
	for i := range cur {
		cur[i] = 0
	}
	for _, ch := range cs.Chans {
		if err := ch.CurrentTo(vm, cs.tmp); err != nil {
			return err
		}
		floats.Add(cur, cs.tmp)
	}
	return nil
}

// Step updates all gates by dt at vm and then writes the total current
// at vm into cur: the full per-step contribution for the cable solver.
func (cs *Set) Step(vm []float64, dt float64, cur []float64) error {
	if err := cs.Update(vm, dt); err != nil {
		return fmt.Errorf("chans: set update: %w", err)
	}
	return cs.Current(vm, cur)
}
