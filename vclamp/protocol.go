// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vclamp

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/emer/hhchans/chans"
)

// ErrDupSpecies is returned when a protocol lists a species twice: each
// channel has its own log columns, named by species.
var ErrDupSpecies = errors.New("vclamp: duplicate channel species")

// Protocol is a single-step voltage-clamp protocol: every node is held at
// Hold, stepped to Step at Onset for Duration, and returned to Hold until
// Total.  Node i is offset from the command voltage by i * Gradient.
type Protocol struct {

	// holding potential, in volts.  The catalog initial gate states are
	// the steady states at 0 V.
	Hold float64 `toml:"hold" def:"0"`

	// step potential, in volts
	Step float64 `toml:"step" def:"0.05"`

	// time at which the step starts, in seconds
	Onset float64 `toml:"onset" def:"0.002"`

	// duration of the step, in seconds
	Duration float64 `toml:"duration" def:"0.005"`

	// total simulated time, in seconds
	Total float64 `toml:"total" def:"0.015"`

	// integration timestep, in seconds
	Dt float64 `toml:"dt" def:"1e-05"`

	// number of cable nodes
	Nodes int `toml:"nodes" def:"1" min:"1"`

	// voltage offset per node index, in volts
	Gradient float64 `toml:"gradient" def:"0"`

	// channel species present on every node
	Species []chans.Species `toml:"species"`

	// number of parallel threads (go routines) over node ranges
	Threads int `toml:"threads" def:"1" min:"1"`
}

// NewProtocol returns a protocol with default parameters.
func NewProtocol() *Protocol {
	pr := &Protocol{}
	pr.Defaults()
	return pr
}

func (pr *Protocol) Defaults() {
	pr.Hold = 0
	pr.Step = 0.05
	pr.Onset = 0.002
	pr.Duration = 0.005
	pr.Total = 0.015
	pr.Dt = 1.0e-5
	pr.Nodes = 1
	pr.Gradient = 0
	pr.Species = chans.AllSpecies()
	pr.Threads = 1
}

// Validate returns an error describing the first invalid parameter.
func (pr *Protocol) Validate() error {
	switch {
	case pr.Nodes <= 0:
		return fmt.Errorf("vclamp: %w: nodes = %d", chans.ErrNodeCount, pr.Nodes)
	case !(pr.Dt > 0) || math.IsInf(pr.Dt, 1):
		return fmt.Errorf("vclamp: %w: dt = %v", chans.ErrTimestep, pr.Dt)
	case !(pr.Total >= 0):
		return fmt.Errorf("vclamp: total = %v must be >= 0", pr.Total)
	case pr.Onset < 0 || pr.Duration < 0:
		return fmt.Errorf("vclamp: onset = %v and duration = %v must be >= 0", pr.Onset, pr.Duration)
	case pr.Threads < 0:
		return fmt.Errorf("vclamp: threads = %d must be >= 0", pr.Threads)
	}
	var seen [chans.SpeciesN]bool
	for _, sp := range pr.Species {
		if sp < 0 || sp >= chans.SpeciesN {
			return fmt.Errorf("vclamp: %w: %d", chans.ErrSpecies, int(sp))
		}
		if seen[sp] {
			return fmt.Errorf("%w: %v listed more than once", ErrDupSpecies, sp)
		}
		seen[sp] = true
	}
	return nil
}

// NSteps returns the number of integration steps to cover Total.
func (pr *Protocol) NSteps() int {
	return int(math.Round(pr.Total / pr.Dt))
}

// Command returns the command voltage at time t, in volts.
func (pr *Protocol) Command(t float64) float64 {
	if t >= pr.Onset && t < pr.Onset+pr.Duration {
		return pr.Step
	}
	return pr.Hold
}

// VoltageAt writes the voltage of every node at time t into vm.
func (pr *Protocol) VoltageAt(t float64, vm []float64) {
	cmd := pr.Command(t)
	for i := range vm {
		vm[i] = cmd + float64(i)*pr.Gradient
	}
}

// LoadProtocol reads a protocol from a TOML file.  Parameters missing
// from the file keep their default values.
func LoadProtocol(path string) (*Protocol, error) {
	pr := NewProtocol()
	if _, err := toml.DecodeFile(path, pr); err != nil {
		return nil, fmt.Errorf("vclamp: load protocol %s: %w", path, err)
	}
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	return pr, nil
}

// SaveProtocol writes the protocol to a TOML file.
func (pr *Protocol) SaveProtocol(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vclamp: save protocol: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(pr)
}
