// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeCount is returned when a channel is configured with no nodes.
	ErrNodeCount = errors.New("chans: node count must be > 0")

	// ErrLength is returned when a voltage or output vector length does
	// not match the configured node count.
	ErrLength = errors.New("chans: vector length does not match node count")

	// ErrTimestep is returned for a negative or non-finite timestep.
	ErrTimestep = errors.New("chans: timestep must be finite and >= 0")

	// ErrSpecies is returned for an unknown channel species.
	ErrSpecies = errors.New("chans: unknown channel species")
)

// checkNodes returns ErrNodeCount if n is not a valid node count.
func checkNodes(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrNodeCount, n)
	}
	return nil
}

// checkLen returns ErrLength if the named vector is not n long.
func checkLen(what string, got, n int) error {
	if got != n {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrLength, what, got, n)
	}
	return nil
}
