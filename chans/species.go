// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goki/ki/kit"
)

// Species are the ion channel species available from the catalog.
// Adding a species means adding a value here and a case in New.
type Species int

//go:generate stringer -type=Species

var KiT_Species = kit.Enums.AddEnum(SpeciesN, kit.NotBitFlag, nil)

func (ev Species) MarshalJSON() ([]byte, error) { return kit.EnumMarshalJSON(ev) }

// UnmarshalJSON decodes a species name, returning ErrSpecies for unknown names.
func (ev *Species) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrSpecies, b)
	}
	return ev.FromString(s)
}

// The channel species
const (
	// Potassium is the delayed-rectifier K+ channel with one n gate (n^4).
	Potassium Species = iota

	// Sodium is the fast Na+ channel with activation m (m^3) and
	// inactivation h (h^1) gates.
	Sodium

	// Calcium is the Ca2+ channel with activation q (q^2) and
	// inactivation r (r^1) gates.
	Calcium

	// Leakage is the ungated leak channel.
	Leakage

	SpeciesN
)

// FromString sets the species from its name, ignoring case.
func (ev *Species) FromString(s string) error {
	for sp := Potassium; sp < SpeciesN; sp++ {
		if strings.EqualFold(sp.String(), s) {
			*ev = sp
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrSpecies, s)
}

// ParseSpecies returns the species with the given name, ignoring case.
func ParseSpecies(s string) (Species, error) {
	var sp Species
	err := sp.FromString(s)
	return sp, err
}

// AllSpecies returns every species, in enum order.
func AllSpecies() []Species {
	sps := make([]Species, 0, SpeciesN)
	for sp := Potassium; sp < SpeciesN; sp++ {
		sps = append(sps, sp)
	}
	return sps
}

// MarshalText implements encoding.TextMarshaler, used for TOML config.
func (ev Species) MarshalText() ([]byte, error) {
	if ev < 0 || ev >= SpeciesN {
		return nil, fmt.Errorf("%w: %d", ErrSpecies, int(ev))
	}
	return []byte(ev.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used for TOML config.
func (ev *Species) UnmarshalText(b []byte) error {
	return ev.FromString(string(b))
}
