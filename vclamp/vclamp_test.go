// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vclamp

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/hhchans/chans"
)

func TestHoldAtRest(t *testing.T) {
	pr := NewProtocol()
	pr.Step = pr.Hold
	pr.Species = []chans.Species{chans.Potassium, chans.Sodium, chans.Leakage}
	rn, err := NewRunner(pr, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rn.Close()
	if err := rn.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, ch := range rn.Set.Chans {
		for _, gt := range ch.Gates {
			if dif := math.Abs(gt.State[0] - gt.Init); dif > 1.0e-5 {
				t.Errorf("%s %s drifted from initial state at 0 V: %v vs %v\n", ch.Name, gt.Name, gt.State[0], gt.Init)
			}
		}
	}
	if rn.Violations() != 0 {
		t.Errorf("violations: %d, want 0\n", rn.Violations())
	}
}

func TestRunLog(t *testing.T) {
	pr := NewProtocol()
	rn, err := NewRunner(pr, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rn.Close()
	if err := rn.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	dt := rn.Log
	if dt.Rows != pr.NSteps() {
		t.Fatalf("log rows: %d, want %d\n", dt.Rows, pr.NSteps())
	}
	sawStep := false
	for row := 0; row < dt.Rows; row++ {
		v := dt.CellFloat("V", row)
		if v != pr.Hold && v != pr.Step {
			t.Errorf("row %d: V = %v, not a command voltage\n", row, v)
		}
		if v == pr.Step {
			sawStep = true
		}
		sum := 0.0
		for _, ch := range rn.Set.Chans {
			c := dt.CellFloat(ChanCol(ch), row)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("row %d: %s = %v\n", row, ChanCol(ch), c)
			}
			sum += c
		}
		if dif := math.Abs(sum - dt.CellFloat("I_total", row)); dif > 1e-9*math.Max(1, math.Abs(sum)) {
			t.Errorf("row %d: I_total %v != sum of channels %v\n", row, dt.CellFloat("I_total", row), sum)
		}
	}
	if !sawStep {
		t.Errorf("step voltage never applied\n")
	}
	if st, tm := dt.CellFloat("Step", 0), dt.CellFloat("Time", 0); st != 0 || tm != 0 {
		t.Errorf("first row: Step %v, Time %v, want 0, 0\n", st, tm)
	}
	for row := 0; row < dt.Rows; row++ {
		tm := dt.CellFloat("Time", row)
		if want := float64(row) * pr.Dt; tm != want {
			t.Fatalf("row %d: Time %v, want step start %v\n", row, tm, want)
		}
		if v := dt.CellFloat("V", row); v != pr.Command(tm) {
			t.Fatalf("row %d: V %v is not the command %v at Time %v\n", row, v, pr.Command(tm), tm)
		}
		if v := dt.CellFloat("V", row); v == pr.Step {
			if tm < pr.Onset || tm-pr.Onset >= pr.Dt {
				t.Errorf("first step row Time %v, want within one Dt of onset %v\n", tm, pr.Onset)
			}
			break
		}
	}
	var buf bytes.Buffer
	if err := WriteCSV(dt, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Sodium_m") {
		t.Errorf("CSV missing Sodium_m column\n")
	}
}

func TestThreadsMatch(t *testing.T) {
	run := func(threads int) *Runner {
		pr := NewProtocol()
		pr.Nodes = 7
		pr.Gradient = 0.005
		pr.Total = 0.004
		pr.Threads = threads
		rn, err := NewRunner(pr, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := rn.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		rn.Close()
		return rn
	}
	one := run(1)
	par := run(3)
	if par.NThreads != 3 {
		t.Fatalf("NThreads: %d, want 3\n", par.NThreads)
	}
	for i := range one.Cur {
		if one.Cur[i] != par.Cur[i] {
			t.Errorf("node %d: threaded current: %v, serial: %v\n", i, par.Cur[i], one.Cur[i])
		}
	}
	for ci, ch := range one.Set.Chans {
		for gi, gt := range ch.Gates {
			pgt := par.Set.Chans[ci].Gates[gi]
			for i := range gt.State {
				if gt.State[i] != pgt.State[i] {
					t.Errorf("%s %s node %d: threaded: %v, serial: %v\n", ch.Name, gt.Name, i, pgt.State[i], gt.State[i])
				}
			}
		}
	}
}

func TestTimers(t *testing.T) {
	for _, threads := range []int{1, 3} {
		pr := NewProtocol()
		pr.Nodes = 6
		pr.Total = 0.001
		pr.Threads = threads
		rn, err := NewRunner(pr, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := rn.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		fsecs := rn.FunSecs()
		for _, fn := range []string{"Update", "Current"} {
			if secs, ok := fsecs[fn]; !ok || secs < 0 {
				t.Errorf("threads %d: %s timer: %v, %v\n", threads, fn, secs, ok)
			}
		}
		if len(rn.ThrSecs()) != rn.NThreads {
			t.Errorf("threads %d: %d thread timers, want %d\n", threads, len(rn.ThrSecs()), rn.NThreads)
		}
		rn.Init()
		for fn, secs := range rn.FunSecs() {
			if secs != 0 {
				t.Errorf("threads %d: %s timer %v after Init, want 0\n", threads, fn, secs)
			}
		}
		for th, secs := range rn.ThrSecs() {
			if secs != 0 {
				t.Errorf("threads %d: thread %d timer %v after Init, want 0\n", threads, th, secs)
			}
		}
		rn.Close()
	}
}

func TestBuildThreads(t *testing.T) {
	pr := NewProtocol()
	pr.Nodes = 10
	pr.Threads = 4
	rn, err := NewRunner(pr, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rn.Close()
	want := [][2]int{{0, 3}, {3, 6}, {6, 8}, {8, 10}}
	for th, rg := range rn.ThrRange {
		if rg != want[th] {
			t.Errorf("thread %d range: %v, want %v\n", th, rg, want[th])
		}
	}
	pr.Nodes = 2
	pr.Threads = 8
	rn2, _ := NewRunner(pr, nil)
	defer rn2.Close()
	if rn2.NThreads != 2 {
		t.Errorf("NThreads with 2 nodes: %d, want 2\n", rn2.NThreads)
	}
}

func TestRunCancel(t *testing.T) {
	rn, err := NewRunner(NewProtocol(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rn.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rn.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled run: err = %v, want context.Canceled\n", err)
	}
	if rn.Time.Step != 0 {
		t.Errorf("canceled run took %d steps\n", rn.Time.Step)
	}
}

func TestInit(t *testing.T) {
	rn, err := NewRunner(NewProtocol(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rn.Close()
	for i := 0; i < 300; i++ {
		if err := rn.StepOnce(); err != nil {
			t.Fatal(err)
		}
	}
	rn.Init()
	if rn.Time.Step != 0 || rn.Time.Time != 0 || rn.Log.Rows != 0 {
		t.Errorf("Init did not reset time and log: %+v, rows: %d\n", rn.Time, rn.Log.Rows)
	}
}

func TestProtocolValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(pr *Protocol)
		want error
	}{
		{"nodes", func(pr *Protocol) { pr.Nodes = 0 }, chans.ErrNodeCount},
		{"dt", func(pr *Protocol) { pr.Dt = -1 }, chans.ErrTimestep},
		{"species", func(pr *Protocol) { pr.Species = []chans.Species{chans.SpeciesN} }, chans.ErrSpecies},
		{"dup species", func(pr *Protocol) { pr.Species = []chans.Species{chans.Sodium, chans.Potassium, chans.Sodium} }, ErrDupSpecies},
	}
	for _, tt := range tests {
		pr := NewProtocol()
		tt.mod(pr)
		if err := pr.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v\n", tt.name, err, tt.want)
		}
		if _, err := NewRunner(pr, nil); err == nil {
			t.Errorf("%s: NewRunner accepted invalid protocol\n", tt.name)
		}
	}
	pr := NewProtocol()
	pr.Total = -1
	if err := pr.Validate(); err == nil {
		t.Errorf("negative total accepted\n")
	}
}

func TestProtocolTOML(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "proto.toml")
	pr := NewProtocol()
	pr.Nodes = 4
	pr.Step = 0.03
	pr.Species = []chans.Species{chans.Sodium, chans.Potassium}
	if err := pr.SaveProtocol(fn); err != nil {
		t.Fatal(err)
	}
	ld, err := LoadProtocol(fn)
	if err != nil {
		t.Fatal(err)
	}
	if ld.Nodes != 4 || ld.Step != 0.03 || ld.Dt != pr.Dt {
		t.Errorf("loaded protocol: %+v, saved: %+v\n", ld, pr)
	}
	if len(ld.Species) != 2 || ld.Species[0] != chans.Sodium || ld.Species[1] != chans.Potassium {
		t.Errorf("loaded species: %v\n", ld.Species)
	}

	part := filepath.Join(dir, "part.toml")
	if err := os.WriteFile(part, []byte("nodes = 3\nspecies = [\"calcium\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ld, err = LoadProtocol(part)
	if err != nil {
		t.Fatal(err)
	}
	def := NewProtocol()
	if ld.Nodes != 3 || ld.Dt != def.Dt || ld.Total != def.Total {
		t.Errorf("partial protocol: %+v\n", ld)
	}
	if len(ld.Species) != 1 || ld.Species[0] != chans.Calcium {
		t.Errorf("partial species: %v\n", ld.Species)
	}

	dup := filepath.Join(dir, "dup.toml")
	if err := os.WriteFile(dup, []byte("species = [\"sodium\", \"Sodium\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProtocol(dup); !errors.Is(err, ErrDupSpecies) {
		t.Errorf("duplicate species: err = %v, want ErrDupSpecies\n", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("species = [\"Chloride\"]\n"), 0o644)
	if _, err := LoadProtocol(bad); err == nil {
		t.Errorf("Chloride species accepted\n")
	}
}

func TestTime(t *testing.T) {
	tm := NewTime()
	for i := 0; i < 1000; i++ {
		tm.StepInc()
	}
	if tm.Step != 1000 || math.Abs(tm.Time-0.01) > 1e-15 {
		t.Errorf("after 1000 steps: %+v\n", tm)
	}
	tm.Reset()
	if tm.Step != 0 || tm.Time != 0 || tm.Dt != 1.0e-5 {
		t.Errorf("after Reset: %+v\n", tm)
	}
}
