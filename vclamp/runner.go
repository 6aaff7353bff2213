// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vclamp drives a chans.Set under a voltage-clamp protocol: it plays
the role of the cable solver in the simplest possible way, owning the
voltage vector and calling the channels once per step with the required
ordering (all gates updated with one voltage snapshot, then currents read).
Results are logged into an etable.Table.
*/
package vclamp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/emer/emergent/v2/timer"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/hhchans/chans"
	"github.com/goki/ki/ints"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Runner runs a Protocol on a Set of channels.
type Runner struct {
	Proto   *Protocol     `desc:"clamp protocol"`
	Set     *chans.Set    `desc:"channels on every node"`
	Time    Time          `desc:"timing state"`
	StepSt  float64       `desc:"start time of the last step, at which Vm was commanded, in seconds"`
	Vm      []float64     `desc:"voltage of each node for the current step, in volts"`
	Cur     []float64     `desc:"total channel current at each node for the last step"`
	ChanCur [][]float64   `desc:"current of each channel at each node for the last step"`
	Log     *etable.Table `view:"no-inline" desc:"per-step log, node 0"`
	Logger  *zap.Logger   `view:"-"`

	NThreads int            `inactive:"+" desc:"number of parallel threads (go routines) over node ranges"`
	ThrRange [][2]int       `view:"-" desc:"node range [st, ed) of each thread"`
	ThrChans []chan func()  `view:"-" desc:"work channel of each thread"`
	WaitGp   sync.WaitGroup `view:"-" desc:"wait group for synchronizing threaded calls"`

	ThrTimes []timer.Time           `view:"-" desc:"timers for each thread, so you can see how evenly the workload is being distributed"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each phase of the step"`
}

// NewRunner validates the protocol and builds the channel set, threads and log.
func NewRunner(pr *Protocol, lg *zap.Logger) (*Runner, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	cs, err := chans.NewSet(pr.Nodes, pr.Species...)
	if err != nil {
		return nil, err
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	rn := &Runner{Proto: pr, Set: cs, Logger: lg}
	rn.Time.Dt = pr.Dt
	rn.Time.Reset()
	rn.Vm = make([]float64, pr.Nodes)
	rn.Cur = make([]float64, pr.Nodes)
	rn.ChanCur = make([][]float64, len(cs.Chans))
	for ci := range cs.Chans {
		rn.ChanCur[ci] = make([]float64, pr.Nodes)
	}
	rn.Log = &etable.Table{}
	ConfigLog(rn.Log, cs)
	rn.BuildThreads()
	rn.StartThreads()
	return rn, nil
}

// Init resets time, gate states and the log.
func (rn *Runner) Init() {
	rn.Time.Reset()
	rn.StepSt = 0
	rn.Set.InitGates()
	rn.Log.SetNumRows(0)
	rn.TimerReset()
}

// Close stops the thread workers.
func (rn *Runner) Close() {
	rn.StopThreads()
}

// Run runs the full protocol from the current time, logging every step.
// It stops early with the context error if ctx is done.
func (rn *Runner) Run(ctx context.Context) error {
	nsteps := rn.Proto.NSteps()
	rn.Logger.Info("vclamp run start",
		zap.Int("nodes", rn.Proto.Nodes),
		zap.Int("channels", len(rn.Set.Chans)),
		zap.Int("steps", nsteps),
		zap.Int("threads", rn.NThreads),
		zap.Float64("dt", rn.Proto.Dt))
	for rn.Time.Step < nsteps {
		if err := ctx.Err(); err != nil {
			rn.Logger.Warn("vclamp run canceled", zap.Int("step", rn.Time.Step), zap.Error(err))
			return fmt.Errorf("vclamp: run canceled at step %d: %w", rn.Time.Step, err)
		}
		if err := rn.StepOnce(); err != nil {
			return err
		}
		LogStep(rn.Log, rn)
	}
	rn.Logger.Info("vclamp run done",
		zap.Int("steps", rn.Time.Step),
		zap.Float64("time", rn.Time.Time),
		zap.Int64("violations", rn.Violations()))
	rn.TimerReport()
	return nil
}

// StepOnce sets the clamp voltage for the current time, updates all gates
// by Dt and computes the currents at that voltage.
func (rn *Runner) StepOnce() error {
	rn.StepSt = rn.Time.Time
	rn.Proto.VoltageAt(rn.StepSt, rn.Vm)
	if rn.NThreads <= 1 {
		rn.FunTimerStart("Update")
		err := rn.Set.Update(rn.Vm, rn.Time.Dt)
		rn.FunTimerStop("Update")
		if err != nil {
			return err
		}
		rn.FunTimerStart("Current")
		for i := range rn.Cur {
			rn.Cur[i] = 0
		}
		for ci, ch := range rn.Set.Chans {
			if err := ch.CurrentTo(rn.Vm, rn.ChanCur[ci]); err != nil {
				rn.FunTimerStop("Current")
				return err
			}
			floats.Add(rn.Cur, rn.ChanCur[ci])
		}
		rn.FunTimerStop("Current")
	} else {
		if err := rn.stepThreads(); err != nil {
			return err
		}
	}
	rn.Time.StepInc()
	return nil
}

// stepThreads runs the gate update phase on all node ranges, waits, and
// then runs the current phase, so no current is read from a partially
// updated channel.
func (rn *Runner) stepThreads() error {
	errs := make([]error, rn.NThreads)
	rn.ThrFun(func(th, st, ed int) {
		for _, ch := range rn.Set.Chans {
			if err := ch.UpdateRange(rn.Vm, rn.Time.Dt, st, ed); err != nil {
				errs[th] = err
				return
			}
		}
	}, "Update")
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	rn.ThrFun(func(th, st, ed int) {
		cur := rn.Cur[st:ed]
		for i := range cur {
			cur[i] = 0
		}
		for ci, ch := range rn.Set.Chans {
			ch.CurrentRange(rn.Vm, rn.ChanCur[ci], st, ed)
			floats.Add(cur, rn.ChanCur[ci][st:ed])
		}
	}, "Current")
	return nil
}

// Violations returns the total number of clamped gate states so far.
func (rn *Runner) Violations() int64 {
	var n int64
	for _, ch := range rn.Set.Chans {
		for _, gt := range ch.Gates {
			n += gt.Violations.Load()
		}
	}
	return n
}

//////////////////////////////////////////////////////////////////////////////////////
//  Threading infrastructure

// BuildThreads divides the nodes into contiguous ranges, one per thread.
func (rn *Runner) BuildThreads() {
	nn := rn.Proto.Nodes
	nthr := ints.MinInt(ints.MaxInt(rn.Proto.Threads, 1), nn)
	rn.NThreads = nthr
	rn.ThrRange = make([][2]int, nthr)
	rn.ThrTimes = make([]timer.Time, nthr)
	rn.FunTimes = make(map[string]*timer.Time)
	per := nn / nthr
	ext := nn % nthr
	st := 0
	for th := 0; th < nthr; th++ {
		ed := st + per
		if th < ext {
			ed++
		}
		rn.ThrRange[th] = [2]int{st, ed}
		st = ed
	}
}

// StartThreads starts up the computation threads, which monitor the channels for work
func (rn *Runner) StartThreads() {
	if rn.NThreads <= 1 {
		return
	}
	rn.ThrChans = make([]chan func(), rn.NThreads)
	for th := 0; th < rn.NThreads; th++ {
		rn.ThrChans[th] = make(chan func())
		go rn.ThrWorker(th, rn.ThrChans[th])
	}
}

// StopThreads stops the computation threads
func (rn *Runner) StopThreads() {
	for _, ch := range rn.ThrChans {
		close(ch)
	}
	rn.ThrChans = nil
}

// ThrWorker is the worker function run by the worker threads
func (rn *Runner) ThrWorker(th int, work chan func()) {
	for fun := range work {
		rn.ThrTimes[th].Start()
		fun()
		rn.ThrTimes[th].Stop()
		rn.WaitGp.Done()
	}
}

// ThrFun calls fun on the node range of each thread, in parallel, and
// waits for all of them to finish.  funame is the timer to charge.
func (rn *Runner) ThrFun(fun func(th, st, ed int), funame string) {
	rn.FunTimerStart(funame)
	if rn.NThreads <= 1 || rn.ThrChans == nil {
		for th, rg := range rn.ThrRange {
			rn.ThrTimes[th].Start()
			fun(th, rg[0], rg[1])
			rn.ThrTimes[th].Stop()
		}
	} else {
		for th := 0; th < rn.NThreads; th++ {
			th, rg := th, rn.ThrRange[th]
			rn.WaitGp.Add(1)
			rn.ThrChans[th] <- func() { fun(th, rg[0], rg[1]) }
		}
		rn.WaitGp.Wait()
	}
	rn.FunTimerStop(funame)
}

// ThrSecs returns the total seconds spent in each thread.
func (rn *Runner) ThrSecs() []float64 {
	secs := make([]float64, len(rn.ThrTimes))
	for th := range rn.ThrTimes {
		secs[th] = rn.ThrTimes[th].TotalSecs()
	}
	return secs
}

// FunSecs returns the total seconds spent in each phase of the step.
func (rn *Runner) FunSecs() map[string]float64 {
	secs := make(map[string]float64, len(rn.FunTimes))
	for fn, ft := range rn.FunTimes {
		secs[fn] = ft.TotalSecs()
	}
	return secs
}

// TimerReport logs the amount of time spent in each phase, and in each thread
func (rn *Runner) TimerReport() {
	fsecs := rn.FunSecs()
	fnms := make([]string, 0, len(fsecs))
	for fn := range fsecs {
		fnms = append(fnms, fn)
	}
	sort.Strings(fnms)
	fields := []zap.Field{zap.Int("threads", rn.NThreads)}
	tot := 0.0
	for _, fn := range fnms {
		fields = append(fields, zap.Float64(fn+"_secs", fsecs[fn]))
		tot += fsecs[fn]
	}
	fields = append(fields, zap.Float64("total_secs", tot))
	if rn.NThreads > 1 {
		fields = append(fields, zap.Float64s("thread_secs", rn.ThrSecs()))
	}
	rn.Logger.Info("vclamp timer report", fields...)
}

// TimerReset resets the per-thread and per-phase timers
func (rn *Runner) TimerReset() {
	for th := range rn.ThrTimes {
		rn.ThrTimes[th].Reset()
	}
	for _, ft := range rn.FunTimes {
		ft.Reset()
	}
}

// FunTimerStart starts function timer for given phase name -- ensures creation of timer
func (rn *Runner) FunTimerStart(fun string) {
	ft, ok := rn.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		rn.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (rn *Runner) FunTimerStop(fun string) {
	rn.FunTimes[fun].Stop()
}
