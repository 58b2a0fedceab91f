/*
 * UM32 - VM Runner: drives a Machine's dispatch loop on its own goroutine,
 * with Start/Run/Step/Pause/Stop lifecycle control.
 *
 * Copyright 2026, UM32 Project Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package runner drives a cpu.Machine's dispatch loop on its own goroutine,
// so a monitor or CLI can pause, single-step, and resume it without racing
// the machine's own state.
package runner

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/um32/emu/cpu"
	"github.com/rcornwell/um32/util/trace"
)

// State reports what the runner is currently doing.
type State int

const (
	Paused State = iota
	Running
	Halted
	Trapped
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Trapped:
		return "trapped"
	default:
		return "unknown"
	}
}

type command int

const (
	cmdRun command = iota
	cmdStep
	cmdPause
	cmdStop
	cmdSetBreak
	cmdClearBreak
)

type request struct {
	cmd   command
	count int           // for cmdStep: how many instructions
	arg   uint32        // for cmdSetBreak: the finger offset to break on
	reply chan struct{} // closed once the request has been applied
}

// Runner owns a Machine and a control goroutine. Only the control goroutine
// steps the machine; callers drive it through the channel-based methods
// below and read state, trap and tracer under mu.
type Runner struct {
	wg      sync.WaitGroup
	machine *cpu.Machine
	log     *slog.Logger
	reqs    chan request
	done    chan struct{}

	mu    sync.Mutex // guards state, trap and tracer for concurrent access
	state State
	trap  *cpu.TrapError

	tracer *trace.Tracer // set via SetTracer; nil means no runtime trace control
}

// New creates a runner around machine, not yet started.
func New(machine *cpu.Machine, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		machine: machine,
		log:     log,
		reqs:    make(chan request),
		done:    make(chan struct{}),
		state:   Paused,
	}
}

// Start launches the control goroutine. Call Stop to shut it down.
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop halts the control goroutine and waits (up to one second) for it to
// exit cleanly.
func (r *Runner) Stop() {
	close(r.done)
	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		r.log.Warn("timed out waiting for VM runner to stop")
	}
}

// Run requests the machine run to completion (HALT or trap).
func (r *Runner) Run() {
	r.send(request{cmd: cmdRun})
}

// Step requests exactly count instructions be executed, then pauses.
func (r *Runner) Step(count int) {
	r.send(request{cmd: cmdStep, count: count})
}

// Pause requests a running machine stop after its current instruction.
func (r *Runner) Pause() {
	r.send(request{cmd: cmdPause})
}

// SetBreakpoint requests the machine pause as soon as the finger reaches
// offset, while running via Run (not Step). Replaces any prior breakpoint.
func (r *Runner) SetBreakpoint(offset uint32) {
	r.send(request{cmd: cmdSetBreak, arg: offset})
}

// ClearBreakpoint removes any breakpoint set by SetBreakpoint.
func (r *Runner) ClearBreakpoint() {
	r.send(request{cmd: cmdClearBreak})
}

// SetTracer installs the Tracer whose categories EnableTrace toggles at
// runtime. Safe to call before or after Start.
func (r *Runner) SetTracer(tr *trace.Tracer) {
	r.mu.Lock()
	r.tracer = tr
	r.mu.Unlock()
}

// EnableTrace turns on a named trace category on the installed Tracer. It
// talks to the Tracer directly rather than through the request channel:
// Tracer's own mutex already makes this safe to call while the machine is
// running.
func (r *Runner) EnableTrace(category string) error {
	r.mu.Lock()
	tr := r.tracer
	r.mu.Unlock()
	if tr == nil {
		return errors.New("no tracer installed")
	}
	return tr.Enable(category)
}

func (r *Runner) send(req request) {
	req.reply = make(chan struct{})
	select {
	case r.reqs <- req:
		<-req.reply
	case <-r.done:
	}
}

// State reports the runner's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastTrap returns the trap that stopped the machine, or nil.
func (r *Runner) LastTrap() *cpu.TrapError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trap
}

// Machine exposes the underlying machine for introspection (registers,
// pool, finger) by callers that already know not to mutate it concurrently
// with a running loop.
func (r *Runner) Machine() *cpu.Machine {
	return r.machine
}

func (r *Runner) setState(s State, trap *cpu.TrapError) {
	r.mu.Lock()
	r.state = s
	r.trap = trap
	r.mu.Unlock()
}

func (r *Runner) loop() {
	defer r.wg.Done()
	running := false
	stepsLeft := 0 // 0 while cmdRun means "until halt or trap"; >0 bounds a Step request
	hasBreak := false
	breakAt := uint32(0)

	for {
		if running {
			terr := r.machine.Step()
			switch {
			case terr != nil:
				r.setState(Trapped, terr)
				r.log.Error("trap", "reason", terr.Reason.String(), "detail", terr.Error())
				running = false
			case r.machine.Halted:
				r.setState(Halted, nil)
				running = false
			case stepsLeft > 0:
				stepsLeft--
				if stepsLeft == 0 {
					running = false
					r.setState(Paused, nil)
				}
			}

			// A breakpoint only interrupts a free-running machine (Run),
			// not a bounded Step request, which already has its own stop.
			if running && stepsLeft == 0 && hasBreak && r.machine.Finger == breakAt {
				running = false
				r.setState(Paused, nil)
			}
		}

		// Requests are accepted between instructions even while running, so
		// Pause (or a new Step/breakpoint) takes effect mid-run.
		reqs := r.reqs

		select {
		case <-r.done:
			return
		case req := <-reqs:
			r.applyRequest(req, &running, &stepsLeft, &hasBreak, &breakAt)
		default:
			if running {
				continue
			}
			select {
			case <-r.done:
				return
			case req := <-r.reqs:
				r.applyRequest(req, &running, &stepsLeft, &hasBreak, &breakAt)
			}
		}
	}
}

func (r *Runner) applyRequest(req request, running *bool, stepsLeft *int, hasBreak *bool, breakAt *uint32) {
	switch req.cmd {
	case cmdRun:
		if !r.machine.Halted {
			*running = true
			*stepsLeft = 0
			r.setState(Running, nil)
		}
	case cmdStep:
		if !r.machine.Halted {
			*running = true
			*stepsLeft = req.count
			r.setState(Running, nil)
		}
	case cmdPause:
		*running = false
		if !r.machine.Halted {
			r.setState(Paused, nil)
		}
	case cmdStop:
		*running = false
	case cmdSetBreak:
		*hasBreak = true
		*breakAt = req.arg
	case cmdClearBreak:
		*hasBreak = false
	}
	close(req.reply)
}
