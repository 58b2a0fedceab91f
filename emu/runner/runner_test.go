/*
 * UM32 - VM Runner lifecycle tests.
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

package runner

import (
	"testing"
	"time"

	"github.com/rcornwell/um32/emu/console"
	"github.com/rcornwell/um32/emu/cpu"
	op "github.com/rcornwell/um32/emu/opcode"
	"github.com/rcornwell/um32/util/trace"
)

func waitForState(t *testing.T, r *Runner, want State) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if r.State() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for state %s, got %s", want, r.State())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRunToHalt(t *testing.T) {
	prog := []uint32{
		op.EncodeStd(op.OpAdd, 0, 0, 0),
		op.EncodeStd(op.OpHalt, 0, 0, 0),
	}
	m := cpu.New(prog, console.NewByteStream(nil))
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	r.Run()
	waitForState(t, r, Halted)
}

func TestStepAdvancesExactCount(t *testing.T) {
	prog := []uint32{
		op.EncodeLoad(0, 1),
		op.EncodeLoad(1, 2),
		op.EncodeLoad(2, 3),
		op.EncodeStd(op.OpHalt, 0, 0, 0),
	}
	m := cpu.New(prog, console.NewByteStream(nil))
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	r.Step(2)
	waitForState(t, r, Paused)
	if m.Finger != 2 {
		t.Errorf("finger = %d; want 2 after stepping 2 instructions", m.Finger)
	}

	r.Run()
	waitForState(t, r, Halted)
}

func TestBreakpointPausesAFreeRunningMachine(t *testing.T) {
	prog := []uint32{
		op.EncodeStd(op.OpAdd, 0, 0, 0), // offset 0
		op.EncodeStd(op.OpAdd, 0, 0, 0), // offset 1
		op.EncodeStd(op.OpAdd, 0, 0, 0), // offset 2
		op.EncodeStd(op.OpHalt, 0, 0, 0),
	}
	m := cpu.New(prog, console.NewByteStream(nil))
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	r.SetBreakpoint(2)
	r.Run()
	waitForState(t, r, Paused)
	if m.Finger != 2 {
		t.Fatalf("finger = %d; want 2 at breakpoint", m.Finger)
	}

	r.ClearBreakpoint()
	r.Run()
	waitForState(t, r, Halted)
}

func TestBreakpointDoesNotInterruptAnExplicitStep(t *testing.T) {
	prog := []uint32{
		op.EncodeStd(op.OpAdd, 0, 0, 0),
		op.EncodeStd(op.OpAdd, 0, 0, 0),
		op.EncodeStd(op.OpHalt, 0, 0, 0),
	}
	m := cpu.New(prog, console.NewByteStream(nil))
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	r.SetBreakpoint(1)
	r.Step(2)
	waitForState(t, r, Paused)
	if m.Finger != 2 {
		t.Fatalf("finger = %d; want 2 (Step should ignore the breakpoint)", m.Finger)
	}
}

func TestEnableTraceWithoutATracerErrors(t *testing.T) {
	m := cpu.New([]uint32{op.EncodeStd(op.OpHalt, 0, 0, 0)}, console.NewByteStream(nil))
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	if err := r.EnableTrace("INST"); err == nil {
		t.Fatalf("expected error with no tracer installed")
	}
}

func TestEnableTraceTogglesInstalledTracer(t *testing.T) {
	m := cpu.New([]uint32{op.EncodeStd(op.OpHalt, 0, 0, 0)}, console.NewByteStream(nil))
	r := New(m, nil)
	tr := trace.New(nil)
	r.SetTracer(tr)
	r.Start()
	defer r.Stop()

	if tr.EnabledByName("INST") {
		t.Fatalf("INST already enabled before EnableTrace")
	}
	if err := r.EnableTrace("INST"); err != nil {
		t.Fatalf("EnableTrace: %v", err)
	}
	if !tr.EnabledByName("INST") {
		t.Fatalf("INST not enabled after EnableTrace")
	}
}

func TestTrapSetsTrappedState(t *testing.T) {
	prog := []uint32{op.EncodeStd(op.OpDiv, 0, 1, 2)}
	m := cpu.New(prog, console.NewByteStream(nil))
	m.Regs[1] = 9
	r := New(m, nil)
	r.Start()
	defer r.Stop()

	r.Run()
	waitForState(t, r, Trapped)
	if trap := r.LastTrap(); trap == nil || trap.Reason != cpu.DivisionByZero {
		t.Fatalf("LastTrap() = %v; want DivisionByZero", trap)
	}
}
