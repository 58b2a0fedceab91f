/*
 * UM32 - Fetch-decode-dispatch loop.
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

package cpu

import "github.com/rcornwell/um32/emu/opcode"

// fetch reads the word at the finger from array 0, translating a pool miss
// into a FingerOutOfRange trap rather than a BadOffset one: the finger
// walking off the end of the program is a different failure than a guest
// program indexing badly.
func (m *Machine) fetch() (uint32, *TrapError) {
	word, err := m.Pool.Get(0, m.Finger)
	if err != nil {
		return 0, trap(FingerOutOfRange, 0xff, m.Finger, "finger out of range: %v", err)
	}
	return word, nil
}

// Step executes exactly one instruction: fetch, decode, dispatch, and
// (unless the operator already retargeted it) advance the finger. Returns
// the trap that stopped the machine, or nil if it halted cleanly or is
// still runnable.
func (m *Machine) Step() *TrapError {
	if m.Halted {
		return nil
	}

	word, terr := m.fetch()
	if terr != nil {
		return terr
	}

	in := opcode.Decode(word)
	if in.Opcode > opcode.OpLoad || table[in.Opcode] == nil {
		return trap(IllegalOpcode, in.Opcode, m.Finger, "opcode %d is not defined", in.Opcode)
	}

	finger := m.Finger
	op := in.Opcode
	before := in.Opcode == opcode.OpLProg

	if m.Tracer != nil {
		m.Tracer.Instruction(finger, word, m.Regs)
	}

	if terr := table[op](m, in); terr != nil {
		return terr
	}

	// LPROG retargets the finger itself; every other operator advances past
	// the instruction it just ran.
	if !before {
		m.Finger++
	}
	return nil
}

// Run steps the machine until it halts or traps. Returns the trap, or nil
// on a clean halt via the HALT operator.
func (m *Machine) Run() *TrapError {
	for !m.Halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
