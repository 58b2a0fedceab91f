/*
 * UM32 - Machine state: the register file, the array pool, the execution
 * finger, and the operator dispatch table that ties them together.
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

// Package cpu implements the UM-32 register file, array pool wiring, and
// fetch-decode-dispatch loop.
package cpu

import (
	"github.com/rcornwell/um32/emu/opcode"
	"github.com/rcornwell/um32/emu/pool"
)

// Console is the device a machine writes OUTPUT words to and reads INPUT
// words from. Satisfied by emu/console's terminal and byte-stream consoles.
type Console interface {
	PutByte(b byte) error
	GetByte() (b byte, eof bool, err error)
}

// Tracer receives one call per dispatched instruction, made before the
// operator runs (so a trapping instruction is traced too), gated by the caller on
// whatever category bitmask it likes. A nil Tracer disables tracing.
type Tracer interface {
	Instruction(finger uint32, word uint32, regs [8]uint32)
}

const numRegs = 8

// step implementations index this table by opcode. Mirrors the historic
// 256-entry dispatch table shape, sized down to the 14 real operators.
type stepFunc func(m *Machine, in opcode.Step) *TrapError

var table [opcode.OpLoad + 1]stepFunc

func init() {
	table[opcode.OpMoveIf] = opMoveIf
	table[opcode.OpIndex] = opIndex
	table[opcode.OpStore] = opStore
	table[opcode.OpAdd] = opAdd
	table[opcode.OpMult] = opMult
	table[opcode.OpDiv] = opDiv
	table[opcode.OpNand] = opNand
	table[opcode.OpHalt] = opHalt
	table[opcode.OpAlloc] = opAlloc
	table[opcode.OpFree] = opFree
	table[opcode.OpOutput] = opOutput
	table[opcode.OpInput] = opInput
	table[opcode.OpLProg] = opLProg
	table[opcode.OpLoad] = opLoad
}

// Machine is one independent UM-32 instance: register file, array pool,
// execution finger, and the console it talks to.
type Machine struct {
	Regs    [numRegs]uint32
	Pool    *pool.Pool
	Finger  uint32
	Console Console
	Tracer  Tracer
	Halted  bool
}

// New creates a machine with program loaded as array 0 and the finger at 0.
func New(program []uint32, console Console) *Machine {
	p := pool.New()
	p.LoadProgram(program)
	return &Machine{
		Pool:    p,
		Console: console,
	}
}
