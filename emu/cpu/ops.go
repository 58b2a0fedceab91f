/*
 * UM32 - The fourteen operators. Each returns a non-nil TrapError when the
 * machine must stop; nil means the dispatch loop carries on. LPROG sets the
 * finger itself; after every other operator the loop advances it.
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

import (
	"github.com/rcornwell/um32/emu/opcode"
)

// opMoveIf: if C != 0, A gets B. Otherwise A is unchanged.
func opMoveIf(m *Machine, in opcode.Step) *TrapError {
	if m.Regs[in.C] != 0 {
		m.Regs[in.A] = m.Regs[in.B]
	}
	return nil
}

// opIndex: A gets the word at offset C within array B.
func opIndex(m *Machine, in opcode.Step) *TrapError {
	v, err := m.Pool.Get(m.Regs[in.B], m.Regs[in.C])
	if err != nil {
		return fromPoolError(err, in.Opcode, m.Finger)
	}
	m.Regs[in.A] = v
	return nil
}

// opStore: array A at offset B is set to C. The standard-instruction field
// named A doubles as the "array store" destination register here.
func opStore(m *Machine, in opcode.Step) *TrapError {
	if err := m.Pool.Put(m.Regs[in.A], m.Regs[in.B], m.Regs[in.C]); err != nil {
		return fromPoolError(err, in.Opcode, m.Finger)
	}
	return nil
}

// opAdd: A gets (B + C) mod 2^32.
func opAdd(m *Machine, in opcode.Step) *TrapError {
	m.Regs[in.A] = m.Regs[in.B] + m.Regs[in.C]
	return nil
}

// opMult: A gets (B * C) mod 2^32.
func opMult(m *Machine, in opcode.Step) *TrapError {
	m.Regs[in.A] = m.Regs[in.B] * m.Regs[in.C]
	return nil
}

// opDiv: A gets B / C, unsigned integer division.
func opDiv(m *Machine, in opcode.Step) *TrapError {
	if m.Regs[in.C] == 0 {
		return trap(DivisionByZero, in.Opcode, m.Finger, "division by zero in register %d", in.C)
	}
	m.Regs[in.A] = m.Regs[in.B] / m.Regs[in.C]
	return nil
}

// opNand: A gets the bitwise NAND of B and C.
func opNand(m *Machine, in opcode.Step) *TrapError {
	m.Regs[in.A] = ^(m.Regs[in.B] & m.Regs[in.C])
	return nil
}

// opHalt stops the machine immediately, with no trap.
func opHalt(m *Machine, in opcode.Step) *TrapError {
	m.Halted = true
	return nil
}

// opAlloc: B gets the identifier of a new zeroed array whose length is the
// value in register C. Register A is not used.
func opAlloc(m *Machine, in opcode.Step) *TrapError {
	id, err := m.Pool.Alloc(m.Regs[in.C])
	if err != nil {
		return fromPoolError(err, in.Opcode, m.Finger)
	}
	m.Regs[in.B] = id
	return nil
}

// opFree releases the array named by register C.
func opFree(m *Machine, in opcode.Step) *TrapError {
	if err := m.Pool.Free(m.Regs[in.C]); err != nil {
		return fromPoolError(err, in.Opcode, m.Finger)
	}
	return nil
}

// opOutput writes the low byte of register C to the console. Values above
// 255 are a fatal OutputRange trap.
func opOutput(m *Machine, in opcode.Step) *TrapError {
	v := m.Regs[in.C]
	if v > 255 {
		return trap(OutputRange, in.Opcode, m.Finger, "value %d out of byte range", v)
	}
	if err := m.Console.PutByte(byte(v)); err != nil {
		return trap(OutputRange, in.Opcode, m.Finger, "console write failed: %v", err)
	}
	return nil
}

// opInput reads one byte from the console into register C, or loads
// 0xFFFFFFFF on end of input.
func opInput(m *Machine, in opcode.Step) *TrapError {
	b, eof, err := m.Console.GetByte()
	if err != nil {
		return trap(OutputRange, in.Opcode, m.Finger, "console read failed: %v", err)
	}
	if eof {
		m.Regs[in.C] = 0xFFFFFFFF
		return nil
	}
	m.Regs[in.C] = uint32(b)
	return nil
}

// opLProg clones array B into array 0 (a no-op when B is already 0) and
// retargets the finger to the offset in register C.
func opLProg(m *Machine, in opcode.Step) *TrapError {
	if err := m.Pool.CloneIntoZero(m.Regs[in.B]); err != nil {
		return fromPoolError(err, in.Opcode, m.Finger)
	}
	m.Finger = m.Regs[in.C]
	return nil
}

// opLoad sets register A to the 25-bit immediate carried in the special
// instruction shape.
func opLoad(m *Machine, in opcode.Step) *TrapError {
	m.Regs[in.A] = in.Imm
	return nil
}
