/*
 * UM32 - Core dispatch and operator tests.
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
	"math"
	"testing"

	"github.com/rcornwell/um32/emu/opcode"
)

// fakeConsole is an in-memory Console double: it feeds bytes from in and
// collects everything written to out.
type fakeConsole struct {
	in  []byte
	pos int
	out []byte
}

func (c *fakeConsole) PutByte(b byte) error {
	c.out = append(c.out, b)
	return nil
}

func (c *fakeConsole) GetByte() (byte, bool, error) {
	if c.pos >= len(c.in) {
		return 0, true, nil
	}
	b := c.in[c.pos]
	c.pos++
	return b, false, nil
}

func newMachine(program []uint32) (*Machine, *fakeConsole) {
	con := &fakeConsole{}
	return New(program, con), con
}

func TestHaltStopsCleanlyAtFinger(t *testing.T) {
	prog := []uint32{opcode.EncodeStd(opcode.OpHalt, 0, 0, 0)}
	m, _ := newMachine(prog)
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if !m.Halted {
		t.Fatalf("machine did not halt")
	}
	if m.Finger != 1 {
		t.Errorf("finger = %d; want 1", m.Finger)
	}
}

func TestAddWrapsModulo32(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpAdd, 0, 1, 2),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	m.Regs[1] = math.MaxUint32
	m.Regs[2] = 2
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[0] != 1 {
		t.Errorf("R0 = %d; want 1 (wrapped)", m.Regs[0])
	}
}

func TestMultWrapsModulo32(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpMult, 0, 1, 2),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	m.Regs[1] = 1 << 20
	m.Regs[2] = 1 << 20
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[0] != 0 {
		t.Errorf("R0 = %d; want 0 (wrapped to zero)", m.Regs[0])
	}
}

func TestDivByZeroTraps(t *testing.T) {
	prog := []uint32{opcode.EncodeStd(opcode.OpDiv, 0, 1, 2)}
	m, _ := newMachine(prog)
	m.Regs[1] = 10
	m.Regs[2] = 0
	err := m.Run()
	if err == nil || err.Reason != DivisionByZero {
		t.Fatalf("Run() = %v; want DivisionByZero", err)
	}
}

func TestNandIsBitwiseNand(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpNand, 0, 1, 2),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	m.Regs[1] = 0xFFFFFFFF
	m.Regs[2] = 0xFFFFFFFF
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[0] != 0 {
		t.Errorf("NAND(-1,-1) = %#x; want 0", m.Regs[0])
	}
}

func TestNandLoadedOperands(t *testing.T) {
	prog := []uint32{
		opcode.EncodeLoad(0, 0b1100),
		opcode.EncodeLoad(1, 0b0101),
		opcode.EncodeStd(opcode.OpNand, 2, 0, 1),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[2] != 0xFFFFFFFB {
		t.Errorf("R2 = %#x; want 0xfffffffb", m.Regs[2])
	}
}

func TestMoveIfTakesOnNonzeroCondition(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpMoveIf, 0, 1, 2),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	m.Regs[0] = 99
	m.Regs[1] = 42
	m.Regs[2] = 0
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[0] != 99 {
		t.Errorf("R0 = %d; want 99 (unchanged, condition was zero)", m.Regs[0])
	}
}

func TestAllocIndexStoreFreeRoundTrip(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpAlloc, 0, 1, 2), // R1 <- alloc(R2)
		opcode.EncodeStd(opcode.OpStore, 1, 3, 4), // pool.Put(R1, R3, R4)
		opcode.EncodeStd(opcode.OpIndex, 0, 1, 3), // R0 <- pool.Get(R1, R3)
		opcode.EncodeStd(opcode.OpFree, 0, 0, 1),  // pool.Free(R1)
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	m.Regs[2] = 4     // length
	m.Regs[3] = 2     // offset
	m.Regs[4] = 0xABC // value

	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[0] != 0xABC {
		t.Errorf("R0 = %#x; want 0xABC", m.Regs[0])
	}
	if m.Pool.Live(m.Regs[1]) {
		t.Errorf("array %d should have been freed", m.Regs[1])
	}
}

func TestFreeOfZeroTrapsBadIdentifier(t *testing.T) {
	prog := []uint32{opcode.EncodeStd(opcode.OpFree, 0, 0, 7)}
	m, _ := newMachine(prog)
	m.Regs[7] = 0
	err := m.Run()
	if err == nil || err.Reason != BadIdentifier {
		t.Fatalf("Run() = %v; want BadIdentifier", err)
	}
}

func TestOutputRangeTraps(t *testing.T) {
	prog := []uint32{opcode.EncodeStd(opcode.OpOutput, 0, 0, 1)}
	m, _ := newMachine(prog)
	m.Regs[1] = 256
	err := m.Run()
	if err == nil || err.Reason != OutputRange {
		t.Fatalf("Run() = %v; want OutputRange", err)
	}
}

func TestOutputWritesConsoleByte(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpOutput, 0, 0, 1),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, con := newMachine(prog)
	m.Regs[1] = 'A'
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if string(con.out) != "A" {
		t.Errorf("console output = %q; want %q", con.out, "A")
	}
}

func TestInputEOFLoadsAllOnes(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpInput, 0, 0, 3),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, con := newMachine(prog)
	con.in = nil
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[3] != 0xFFFFFFFF {
		t.Errorf("R3 = %#x; want 0xFFFFFFFF on EOF", m.Regs[3])
	}
}

func TestLProgClonesAndRetargetsFinger(t *testing.T) {
	prog := []uint32{
		opcode.EncodeStd(opcode.OpAlloc, 0, 1, 2),
		opcode.EncodeStd(opcode.OpStore, 1, 3, 4),
		opcode.EncodeStd(opcode.OpLProg, 0, 1, 3),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0), // unreachable once retargeted past this
	}
	m, _ := newMachine(prog)
	m.Regs[2] = 1 // new array of length 1
	m.Regs[3] = 0 // offset, then later the new finger value
	m.Regs[4] = opcode.EncodeStd(opcode.OpHalt, 0, 0, 0)

	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if !m.Halted {
		t.Fatalf("expected clean halt after program replacement")
	}
	n, err := m.Pool.Len(0)
	if err != nil || n != 1 {
		t.Fatalf("array 0 length after LPROG = %d, %v; want 1, nil", n, err)
	}
}

func TestLoadSetsImmediate(t *testing.T) {
	prog := []uint32{
		opcode.EncodeLoad(5, 123456),
		opcode.EncodeStd(opcode.OpHalt, 0, 0, 0),
	}
	m, _ := newMachine(prog)
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if m.Regs[5] != 123456 {
		t.Errorf("R5 = %d; want 123456", m.Regs[5])
	}
}

func TestIllegalOpcodeTraps(t *testing.T) {
	prog := []uint32{0xE0000000} // opcode 14, undefined
	m, _ := newMachine(prog)
	err := m.Run()
	if err == nil || err.Reason != IllegalOpcode {
		t.Fatalf("Run() = %v; want IllegalOpcode", err)
	}
}

func TestFingerRunsOffEndOfProgram(t *testing.T) {
	prog := []uint32{opcode.EncodeStd(opcode.OpAdd, 0, 0, 0)}
	m, _ := newMachine(prog)
	err := m.Run()
	if err == nil || err.Reason != FingerOutOfRange {
		t.Fatalf("Run() = %v; want FingerOutOfRange", err)
	}
}
