/*
 * UM32 - Instruction codec: decode a platter into an operator and its
 * operands; encode the inverse, used only by the assembler and tests.
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

package opcode

const (
	OpMoveIf = 0
	OpIndex  = 1
	OpStore  = 2
	OpAdd    = 3
	OpMult   = 4
	OpDiv    = 5
	OpNand   = 6
	OpHalt   = 7
	OpAlloc  = 8
	OpFree   = 9
	OpOutput = 10
	OpInput  = 11
	OpLProg  = 12
	OpLoad   = 13

	maxOpcode = OpLoad
)

// Step is a decoded instruction: the operator plus whichever operand fields
// it uses. imm is meaningful only for OpLoad.
type Step struct {
	Opcode uint8
	A, B, C uint8
	Imm    uint32
}

// Bits extracts a length-l field of w starting at bit `start`, counting from
// the most significant bit (bit 31), zero-based. The field is returned
// right-aligned, e.g. Bits(0b1101, 28, 3) == 0b110 == 6.
func Bits(w uint32, start, length int) uint32 {
	shift := 32 - start - length
	mask := uint32(1)<<uint(length) - 1
	return (w >> uint(shift)) & mask
}

// Decode splits a platter into its operator and operands. The opcode is
// always the top 4 bits; everything else depends on whether it is 13.
func Decode(word uint32) Step {
	opcode := uint8(Bits(word, 0, 4))
	if opcode == OpLoad {
		return Step{
			Opcode: opcode,
			A:      uint8(Bits(word, 4, 3)),
			Imm:    Bits(word, 7, 25),
		}
	}
	return Step{
		Opcode: opcode,
		A:      uint8(Bits(word, 23, 3)),
		B:      uint8(Bits(word, 26, 3)),
		C:      uint8(Bits(word, 29, 3)),
	}
}

// EncodeStd builds a standard-shape instruction platter. Used only by the
// assembler and by tests; the operator set never calls it.
func EncodeStd(opcode, a, b, c uint8) uint32 {
	return uint32(opcode&0xf)<<28 | uint32(a&0x7)<<6 | uint32(b&0x7)<<3 | uint32(c&0x7)
}

// EncodeLoad builds a special-shape (opcode 13) instruction platter.
func EncodeLoad(a uint8, imm uint32) uint32 {
	return uint32(OpLoad)<<28 | uint32(a&0x7)<<25 | (imm & 0x1ffffff)
}
