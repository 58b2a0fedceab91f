/*
 * UM32 - Instruction codec tests.
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

import "testing"

func TestDecodeStandardRoundTrip(t *testing.T) {
	for op := uint8(0); op <= OpLProg; op++ {
		for a := uint8(0); a < 8; a++ {
			for b := uint8(0); b < 8; b++ {
				for c := uint8(0); c < 8; c++ {
					word := EncodeStd(op, a, b, c)
					step := Decode(word)
					if step.Opcode != op || step.A != a || step.B != b || step.C != c {
						t.Fatalf("Decode(EncodeStd(%d,%d,%d,%d)) = %+v", op, a, b, c, step)
					}
				}
			}
		}
	}
}

func TestDecodeLoadRoundTrip(t *testing.T) {
	imms := []uint32{0, 1, 10, 65, 0x1ffffff}
	for a := uint8(0); a < 8; a++ {
		for _, imm := range imms {
			word := EncodeLoad(a, imm)
			step := Decode(word)
			if step.Opcode != OpLoad || step.A != a || step.Imm != imm {
				t.Fatalf("Decode(EncodeLoad(%d,%#x)) = %+v", a, imm, step)
			}
		}
	}
}

func TestBitFieldExtraction(t *testing.T) {
	const word = uint32(0b1101)
	cases := []struct {
		start, length int
		want          uint32
	}{
		{28, 1, 1},
		{28, 2, 3},
		{28, 3, 6},
		{27, 4, 6},
		{27, 5, 13},
	}
	for _, c := range cases {
		got := Bits(word, c.start, c.length)
		if got != c.want {
			t.Errorf("Bits(%#b, %d, %d) = %d; want %d", word, c.start, c.length, got, c.want)
		}
	}
}

func TestMaxOpcodeIsLoad(t *testing.T) {
	// Sanity check: LOAD (13) is the highest defined opcode, since the core
	// treats anything above 13 as a trap rather than an operator.
	if maxOpcode != OpLoad {
		t.Fatalf("maxOpcode = %d; want %d", maxOpcode, OpLoad)
	}
}
