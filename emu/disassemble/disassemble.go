/*
 * UM32 Disassembler
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

// Package disassembler renders UM-32 instruction words as mnemonic text,
// for instruction tracing.
package disassembler

import (
	"fmt"

	op "github.com/rcornwell/um32/emu/opcode"
)

type opDef struct {
	name    string
	special bool // true for the orthography/LOAD shape
}

var opMap = map[uint8]opDef{
	op.OpMoveIf: {"MOVEIF", false},
	op.OpIndex:  {"INDEX", false},
	op.OpStore:  {"ASTORE", false},
	op.OpAdd:    {"ADD", false},
	op.OpMult:   {"MULT", false},
	op.OpDiv:    {"DIV", false},
	op.OpNand:   {"NAND", false},
	op.OpHalt:   {"HALT", false},
	op.OpAlloc:  {"ALLOC", false},
	op.OpFree:   {"FREE", false},
	op.OpOutput: {"OUTPUT", false},
	op.OpInput:  {"INPUT", false},
	op.OpLProg:  {"LPROG", false},
	op.OpLoad:   {"LOAD", true},
}

// Disassemble formats one instruction word as UM-32 assembly text.
func Disassemble(word uint32) string {
	in := op.Decode(word)
	def, ok := opMap[in.Opcode]
	if !ok {
		return fmt.Sprintf("DATA     %#010x", word)
	}
	if def.special {
		return fmt.Sprintf("%-8s R%d, %d", def.name, in.A, in.Imm)
	}
	switch in.Opcode {
	case op.OpHalt:
		return def.name
	case op.OpFree, op.OpInput:
		return fmt.Sprintf("%-8s R%d", def.name, in.C)
	case op.OpOutput:
		return fmt.Sprintf("%-8s R%d", def.name, in.C)
	case op.OpLProg:
		return fmt.Sprintf("%-8s R%d, R%d", def.name, in.B, in.C)
	case op.OpAlloc:
		return fmt.Sprintf("%-8s R%d, R%d", def.name, in.B, in.C)
	default:
		return fmt.Sprintf("%-8s R%d, R%d, R%d", def.name, in.A, in.B, in.C)
	}
}

// Mnemonic returns just the opcode's name, or false for an undefined opcode.
func Mnemonic(opcode uint8) (string, bool) {
	def, ok := opMap[opcode]
	if !ok {
		return "", false
	}
	return def.name, true
}
