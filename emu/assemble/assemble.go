/*
 * UM32 Assembler
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

// Package assembler turns UM-32 mnemonic source text into program images,
// one instruction per line. Labels are not supported: branch targets for
// LPROG are plain register values set up by the program itself.
package assembler

import (
	"errors"
	"strconv"
	"strings"

	op "github.com/rcornwell/um32/emu/opcode"
)

const (
	shapeStd = 1 + iota // "OP ra, rb, rc"
	shapeA               // "OP ra" (FREE, INPUT take rc; encoded as shapeC)
	shapeC                // "OP rc"
	shapeAB               // "OP rb, rc" (ALLOC, LPROG)
	shapeNone             // "OP" (HALT)
	shapeLoad             // "OP ra, imm"
)

type opDef struct {
	code  uint8
	shape int
}

var opMap = map[string]opDef{
	"MOVEIF": {op.OpMoveIf, shapeStd},
	"INDEX":  {op.OpIndex, shapeStd},
	"ASTORE": {op.OpStore, shapeStd},
	"ADD":    {op.OpAdd, shapeStd},
	"MULT":   {op.OpMult, shapeStd},
	"DIV":    {op.OpDiv, shapeStd},
	"NAND":   {op.OpNand, shapeStd},
	"HALT":   {op.OpHalt, shapeNone},
	"ALLOC":  {op.OpAlloc, shapeAB},
	"FREE":   {op.OpFree, shapeC},
	"OUTPUT": {op.OpOutput, shapeC},
	"INPUT":  {op.OpInput, shapeC},
	"LPROG":  {op.OpLProg, shapeAB},
	"LOAD":   {op.OpLoad, shapeLoad},
}

// Assemble encodes a single line of UM-32 source ("OP ra, rb, rc" and its
// per-opcode variants) into one instruction word.
func Assemble(line string) (uint32, error) {
	name, rest := getName(line)
	def, ok := opMap[strings.ToUpper(name)]
	if !ok {
		return 0, errors.New("undefined opcode " + name)
	}

	switch def.shape {
	case shapeNone:
		if skipSpace(rest) != "" {
			return 0, errors.New("HALT takes no operands")
		}
		return op.EncodeStd(def.code, 0, 0, 0), nil

	case shapeC:
		c, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		if skipSpace(rest) != "" {
			return 0, errors.New(name + ": extra data after operand")
		}
		return op.EncodeStd(def.code, 0, 0, c), nil

	case shapeAB:
		b, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		rest, err = expectComma(rest)
		if err != nil {
			return 0, err
		}
		c, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		if skipSpace(rest) != "" {
			return 0, errors.New(name + ": extra data after operand")
		}
		return op.EncodeStd(def.code, 0, b, c), nil

	case shapeLoad:
		a, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		rest, err = expectComma(rest)
		if err != nil {
			return 0, err
		}
		imm, rest, err := getImmediate(rest, 0x1ffffff)
		if err != nil {
			return 0, err
		}
		if skipSpace(rest) != "" {
			return 0, errors.New(name + ": extra data after operand")
		}
		return op.EncodeLoad(a, imm), nil

	default: // shapeStd
		a, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		rest, err = expectComma(rest)
		if err != nil {
			return 0, err
		}
		b, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		rest, err = expectComma(rest)
		if err != nil {
			return 0, err
		}
		c, rest, err := getReg(rest)
		if err != nil {
			return 0, err
		}
		if skipSpace(rest) != "" {
			return 0, errors.New(name + ": extra data after operand")
		}
		return op.EncodeStd(def.code, a, b, c), nil
	}
}

// Program assembles a whole source text, one instruction per non-blank,
// non-comment line, into a program image suitable for pool.LoadProgram.
func Program(source string) ([]uint32, error) {
	var words []uint32
	for n, line := range strings.Split(source, "\n") {
		line = stripComment(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		word, err := Assemble(line)
		if err != nil {
			return nil, errors.New("line " + strconv.Itoa(n+1) + ": " + err.Error())
		}
		words = append(words, word)
	}
	return words, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

func getName(s string) (string, string) {
	s = skipSpace(s)
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func getReg(s string) (uint8, string, error) {
	s = skipSpace(s)
	if len(s) < 2 || (s[0] != 'R' && s[0] != 'r') {
		return 0, s, errors.New("expected register, got " + firstToken(s))
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[1:i])
	if err != nil || n < 0 || n > 7 {
		return 0, s, errors.New("register out of range: " + s[:i])
	}
	return uint8(n), s[i:], nil
}

func getImmediate(s string, max uint32) (uint32, string, error) {
	s = skipSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, errors.New("expected immediate value, got " + firstToken(s))
	}
	n, err := strconv.ParseUint(s[:i], 10, 32)
	if err != nil || uint32(n) > max {
		return 0, s, errors.New("immediate out of range: " + s[:i])
	}
	return uint32(n), s[i:], nil
}

func expectComma(s string) (string, error) {
	s = skipSpace(s)
	if s == "" || s[0] != ',' {
		return s, errors.New("expected ',', got " + firstToken(s))
	}
	return s[1:], nil
}

func firstToken(s string) string {
	s = skipSpace(s)
	if s == "" {
		return "end of line"
	}
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i]
}
