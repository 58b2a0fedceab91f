/*
 * UM32 - Trap taxonomy. Every fatal condition the dispatch loop can hit
 * is reported as one of these, never a panic.
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
	"fmt"

	"github.com/rcornwell/um32/emu/pool"
)

// Reason names why the dispatch loop stopped with a trap.
type Reason int

const (
	IllegalOpcode Reason = 1 + iota
	FingerOutOfRange
	BadIdentifier
	BadOffset
	DivisionByZero
	OutputRange
	OutOfMemory
)

var reasonName = map[Reason]string{
	IllegalOpcode:    "illegal opcode",
	FingerOutOfRange: "finger out of range",
	BadIdentifier:    "bad identifier",
	BadOffset:        "bad offset",
	DivisionByZero:   "division by zero",
	OutputRange:      "output range",
	OutOfMemory:      "out of memory",
}

func (r Reason) String() string {
	if s, ok := reasonName[r]; ok {
		return s
	}
	return "unknown trap"
}

// TrapError is the one and only way the core signals a fatal condition:
// never a panic, always a value the dispatch loop can log and exit on.
type TrapError struct {
	Reason Reason
	Opcode uint8
	Finger uint32
	Detail string
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("trap: %s (opcode %d, finger %d): %s", e.Reason, e.Opcode, e.Finger, e.Detail)
}

func trap(reason Reason, opcode uint8, finger uint32, format string, args ...interface{}) *TrapError {
	return &TrapError{Reason: reason, Opcode: opcode, Finger: finger, Detail: fmt.Sprintf(format, args...)}
}

// fromPoolError maps a pool.Error, which knows nothing about opcodes or the
// finger, onto a TrapError that does.
func fromPoolError(err *pool.Error, opcode uint8, finger uint32) *TrapError {
	var reason Reason
	switch err.Reason {
	case pool.BadIdentifier:
		reason = BadIdentifier
	case pool.BadOffset:
		reason = BadOffset
	case pool.OutOfMemory:
		reason = OutOfMemory
	default:
		reason = BadIdentifier
	}
	return &TrapError{Reason: reason, Opcode: opcode, Finger: finger, Detail: err.Error()}
}
