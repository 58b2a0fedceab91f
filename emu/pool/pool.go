/*
 * UM32 - Array pool: the heterogeneous collection of word arrays a
 * running machine can allocate, amend, and abandon.
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

package pool

import "fmt"

// Reason identifies why a Pool operation failed, used to build a TrapError
// in the caller without the pool package knowing about trap taxonomy.
type Reason int

const (
	// BadIdentifier names an identifier that is not live, or identifier 0 for Free.
	BadIdentifier Reason = iota + 1
	// BadOffset names an offset outside the target array.
	BadOffset
	// OutOfMemory means Alloc could not fulfill the request under the configured cap.
	OutOfMemory
)

// Error reports a failed Pool operation.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func newError(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Pool owns the mapping from identifier to array of words. Identifier 0 is
// always present after LoadProgram and holds the currently executing program.
type Pool struct {
	arrays  map[uint32][]uint32
	nextID  uint64
	wordCap uint64 // 0 means unlimited
	words   uint64 // live word count, for the cap and for introspection
}

// New creates an empty pool. Call LoadProgram before using it as a machine's
// program store.
func New() *Pool {
	return &Pool{arrays: make(map[uint32][]uint32), nextID: 1}
}

// SetWordCap bounds the total number of live words across all arrays. Zero
// (the default) means unlimited.
func (p *Pool) SetWordCap(cap uint64) {
	p.wordCap = cap
}

// LoadProgram installs words as identifier 0, discarding any prior pool
// state and resetting the allocation counter.
func (p *Pool) LoadProgram(words []uint32) {
	p.arrays = make(map[uint32][]uint32)
	cp := make([]uint32, len(words))
	copy(cp, words)
	p.arrays[0] = cp
	p.nextID = 1
	p.words = uint64(len(cp))
}

// Alloc creates a new all-zero array of length n and returns its identifier.
func (p *Pool) Alloc(n uint32) (uint32, *Error) {
	if p.wordCap != 0 && p.words+uint64(n) > p.wordCap {
		return 0, newError(OutOfMemory, "alloc of %d words exceeds pool cap of %d words", n, p.wordCap)
	}
	if p.nextID > 0xffffffff {
		return 0, newError(OutOfMemory, "identifier space exhausted")
	}
	id := uint32(p.nextID)
	p.nextID++
	p.arrays[id] = make([]uint32, n)
	p.words += uint64(n)
	return id, nil
}

// Free releases id, dropping its contents. Identifier 0 can never be freed.
func (p *Pool) Free(id uint32) *Error {
	if id == 0 {
		return newError(BadIdentifier, "array 0 cannot be freed")
	}
	arr, ok := p.arrays[id]
	if !ok {
		return newError(BadIdentifier, "array %d is not live", id)
	}
	p.words -= uint64(len(arr))
	delete(p.arrays, id)
	return nil
}

// Get returns the word at offset in array id.
func (p *Pool) Get(id, offset uint32) (uint32, *Error) {
	arr, ok := p.arrays[id]
	if !ok {
		return 0, newError(BadIdentifier, "array %d is not live", id)
	}
	if offset >= uint32(len(arr)) {
		return 0, newError(BadOffset, "offset %d out of range for array %d of length %d", offset, id, len(arr))
	}
	return arr[offset], nil
}

// Array returns a copy of the full contents of array id, for introspection
// (the monitor's "mem <id>" with no offset prints every word this way).
func (p *Pool) Array(id uint32) ([]uint32, *Error) {
	arr, ok := p.arrays[id]
	if !ok {
		return nil, newError(BadIdentifier, "array %d is not live", id)
	}
	cp := make([]uint32, len(arr))
	copy(cp, arr)
	return cp, nil
}

// Put stores value at offset in array id.
func (p *Pool) Put(id, offset, value uint32) *Error {
	arr, ok := p.arrays[id]
	if !ok {
		return newError(BadIdentifier, "array %d is not live", id)
	}
	if offset >= uint32(len(arr)) {
		return newError(BadOffset, "offset %d out of range for array %d of length %d", offset, id, len(arr))
	}
	arr[offset] = value
	return nil
}

// Len returns the length of array id, or an error if it is not live.
func (p *Pool) Len(id uint32) (uint32, *Error) {
	arr, ok := p.arrays[id]
	if !ok {
		return 0, newError(BadIdentifier, "array %d is not live", id)
	}
	return uint32(len(arr)), nil
}

// CloneIntoZero replaces array 0 with an independent deep copy of id. A
// no-op when id is already 0, per spec.
func (p *Pool) CloneIntoZero(id uint32) *Error {
	if id == 0 {
		return nil
	}
	src, ok := p.arrays[id]
	if !ok {
		return newError(BadIdentifier, "array %d is not live", id)
	}
	old := p.arrays[0]
	p.words -= uint64(len(old))
	cp := make([]uint32, len(src))
	copy(cp, src)
	p.arrays[0] = cp
	p.words += uint64(len(cp))
	return nil
}

// WordCount returns the total number of live words across all arrays.
func (p *Pool) WordCount() uint64 {
	return p.words
}

// Live reports whether id currently names an array.
func (p *Pool) Live(id uint32) bool {
	_, ok := p.arrays[id]
	return ok
}
