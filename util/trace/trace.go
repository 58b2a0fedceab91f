/*
 * UM32 - Bit-mask gated tracing, one named category per concern.
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

// Package trace gates slog records by a named category bitmask, so a run
// with no categories enabled pays no logging cost on the hot dispatch path.
package trace

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const (
	Inst = 1 << iota
	Pool
	Console
)

var categoryName = map[string]int{
	"INST":    Inst,
	"POOL":    Pool,
	"CONSOLE": Console,
}

// Tracer gates Debugf calls against an enabled-category bitmask. The mask
// is mutex-guarded: the monitor's "trace" command can enable a category
// from the command goroutine while the runner goroutine is concurrently
// checking it on every dispatched instruction.
type Tracer struct {
	log  *slog.Logger
	mu   sync.Mutex
	mask int
}

// New creates a Tracer that logs to log, with no categories enabled.
func New(log *slog.Logger) *Tracer {
	return &Tracer{log: log}
}

// Enable turns on one named category ("INST", "POOL", "CONSOLE"), case
// insensitive. Unknown names are rejected so a typo fails loudly, whether
// it comes from the command line or the monitor's "trace" command.
func (t *Tracer) Enable(name string) error {
	bit, ok := categoryName[strings.ToUpper(name)]
	if !ok {
		return &unknownCategoryError{name}
	}
	t.mu.Lock()
	t.mask |= bit
	t.mu.Unlock()
	return nil
}

// EnabledByName reports whether the named category is currently turned on,
// returning false (rather than an error) for an unrecognized name.
func (t *Tracer) EnabledByName(name string) bool {
	bit, ok := categoryName[strings.ToUpper(name)]
	if !ok {
		return false
	}
	return t.Enabled(bit)
}

// Enabled reports whether category is currently turned on.
func (t *Tracer) Enabled(category int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mask&category != 0
}

// Debugf logs format/args under category, gated by the enabled mask. The
// record carries a "category" attribute so util/logger can mirror it to
// stderr only while that category is live.
func (t *Tracer) Debugf(category int, format string, args ...interface{}) {
	if !t.Enabled(category) {
		return
	}
	t.log.Debug(fmt.Sprintf(format, args...), "category", categoryLabel(category))
}

func categoryLabel(category int) string {
	for name, bit := range categoryName {
		if bit == category {
			return name
		}
	}
	return ""
}

type unknownCategoryError struct {
	name string
}

func (e *unknownCategoryError) Error() string {
	return "unknown trace category: " + e.name
}
