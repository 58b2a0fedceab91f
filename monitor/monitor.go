/*
 * UM32 - Monitor command parser: a minimum-prefix-matched command line
 * for inspecting and controlling a running machine.
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

// Package monitor implements the interactive shell for stepping, inspecting,
// and resuming a UM-32 machine under an emu/runner.Runner.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/um32/emu/runner"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *runner.Runner) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "break", min: 1, process: doBreak},
	{name: "continue", min: 1, process: doContinue},
	{name: "step", min: 2, process: doStep},
	{name: "regs", min: 1, process: doRegs},
	{name: "mem", min: 1, process: doMem, complete: completeMem},
	{name: "trace", min: 2, process: doTrace},
	{name: "quit", min: 1, process: doQuit},
	{name: "help", min: 1, process: doHelp},
}

// ProcessCommand runs one command line against r, returning true when the
// monitor should exit.
func ProcessCommand(commandLine string, r *runner.Runner) (bool, error) {
	line := &cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(line, r)
}

// CompleteCmd returns tab-completion candidates for a partial command line.
func CompleteCmd(commandLine string) []string {
	line := &cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(line)
	}

	match := matchList(name)
	names := make([]string, len(match))
	for i, m := range match {
		names[i] = m.name
	}
	return names
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			match = append(match, c)
		}
	}
	return match
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= c.min
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && (l.line[l.pos] == ' ' || l.line[l.pos] == '\t') {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && l.line[l.pos] != ' ' && l.line[l.pos] != '\t' {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *cmdLine) getUint() (uint32, error) {
	word := l.getWord()
	if word == "" {
		return 0, errors.New("expected a number")
	}
	n, err := strconv.ParseUint(word, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", word)
	}
	return uint32(n), nil
}

func doBreak(l *cmdLine, r *runner.Runner) (bool, error) {
	if l.isEOL() {
		r.ClearBreakpoint()
		return false, nil
	}
	offset, err := l.getUint()
	if err != nil {
		return false, err
	}
	r.SetBreakpoint(offset)
	return false, nil
}

func doContinue(_ *cmdLine, r *runner.Runner) (bool, error) {
	r.Run()
	return false, nil
}

func doStep(l *cmdLine, r *runner.Runner) (bool, error) {
	count := 1
	if !l.isEOL() {
		n, err := l.getUint()
		if err != nil {
			return false, err
		}
		count = int(n)
	}
	r.Step(count)
	return false, nil
}

func doRegs(_ *cmdLine, r *runner.Runner) (bool, error) {
	m := r.Machine()
	for i, v := range m.Regs {
		fmt.Printf("R%d = %#010x\n", i, v)
	}
	fmt.Printf("finger = %#010x  state = %s\n", m.Finger, r.State())
	return false, nil
}

func doMem(l *cmdLine, r *runner.Runner) (bool, error) {
	id, err := l.getUint()
	if err != nil {
		return false, err
	}

	if l.isEOL() {
		arr, perr := r.Machine().Pool.Array(id)
		if perr != nil {
			return false, perr
		}
		for offset, v := range arr {
			fmt.Printf("[%d][%d] = %#010x\n", id, offset, v)
		}
		return false, nil
	}

	offset, err := l.getUint()
	if err != nil {
		return false, err
	}
	v, perr := r.Machine().Pool.Get(id, offset)
	if perr != nil {
		return false, perr
	}
	fmt.Printf("[%d][%d] = %#010x\n", id, offset, v)
	return false, nil
}

func completeMem(_ *cmdLine) []string {
	return nil
}

func doTrace(l *cmdLine, r *runner.Runner) (bool, error) {
	arg := l.getWord()
	if arg == "" {
		return false, errors.New("expected a trace category")
	}
	for _, name := range strings.Split(arg, ",") {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if err := r.EnableTrace(name); err != nil {
			return false, err
		}
	}
	return false, nil
}

func doQuit(_ *cmdLine, _ *runner.Runner) (bool, error) {
	return true, nil
}

func doHelp(_ *cmdLine, _ *runner.Runner) (bool, error) {
	fmt.Println("commands: break [offset], continue, step [n], regs, mem <id> [offset], " +
		"trace <category>[,...], quit, help")
	return false, nil
}
