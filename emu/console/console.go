/*
 * UM32 - Console device: the machine's only I/O, a single raw unbuffered
 * byte stream in each direction.
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

// Package console implements the UM-32 console device: a raw terminal
// adapter for interactive use, and an in-memory byte-stream double for
// tests.
package console

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

const ctrlD = 0x04

// Terminal is the interactive console. It puts stdin into raw mode so the
// guest program sees every keystroke unbuffered and unechoed, translating
// CR to LF on input and leaving output untouched.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	oldState *term.State
	raw      bool
}

// NewTerminal wires stdin/stdout as the console. Call Start before using it
// interactively, and Stop to restore the terminal on exit.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

// Start switches stdin into raw mode. A failure (stdin is not a TTY, for
// example when input is piped) is not fatal: the console falls back to
// whatever line discipline stdin already has.
func (t *Terminal) Start() {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return
	}
	t.oldState = state
	t.raw = true
}

// Stop restores the terminal's original mode, if Start succeeded in
// changing it.
func (t *Terminal) Stop() {
	if t.raw {
		_ = term.Restore(t.fd, t.oldState)
		t.raw = false
	}
}

// PutByte writes one byte to the console's output stream.
func (t *Terminal) PutByte(b byte) error {
	_, err := t.out.Write([]byte{b})
	return err
}

// GetByte reads one byte from the console's input stream. Carriage return
// is normalized to line feed; Ctrl-D signals end of input.
func (t *Terminal) GetByte() (b byte, eof bool, err error) {
	c, err := t.in.ReadByte()
	if err == io.EOF {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	if c == '\r' {
		c = '\n'
	}
	if c == ctrlD {
		return 0, true, nil
	}
	return c, false, nil
}

// ByteStream is an in-memory Console double: it feeds In and records every
// byte written to Out. Used by tests.
type ByteStream struct {
	In  []byte
	Out []byte
	pos int
}

// NewByteStream creates a console that yields in's bytes on GetByte and
// collects output in Out.
func NewByteStream(in []byte) *ByteStream {
	return &ByteStream{In: in}
}

func (b *ByteStream) PutByte(c byte) error {
	b.Out = append(b.Out, c)
	return nil
}

func (b *ByteStream) GetByte() (c byte, eof bool, err error) {
	if b.pos >= len(b.In) {
		return 0, true, nil
	}
	c = b.In[b.pos]
	b.pos++
	if c == '\r' {
		c = '\n'
	}
	return c, false, nil
}
