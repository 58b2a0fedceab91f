/*
 * UM32 - Console tests.
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

package console

import "testing"

func TestByteStreamEOFAfterInput(t *testing.T) {
	bs := NewByteStream([]byte("hi"))
	want := []byte{'h', 'i'}
	for _, w := range want {
		c, eof, err := bs.GetByte()
		if err != nil || eof || c != w {
			t.Fatalf("GetByte() = %q, %v, %v; want %q, false, nil", c, eof, err, w)
		}
	}
	_, eof, err := bs.GetByte()
	if err != nil || !eof {
		t.Fatalf("GetByte() at end = _, %v, %v; want eof=true", eof, err)
	}
}

func TestByteStreamNormalizesCR(t *testing.T) {
	bs := NewByteStream([]byte("a\rb"))
	got := make([]byte, 0, 3)
	for {
		c, eof, _ := bs.GetByte()
		if eof {
			break
		}
		got = append(got, c)
	}
	if string(got) != "a\nb" {
		t.Errorf("got %q; want %q", got, "a\nb")
	}
}

func TestByteStreamRecordsOutput(t *testing.T) {
	bs := NewByteStream(nil)
	for _, c := range []byte("ok") {
		if err := bs.PutByte(c); err != nil {
			t.Fatalf("PutByte: %v", err)
		}
	}
	if string(bs.Out) != "ok" {
		t.Errorf("Out = %q; want %q", bs.Out, "ok")
	}
}
