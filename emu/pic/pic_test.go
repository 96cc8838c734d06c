/*
 * ESDI - Interrupt latch test cases
 *
 * Copyright 2025, Richard Cornwell
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

package pic

import (
	"testing"
)

func TestRaiseLower(t *testing.T) {
	p := New()
	if p.Level(14) {
		t.Errorf("Line 14 asserted at start")
	}
	p.Raise(14)
	if !p.Level(14) {
		t.Errorf("Line 14 not asserted after raise")
	}
	p.Lower(14)
	if p.Level(14) {
		t.Errorf("Line 14 still asserted after lower")
	}
}

// A request latches on the rising edge only.
func TestEdgeLatch(t *testing.T) {
	p := New()
	p.Raise(14)
	if !p.Ack(14) {
		t.Errorf("No request latched after raise")
	}
	// Line still high, raising again is not an edge.
	p.Raise(14)
	if p.Ack(14) {
		t.Errorf("Request latched without an edge")
	}
	p.Lower(14)
	p.Raise(14)
	if !p.Ack(14) {
		t.Errorf("No request latched after new edge")
	}
}

func TestAckClears(t *testing.T) {
	p := New()
	p.Raise(3)
	if !p.Ack(3) {
		t.Errorf("No request latched")
	}
	if p.Ack(3) {
		t.Errorf("Request still latched after ack")
	}
}

func TestLineIsolation(t *testing.T) {
	p := New()
	p.Raise(14)
	if p.Level(13) || p.Ack(13) {
		t.Errorf("Other line affected by raise")
	}
}
