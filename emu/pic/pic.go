package pic

/*
 * ESDI - Interrupt request latch
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

// Sixteen numbered request lines with edge-triggered latching. This stands
// in for the platform interrupt controller, which is outside the model;
// the machine and the tests observe line state through it.
type PIC struct {
	lines   uint16 // Current line levels
	pending uint16 // Latched requests (set on rising edge)
}

func New() *PIC {
	return &PIC{}
}

// Assert a line. Latches a request on the rising edge only.
func (p *PIC) Raise(line int) {
	bit := uint16(1) << (line & 15)
	if p.lines&bit == 0 {
		p.pending |= bit
	}
	p.lines |= bit
}

// Drop a line.
func (p *PIC) Lower(line int) {
	p.lines &^= uint16(1) << (line & 15)
}

// Current level of a line.
func (p *PIC) Level(line int) bool {
	return p.lines&(uint16(1)<<(line&15)) != 0
}

// Take the latched request for a line, clearing it.
func (p *PIC) Ack(line int) bool {
	bit := uint16(1) << (line & 15)
	req := p.pending&bit != 0
	p.pending &^= bit
	return req
}
