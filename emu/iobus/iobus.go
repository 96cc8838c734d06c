package iobus

/*
 * ESDI - I/O port bus
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

// Handlers a device hangs on a range of ports. Nil members leave that
// access unclaimed.
type Handlers struct {
	ReadByte  func(port uint16) uint8
	WriteByte func(port uint16, val uint8)
	ReadWord  func(port uint16) uint16
	WriteWord func(port uint16, val uint16)
}

type entry struct {
	base uint16
	size uint16
	h    Handlers
}

// Bus decodes port accesses to registered handler ranges. Devices register
// and remove ranges at run time; bus configuration writes do exactly that.
type Bus struct {
	entries []entry
}

func New() *Bus {
	return &Bus{}
}

// Claim size consecutive ports starting at base. A later claim of the same
// base replaces the earlier one.
func (bus *Bus) SetHandler(base, size uint16, h Handlers) {
	bus.RemoveHandler(base)
	bus.entries = append(bus.entries, entry{base: base, size: size, h: h})
}

// Release the range claimed at base.
func (bus *Bus) RemoveHandler(base uint16) {
	for i := range bus.entries {
		if bus.entries[i].base == base {
			bus.entries = append(bus.entries[:i], bus.entries[i+1:]...)
			return
		}
	}
}

func (bus *Bus) find(port uint16) *entry {
	for i := range bus.entries {
		e := &bus.entries[i]
		if port >= e.base && port < e.base+e.size {
			return e
		}
	}
	return nil
}

// Unclaimed ports float high, as on the real bus.
func (bus *Bus) InB(port uint16) uint8 {
	if e := bus.find(port); e != nil && e.h.ReadByte != nil {
		return e.h.ReadByte(port)
	}
	return 0xff
}

func (bus *Bus) OutB(port uint16, val uint8) {
	if e := bus.find(port); e != nil && e.h.WriteByte != nil {
		e.h.WriteByte(port, val)
	}
}

func (bus *Bus) InW(port uint16) uint16 {
	if e := bus.find(port); e != nil && e.h.ReadWord != nil {
		return e.h.ReadWord(port)
	}
	return 0xffff
}

func (bus *Bus) OutW(port uint16, val uint16) {
	if e := bus.find(port); e != nil && e.h.WriteWord != nil {
		e.h.WriteWord(port, val)
	}
}
