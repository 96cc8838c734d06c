package memmap

/*
 * ESDI - Memory mapped regions
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

// A relocatable window into some backing bytes, usually an option ROM.
// Regions start disabled; bus configuration enables and places them.
type Region struct {
	base    uint32
	size    uint32
	data    []byte
	enabled bool
}

// Bus holds the mapped regions of one machine's address space.
type Bus struct {
	regions []*Region
}

func New() *Bus {
	return &Bus{}
}

func (bus *Bus) Add(r *Region) {
	bus.regions = append(bus.regions, r)
}

func (r *Region) Enable() {
	r.enabled = true
}

func (r *Region) Disable() {
	r.enabled = false
}

// Move the window. Size is clamped to the backing data.
func (r *Region) SetAddr(base, size uint32) {
	if size > uint32(len(r.data)) {
		size = uint32(len(r.data))
	}
	r.base = base
	r.size = size
}

func (r *Region) Enabled() bool {
	return r.enabled
}

func (r *Region) Base() uint32 {
	return r.base
}

// Read one byte from the address space. Unmapped addresses float high.
func (bus *Bus) ReadByte(addr uint32) uint8 {
	for _, r := range bus.regions {
		if r.enabled && addr >= r.base && addr < r.base+r.size {
			return r.data[addr-r.base]
		}
	}
	return 0xff
}
