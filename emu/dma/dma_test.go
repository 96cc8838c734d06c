/*
 * ESDI - DMA engine test cases
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

package dma

import (
	"testing"

	dev "github.com/Spagheta-DSi/86Box/emu/device"
)

func TestChannelRead(t *testing.T) {
	eng := NewEngine()
	eng.Load(5, []uint16{0x1234, 0x5678})

	if got := eng.ChannelRead(5); got != 0x1234 {
		t.Errorf("ChannelRead got %04x want %04x", got, 0x1234)
	}
	if got := eng.ChannelRead(5); got != 0x5678 {
		t.Errorf("ChannelRead got %04x want %04x", got, 0x5678)
	}
	if got := eng.ChannelRead(5); got != dev.DMANoData {
		t.Errorf("ChannelRead on empty channel got %d want DMANoData", got)
	}
}

func TestChannelWrite(t *testing.T) {
	eng := NewEngine()

	if got := eng.ChannelWrite(5, 0xabcd); got != 0xabcd {
		t.Errorf("ChannelWrite got %04x want %04x", got, 0xabcd)
	}
	out := eng.Drain(5)
	if len(out) != 1 || out[0] != 0xabcd {
		t.Errorf("Drain got %v want one word abcd", out)
	}
	if out = eng.Drain(5); len(out) != 0 {
		t.Errorf("Drain after drain got %v want empty", out)
	}
}

// With a limit set the device sees no-data until the host drains.
func TestChannelLimit(t *testing.T) {
	eng := NewEngine()
	eng.SetLimit(5, 2)

	eng.ChannelWrite(5, 1)
	eng.ChannelWrite(5, 2)
	if got := eng.ChannelWrite(5, 3); got != dev.DMANoData {
		t.Errorf("ChannelWrite over limit got %d want DMANoData", got)
	}

	out := eng.Drain(5)
	if len(out) != 2 {
		t.Errorf("Drain got %d words want 2", len(out))
	}
	if got := eng.ChannelWrite(5, 3); got != 3 {
		t.Errorf("ChannelWrite after drain got %d want 3", got)
	}
}

// Channels are independent.
func TestChannelIsolation(t *testing.T) {
	eng := NewEngine()
	eng.Load(5, []uint16{1})
	if got := eng.ChannelRead(6); got != dev.DMANoData {
		t.Errorf("ChannelRead on other channel got %d want DMANoData", got)
	}
	if got := eng.ChannelRead(5); got != 1 {
		t.Errorf("ChannelRead got %d want 1", got)
	}
}

func TestChannelClear(t *testing.T) {
	eng := NewEngine()
	eng.Load(5, []uint16{1, 2, 3})
	eng.ChannelWrite(5, 9)
	eng.Clear(5)
	if got := eng.ChannelRead(5); got != dev.DMANoData {
		t.Errorf("ChannelRead after clear got %d want DMANoData", got)
	}
	if out := eng.Drain(5); len(out) != 0 {
		t.Errorf("Drain after clear got %v want empty", out)
	}
}
