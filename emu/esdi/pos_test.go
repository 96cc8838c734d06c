/*
 * ESDI - Bus setup register test cases
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

package esdi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Spagheta-DSi/86Box/emu/dma"
	"github.com/Spagheta-DSi/86Box/emu/event"
	"github.com/Spagheta-DSi/86Box/emu/iobus"
	"github.com/Spagheta-DSi/86Box/emu/memmap"
	"github.com/Spagheta-DSi/86Box/emu/pic"
)

func newBareController(t *testing.T, variant int) *Controller {
	t.Helper()
	ctl := New(Config{
		Variant: variant,
		Sched:   event.NewScheduler(),
		IO:      iobus.New(),
		Mem:     memmap.New(),
		Intr:    pic.New(),
		DMA:     dma.NewEngine(),
	})
	t.Cleanup(ctl.Shutdown)
	return ctl
}

func TestPOSAdapterID(t *testing.T) {
	ctl := newBareController(t, Adapter)
	if got := ctl.POSRead(0x100); got != 0xff {
		t.Errorf("adapter ID low %02x want ff", got)
	}
	if got := ctl.POSRead(0x101); got != 0xdd {
		t.Errorf("adapter ID high %02x want dd", got)
	}

	ctl = newBareController(t, Integrated)
	if got := ctl.POSRead(0x100); got != 0x9f {
		t.Errorf("integrated ID low %02x want 9f", got)
	}
	if got := ctl.POSRead(0x101); got != 0xdf {
		t.Errorf("integrated ID high %02x want df", got)
	}
}

// Writes below 0x102 never land in the registers.
func TestPOSIDReadOnly(t *testing.T) {
	ctl := newBareController(t, Adapter)
	ctl.POSWrite(0x100, 0x12)
	ctl.POSWrite(0x101, 0x34)
	if got := ctl.POSRead(0x100); got != 0xff {
		t.Errorf("adapter ID low overwritten to %02x", got)
	}
	if got := ctl.POSRead(0x101); got != 0xdd {
		t.Errorf("adapter ID high overwritten to %02x", got)
	}
}

func TestPOSDMADecode(t *testing.T) {
	tests := []struct {
		val  uint8
		want int
	}{
		{0x00, 0},
		{0x04, 1},
		{0x0c, 3},
		{0x10, 4},
		{0x14, 5},
		{0x18, 6},
		{0x1c, 7},
	}
	ctl := newBareController(t, Adapter)
	for _, test := range tests {
		ctl.POSWrite(0x102, test.val)
		if ctl.dmaChan != test.want {
			t.Errorf("pos %02x decoded DMA %d want %d", test.val, ctl.dmaChan, test.want)
		}
	}

	// A reserved encoding keeps the previous level.
	ctl.POSWrite(0x102, 0x14)
	ctl.POSWrite(0x102, 0x08)
	if ctl.dmaChan != 5 {
		t.Errorf("reserved encoding changed DMA to %d", ctl.dmaChan)
	}
}

// The card enable bit claims and releases the I/O range.
func TestPOSEnableDecode(t *testing.T) {
	ctl := newBareController(t, Adapter)

	if got := ctl.io.InB(IOAddrPri + 2); got != 0xff {
		t.Fatalf("unconfigured card answered %02x", got)
	}
	ctl.POSWrite(0x102, 0x01)
	if got := ctl.io.InB(IOAddrPri + 2); got == 0xff {
		t.Fatalf("enabled card did not claim its range")
	}
	if got := ctl.Feedback(); got != 1 {
		t.Errorf("feedback %d want 1", got)
	}
	ctl.POSWrite(0x102, 0x00)
	if got := ctl.io.InB(IOAddrPri + 2); got != 0xff {
		t.Fatalf("disabled card still claims its range, got %02x", got)
	}
	if got := ctl.Feedback(); got != 0 {
		t.Errorf("feedback %d want 0", got)
	}
}

func TestPOSSecondaryRange(t *testing.T) {
	ctl := New(Config{
		Variant:   Adapter,
		Secondary: true,
		Sched:     event.NewScheduler(),
		IO:        iobus.New(),
		Mem:       memmap.New(),
		Intr:      pic.New(),
		DMA:       dma.NewEngine(),
	})
	t.Cleanup(ctl.Shutdown)

	ctl.POSWrite(0x102, 0x01)
	if got := ctl.io.InB(IOAddrSec + 2); got == 0xff {
		t.Fatalf("secondary card did not claim its range")
	}
	if got := ctl.io.InB(IOAddrPri + 2); got != 0xff {
		t.Fatalf("secondary card claims the primary range")
	}
}

// Write an even/odd ROM pair whose interleave spells out a marker.
func writeROMPair(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	even := filepath.Join(dir, "even.bin")
	odd := filepath.Join(dir, "odd.bin")
	half := make([]byte, 0x2000)
	for i := range half {
		half[i] = 0xaa
	}
	if err := os.WriteFile(even, half, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	for i := range half {
		half[i] = 0x55
	}
	if err := os.WriteFile(odd, half, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return even, odd
}

func TestPOSROMPlacement(t *testing.T) {
	tests := []struct {
		val  uint8
		want uint32
	}{
		{0x02, 0xc8000},
		{0x03, 0xcc000},
		{0x04, 0xd0000},
		{0x05, 0xd4000},
		{0x06, 0xd8000},
		{0x07, 0xdc000},
	}

	ctl := newBareController(t, Adapter)
	even, odd := writeROMPair(t)
	if err := ctl.LoadBIOS(even, odd); err != nil {
		t.Fatalf("LoadBIOS failed: %v", err)
	}

	for _, test := range tests {
		ctl.POSWrite(0x103, test.val)
		ctl.POSWrite(0x102, 0x01)
		if !ctl.biosROM.Enabled() {
			t.Fatalf("pos %02x left the ROM disabled", test.val)
		}
		if got := ctl.biosROM.Base(); got != test.want {
			t.Errorf("pos %02x placed ROM at %05x want %05x", test.val, got, test.want)
		}
		if got := ctl.mem.ReadByte(test.want); got != 0xaa {
			t.Errorf("ROM byte at %05x got %02x want aa", test.want, got)
		}
		if got := ctl.mem.ReadByte(test.want + 1); got != 0x55 {
			t.Errorf("ROM byte at %05x got %02x want 55", test.want+1, got)
		}
	}

	// Bit 3 disables the ROM decode.
	ctl.POSWrite(0x103, 0x0a)
	if ctl.biosROM.Enabled() {
		t.Errorf("ROM still enabled with decode off")
	}

	// Disabling the card drops the ROM along with the I/O range.
	ctl.POSWrite(0x103, 0x02)
	ctl.POSWrite(0x102, 0x00)
	if ctl.biosROM.Enabled() {
		t.Errorf("ROM still enabled with the card disabled")
	}
}

func TestPOSIntegratedNoROM(t *testing.T) {
	ctl := newBareController(t, Integrated)
	even, odd := writeROMPair(t)
	if err := ctl.LoadBIOS(even, odd); err == nil {
		t.Errorf("integrated controller accepted an option ROM")
	}

	// The ROM placement field is ignored.
	ctl.POSWrite(0x103, 0x02)
	ctl.POSWrite(0x102, 0x01)
	if ctl.biosBase != 0 {
		t.Errorf("integrated controller decoded ROM base %05x", ctl.biosBase)
	}
}
