/*
 * ESDI - Memory region test cases
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

package memmap

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadROM(t *testing.T) {
	path := writeFile(t, "rom.bin", []byte{0x55, 0xaa, 0x12})

	rom, err := LoadROM(path, 0xc8000, 3)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	rom.Enable()

	bus := New()
	bus.Add(rom)

	if got := bus.ReadByte(0xc8000); got != 0x55 {
		t.Errorf("ReadByte got %02x want 55", got)
	}
	if got := bus.ReadByte(0xc8002); got != 0x12 {
		t.Errorf("ReadByte got %02x want 12", got)
	}
	if got := bus.ReadByte(0xc8003); got != 0xff {
		t.Errorf("ReadByte past region got %02x want ff", got)
	}
}

// Interleaved loading merges the even and odd chip images byte by byte.
func TestLoadInterleavedROM(t *testing.T) {
	even := writeFile(t, "even.bin", []byte{0x10, 0x30})
	odd := writeFile(t, "odd.bin", []byte{0x20, 0x40})

	rom, err := LoadInterleavedROM(even, odd, 0xc8000, 4)
	if err != nil {
		t.Fatalf("LoadInterleavedROM failed: %v", err)
	}
	rom.Enable()

	bus := New()
	bus.Add(rom)

	want := []uint8{0x10, 0x20, 0x30, 0x40}
	for i, w := range want {
		if got := bus.ReadByte(0xc8000 + uint32(i)); got != w {
			t.Errorf("ReadByte at +%d got %02x want %02x", i, got, w)
		}
	}
}

func TestInterleavedSizeMismatch(t *testing.T) {
	even := writeFile(t, "even.bin", []byte{1, 2})
	odd := writeFile(t, "odd.bin", []byte{1})

	if _, err := LoadInterleavedROM(even, odd, 0, 4); err == nil {
		t.Errorf("LoadInterleavedROM with mismatched halves did not fail")
	}
}

// Regions can be disabled and moved, as bus configuration does.
func TestEnableMove(t *testing.T) {
	path := writeFile(t, "rom.bin", []byte{0x77})
	rom, err := LoadROM(path, 0xc8000, 1)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	bus := New()
	bus.Add(rom)

	// Disabled region does not answer.
	if got := bus.ReadByte(0xc8000); got != 0xff {
		t.Errorf("ReadByte of disabled region got %02x want ff", got)
	}

	rom.Enable()
	rom.SetAddr(0xd0000, 1)
	if got := bus.ReadByte(0xd0000); got != 0x77 {
		t.Errorf("ReadByte after move got %02x want 77", got)
	}
	if got := bus.ReadByte(0xc8000); got != 0xff {
		t.Errorf("ReadByte at old base got %02x want ff", got)
	}
	if rom.Base() != 0xd0000 || !rom.Enabled() {
		t.Errorf("Region state base %05x enabled %v", rom.Base(), rom.Enabled())
	}
}
