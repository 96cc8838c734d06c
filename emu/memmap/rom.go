package memmap

/*
 * ESDI - Option ROM image loading
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

import (
	"fmt"
	"os"
)

// Load a flat ROM image. The region comes back disabled at the given base.
func LoadROM(path string, base, size uint32) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: %w", err)
	}
	r := &Region{data: data}
	r.SetAddr(base, size)
	return r, nil
}

// Load a ROM shipped as an even/odd chip pair: byte 0 from the even file,
// byte 1 from the odd file, and so on. The adapter BIOS is stored this way.
func LoadInterleavedROM(evenPath, oddPath string, base, size uint32) (*Region, error) {
	even, err := os.ReadFile(evenPath)
	if err != nil {
		return nil, fmt.Errorf("rom: %w", err)
	}
	odd, err := os.ReadFile(oddPath)
	if err != nil {
		return nil, fmt.Errorf("rom: %w", err)
	}
	if len(even) != len(odd) {
		return nil, fmt.Errorf("rom: interleaved halves differ in size: %d vs %d", len(even), len(odd))
	}
	data := make([]byte, 2*len(even))
	for i := range even {
		data[2*i] = even[i]
		data[2*i+1] = odd[i]
	}
	r := &Region{data: data}
	r.SetAddr(base, size)
	return r, nil
}
