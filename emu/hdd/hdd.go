package hdd

/*
 * ESDI - Fixed disk backing store
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

const SectorSize = 512

// Default geometry when opening an image without explicit values. These
// match a common ESDI drive layout.
const (
	DefaultSpt = 36
	DefaultHpc = 8
)

// Timing model. 3600 rpm media, one revolution is 16667 us; head movement
// costs a settle time plus a per-cylinder charge.
const (
	revTime      = 16667.0
	seekSettle   = 2000.0
	seekPerTrack = 30.0
)

// One flat-image fixed disk. Sectors are addressed by zero based RBA.
type Disk struct {
	Spt    int // Sectors per track
	Hpc    int // Heads per cylinder
	Tracks int // Cylinders

	sectors uint32 // Total sectors in image
	at      uint32 // RBA the heads sit over, for timing
	file    *os.File
	path    string
}

// Open an existing image. Zero geometry values take defaults, with the
// cylinder count derived from the file size.
func Open(path string, spt, hpc, tracks int) (*Disk, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("hdd: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("hdd: %w", err)
	}

	if spt <= 0 {
		spt = DefaultSpt
	}
	if hpc <= 0 {
		hpc = DefaultHpc
	}
	if tracks <= 0 {
		tracks = int(info.Size() / int64(spt*hpc*SectorSize))
	}
	if tracks <= 0 {
		file.Close()
		return nil, fmt.Errorf("hdd: image %s too small for one cylinder", path)
	}

	disk := &Disk{
		Spt:     spt,
		Hpc:     hpc,
		Tracks:  tracks,
		sectors: uint32(spt * hpc * tracks),
		file:    file,
		path:    path,
	}
	return disk, nil
}

// Create a zero-filled image of the given geometry and open it.
func Create(path string, spt, hpc, tracks int) (*Disk, error) {
	if spt <= 0 {
		spt = DefaultSpt
	}
	if hpc <= 0 {
		hpc = DefaultHpc
	}
	if tracks <= 0 {
		return nil, fmt.Errorf("hdd: create %s needs a cylinder count", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("hdd: %w", err)
	}
	size := int64(spt*hpc*tracks) * SectorSize
	if err = file.Truncate(size); err != nil {
		file.Close()
		return nil, fmt.Errorf("hdd: %w", err)
	}
	return &Disk{
		Spt:     spt,
		Hpc:     hpc,
		Tracks:  tracks,
		sectors: uint32(spt * hpc * tracks),
		file:    file,
		path:    path,
	}, nil
}

func (disk *Disk) Path() string {
	return disk.path
}

// Highest valid RBA.
func (disk *Disk) LastSector() uint32 {
	return disk.sectors - 1
}

// Read count sectors starting at rba into buf.
func (disk *Disk) Read(rba uint32, count int, buf []byte) error {
	if err := disk.bound(rba, count, buf); err != nil {
		return err
	}
	if _, err := disk.file.ReadAt(buf[:count*SectorSize], int64(rba)*SectorSize); err != nil {
		return fmt.Errorf("hdd: read rba %d: %w", rba, err)
	}
	disk.at = rba + uint32(count)
	return nil
}

// Write count sectors starting at rba from buf.
func (disk *Disk) Write(rba uint32, count int, buf []byte) error {
	if err := disk.bound(rba, count, buf); err != nil {
		return err
	}
	if _, err := disk.file.WriteAt(buf[:count*SectorSize], int64(rba)*SectorSize); err != nil {
		return fmt.Errorf("hdd: write rba %d: %w", rba, err)
	}
	disk.at = rba + uint32(count)
	return nil
}

// Zero count sectors starting at rba.
func (disk *Disk) Zero(rba uint32, count int) error {
	if uint64(rba)+uint64(count) > uint64(disk.sectors) {
		return fmt.Errorf("hdd: zero past end: rba %d count %d", rba, count)
	}
	zeros := make([]byte, 64*SectorSize)
	off := int64(rba) * SectorSize
	left := int64(count) * SectorSize
	for left > 0 {
		n := left
		if n > int64(len(zeros)) {
			n = int64(len(zeros))
		}
		if _, err := disk.file.WriteAt(zeros[:n], off); err != nil {
			return fmt.Errorf("hdd: zero rba %d: %w", rba, err)
		}
		off += n
		left -= n
	}
	disk.at = rba + uint32(count)
	return nil
}

func (disk *Disk) bound(rba uint32, count int, buf []byte) error {
	if count <= 0 || len(buf) < count*SectorSize {
		return fmt.Errorf("hdd: short buffer for %d sectors", count)
	}
	if uint64(rba)+uint64(count) > uint64(disk.sectors) {
		return fmt.Errorf("hdd: access past end: rba %d count %d of %d", rba, count, disk.sectors)
	}
	return nil
}

// Estimated time in microseconds to read count sectors at rba, including
// the seek from the current head position.
func (disk *Disk) ReadTime(rba uint32, count int) float64 {
	return disk.SeekTime(rba) + revTime/2 + float64(count)*revTime/float64(disk.Spt)
}

// Estimated time in microseconds to write count sectors at rba.
func (disk *Disk) WriteTime(rba uint32, count int) float64 {
	return disk.ReadTime(rba, count)
}

// Estimated time in microseconds to move the heads to rba's cylinder.
func (disk *Disk) SeekTime(rba uint32) float64 {
	perCyl := uint32(disk.Spt * disk.Hpc)
	cur := disk.at / perCyl
	dst := rba / perCyl
	if cur == dst {
		return 0
	}
	diff := int(dst) - int(cur)
	if diff < 0 {
		diff = -diff
	}
	return seekSettle + seekPerTrack*float64(diff)
}

func (disk *Disk) Close() error {
	if disk.file == nil {
		return nil
	}
	err := disk.file.Close()
	disk.file = nil
	return err
}
