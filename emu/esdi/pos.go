package esdi

/*
 * ESDI - POS configuration registers
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
	"log/slog"

	iobus "github.com/Spagheta-DSi/86Box/emu/iobus"
)

// POSRead returns a setup register byte.
func (ctl *Controller) POSRead(port int) uint8 {
	return ctl.posRegs[port&7]
}

// POSWrite stores a setup register byte and re-decodes the whole
// configuration: DMA arbitration level, option ROM placement and the
// card enable bit. Ports 0x100 and 0x101 carry the read-only adapter ID.
func (ctl *Controller) POSWrite(port int, val uint8) {
	if port < 0x102 {
		return
	}
	ctl.posRegs[port&7] = val

	// Drop any current decode, then rebuild it from the registers.
	ctl.io.RemoveHandler(ctl.base)
	if ctl.biosROM != nil {
		ctl.biosROM.Disable()
	}

	switch ctl.posRegs[2] & 0x3c {
	case 0x14:
		ctl.dmaChan = 5
	case 0x18:
		ctl.dmaChan = 6
	case 0x1c:
		ctl.dmaChan = 7
	case 0x00:
		ctl.dmaChan = 0
	case 0x04:
		ctl.dmaChan = 1
	case 0x0c:
		ctl.dmaChan = 3
	case 0x10:
		ctl.dmaChan = 4
	default:
		// Reserved encoding, keep the previous level.
	}

	if ctl.variant == Adapter {
		if ctl.posRegs[3]&8 == 0 {
			switch ctl.posRegs[3] & 7 {
			case 2:
				ctl.biosBase = 0xc8000
			case 3:
				ctl.biosBase = 0xcc000
			case 4:
				ctl.biosBase = 0xd0000
			case 5:
				ctl.biosBase = 0xd4000
			case 6:
				ctl.biosBase = 0xd8000
			case 7:
				ctl.biosBase = 0xdc000
			default:
			}
		} else {
			ctl.biosBase = 0
		}
	}

	if ctl.posRegs[2]&1 != 0 {
		ctl.io.SetHandler(ctl.base, 8, iobus.Handlers{
			ReadByte:  ctl.ReadByte,
			WriteByte: ctl.WriteByte,
			ReadWord:  ctl.ReadWord,
			WriteWord: ctl.WriteWord,
		})

		if ctl.variant == Adapter && ctl.biosBase != 0 && ctl.biosROM != nil {
			ctl.biosROM.Enable()
			ctl.biosROM.SetAddr(ctl.biosBase, 0x4000)
		}

		slog.Debug("esdi: configured", "io", ctl.base, "irq", IRQChan,
			"dma", ctl.dmaChan, "bios", ctl.biosBase)
	}
}

// Feedback reports the card enable bit back to the setup logic.
func (ctl *Controller) Feedback() uint8 {
	return ctl.posRegs[2] & 1
}
