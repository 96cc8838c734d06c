package esdi

/*
 * ESDI - Host register interface
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
)

// ReadByte handles the byte wide ports. Offset 2 is basic status, offset 3
// is interrupt status; reading interrupt status clears the pending bit.
func (ctl *Controller) ReadByte(port uint16) uint8 {
	if ctl.fault != nil {
		return 0
	}
	var ret uint8

	switch port & 7 {
	case 2: // Basic status register
		ret = ctl.status

	case 3: // Interrupt status register
		ctl.status &^= StatusIRQ
		ret = ctl.irqStatus

	default:
		slog.Debug("esdi: read of unhandled port", "port", port)
	}
	return ret
}

// WriteByte handles the byte wide ports: basic control at offset 2 and
// attention at offset 3.
func (ctl *Controller) WriteByte(port uint16, val uint8) {
	if ctl.fault != nil {
		return
	}

	switch port & 7 {
	case 2: // Basic control register
		if ctl.basicCtrl&ctrlReset != 0 && val&ctrlReset == 0 {
			// Falling edge: run the reset sequence.
			ctl.inReset = true
			ctl.setCallback(resetTime)
			ctl.status = StatusBusy
		} else if ctl.basicCtrl&ctrlReset == 0 && val&ctrlReset != 0 {
			// Rising edge: stop any pending command immediately.
			ctl.setCallback(0)
			ctl.status = StatusBusy
		}
		old := ctl.basicCtrl
		ctl.basicCtrl = val
		if val&ctrlIRQEna != 0 && old&ctrlIRQEna == 0 {
			ctl.updateIRQ()
		}

	case 3: // Attention register
		ctl.attention(val)

	default:
		ctl.fatalf("write of unhandled port %04x value %02x", port, val)
	}
}

// Attention selects a target device and triggers a request.
func (ctl *Controller) attention(val uint8) {
	target := int(val) & attnDeviceSel
	switch target {
	case attnHostAdapter, attnDevice0, attnDevice1:
	default:
		ctl.fatalf("attention to unknown device %02x", val)
		return
	}

	switch val & attnReqMask {
	case attnCmdReq:
		if ctl.cmdReqInProgress {
			ctl.fatalf("command start while command in progress, device %02x", target)
			return
		}
		ctl.cmdReqInProgress = true
		ctl.cmdDev = target
		ctl.status |= StatusBusy
		ctl.cmdPos = 0
		ctl.statusPos = 0

	case attnEOI:
		ctl.irqInProgress = false
		ctl.status &^= StatusIRQ
		ctl.clearIRQ()

	case attnReset:
		// Only the host adapter target supports attention reset.
		if target != attnHostAdapter {
			ctl.fatalf("attention reset to device %02x", val)
			return
		}
		ctl.inReset = true
		ctl.setCallback(resetTime)
		ctl.status = StatusBusy

	default:
		ctl.fatalf("bad attention request %02x", val)
	}
}

// ReadWord drains the status interface at offset 0. Reads past the declared
// length return zero with no side effects; the last valid read clears the
// status-out-full bit and resets the queue.
func (ctl *Controller) ReadWord(port uint16) uint16 {
	if ctl.fault != nil {
		return 0
	}

	switch port & 7 {
	case 0: // Status interface register
		if ctl.statusPos >= ctl.statusLen {
			return 0
		}
		ret := ctl.statusData[ctl.statusPos]
		ctl.statusPos++
		if ctl.statusPos >= ctl.statusLen {
			ctl.status &^= StatusStatusOutFull
			ctl.statusPos = 0
			ctl.statusLen = 0
		}
		return ret

	default:
		ctl.fatalf("word read of unhandled port %04x", port)
		return 0
	}
}

// WriteWord fills the command interface at offset 0. A command is complete
// at two words, or four when bit 14 of word 0 is set; completion decodes
// the command, checks the target against the attention selection and arms
// the command timer.
func (ctl *Controller) WriteWord(port uint16, val uint16) {
	if ctl.fault != nil {
		return
	}

	switch port & 7 {
	case 0: // Command interface register
		if ctl.cmdPos >= 4 {
			ctl.fatalf("command interface overrun")
			return
		}
		ctl.cmdData[ctl.cmdPos] = val
		ctl.cmdPos++

		size := 2
		if ctl.cmdData[0]&cmdSize4 != 0 {
			size = 4
		}
		if ctl.cmdPos != size {
			return
		}

		ctl.cmdPos = 0
		ctl.cmdReqInProgress = false
		ctl.cmdState = 0

		if int(ctl.cmdData[0])&cmdDeviceSel != ctl.cmdDev {
			ctl.fatalf("command device %02x does not match attention device %02x",
				int(ctl.cmdData[0])&cmdDeviceSel, ctl.cmdDev)
			return
		}
		ctl.command = int(ctl.cmdData[0]) & cmdMask
		ctl.setCallback(cmdLatency)
		ctl.status = StatusBusy
		ctl.dataPos = 0

	default:
		ctl.fatalf("word write of unhandled port %04x value %04x", port, val)
	}
}
