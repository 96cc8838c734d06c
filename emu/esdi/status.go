package esdi

/*
 * ESDI - Status reports
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

// Word 0 of every status report: command code, declared queue length in the
// upper byte, target device in bits 5-7. The device argument takes the
// already shifted select bits.
func statusTag(command, length, device int) uint16 {
	return uint16(command) | uint16(length)<<8 | uint16(device)
}

func statusDevice(unit int) int {
	return unit << 5
}

// Error report bodies are fixed nine word sequences: tag, two error code
// words, six reserved zero words. Existing firmware matches these byte for
// byte, so they are reproduced exactly.
func (ctl *Controller) errorStatus(code1, code2 uint16) {
	ctl.statusLen = 9
	ctl.statusData[0] = statusTag(ctl.command, 9, ctl.cmdDev)
	ctl.statusData[1] = code1
	ctl.statusData[2] = code2
	for i := 3; i < 9; i++ {
		ctl.statusData[i] = 0
	}

	ctl.status = StatusIRQ | StatusStatusOutFull
	ctl.irqStatus = uint8(ctl.cmdDev) | irqCmdFailure
	ctl.irqInProgress = true
	ctl.setIRQ()
}

// Attention error, command not supported / interface fault.
func (ctl *Controller) cmdUnsupported() {
	ctl.errorStatus(0x0f03, 0x0002)
}

// Command failed, internal hardware error / selection error.
func (ctl *Controller) deviceNotPresent() {
	ctl.errorStatus(0x0c11, 0x000b)
}

// Command block error, invalid parameter / RBA out of range.
func (ctl *Controller) rbaOutOfRange() {
	ctl.errorStatus(0x0e01, 0x0007)
}

// Command block error, invalid parameter / defective block.
func (ctl *Controller) defectiveBlock() {
	ctl.errorStatus(0x0e01, 0x0009)
}

// Successful completion report: seven words carrying a zero error code, the
// device status word, remaining block count, the last RBA processed and the
// error recovery count. The high address word shifts by 8, as the original
// controller firmware reported it.
func (ctl *Controller) completeCmdStatus() {
	ctl.statusLen = 7
	if ctl.cmdDev == attnDevice0 {
		ctl.statusData[0] = statusTag(ctl.command, 7, statusDevice(0))
	} else {
		ctl.statusData[0] = statusTag(ctl.command, 7, statusDevice(1))
	}
	ctl.statusData[1] = 0x0000              // Error bits
	ctl.statusData[2] = 0x1900              // Device status
	ctl.statusData[3] = 0                   // Number of blocks left to do
	ctl.statusData[4] = uint16(ctl.rba - 1) // Last RBA processed
	ctl.statusData[5] = uint16((ctl.rba - 1) >> 8)
	ctl.statusData[6] = 0 // Number of blocks requiring error recovery
}

// Post command completion with a success interrupt.
func (ctl *Controller) completeSuccess() {
	ctl.status = StatusIRQ | StatusStatusOutFull
	ctl.irqStatus = uint8(ctl.cmdDev) | irqCmdSuccess
	ctl.irqInProgress = true
	ctl.setIRQ()
}
