package esdi

/*
 * ESDI - Command state machine
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
	"encoding/binary"
	"log/slog"

	dev "github.com/Spagheta-DSi/86Box/emu/device"
	"github.com/Spagheta-DSi/86Box/emu/hdd"
)

// Commands go through up to three phases: setup and validation, data
// movement against the DMA engine, then completion status and interrupt.
// Each clock fire advances at most one phase; a data movement phase that
// runs dry suspends in place and resumes at the same cursor next fire.
const (
	phaseSetup = iota
	phaseData
	phaseDone
)

// Reject commands the host adapter does not itself implement.
func (ctl *Controller) adapterOnly() bool {
	if ctl.cmdDev != attnHostAdapter {
		ctl.cmdUnsupported()
		return false
	}
	return true
}

// Resolve a drive command's target, rejecting the adapter target and
// reporting an absent drive.
func (ctl *Controller) driveOnly() *Drive {
	var drive *Drive

	switch ctl.cmdDev {
	case attnDevice0:
		drive = &ctl.drives[0]
	case attnDevice1:
		drive = &ctl.drives[1]
	default:
		ctl.cmdUnsupported()
		return nil
	}
	if !drive.Present {
		ctl.deviceNotPresent()
		return nil
	}
	return drive
}

func wordsToBytes(words []uint16, buf []byte) {
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
}

func bytesToWords(buf []byte, words []uint16) {
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
}

// Command timer callback. Drives the running command one phase forward.
func (ctl *Controller) callback(_ int) {
	if ctl.fault != nil {
		return
	}

	// A pending reset overrides whatever command was in flight.
	if ctl.inReset {
		slog.Debug("esdi: reset complete")
		ctl.inReset = false
		ctl.status = StatusIRQ | StatusTransferReq | StatusStatusOutFull
		ctl.statusLen = 1
		ctl.statusData[0] = statusTag(0, 1, attnHostAdapter)
		ctl.irqStatus = irqHostAdapter | irqResetComplete
		return
	}

	slog.Debug("esdi: command phase", "cmd", ctl.command, "state", ctl.cmdState)
	switch ctl.command {
	case CmdRead, CmdReadCurrentRBA:
		ctl.readCmd()

	case CmdWrite, CmdWriteVerify:
		ctl.writeCmd()

	case CmdReadVerify:
		ctl.readVerifyCmd()

	case CmdSeek:
		ctl.seekCmd()

	case CmdParkHeads:
		ctl.parkHeadsCmd()

	case CmdGetDevStatus:
		ctl.getDevStatusCmd()

	case CmdGetDevConfig:
		ctl.getDevConfigCmd()

	case CmdGetPosInfo:
		ctl.getPosInfoCmd()

	case CmdBufferWrite:
		ctl.bufferWriteCmd()

	case CmdBufferRead:
		ctl.bufferReadCmd()

	case CmdDiagnostic:
		ctl.diagnosticCmd()

	case CmdFormatUnit, CmdFormatPrepare:
		ctl.formatCmd()

	default:
		ctl.fatalf("bad command %02x device %02x", ctl.command, ctl.cmdDev)
	}
}

// Begin a transfer: post the transfer-ready interrupt and arm the data
// movement phase.
func (ctl *Controller) startTransfer() {
	ctl.status = StatusIRQ | StatusCmdInProgress | StatusTransferReq
	ctl.irqStatus = uint8(ctl.cmdDev) | irqTransferReady
	ctl.irqInProgress = true
	ctl.setIRQ()

	ctl.cmdState = phaseData
	ctl.setCallback(cmdLatency)
	ctl.dataPos = 0
}

// Read: pull sectors from the image and drain them word by word into the
// DMA channel, suspending whenever the channel backs up.
func (ctl *Controller) readCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}
	cmdTime := 0.0

	switch ctl.cmdState {
	case phaseSetup:
		// The 0x15 variant continues from the stored RBA.
		if ctl.command == CmdRead {
			ctl.rba = (uint32(ctl.cmdData[2]) | uint32(ctl.cmdData[3])<<16) & 0x0fffffff
		}

		ctl.sectorPos = 0
		ctl.sectorCount = int(ctl.cmdData[1])

		if ctl.rba+uint32(ctl.sectorCount) > drive.Sectors {
			ctl.rbaOutOfRange()
			return
		}

		ctl.startTransfer()

	case phaseData:
		if ctl.basicCtrl&ctrlDMAEna == 0 {
			ctl.setCallback(cmdLatency)
			return
		}

		var buf [hdd.SectorSize]byte
		for ctl.sectorPos < ctl.sectorCount {
			if ctl.dataPos == 0 {
				if ctl.rba >= drive.Sectors {
					ctl.fatalf("read past end of drive")
					return
				}
				if err := drive.Image.Read(ctl.rba, 1, buf[:]); err != nil {
					slog.Debug("esdi: read error", "rba", ctl.rba, "err", err)
					ctl.defectiveBlock()
					return
				}
				bytesToWords(buf[:], ctl.data[:])
				cmdTime += drive.Image.ReadTime(ctl.rba, 1)
				cmdTime += xferTime(1)
			}

			for ctl.dataPos < sectorWords {
				val := ctl.dma.ChannelWrite(ctl.dmaChan, ctl.data[ctl.dataPos])
				if val == dev.DMANoData {
					ctl.setCallback(cmdLatency + cmdTime)
					return
				}
				ctl.dataPos++
			}

			ctl.dataPos = 0
			ctl.sectorPos++
			ctl.rba++
		}

		ctl.status = StatusCmdInProgress
		ctl.cmdState = phaseDone
		ctl.setCallback(cmdLatency + cmdTime)

	case phaseDone:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}

// Write and write-with-verify: fill the sector buffer from the DMA channel
// and store each completed sector.
func (ctl *Controller) writeCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}
	cmdTime := 0.0

	switch ctl.cmdState {
	case phaseSetup:
		ctl.rba = (uint32(ctl.cmdData[2]) | uint32(ctl.cmdData[3])<<16) & 0x0fffffff

		ctl.sectorPos = 0
		ctl.sectorCount = int(ctl.cmdData[1])

		if ctl.rba+uint32(ctl.sectorCount) > drive.Sectors {
			ctl.rbaOutOfRange()
			return
		}

		ctl.startTransfer()

	case phaseData:
		if ctl.basicCtrl&ctrlDMAEna == 0 {
			ctl.setCallback(cmdLatency)
			return
		}

		var buf [hdd.SectorSize]byte
		for ctl.sectorPos < ctl.sectorCount {
			for ctl.dataPos < sectorWords {
				val := ctl.dma.ChannelRead(ctl.dmaChan)
				if val == dev.DMANoData {
					ctl.setCallback(cmdLatency + cmdTime)
					return
				}
				ctl.data[ctl.dataPos] = uint16(val)
				ctl.dataPos++
			}

			if ctl.rba >= drive.Sectors {
				ctl.fatalf("write past end of drive")
				return
			}
			wordsToBytes(ctl.data[:], buf[:])
			if err := drive.Image.Write(ctl.rba, 1, buf[:]); err != nil {
				slog.Debug("esdi: write error", "rba", ctl.rba, "err", err)
				ctl.defectiveBlock()
				return
			}
			cmdTime += drive.Image.WriteTime(ctl.rba, 1)
			cmdTime += xferTime(1)
			ctl.rba++
			ctl.sectorPos++
			ctl.dataPos = 0
		}

		ctl.status = StatusCmdInProgress
		ctl.cmdState = phaseDone
		ctl.setCallback(cmdLatency + cmdTime)

	case phaseDone:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}

// Read-verify checks the run on the media without moving any data; the
// whole cost is the media read estimate.
func (ctl *Controller) readVerifyCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.rba = (uint32(ctl.cmdData[2]) | uint32(ctl.cmdData[3])<<16) & 0x0fffffff
		ctl.sectorCount = int(ctl.cmdData[1])

		if ctl.rba+uint32(ctl.sectorCount) > drive.Sectors {
			ctl.rbaOutOfRange()
			return
		}

		cmdTime := drive.Image.ReadTime(ctl.rba, ctl.sectorCount)
		ctl.setCallback(cmdLatency + cmdTime)
		ctl.cmdState = phaseData

	case phaseData:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}

// Seek re-validates the stored run before moving the heads.
func (ctl *Controller) seekCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}

	if ctl.rba+uint32(ctl.sectorCount) > drive.Sectors {
		ctl.rbaOutOfRange()
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.rba = (uint32(ctl.cmdData[2]) | uint32(ctl.cmdData[3])<<16) & 0x0fffffff
		cmdTime := drive.Image.SeekTime(ctl.rba)
		ctl.setCallback(cmdLatency + cmdTime)
		ctl.cmdState = phaseData

	case phaseData:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}

// Park the heads at cylinder zero.
func (ctl *Controller) parkHeadsCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.rba = 0
		cmdTime := drive.Image.SeekTime(ctl.rba)
		ctl.setCallback(cmdLatency + cmdTime)
		ctl.cmdState = phaseData

	case phaseData:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}

// Fixed device status report, single phase.
func (ctl *Controller) getDevStatusCmd() {
	if ctl.driveOnly() == nil {
		return
	}

	if ctl.status&StatusIRQ != 0 || ctl.irqInProgress {
		ctl.fatalf("device status request with interrupt pending, status %02x", ctl.status)
		return
	}

	ctl.statusLen = 9
	ctl.statusData[0] = statusTag(CmdGetDevStatus, 9, attnHostAdapter)
	ctl.statusData[1] = 0x0000 // Error bits
	ctl.statusData[2] = 0x1900 // Device status
	ctl.statusData[3] = 0      // ESDI standard status
	ctl.statusData[4] = 0      // ESDI vendor unique status
	for i := 5; i < 9; i++ {
		ctl.statusData[i] = 0
	}
	ctl.completeSuccess()
}

// Capability word for the adapter target, geometry for a drive target.
// Single phase.
func (ctl *Controller) getDevConfigCmd() {
	if ctl.status&StatusIRQ != 0 || ctl.irqInProgress {
		ctl.fatalf("device config request with interrupt pending, status %02x", ctl.status)
		return
	}

	if ctl.cmdDev == attnHostAdapter {
		// The firmware probes the sector buffer from this report:
		// bits 15-12 chip revision, bits 11-8 buffer size in 256 byte
		// units.
		ctl.statusLen = 6
		ctl.statusData[0] = statusTag(CmdGetDevConfig, 6, attnHostAdapter)
		ctl.statusData[1] = 0
		ctl.statusData[2] = 0
		ctl.statusData[3] = 0x3200
		ctl.statusData[4] = 0
		ctl.statusData[5] = 0
	} else {
		drive := ctl.driveOnly()
		if drive == nil {
			return
		}

		ctl.statusLen = 6
		ctl.statusData[0] = statusTag(CmdGetDevConfig, 6, attnHostAdapter)
		ctl.statusData[1] = 0x10 // Zero defect
		ctl.statusData[2] = uint16(drive.Sectors)
		ctl.statusData[3] = uint16(drive.Sectors >> 16)
		ctl.statusData[4] = uint16(drive.Tracks)
		ctl.statusData[5] = uint16(drive.Hpc | drive.Spt<<16)
	}
	ctl.completeSuccess()
}

// POS register snapshot, adapter only, single phase.
func (ctl *Controller) getPosInfoCmd() {
	if !ctl.adapterOnly() {
		return
	}

	if ctl.status&StatusIRQ != 0 || ctl.irqInProgress {
		ctl.fatalf("position info request with interrupt pending, status %02x", ctl.status)
		return
	}

	ctl.statusLen = 5
	ctl.statusData[0] = statusTag(CmdGetPosInfo, 5, attnHostAdapter)
	ctl.statusData[1] = uint16(ctl.posRegs[1]) | uint16(ctl.posRegs[0])<<8 // MCA ID
	ctl.statusData[2] = uint16(ctl.posRegs[3]) | uint16(ctl.posRegs[2])<<8
	ctl.statusData[3] = 0xff
	ctl.statusData[4] = 0xff

	ctl.completeSuccess()
}

// Vendor command 0x10: fill the on-controller sector buffer from DMA.
func (ctl *Controller) bufferWriteCmd() {
	if !ctl.adapterOnly() {
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.sectorPos = 0
		ctl.sectorCount = int(ctl.cmdData[1])
		if ctl.sectorCount > 256 {
			ctl.fatalf("sector buffer write count %04x", ctl.cmdData[1])
			return
		}

		ctl.startTransfer()

	case phaseData:
		if ctl.basicCtrl&ctrlDMAEna == 0 {
			ctl.setCallback(cmdLatency)
			return
		}

		for ctl.sectorPos < ctl.sectorCount {
			for ctl.dataPos < sectorWords {
				val := ctl.dma.ChannelRead(ctl.dmaChan)
				if val == dev.DMANoData {
					ctl.setCallback(cmdLatency)
					return
				}
				ctl.data[ctl.dataPos] = uint16(val)
				ctl.dataPos++
			}

			copy(ctl.sectorBuffer[ctl.sectorPos][:], ctl.data[:])
			ctl.sectorPos++
			ctl.dataPos = 0
		}

		ctl.status = StatusCmdInProgress
		ctl.cmdState = phaseDone
		ctl.setCallback(cmdLatency)

	case phaseDone:
		ctl.status = StatusIRQ
		ctl.irqStatus = irqHostAdapter | irqCmdSuccess
		ctl.irqInProgress = true
		ctl.setIRQ()
	}
}

// Vendor command 0x11: drain the sector buffer to DMA.
func (ctl *Controller) bufferReadCmd() {
	if !ctl.adapterOnly() {
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.sectorPos = 0
		ctl.sectorCount = int(ctl.cmdData[1])
		if ctl.sectorCount > 256 {
			ctl.fatalf("sector buffer read count %04x", ctl.cmdData[1])
			return
		}

		ctl.startTransfer()

	case phaseData:
		if ctl.basicCtrl&ctrlDMAEna == 0 {
			ctl.setCallback(cmdLatency)
			return
		}

		for ctl.sectorPos < ctl.sectorCount {
			if ctl.dataPos == 0 {
				copy(ctl.data[:], ctl.sectorBuffer[ctl.sectorPos][:])
				ctl.sectorPos++
			}
			for ctl.dataPos < sectorWords {
				val := ctl.dma.ChannelWrite(ctl.dmaChan, ctl.data[ctl.dataPos])
				if val == dev.DMANoData {
					ctl.setCallback(cmdLatency)
					return
				}
				ctl.dataPos++
			}

			ctl.dataPos = 0
		}

		ctl.status = StatusCmdInProgress
		ctl.cmdState = phaseDone
		ctl.setCallback(cmdLatency)

	case phaseDone:
		ctl.status = StatusIRQ
		ctl.irqStatus = irqHostAdapter | irqCmdSuccess
		ctl.irqInProgress = true
		ctl.setIRQ()
	}
}

// Fixed diagnostic, adapter only, single phase. The tag declares length 5
// with only two words queued; firmware depends on the quirk.
func (ctl *Controller) diagnosticCmd() {
	if !ctl.adapterOnly() {
		return
	}

	if ctl.status&StatusIRQ != 0 || ctl.irqInProgress {
		ctl.fatalf("diagnostic request with interrupt pending, status %02x", ctl.status)
		return
	}

	ctl.statusLen = 2
	ctl.statusData[0] = statusTag(CmdDiagnostic, 5, attnHostAdapter)
	ctl.statusData[1] = 0

	ctl.completeSuccess()
}

// Format-unit zeroes the whole store; format-prepare goes through the same
// motions without touching the media.
func (ctl *Controller) formatCmd() {
	drive := ctl.driveOnly()
	if drive == nil {
		return
	}

	switch ctl.cmdState {
	case phaseSetup:
		ctl.rba = drive.Sectors

		if ctl.command == CmdFormatUnit {
			ctl.sectorCount = int(ctl.cmdData[1])
		} else {
			ctl.sectorCount = 0
		}

		ctl.status = StatusIRQ | StatusCmdInProgress | StatusTransferReq
		ctl.irqStatus = uint8(ctl.cmdDev) | irqTransferReady
		ctl.irqInProgress = true
		ctl.setIRQ()

		ctl.cmdState = phaseData
		ctl.setCallback(cmdLatency)

	case phaseData:
		if ctl.basicCtrl&ctrlDMAEna == 0 {
			ctl.setCallback(cmdLatency)
			return
		}

		if ctl.command == CmdFormatUnit {
			if err := drive.Image.Zero(0, int(drive.Sectors)+1); err != nil {
				slog.Debug("esdi: format error", "err", err)
				ctl.defectiveBlock()
				return
			}
		}

		ctl.status = StatusCmdInProgress
		ctl.cmdState = phaseDone
		ctl.setCallback(cmdLatency)

	case phaseDone:
		ctl.completeCmdStatus()
		ctl.completeSuccess()
	}
}
