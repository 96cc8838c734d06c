/* IBM PS/2 ESDI Fixed Disk Controller (MCA).

   Copyright 2025, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

   The controller appears to the host as eight I/O ports carrying a word wide
   command/status interface plus byte wide control, status, interrupt status
   and attention registers. Commands run through a timer driven state machine
   synchronized with the platform DMA controller; results come back as word
   sequences in a status queue plus an interrupt. The I/O range, DMA channel
   and option ROM placement are assigned at run time through the POS
   configuration registers. The adapter card and the planar integrated
   controller share everything but the ROM handling.
*/

package esdi

import (
	"fmt"
	"log/slog"

	dev "github.com/Spagheta-DSi/86Box/emu/device"
	event "github.com/Spagheta-DSi/86Box/emu/event"
	iobus "github.com/Spagheta-DSi/86Box/emu/iobus"
	memmap "github.com/Spagheta-DSi/86Box/emu/memmap"

	"github.com/Spagheta-DSi/86Box/emu/hdd"
)

// Controller variants.
const (
	Adapter    = iota // Expansion card with its own option ROM
	Integrated        // Planar controller, no ROM
)

// These are hardwired on the real hardware.
const (
	IOAddrPri = 0x3510
	IOAddrSec = 0x3518
	IRQChan   = 14
)

// Base command latency in microseconds, and the reset sequence length.
const (
	cmdLatency = 500.0
	resetTime  = cmdLatency * 50
)

// Basic status register bits.
const (
	StatusDMAEna        = 1 << 7
	StatusIRQPending    = 1 << 6
	StatusCmdInProgress = 1 << 5
	StatusBusy          = 1 << 4
	StatusStatusOutFull = 1 << 3
	StatusCmdIRFull     = 1 << 2
	StatusTransferReq   = 1 << 1
	StatusIRQ           = 1 << 0
)

// Basic control register bits.
const (
	ctrlReset  = 1 << 7
	ctrlDMAEna = 1 << 1
	ctrlIRQEna = 1 << 0
)

// Interrupt status reason codes, low nibble. The device appears in the
// upper three bits.
const (
	irqHostAdapter   = 7 << 5
	irqCmdSuccess    = 0x1
	irqResetComplete = 0xa
	irqTransferReady = 0xb
	irqCmdFailure    = 0xc
)

// Attention register: device select in the upper three bits, request code
// in the low nibble.
const (
	attnDeviceSel   = 7 << 5
	attnHostAdapter = 7 << 5
	attnDevice0     = 0 << 5
	attnDevice1     = 1 << 5
	attnReqMask     = 0x0f
	attnCmdReq      = 1
	attnEOI         = 2
	attnReset       = 4
)

// Command interface word 0: command code in the low five bits, device
// select in bits 5-7, and bit 14 declaring a four word command.
const (
	cmdSize4     = 1 << 14
	cmdDeviceSel = 7 << 5
	cmdMask      = 0x1f
)

// Command codes.
const (
	CmdRead           = 0x01
	CmdWrite          = 0x02
	CmdReadVerify     = 0x03
	CmdWriteVerify    = 0x04
	CmdSeek           = 0x05
	CmdParkHeads      = 0x06
	CmdGetDevStatus   = 0x08
	CmdGetDevConfig   = 0x09
	CmdGetPosInfo     = 0x0a
	CmdBufferWrite    = 0x10
	CmdBufferRead     = 0x11
	CmdDiagnostic     = 0x12
	CmdReadCurrentRBA = 0x15
	CmdFormatUnit     = 0x16
	CmdFormatPrepare  = 0x17
)

const sectorWords = 256

// One attached drive.
type Drive struct {
	Spt     int
	Hpc     int
	Tracks  int
	Sectors uint32 // Last valid RBA
	Present bool
	Image   *hdd.Disk
}

// Controller state. Everything lives here; two controllers in one machine
// never share state.
type Controller struct {
	variant int
	base    uint16 // I/O base, primary or secondary
	slot    int    // Fixed planar slot for the integrated variant, 0 = auto

	dmaChan  int
	biosBase uint32
	biosROM  *memmap.Region

	basicCtrl uint8
	status    uint8
	irqStatus uint8

	irqEnaDisable    bool // Latched interrupt request, independent of enable
	irqInProgress    bool
	cmdReqInProgress bool

	cmdPos  int
	cmdData [4]uint16
	cmdDev  int // Attention device select bits of the command in flight

	statusPos  int
	statusLen  int
	statusData [256]uint16

	dataPos int
	data    [sectorWords]uint16

	sectorBuffer [256][sectorWords]uint16
	sectorPos    int
	sectorCount  int

	command  int
	cmdState int

	inReset bool
	rba     uint32

	drives  [2]Drive
	posRegs [8]uint8

	sched *event.Scheduler
	io    *iobus.Bus
	mem   *memmap.Bus
	intr  dev.IntrController
	dma   dev.DMAEngine

	fault     error
	faultHook func(error)
}

// Config carries the collaborators and placement choices for one controller.
type Config struct {
	Variant   int
	Secondary bool // Decode the secondary I/O range
	Slot      int  // Planar slot for the integrated variant, 0 = auto

	Sched *event.Scheduler
	IO    *iobus.Bus
	Mem   *memmap.Bus // Needed only by the adapter variant
	Intr  dev.IntrController
	DMA   dev.DMAEngine

	// Invoked once on the first unrecoverable protocol violation.
	FaultHook func(error)
}

// Create a controller. It starts in the reset sequence, unconfigured, with
// no I/O range claimed; the bus configuration write brings it live.
func New(cfg Config) *Controller {
	ctl := &Controller{
		variant:   cfg.Variant,
		base:      IOAddrPri,
		slot:      cfg.Slot,
		sched:     cfg.Sched,
		io:        cfg.IO,
		mem:       cfg.Mem,
		intr:      cfg.Intr,
		dma:       cfg.DMA,
		faultHook: cfg.FaultHook,
	}
	if cfg.Secondary {
		ctl.base = IOAddrSec
	}

	// Mark as unconfigured.
	ctl.irqStatus = 0xff

	// MCA adapter ID.
	if ctl.variant == Adapter {
		ctl.posRegs[0] = 0xff
		ctl.posRegs[1] = 0xdd
	} else {
		ctl.posRegs[0] = 0x9f
		ctl.posRegs[1] = 0xdf
	}

	ctl.inReset = true
	ctl.setCallback(resetTime)
	ctl.status = StatusBusy
	return ctl
}

// Attach an option ROM image pair for the adapter variant. The region is
// registered disabled; POS writes place and enable it.
func (ctl *Controller) LoadBIOS(evenPath, oddPath string) error {
	if ctl.variant != Adapter {
		return fmt.Errorf("esdi: integrated controller has no option ROM")
	}
	rom, err := memmap.LoadInterleavedROM(evenPath, oddPath, 0xc8000, 0x4000)
	if err != nil {
		return err
	}
	rom.Disable()
	ctl.biosROM = rom
	if ctl.mem != nil {
		ctl.mem.Add(rom)
	}
	return nil
}

// Attach a backing image as drive 0 or 1.
func (ctl *Controller) AttachDrive(unit int, disk *hdd.Disk) error {
	if unit < 0 || unit > 1 {
		return fmt.Errorf("esdi: no drive unit %d", unit)
	}
	drive := &ctl.drives[unit]
	if drive.Present {
		return fmt.Errorf("esdi: drive %d already attached", unit)
	}
	drive.Spt = disk.Spt
	drive.Hpc = disk.Hpc
	drive.Tracks = disk.Tracks
	drive.Sectors = disk.LastSector()
	drive.Image = disk
	drive.Present = true
	return nil
}

// Detach a drive, closing its image.
func (ctl *Controller) DetachDrive(unit int) error {
	if unit < 0 || unit > 1 {
		return fmt.Errorf("esdi: no drive unit %d", unit)
	}
	drive := &ctl.drives[unit]
	if !drive.Present {
		return fmt.Errorf("esdi: drive %d not attached", unit)
	}
	err := drive.Image.Close()
	*drive = Drive{}
	return err
}

// Slot returns the planar slot requested for the integrated variant,
// zero meaning any.
func (ctl *Controller) Slot() int {
	return ctl.slot
}

// Fault reports the first unrecoverable protocol violation, nil if none.
// Once faulted the controller ignores all further traffic.
func (ctl *Controller) Fault() error {
	return ctl.fault
}

// Begin the reset sequence unless one is already in flight. This is both
// the MCA card reset and the machine reset entry.
func (ctl *Controller) Reset() {
	if ctl.fault != nil {
		return
	}
	if !ctl.inReset {
		ctl.inReset = true
		ctl.setCallback(resetTime)
		ctl.status = StatusBusy
	}
}

// Release drive images at machine shutdown.
func (ctl *Controller) Shutdown() {
	for unit := range ctl.drives {
		drive := &ctl.drives[unit]
		if drive.Present {
			if err := drive.Image.Close(); err != nil {
				slog.Error("esdi: closing drive image", "unit", unit, "err", err)
			}
		}
		*drive = Drive{}
	}
	ctl.setCallback(0)
}

// Re-arm the one-shot command timer, dropping any pending fire. A zero
// time just stops the timer.
func (ctl *Controller) setCallback(us float64) {
	ctl.sched.Cancel(ctl, 0)
	if us > 0 {
		ctl.sched.Add(ctl, ctl.callback, us, 0)
	}
}

// 390.625 us per sector at 10 Mbit/s = 1280 kB/s.
func xferTime(sectors int) float64 {
	return (3125.0 / 8.0) * float64(sectors)
}

// Latch an interrupt request and drive the line if enabled.
func (ctl *Controller) setIRQ() {
	ctl.irqEnaDisable = true
	slog.Debug("esdi: set irq", "enabled", ctl.basicCtrl&ctrlIRQEna != 0, "cmd", ctl.command)
	if ctl.basicCtrl&ctrlIRQEna != 0 {
		ctl.intr.Raise(IRQChan)
	}
}

// Clear the latched request and drop the line if enabled.
func (ctl *Controller) clearIRQ() {
	ctl.irqEnaDisable = false
	slog.Debug("esdi: clear irq", "enabled", ctl.basicCtrl&ctrlIRQEna != 0, "cmd", ctl.command)
	if ctl.basicCtrl&ctrlIRQEna != 0 {
		ctl.intr.Lower(IRQChan)
	}
}

// Recompute the line from the latched request after an enable toggle.
func (ctl *Controller) updateIRQ() {
	if ctl.basicCtrl&ctrlIRQEna != 0 && ctl.irqEnaDisable {
		ctl.intr.Raise(IRQChan)
	} else {
		ctl.intr.Lower(IRQChan)
	}
}

// Record an unrecoverable protocol violation. The real controller has no
// defined behavior for these; the simulation stops responding instead of
// taking the whole process down.
func (ctl *Controller) fatalf(format string, args ...interface{}) {
	if ctl.fault != nil {
		return
	}
	err := fmt.Errorf("esdi: "+format, args...)
	slog.Error(err.Error())
	ctl.fault = err
	ctl.setCallback(0)
	if ctl.faultHook != nil {
		ctl.faultHook(err)
	}
}
