/* PS/2 machine assembly.

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
*/

package machine

import (
	"fmt"
	"strings"

	dev "github.com/Spagheta-DSi/86Box/emu/device"
	"github.com/Spagheta-DSi/86Box/emu/dma"
	"github.com/Spagheta-DSi/86Box/emu/event"
	"github.com/Spagheta-DSi/86Box/emu/iobus"
	"github.com/Spagheta-DSi/86Box/emu/mca"
	"github.com/Spagheta-DSi/86Box/emu/memmap"
	"github.com/Spagheta-DSi/86Box/emu/pic"
)

// Machine ties one scheduler, the buses and the configured devices
// together. Several machines can coexist in one process; nothing here is
// shared.
type Machine struct {
	Sched *event.Scheduler
	IO    *iobus.Bus
	Mem   *memmap.Bus
	MCA   *mca.Bus
	PIC   *pic.PIC
	DMA   *dma.Engine

	clock float64

	names   []string
	devices map[string]dev.Device
}

func New() *Machine {
	mach := &Machine{
		Sched:   event.NewScheduler(),
		IO:      iobus.New(),
		Mem:     memmap.New(),
		MCA:     mca.New(),
		PIC:     pic.New(),
		DMA:     dma.NewEngine(),
		devices: map[string]dev.Device{},
	}

	// Bus setup goes through port 0x96 and the POS window.
	mach.IO.SetHandler(mca.SetupPort, 1, iobus.Handlers{
		WriteByte: func(_ uint16, val uint8) { mach.MCA.SetupWrite(val) },
	})
	mach.IO.SetHandler(mca.POSBase, 8, iobus.Handlers{
		ReadByte:  mach.MCA.POSRead,
		WriteByte: mach.MCA.POSWrite,
	})
	return mach
}

// Register a configured device under a console name.
func (mach *Machine) AddDevice(name string, device dev.Device) error {
	name = strings.ToLower(name)
	if _, ok := mach.devices[name]; ok {
		return fmt.Errorf("device %s already configured", name)
	}
	mach.devices[name] = device
	mach.names = append(mach.names, name)
	return nil
}

// Look up a device by console name.
func (mach *Machine) Device(name string) (dev.Device, error) {
	device, ok := mach.devices[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no device %s", name)
	}
	return device, nil
}

// DeviceNames returns the configured names in configuration order.
func (mach *Machine) DeviceNames() []string {
	return mach.names
}

// Run the simulated clock forward by us microseconds.
func (mach *Machine) Run(us float64) {
	mach.Sched.Advance(us)
	mach.clock += us
}

// Time since power-on in simulated microseconds.
func (mach *Machine) Time() float64 {
	return mach.clock
}

// Reset every configured device, as on the hardware reset line.
func (mach *Machine) Reset() {
	for _, name := range mach.names {
		mach.devices[name].Reset()
	}
}

// Shut down every configured device, releasing backing files.
func (mach *Machine) Shutdown() {
	for _, name := range mach.names {
		mach.devices[name].Shutdown()
	}
}
