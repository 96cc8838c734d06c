/* Device model registration.

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

package models

import (
	"errors"
	"strconv"
	"strings"

	config "github.com/Spagheta-DSi/86Box/config/configparser"
	"github.com/Spagheta-DSi/86Box/emu/esdi"
	"github.com/Spagheta-DSi/86Box/emu/hdd"
	"github.com/Spagheta-DSi/86Box/emu/machine"
	"github.com/Spagheta-DSi/86Box/emu/mca"
)

// Register devices on initialize.
func init() {
	config.RegisterModel("ESDI", createAdapter)
	config.RegisterModel("ESDIINT", createIntegrated)
}

func createAdapter(mach *machine.Machine, _ string, options []config.Option) error {
	return create(mach, esdi.Adapter, options)
}

func createIntegrated(mach *machine.Machine, _ string, options []config.Option) error {
	return create(mach, esdi.Integrated, options)
}

type driveOpts struct {
	path   string
	create bool
	spt    int
	hpc    int
	tracks int
}

// Build one controller from a configuration line.
func create(mach *machine.Machine, variant int, options []config.Option) error {
	name := "esdi"
	if variant == esdi.Integrated {
		name = "esdiint"
	}
	secondary := false
	slot := 0
	var drives [2]driveOpts
	var bios [2]string

	number := func(opt config.Option) (int, error) {
		if opt.EqualOpt == "" {
			return 0, errors.New(opt.Name + " requires a value")
		}
		v, err := strconv.ParseUint(opt.EqualOpt, 10, 32)
		if err != nil {
			return 0, errors.New(opt.Name + " must be a number: " + opt.EqualOpt)
		}
		return int(v), nil
	}

	for _, option := range options {
		optName := strings.ToUpper(option.Name)
		unit := 0
		if strings.HasSuffix(optName, "1") {
			unit = 1
		}
		var err error
		switch optName {
		case "NAME":
			if option.EqualOpt == "" {
				return errors.New("name requires a value")
			}
			name = option.EqualOpt
		case "SECONDARY":
			if variant != esdi.Adapter {
				return errors.New("secondary only valid on the adapter card")
			}
			secondary = true
		case "SLOT":
			if variant != esdi.Integrated {
				return errors.New("slot only valid on the integrated controller")
			}
			slot, err = number(option)
			if err != nil {
				return err
			}
			if slot < 1 || slot > 8 {
				return errors.New("slot must be 1 to 8")
			}
		case "DRIVE0", "DRIVE1":
			if option.EqualOpt == "" {
				return errors.New("drive requires an image path")
			}
			drives[unit].path = option.EqualOpt
		case "CREATE0", "CREATE1":
			drives[unit].create = true
		case "SPT0", "SPT1":
			drives[unit].spt, err = number(option)
		case "HPC0", "HPC1":
			drives[unit].hpc, err = number(option)
		case "TRACKS0", "TRACKS1":
			drives[unit].tracks, err = number(option)
		case "BIOS0", "BIOS1":
			if variant != esdi.Adapter {
				return errors.New("bios only valid on the adapter card")
			}
			if option.EqualOpt == "" {
				return errors.New("bios requires an image path")
			}
			bios[unit] = option.EqualOpt
		default:
			return errors.New("esdi invalid option " + option.Name)
		}
		if err != nil {
			return err
		}
		if option.Value != nil {
			return errors.New("extra options not supported on: " + option.Name)
		}
	}

	ctl := esdi.New(esdi.Config{
		Variant:   variant,
		Secondary: secondary,
		Slot:      slot,
		Sched:     mach.Sched,
		IO:        mach.IO,
		Mem:       mach.Mem,
		Intr:      mach.PIC,
		DMA:       mach.DMA,
	})

	if bios[0] != "" || bios[1] != "" {
		if bios[0] == "" || bios[1] == "" {
			return errors.New("bios requires both even and odd images")
		}
		if err := ctl.LoadBIOS(bios[0], bios[1]); err != nil {
			return err
		}
	}

	for unit := range drives {
		opt := &drives[unit]
		if opt.path == "" {
			continue
		}
		var disk *hdd.Disk
		var err error
		if opt.create {
			disk, err = hdd.Create(opt.path, opt.spt, opt.hpc, opt.tracks)
		} else {
			disk, err = hdd.Open(opt.path, opt.spt, opt.hpc, opt.tracks)
		}
		if err != nil {
			return err
		}
		if err = ctl.AttachDrive(unit, disk); err != nil {
			disk.Close()
			return err
		}
	}

	if variant == esdi.Integrated && slot != 0 {
		if err := mach.MCA.AddToSlot(ctl, slot-1); err != nil {
			return err
		}
	} else {
		if err := mach.MCA.Add(ctl); err != nil {
			return err
		}
	}

	// Program the stored setup the way the machine would at power on:
	// card enabled, DMA arbitration level 5, ROM at 0xc8000 when present.
	mach.IO.OutB(mca.SetupPort, uint8(0x08|mach.MCA.Slot(ctl)))
	if variant == esdi.Adapter && bios[0] != "" {
		mach.IO.OutB(mca.POSBase+3, 0x02)
	}
	mach.IO.OutB(mca.POSBase+2, 0x15)
	mach.IO.OutB(mca.SetupPort, 0)

	return mach.AddDevice(name, ctl)
}
