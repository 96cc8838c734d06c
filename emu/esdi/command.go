package esdi

/*
 * ESDI - Console command handling
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
	"errors"
	"fmt"
	"strings"

	command "github.com/Spagheta-DSi/86Box/command/command"
	"github.com/Spagheta-DSi/86Box/emu/hdd"
)

var cmdOptions = []command.Options{
	{Name: "file", OptionType: command.OptionFile, OptionValid: command.ValidAttach},
	{Name: "unit", OptionType: command.OptionNumber, OptionValid: command.ValidAttach},
	{Name: "create", OptionType: command.OptionSwitch, OptionValid: command.ValidAttach},
	{Name: "spt", OptionType: command.OptionNumber, OptionValid: command.ValidAttach | command.ValidSet},
	{Name: "hpc", OptionType: command.OptionNumber, OptionValid: command.ValidAttach | command.ValidSet},
	{Name: "tracks", OptionType: command.OptionNumber, OptionValid: command.ValidAttach | command.ValidSet},
	{Name: "drives", OptionType: command.OptionSwitch, OptionValid: command.ValidShow},
	{Name: "status", OptionType: command.OptionSwitch, OptionValid: command.ValidShow},
}

// Options lists the console options the controller accepts.
func (ctl *Controller) Options(_ string) []command.Options {
	return cmdOptions
}

// Attach opens or creates a drive image and hangs it on a unit.
func (ctl *Controller) Attach(options []*command.CmdOption) error {
	unit := 0
	file := ""
	create := false
	spt := hdd.DefaultSpt
	hpc := hdd.DefaultHpc
	tracks := 0

	for _, opt := range options {
		switch strings.ToLower(opt.Name) {
		case "file":
			file = opt.EqualOpt
		case "unit":
			unit = int(opt.Value)
		case "create":
			create = true
		case "spt":
			spt = int(opt.Value)
		case "hpc":
			hpc = int(opt.Value)
		case "tracks":
			tracks = int(opt.Value)
		default:
			return errors.New("esdi invalid option " + opt.Name)
		}
	}

	if file == "" {
		return errors.New("attach requires a file name")
	}

	var disk *hdd.Disk
	var err error
	if create {
		disk, err = hdd.Create(file, spt, hpc, tracks)
	} else {
		disk, err = hdd.Open(file, spt, hpc, tracks)
	}
	if err != nil {
		return err
	}

	if err = ctl.AttachDrive(unit, disk); err != nil {
		disk.Close()
		return err
	}
	return nil
}

// Detach closes the image on a unit.
func (ctl *Controller) Detach(options []*command.CmdOption) error {
	unit := 0
	for _, opt := range options {
		if strings.ToLower(opt.Name) != "unit" {
			return errors.New("esdi invalid option " + opt.Name)
		}
		unit = int(opt.Value)
	}
	return ctl.DetachDrive(unit)
}

// Set has nothing to change once drives are attached.
func (ctl *Controller) Set(_ bool, options []*command.CmdOption) error {
	if len(options) == 0 {
		return errors.New("nothing to set")
	}
	return errors.New("esdi invalid option " + options[0].Name)
}

// Show formats the controller and drive state for the console.
func (ctl *Controller) Show(_ []*command.CmdOption) (string, error) {
	variant := "adapter"
	if ctl.variant == Integrated {
		variant = "integrated"
	}
	out := fmt.Sprintf("esdi %s io=%04x irq=%d dma=%d", variant, ctl.base, IRQChan, ctl.dmaChan)
	if ctl.fault != nil {
		out += " fault: " + ctl.fault.Error()
	}
	for unit := range ctl.drives {
		drive := &ctl.drives[unit]
		if !drive.Present {
			continue
		}
		out += fmt.Sprintf("\n  drive %d: %s spt=%d hpc=%d tracks=%d",
			unit, drive.Image.Path(), drive.Spt, drive.Hpc, drive.Tracks)
	}
	return out, nil
}
