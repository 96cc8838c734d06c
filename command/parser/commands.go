/*
 * ESDI - Console commands.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"

	command "github.com/Spagheta-DSi/86Box/command/command"
	machine "github.com/Spagheta-DSi/86Box/emu/machine"
)

var cmdList = []cmd{
	{Name: "attach", Min: 2, Process: attach, Complete: attachComplete},
	{Name: "detach", Min: 2, Process: detach, Complete: DeviceComplete},
	{Name: "set", Min: 3, Process: set, Complete: setComplete},
	{Name: "unset", Min: 4, Process: unset, Complete: setComplete},
	{Name: "show", Min: 2, Process: show, Complete: DeviceComplete},
	{Name: "step", Min: 4, Process: step},
	{Name: "reset", Min: 5, Process: reset, Complete: DeviceComplete},
	{Name: "quit", Min: 4, Process: quit},
}

// Handle attach commands.
func attach(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Attach")

	// Get device name make sure it is valid.
	device, err := line.getDevice(mach)
	if err != nil {
		return false, err
	}

	optlist, err := line.getOptions(device, command.ValidAttach)
	if err != nil {
		return false, err
	}
	if len(optlist) == 0 {
		return false, errors.New("no options given to attach command")
	}
	return false, device.Attach(optlist)
}

// Attach command completion.
func attachComplete(line *cmdLine, mach *machine.Machine) []string {
	return line.scanDevice(mach)
}

// Handle detach command.
func detach(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Detach")

	// Get device name make sure it is valid.
	device, err := line.getDevice(mach)
	if err != nil {
		return false, err
	}

	optlist, err := line.getOptions(device, command.ValidAttach)
	if err != nil {
		return false, err
	}
	return false, device.Detach(optlist)
}

// Handle set commands.
func set(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Set")

	// Get device name make sure it is valid.
	device, err := line.getDevice(mach)
	if err != nil {
		return false, err
	}

	optlist, err := line.getOptions(device, command.ValidSet)
	if err != nil {
		return false, err
	}
	if len(optlist) == 0 {
		return false, errors.New("no options given to set command")
	}
	return false, device.Set(false, optlist)
}

// Set/Unset command completion.
func setComplete(line *cmdLine, mach *machine.Machine) []string {
	return line.scanDevice(mach)
}

// Handle unset commands.
func unset(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Unset")

	// Get device name make sure it is valid.
	device, err := line.getDevice(mach)
	if err != nil {
		return false, err
	}

	optlist, err := line.getOptions(device, command.ValidSet)
	if err != nil {
		return false, err
	}
	if len(optlist) == 0 {
		return false, errors.New("no options given to unset command")
	}
	return false, device.Set(true, optlist)
}

// Process the show command. With no device name, or "all", show every
// device; "time" shows the simulated clock.
func show(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Show")

	name := line.getWord(false)
	if name == "" || name == "all" {
		for _, devName := range mach.DeviceNames() {
			device, err := mach.Device(devName)
			if err != nil {
				continue
			}
			cm, ok := device.(command.Command)
			if !ok {
				continue
			}
			out, err := cm.Show(nil)
			if err != nil {
				continue
			}
			fmt.Println(out)
		}
		return false, nil
	}

	if name == "time" {
		fmt.Printf("simulated time: %.1f us\n", mach.Time())
		return false, nil
	}

	device, err := mach.Device(name)
	if err != nil {
		return false, err
	}
	cm, ok := device.(command.Command)
	if !ok {
		return false, errors.New("device takes no commands: " + name)
	}

	optlist, err := line.getOptions(cm, command.ValidShow)
	if err != nil {
		return false, err
	}

	out, err := cm.Show(optlist)
	if err != nil {
		return false, err
	}

	fmt.Println(out)
	return false, nil
}

// Advance the simulated clock, default one millisecond.
func step(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Step")

	us, err := line.getNumber()
	if err != nil {
		us = 1000
	}
	mach.Run(float64(us))
	return false, nil
}

// Reset a device, or "all" for the whole machine.
func reset(line *cmdLine, mach *machine.Machine) (bool, error) {
	slog.Debug("Command Reset")

	name := line.getWord(false)
	if name == "" || name == "all" {
		mach.Reset()
		return false, nil
	}

	device, err := mach.Device(name)
	if err != nil {
		return false, err
	}
	device.Reset()
	return false, nil
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ *machine.Machine) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}
