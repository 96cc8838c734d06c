/*
 * ESDI - Command line completion.
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
	"slices"
	"strings"
	"unicode"

	machine "github.com/Spagheta-DSi/86Box/emu/machine"
)

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string, mach *machine.Machine) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)

	// We have a command, let it try and complete it.
	if !line.isEOL() && !unicode.IsSpace(rune(line.getCurrent())) {
		// See if there is a completer for this command.
		match := matchList(name)
		if len(match) == 0 || len(match) > 1 {
			return nil
		}

		if match[0].Complete != nil {
			return match[0].Complete(&line, mach)
		}
		return nil
	}

	// Try and match one command.
	var matches []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.Name, name) {
			matches = append(matches, m.Name)
		}
	}
	slices.Sort(matches)
	return matches
}

// Complete a partial device name after the command word.
func (line *cmdLine) scanDevice(mach *machine.Machine) []string {
	partial := ""
	pos := line.pos
	leading := line.line[:pos]

	// Collect the partial device name.
	for pos+len(partial) < len(line.line) {
		by := line.line[pos+len(partial)]
		if unicode.IsSpace(rune(by)) {
			break
		}
		partial += string(by)
	}
	partial = strings.ToLower(partial)

	devices := []string{}
	for _, name := range mach.DeviceNames() {
		if strings.HasPrefix(name, partial) {
			devices = append(devices, leading+name+" ")
		}
	}
	slices.Sort(devices)
	return devices
}

// DeviceComplete completes commands whose first argument is a device.
func DeviceComplete(line *cmdLine, mach *machine.Machine) []string {
	return line.scanDevice(mach)
}
