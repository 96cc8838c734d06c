/*
 * ESDI - Command parser.
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
	"strings"
	"unicode"

	command "github.com/Spagheta-DSi/86Box/command/command"
	machine "github.com/Spagheta-DSi/86Box/emu/machine"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, *machine.Machine) (bool, error)
	Complete func(*cmdLine, *machine.Machine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// Execute the command line given.
func ProcessCommand(commandLine string, mach *machine.Machine) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord(false)
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].Process(&line, mach)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	l := 0
	for l = 0; l < len(command); l++ {
		if match.Name[l] != command[l] {
			return false
		}
	}
	return (l + 1) >= match.Min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	// If command empty just return.
	if command == "" {
		return []cmd{}
	}

	// Try and match one command.
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Match list of options.
func matchOption(option string, optList []command.Options, cmdType int) command.Options {
	for _, opt := range optList {
		if (opt.OptionValid & cmdType) == 0 {
			continue
		}
		if opt.Name == option {
			return opt
		}
	}
	return command.Options{OptionType: -1}
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for {
		if line.pos >= len(line.line) {
			return
		}
		if unicode.IsSpace(rune(line.line[line.pos])) {
			line.pos++
			continue
		}
		return
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	if line.line[line.pos] == '#' {
		return true
	}
	return false
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Parse string that is "string" or just string.
func (line *cmdLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	// If quote, set we are in quoted string
	by := line.getCurrent()
	if by == 0 {
		return "", false
	}

	if by == '"' {
		inQuote = true
		by = line.getCurrent()
	}

	for by != 0 {
		// If processing a quoted string "" gets replaced by single quote
		if by == '"' && inQuote {
			by = line.getCurrent()
			// Single quote terminates string.
			if by != '"' {
				// Hit end of string.
				return value, true
			}
		}

		// Space terminates an unquoted string.
		if !inQuote && unicode.IsSpace(rune(by)) {
			return value, true
		}

		value += string(by)
		// If we hit end of line, stop processing.
		by = line.getCurrent()
	}
	return value, !inQuote
}

// Parse a decimal number.
func (line *cmdLine) getNumber() (uint32, error) {
	line.skipSpace()

	// Check if end of line.
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsDigit(rune(by)) {
			return 0, errors.New("not a number")
		}
		value = (value * 10) + uint32(by-'0')
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

// Parse option or device name.
// Stops at the = when equal is set.
func (line *cmdLine) getWord(equal bool) string {
	line.skipSpace()

	value := ""
	pos := line.pos
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsLetter(rune(by)) && !unicode.IsNumber(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string([]byte{by})
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
		if by == '=' && equal {
			return strings.ToLower(value)
		}
	}

	return strings.ToLower(value)
}

// Get an option.
func (line *cmdLine) getOption(opts []command.Options, cmdType int) (*command.CmdOption, error) {
	// Get a word, stopping at equal or space.
	name := line.getWord(true)

	opt := command.CmdOption{Name: name}

	if name == "" && !line.isEOL() {
		if cmdType == command.ValidAttach {
			// For attach commands a bare value is taken as a file name.
			file, ok := line.parseQuoteString()
			if !ok {
				return nil, errors.New("invalid option")
			}
			opt.Name = "file"
			opt.EqualOpt = file
		}
		return &opt, nil
	}

	match := matchOption(name, opts, cmdType)
	switch match.OptionType {
	case -1:
		return nil, errors.New("unknown option: " + name)
	case command.OptionSwitch:
		if !line.isEOL() && line.line[line.pos] == '=' {
			return nil, errors.New("switch option can't have arguments: " + name)
		}
	case command.OptionFile:
		file, ok := line.parseQuoteString()
		if !ok {
			return nil, errors.New("file name not valid: " + name)
		}
		opt.EqualOpt = file
	case command.OptionNumber:
		num, err := line.getNumber()
		if err != nil {
			return nil, errors.New("number options must be followed by number: " + name)
		}
		opt.Value = num
	case command.OptionName, command.OptionList:
		value := line.getWord(false)
		if value == "" {
			return nil, errors.New("option must be followed by name: " + name)
		}
		opt.EqualOpt = value
	default:
		return nil, errors.New("invalid option type: " + name)
	}
	return &opt, nil
}

// Scan options and return a list of options.
func (line *cmdLine) getOptions(device command.Command, cmdType int) ([]*command.CmdOption, error) {
	optlist := []*command.CmdOption{}
	opts := device.Options("")
	for {
		opt, err := line.getOption(opts, cmdType)
		if err != nil {
			return optlist, err
		}
		if opt != nil && opt.Name != "" {
			optlist = append(optlist, opt)
		} else {
			break
		}
	}
	return optlist, nil
}

// Return pointer to command interface to device.
func (line *cmdLine) getDevice(mach *machine.Machine) (command.Command, error) {
	name := line.getWord(false)
	if name == "" {
		return nil, errors.New("device name required")
	}

	device, err := mach.Device(name)
	if err != nil {
		return nil, err
	}

	cm, ok := device.(command.Command)
	if !ok {
		return nil, errors.New("device takes no commands: " + name)
	}
	return cm, nil
}
