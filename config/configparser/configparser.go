/*
 * ESDI - Configuration file parser
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

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/Spagheta-DSi/86Box/emu/machine"
)

// List of options to pass to create routine.
type Option struct {
	Name     string    // Name of option.
	EqualOpt string    // Value of string after =.
	Value    []*string // Comma list following the option.
}

// Current option line being parsed.
type optionLine struct {
	line string // Current option line.
	pos  int    // Current position in line.
}

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> *(<whitespace>) <options> |
 *            'logfile' <quoteopt>
 * <model> := <string>
 * <options> ::= *(<option> *(<whitespace>))
 * <option> ::= <string> ['=' <quoteopt>] *(',' *(<whitespace>) <string>)
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 * <string> ::= *(<letter> | <number>)
 */

const (
	TypeModel  = 1 + iota // Creates a device on the machine.
	TypeOption            // Accepts a single value parameter.
	TypeSwitch            // Option only used to set a flag.
)

// Model creation list.
type modelDef struct {
	create func(*machine.Machine, string, []Option) error
	ty     int
}

var models = map[string]modelDef{}

// ModelList holds the registered model names, for console completion.
var ModelList []string

var lineNumber int

// Return type of model or 0 if no model.
func getModel(mod string) int {
	model, ok := models[mod]
	if !ok {
		return 0
	}
	return model.ty
}

// Register should be called from init functions.
func RegisterModel(mod string, fn func(*machine.Machine, string, []Option) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{create: fn, ty: TypeModel}
	ModelList = append(ModelList, mod)
}

// Register should be called from init functions.
func RegisterOption(mod string, fn func(*machine.Machine, string, []Option) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{create: fn, ty: TypeOption}
}

// Register should be called from init functions.
func RegisterSwitch(mod string, fn func(*machine.Machine, string, []Option) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{create: fn, ty: TypeSwitch}
}

// Create a device of type model.
func createModel(mach *machine.Machine, mod string, options []Option) error {
	model, ok := models[mod]
	if !ok {
		return errors.New("unknown model: " + mod)
	}
	if model.ty != TypeModel {
		return errors.New("not a device type: " + mod)
	}
	return model.create(mach, "", options)
}

// Create an option with one parameter.
func createOption(mach *machine.Machine, mod string, value string) error {
	model, ok := models[mod]
	if !ok {
		return errors.New("unknown option: " + mod)
	}
	if model.ty != TypeOption {
		return errors.New("not an optional type: " + mod)
	}
	return model.create(mach, value, nil)
}

// Create switch option.
func createSwitch(mach *machine.Machine, mod string) error {
	model, ok := models[mod]
	if !ok {
		return errors.New("unknown switch: " + mod)
	}
	if model.ty != TypeSwitch {
		return errors.New("not a switch type: " + mod)
	}
	return model.create(mach, "", nil)
}

// Load in a configuration file, creating its devices on the machine.
func LoadConfigFile(name string, mach *machine.Machine) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		var err error

		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		err = line.parseLine(mach)
		if err != nil {
			return err
		}
	}
	return nil
}

// Parse one line from file.
func (line *optionLine) parseLine(mach *machine.Machine) error {
	model := line.parseModel()
	if model == "" {
		return nil
	}
	switch getModel(model) {
	case TypeModel:
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createModel(mach, model, options)

	case TypeOption:
		line.skipSpace()
		// parseQuoteString scans from one position before the value.
		line.pos--
		value, ok := line.parseQuoteString()
		if !ok || value == "" {
			err := fmt.Sprintf("option: %s not followed by value, line: %d", model, lineNumber)
			return errors.New(err)
		}
		line.skipSpace()
		if !line.isEOL() {
			err := fmt.Sprintf("option: %s followed by extra text, line: %d", model, lineNumber)
			return errors.New(err)
		}
		return createOption(mach, model, value)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			err := fmt.Sprintf("switch option: %s followed by options, line: %d", model, lineNumber)
			return errors.New(err)
		}
		return createSwitch(mach, model)

	case 0:
		err := fmt.Sprintf("no type: %s registered, line: %d", model, lineNumber)
		return errors.New(err)
	}
	return nil
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
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
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	if line.line[line.pos] == '#' {
		return true
	}
	return false
}

// Return next letter or digit in line. 0 if EOL or space.
func (line *optionLine) getNext(inQuote bool) byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) || inQuote {
		return by
	}
	return 0
}

// Peek at next character.
func (line *optionLine) getPeek() byte {
	if (line.pos + 1) >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

// Parse model name.
func (line *optionLine) parseModel() string {
	// Skip leading space
	line.skipSpace()
	// Check if end of line.
	if line.isEOL() {
		return ""
	}

	model := ""
	for {
		if line.isEOL() {
			break
		}
		by := line.line[line.pos]
		if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) {
			model += string([]byte{by})
			line.pos++
			continue
		}
		break
	}

	return strings.ToUpper(model)
}

// Parse string that is "string" or just string. Unquoted strings run to
// the next space or comma; paths and such need no quoting.
func (line *optionLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	// If quote, set we are in quoted string
	if line.getPeek() == '"' {
		inQuote = true
		_ = line.getNext(true)
	}

	for {
		var by byte
		if inQuote {
			by = line.getNext(true)
		} else {
			// Unquoted values may carry path characters.
			line.pos++
			if line.pos < len(line.line) {
				by = line.line[line.pos]
			}
		}

		// In a quoted string "" gets replaced by a single quote
		if by == '"' && inQuote {
			by = line.getNext(true)
			if by != '"' {
				// Hit end of string.
				return value, true
			}
		}

		space := by != 0 && unicode.IsSpace(rune(by))
		// Space or comma terminates an unquoted string.
		if !inQuote && (space || by == 0 || by == ',') {
			return value, true
		}

		value += string(by)
		// If we hit end of line, stop processing.
		if line.pos >= len(line.line) {
			return value, !inQuote
		}
	}
}

// Parse option name.
func (line *optionLine) getName() (string, error) {
	// Check if end of line.
	if line.isEOL() {
		return "", nil
	}

	// First character must be alphabetic.
	by := line.line[line.pos]
	if !unicode.IsLetter(rune(by)) {
		if !line.isEOL() {
			err := fmt.Sprintf("invalid option encountered line: %d [%d]", lineNumber, line.pos)
			return "", errors.New(err)
		}
		return "", nil
	}
	value := ""

	// Already verified that first character is letter,
	// so grab until not letter or number.
	for {
		value += string([]byte{by})
		by = line.getNext(false)
		if by == 0 {
			break
		}
	}

	return value, nil
}

// Parse one option for a line.
func (line *optionLine) parseOption() (*Option, error) {
	// Skip leading space
	line.skipSpace()

	// Grab option name
	value, err := line.getName()
	if value == "" {
		return nil, err
	}

	// Empty option.
	option := Option{Name: value}

	// If at end of line done.
	if line.isEOL() {
		return &option, nil
	}

	// Check if equals option.
	if line.line[line.pos] == '=' {
		v, ok := line.parseQuoteString()
		if ok {
			option.EqualOpt = v
		} else {
			err := fmt.Sprintf("invalid quoted string line: %d [%d]", lineNumber, line.pos)
			return nil, errors.New(err)
		}
	}

	// Skip any spaces.
	line.skipSpace()

	// Grab all , options
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++ // Skip comma
		// Skip space between , and next option
		line.skipSpace()
		v, err := line.getName()
		if err != nil {
			return nil, err
		}
		if v != "" {
			option.Value = append(option.Value, &v)
		}
		// Skip any trailing spaces.
		line.skipSpace()
	}

	return &option, nil
}

// Collect all options for line.
func (line *optionLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		option, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if option == nil {
			break
		}
		options = append(options, *option)
	}
	return options, nil
}
