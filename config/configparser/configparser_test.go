/*
 * ESDI - Configuration file parser test set.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/Spagheta-DSi/86Box/emu/machine"
)

var testOptions []Option
var testValue string
var testType string
var testCount int

func resetTest() {
	testOptions = []Option{}
	testValue = "error"
	testType = ""
	testCount = 0
}

func cleanUpConfig() {
	models = map[string]modelDef{}
	ModelList = []string{}
	resetTest()
}

// Create a device.
func modDevice(_ *machine.Machine, value string, options []Option) error {
	testValue = value
	testType = "model"
	testOptions = options
	testCount++
	return nil
}

// Record an option value.
func modOption(_ *machine.Machine, value string, options []Option) error {
	testValue = value
	testType = "option"
	testOptions = options
	testCount++
	return nil
}

// Record a switch.
func modSwitch(_ *machine.Machine, value string, options []Option) error {
	testValue = value
	testType = "switch"
	testOptions = options
	testCount++
	return nil
}

// Test registering a model.
func TestRegisterModel(t *testing.T) {
	cleanUpConfig()
	mach := machine.New()

	RegisterModel("testdev", modDevice)
	err := createModel(mach, "TEST", nil)
	if err == nil {
		t.Errorf("Create non existent model succeeded")
	}
	err = createModel(mach, "TESTDEV", nil)
	if err != nil {
		t.Errorf("Unable to create model: %v", err)
	}
	if testType != "model" {
		t.Errorf("Create called wrong type: %s", testType)
	}
	err = createSwitch(mach, "TESTDEV")
	if err == nil {
		t.Errorf("Create device as switch succeeded")
	}
	if len(ModelList) != 1 || ModelList[0] != "TESTDEV" {
		t.Errorf("Model list not updated: %v", ModelList)
	}
}

// Test registering a switch.
func TestRegisterSwitch(t *testing.T) {
	cleanUpConfig()
	mach := machine.New()

	RegisterSwitch("testswitch", modSwitch)
	err := createSwitch(mach, "TEST")
	if err == nil {
		t.Errorf("Create non existent switch succeeded")
	}
	err = createSwitch(mach, "TESTSWITCH")
	if err != nil {
		t.Errorf("Unable to create switch: %v", err)
	}
	if testType != "switch" {
		t.Errorf("Create called wrong type: %s", testType)
	}
	err = createModel(mach, "TESTSWITCH", nil)
	if err == nil {
		t.Errorf("Create switch as device succeeded")
	}
}

// Test registering an option.
func TestRegisterOption(t *testing.T) {
	cleanUpConfig()
	mach := machine.New()

	RegisterOption("testopt", modOption)
	err := createOption(mach, "TEST", "value")
	if err == nil {
		t.Errorf("Create non existent option succeeded")
	}
	err = createOption(mach, "TESTOPT", "value")
	if err != nil {
		t.Errorf("Unable to create option: %v", err)
	}
	if testType != "option" || testValue != "value" {
		t.Errorf("Option value not delivered: %s %s", testType, testValue)
	}
}

// Parse one line the way LoadConfigFile feeds them in.
func parseTestLine(t *testing.T, text string) error {
	t.Helper()
	mach := machine.New()
	line := optionLine{line: text}
	return line.parseLine(mach)
}

// Model lines carry options with values and comma lists.
func TestParseModelLine(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)

	err := parseTestLine(t, "esdi slot=3 drive0=/tmp/disk0.img create0 spt0=17, primary\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if testType != "model" {
		t.Errorf("Wrong create type: %s", testType)
	}
	if len(testOptions) != 4 {
		t.Fatalf("Wrong option count: %d", len(testOptions))
	}
	if testOptions[0].Name != "slot" || testOptions[0].EqualOpt != "3" {
		t.Errorf("Option 0 wrong: %s=%s", testOptions[0].Name, testOptions[0].EqualOpt)
	}
	if testOptions[1].Name != "drive0" || testOptions[1].EqualOpt != "/tmp/disk0.img" {
		t.Errorf("Option 1 wrong: %s=%s", testOptions[1].Name, testOptions[1].EqualOpt)
	}
	if testOptions[2].Name != "create0" || testOptions[2].EqualOpt != "" {
		t.Errorf("Option 2 wrong: %s=%s", testOptions[2].Name, testOptions[2].EqualOpt)
	}
	if testOptions[3].Name != "spt0" || testOptions[3].EqualOpt != "17" {
		t.Errorf("Option 3 wrong: %s=%s", testOptions[3].Name, testOptions[3].EqualOpt)
	}
	if len(testOptions[3].Value) != 1 || *testOptions[3].Value[0] != "primary" {
		t.Errorf("Option 3 comma list wrong")
	}
}

// Model names match without regard to case.
func TestParseModelCase(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)

	err := parseTestLine(t, "EsDi\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if testCount != 1 {
		t.Errorf("Model not created")
	}
}

// Quoted values keep spaces; doubled quotes collapse to one.
func TestParseQuoted(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)

	err := parseTestLine(t, "esdi drive0=\"disk image.img\"\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if len(testOptions) != 1 || testOptions[0].EqualOpt != "disk image.img" {
		t.Errorf("Quoted value wrong: %v", testOptions)
	}

	err = parseTestLine(t, "esdi drive0=\"a\"\"b\"\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if len(testOptions) != 1 || testOptions[0].EqualOpt != "a\"b" {
		t.Errorf("Doubled quote wrong: %s", testOptions[0].EqualOpt)
	}
}

// Comment lines and blank lines create nothing.
func TestParseComment(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)

	if err := parseTestLine(t, "# esdi drive0=/tmp/x.img\n"); err != nil {
		t.Errorf("Comment line failed: %v", err)
	}
	if err := parseTestLine(t, "   \n"); err != nil {
		t.Errorf("Blank line failed: %v", err)
	}
	if testCount != 0 {
		t.Errorf("Comment created a model")
	}

	// A trailing comment ends the option list.
	if err := parseTestLine(t, "esdi slot=3 # the rest is comment\n"); err != nil {
		t.Errorf("Trailing comment failed: %v", err)
	}
	if len(testOptions) != 1 {
		t.Errorf("Trailing comment parsed as options: %v", testOptions)
	}
}

// Option type lines take exactly one value.
func TestParseOptionLine(t *testing.T) {
	cleanUpConfig()
	RegisterOption("logfile", modOption)

	err := parseTestLine(t, "logfile /tmp/esdi.log\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if testValue != "/tmp/esdi.log" {
		t.Errorf("Option value wrong: %s", testValue)
	}

	err = parseTestLine(t, "logfile \"esdi run.log\"\n")
	if err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if testValue != "esdi run.log" {
		t.Errorf("Quoted option value wrong: %s", testValue)
	}

	if err = parseTestLine(t, "logfile\n"); err == nil {
		t.Errorf("Option without value succeeded")
	}
	if err = parseTestLine(t, "logfile one two\n"); err == nil {
		t.Errorf("Option with extra text succeeded")
	}
}

// Switch type lines take nothing at all.
func TestParseSwitchLine(t *testing.T) {
	cleanUpConfig()
	RegisterSwitch("debug", modSwitch)

	if err := parseTestLine(t, "debug\n"); err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if testType != "switch" {
		t.Errorf("Switch not created")
	}
	if err := parseTestLine(t, "debug extra\n"); err == nil {
		t.Errorf("Switch with options succeeded")
	}
}

func TestParseUnknownModel(t *testing.T) {
	cleanUpConfig()

	if err := parseTestLine(t, "nosuch slot=3\n"); err == nil {
		t.Errorf("Unknown model succeeded")
	}
}

// Whole file load creates every line in order.
func TestLoadConfigFile(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)
	RegisterSwitch("debug", modSwitch)

	name := filepath.Join(t.TempDir(), "test.cfg")
	content := "# test configuration\n" +
		"esdi slot=3 drive0=/tmp/d0.img\n" +
		"\n" +
		"debug\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	mach := machine.New()
	if err := LoadConfigFile(name, mach); err != nil {
		t.Errorf("LoadConfigFile failed: %v", err)
	}
	if testCount != 2 {
		t.Errorf("Wrong number of creates: %d", testCount)
	}

	if err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.cfg"), mach); err == nil {
		t.Errorf("Missing file succeeded")
	}
}

// A bad line stops the load with an error.
func TestLoadConfigError(t *testing.T) {
	cleanUpConfig()
	RegisterModel("esdi", modDevice)

	name := filepath.Join(t.TempDir(), "bad.cfg")
	content := "esdi slot=3\n" +
		"nosuch\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	mach := machine.New()
	if err := LoadConfigFile(name, mach); err == nil {
		t.Errorf("Bad line succeeded")
	}
}
