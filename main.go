/*
 * ESDI - Main process.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	reader "github.com/Spagheta-DSi/86Box/command/reader"
	config "github.com/Spagheta-DSi/86Box/config/configparser"
	machine "github.com/Spagheta-DSi/86Box/emu/machine"
	logger "github.com/Spagheta-DSi/86Box/util/logger"

	_ "github.com/Spagheta-DSi/86Box/emu/models"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "esdi.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug)
	log := slog.New(handler)
	slog.SetDefault(log)

	// Configuration file equivalents of the -l and -d flags.
	config.RegisterOption("logfile", func(_ *machine.Machine, value string, _ []config.Option) error {
		logFile, err := os.Create(value)
		if err != nil {
			return err
		}
		handler = logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug)
		slog.SetDefault(slog.New(handler))
		return nil
	})
	config.RegisterSwitch("debug", func(_ *machine.Machine, _ string, _ []config.Option) error {
		debug := true
		handler.SetDebug(&debug)
		return nil
	})

	log.Info("ESDI simulator started")

	_, err := os.Stat(*optConfig)
	if os.IsNotExist(err) {
		log.Error("Configuration file " + *optConfig + " can't be found")
		os.Exit(0)
	}

	mach := machine.New()
	err = config.LoadConfigFile(*optConfig, mach)
	if err != nil {
		log.Error(err.Error())
		os.Exit(0)
	}

	reader.ConsoleReader(mach)

	mach.Shutdown()
	log.Info("ESDI simulator stopped")
}
