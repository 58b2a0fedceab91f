/*
 * UM32 - Main process.
 *
 * Copyright 2026, UM32 Project Contributors
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
	"os/signal"
	"strings"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/um32/emu/console"
	"github.com/rcornwell/um32/emu/cpu"
	disassembler "github.com/rcornwell/um32/emu/disassemble"
	"github.com/rcornwell/um32/emu/loader"
	"github.com/rcornwell/um32/emu/runner"
	"github.com/rcornwell/um32/monitor"
	logger "github.com/rcornwell/um32/util/logger"
	"github.com/rcornwell/um32/util/trace"
)

// instTracer adapts a trace.Tracer into the cpu.Tracer interface, logging
// one disassembled line per dispatched instruction when INST is enabled.
type instTracer struct {
	tr *trace.Tracer
}

func (t *instTracer) Instruction(finger uint32, word uint32, regs [8]uint32) {
	if !t.tr.Enabled(trace.Inst) {
		return
	}
	t.tr.Debugf(trace.Inst, "%#06x: %s  regs=%v", finger, disassembler.Disassemble(word), regs)
}

var Logger *slog.Logger

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTrace := getopt.StringLong("trace", 't', "", "Comma-separated trace categories (INST, POOL, CONSOLE)")
	optMonitor := getopt.BoolLong("monitor", 'm', "Start in the interactive monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("image")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, new(bool))
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	Logger.Info("UM32 started", "image", args[0])

	words, err := loader.Load(args[0])
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	term := console.NewTerminal()
	term.Start()
	defer term.Stop()

	machine := cpu.New(words, term)

	tr := trace.New(Logger)
	if *optTrace != "" {
		for _, cat := range strings.Split(*optTrace, ",") {
			cat = strings.ToUpper(strings.TrimSpace(cat))
			if cat == "" {
				continue
			}
			if err := tr.Enable(cat); err != nil {
				Logger.Error(err.Error())
				os.Exit(1)
			}
		}
	}
	machine.Tracer = &instTracer{tr: tr}
	handler.SetCategoryGate(tr.EnabledByName)

	r := runner.New(machine, Logger)
	r.SetTracer(tr)
	r.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *optMonitor {
		go func() {
			<-sigChan
			r.Stop()
			os.Exit(0)
		}()
		monitor.Run(r)
		r.Stop()
		return
	}

	r.Run()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-sigChan:
			Logger.Info("got quit signal")
			r.Stop()
			return
		case <-ticker.C:
			switch r.State() {
			case runner.Halted:
				Logger.Info("machine halted cleanly")
				r.Stop()
				return
			case runner.Trapped:
				Logger.Error("machine trapped", "error", r.LastTrap().Error())
				r.Stop()
				os.Exit(1)
			}
		}
	}
}
