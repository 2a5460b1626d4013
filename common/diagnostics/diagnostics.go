// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package diagnostics wires optional performance diagnostics into CLI
// commands: CPU profiling, execution tracing, and a pprof server.
package diagnostics

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/urfave/cli/v2"
)

// CpuProfileFlag selects the target file for a CPU profile; profiling is
// disabled if the flag is empty.
var CpuProfileFlag = cli.StringFlag{
	Name:  "cpuprofile",
	Usage: "sets the target file for storing CPU profiles to, disabled if empty",
}

// TraceFlag selects the target file for an execution trace; tracing is
// disabled if the flag is empty.
var TraceFlag = cli.StringFlag{
	Name:  "tracefile",
	Usage: "sets the target file for traces to, disabled if empty",
}

// DiagnosticPortFlag enables a realtime pprof server on the given port.
var DiagnosticPortFlag = cli.IntFlag{
	Name:  "diagnostic-port",
	Usage: "enable hosting of a realtime diagnostic server by providing a port",
}

// WrapAction wraps a CLI action with the diagnostics selected by the flags
// above. Profiling and tracing cover the full action run.
func WrapAction(action cli.ActionFunc) cli.ActionFunc {
	return func(context *cli.Context) error {
		startDiagnosticServer(context.Int(DiagnosticPortFlag.Name))

		if file := strings.TrimSpace(context.String(CpuProfileFlag.Name)); file != "" {
			stop, err := startCpuProfiler(file)
			if err != nil {
				return err
			}
			defer stop()
		}

		if file := strings.TrimSpace(context.String(TraceFlag.Name)); file != "" {
			stop, err := startTracer(file)
			if err != nil {
				return err
			}
			defer stop()
		}

		return action(context)
	}
}

func startDiagnosticServer(port int) {
	if port <= 0 || port >= (1<<16) {
		return
	}
	fmt.Printf("Starting diagnostic server at port http://localhost:%d\n", port)
	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Println(http.ListenAndServe(addr, nil))
	}()
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)
}

func startCpuProfiler(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

func startTracer(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create trace file: %w", err)
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start tracing: %w", err)
	}
	return func() {
		trace.Stop()
		_ = f.Close()
	}, nil
}
