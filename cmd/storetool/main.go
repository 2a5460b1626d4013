// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/linearvm/storage/common/diagnostics"
)

// Run using
//  go run ./cmd/storetool <command> <flags>

func main() {
	app := &cli.App{
		Name:  "storetool",
		Usage: "global storage snapshot toolbox",
		Flags: []cli.Flag{
			&diagnostics.DiagnosticPortFlag,
			&diagnostics.CpuProfileFlag,
			&diagnostics.TraceFlag,
		},
		Commands: []*cli.Command{
			&List,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
