// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "arena",
		Usage:     "Reentrancy Game Driver",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			VerbosityFlag,
		},
		Before: func(context *cli.Context) error {
			setupLogging(VerbosityFlag.Fetch(context))
			return nil
		},
		Commands: []*cli.Command{
			&PlayCmd,
			&StatesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(verbosity int) {
	level := log.FromLegacyLevel(verbosity)
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, true)))
}
