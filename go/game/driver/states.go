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

	"github.com/urfave/cli/v2"
)

var StatesCmd = cli.Command{
	Action: doStates,
	Name:   "states",
	Usage:  "Prints every state of a reentrancy attack",
	Flags:  scenarioFlags,
}

func doStates(context *cli.Context) error {
	scenario, err := scenarioFromContext(context)
	if err != nil {
		return err
	}
	env, bank, err := setupMatch(scenario)
	if err != nil {
		return err
	}
	defer env.Close()

	episode, err := attack(env, bank, scenario)
	if err != nil {
		return err
	}
	for i, state := range episode.Trace {
		fmt.Printf("%4d: %v\n", i, state)
	}
	fmt.Printf("Final: %v\n", episode.Result)
	return nil
}
