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
	"github.com/urfave/cli/v2"
)

type verbosityFlagType struct {
	cli.IntFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 2,
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type scenarioFlagType struct {
	cli.StringFlag
}

var ScenarioFlag = &scenarioFlagType{
	cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "TOML file describing the scenario, flags override its values",
	},
}

func (f *scenarioFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

var (
	DefenderFlag = &cli.StringFlag{
		Name:    "defender",
		Aliases: []string{"d"},
		Usage:   "name of the example defender contract",
	}
	AttackerBalanceFlag = &cli.Uint64Flag{
		Name:  "attacker-balance",
		Usage: "initial balance of the attacker",
	}
	DepositFlag = &cli.Uint64Flag{
		Name:  "deposit",
		Usage: "amount deposited by the attacker before the attack",
	}
	BystanderDepositFlag = &cli.Uint64Flag{
		Name:  "bystander-deposit",
		Usage: "amount deposited by a bystander before the attack",
	}
	ReentriesFlag = &cli.IntFlag{
		Name:    "reentries",
		Aliases: []string{"r"},
		Usage:   "maximum number of reentering backcalls of the attacker",
	}
	GasFlag = &cli.Int64Flag{
		Name:  "gas",
		Usage: "gas limit of the attacker's transactions",
	}
	BudgetFlag = &cli.IntFlag{
		Name:  "budget",
		Usage: "maximum number of calls executed per transaction, -1 for no limit",
	}
)

var scenarioFlags = []cli.Flag{
	ScenarioFlag,
	DefenderFlag,
	AttackerBalanceFlag,
	DepositFlag,
	BystanderDepositFlag,
	ReentriesFlag,
	GasFlag,
	BudgetFlag,
}
