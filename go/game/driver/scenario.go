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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/Fantom-foundation/Arena/go/examples"
	"github.com/Fantom-foundation/Arena/go/game"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// Scenario describes the setup and the attack of a played game.
type Scenario struct {
	Defender         string
	AttackerBalance  uint64
	Deposit          uint64
	BystanderDeposit uint64
	Reentries        int
	Gas              int64
	Budget           int
}

func DefaultScenario() Scenario {
	return Scenario{
		Defender:         "sillybank",
		AttackerBalance:  10_000,
		Deposit:          100,
		BystanderDeposit: 1_000,
		Reentries:        3,
		Gas:              1_000_000,
		Budget:           int(game.Unlimited),
	}
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// LoadScenario reads a scenario from the given TOML file. Values missing in
// the file keep their defaults.
func LoadScenario(file string) (Scenario, error) {
	scenario := DefaultScenario()
	f, err := os.Open(file)
	if err != nil {
		return scenario, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&scenario)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return scenario, err
}

// scenarioFromContext loads the scenario selected on the command line and
// applies the values of all explicitly set flags.
func scenarioFromContext(context *cli.Context) (Scenario, error) {
	scenario := DefaultScenario()
	if file := ScenarioFlag.Fetch(context); file != "" {
		var err error
		if scenario, err = LoadScenario(file); err != nil {
			return scenario, err
		}
	}
	if context.IsSet(DefenderFlag.Name) {
		scenario.Defender = context.String(DefenderFlag.Name)
	}
	if context.IsSet(AttackerBalanceFlag.Name) {
		scenario.AttackerBalance = context.Uint64(AttackerBalanceFlag.Name)
	}
	if context.IsSet(DepositFlag.Name) {
		scenario.Deposit = context.Uint64(DepositFlag.Name)
	}
	if context.IsSet(BystanderDepositFlag.Name) {
		scenario.BystanderDeposit = context.Uint64(BystanderDepositFlag.Name)
	}
	if context.IsSet(ReentriesFlag.Name) {
		scenario.Reentries = context.Int(ReentriesFlag.Name)
	}
	if context.IsSet(GasFlag.Name) {
		scenario.Gas = context.Int64(GasFlag.Name)
	}
	if context.IsSet(BudgetFlag.Name) {
		scenario.Budget = context.Int(BudgetFlag.Name)
	}
	return scenario, scenario.Validate()
}

func (s Scenario) Validate() error {
	if _, found := examples.Get(s.Defender); !found {
		return fmt.Errorf("unknown defender %q, use one of: %v", s.Defender, examples.Names())
	}
	if s.Deposit > s.AttackerBalance {
		return fmt.Errorf("deposit of %d exceeds attacker balance of %d", s.Deposit, s.AttackerBalance)
	}
	if s.Reentries < 0 {
		return fmt.Errorf("invalid number of reentries: %d", s.Reentries)
	}
	if s.Gas <= 0 {
		return fmt.Errorf("invalid gas limit: %d", s.Gas)
	}
	if s.Budget < int(game.Unlimited) {
		return fmt.Errorf("invalid budget: %d, use %d for no limit", s.Budget, game.Unlimited)
	}
	return nil
}
