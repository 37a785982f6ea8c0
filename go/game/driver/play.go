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
	"time"

	"github.com/Fantom-foundation/Arena/go/engine"
	"github.com/Fantom-foundation/Arena/go/examples"
	"github.com/Fantom-foundation/Arena/go/game"
	_ "github.com/Fantom-foundation/Arena/go/interpreter/evm"
	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var PlayCmd = cli.Command{
	Action: doPlay,
	Name:   "play",
	Usage:  "Plays a reentrancy attack against an example defender",
	Flags:  scenarioFlags,
}

// bystander is an account depositing into the defender before the attack.
var bystander = tosca.Address{18: 0xB7, 19: 0x5D}

func doPlay(context *cli.Context) error {
	scenario, err := scenarioFromContext(context)
	if err != nil {
		return err
	}
	env, bank, err := setupMatch(scenario)
	if err != nil {
		return err
	}
	defer env.Close()

	attackerBefore := env.Balance(env.Attacker())
	defenderBefore := env.Balance(env.Defender())

	start := time.Now()
	episode, err := attack(env, bank, scenario)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	fmt.Printf("Defender:     %s (%v)\n", bank.Name, env.Defender())
	fmt.Printf("Result:       %v\n", episode.Result)
	fmt.Printf("Transitions:  %d\n", episode.Transitions)
	fmt.Printf("Max depth:    %d\n", episode.MaxDepth)
	fmt.Printf("Reentries:    %d\n", episode.Reentries)
	fmt.Printf("Declined:     %d\n", episode.Declined)
	fmt.Printf("Attacker:     %v -> %v\n", attackerBefore, env.Balance(env.Attacker()))
	fmt.Printf("Defender:     %v -> %v\n", defenderBefore, env.Balance(env.Defender()))
	fmt.Printf("Rate:         ~%s transitions per second\n", formatRate(episode.Transitions, duration))
	return nil
}

func formatRate(transitions int, duration time.Duration) string {
	if duration <= 0 {
		return "-"
	}
	rate := float64(transitions) / duration.Seconds()
	return unitconv.FormatPrefix(rate, unitconv.SI, 0)
}

// setupMatch creates an environment for the given scenario and performs the
// deposits preceding the attack.
func setupMatch(scenario Scenario) (*game.Environment, examples.Example, error) {
	bank, found := examples.Get(scenario.Defender)
	if !found {
		return nil, examples.Example{}, fmt.Errorf("unknown defender %q", scenario.Defender)
	}
	interpreter, err := tosca.NewInterpreter("evm")
	if err != nil {
		return nil, bank, err
	}

	config := game.DefaultConfig()
	config.AttackerBalance = tosca.NewValue(scenario.AttackerBalance)
	env, err := game.NewEnvironment(interpreter, bank.Code(), config)
	if err != nil {
		return nil, bank, err
	}

	deposit, err := bank.Pack("deposit")
	if err != nil {
		return nil, bank, err
	}
	gas := tosca.Gas(scenario.Gas)

	if scenario.BystanderDeposit > 0 {
		value := tosca.NewValue(scenario.BystanderDeposit)
		env.Fund(bystander, value)
		result := env.Transact(engine.Call{
			Kind:        tosca.Call,
			Sender:      bystander,
			Recipient:   env.Defender(),
			CodeAddress: env.Defender(),
			Value:       value,
			Input:       deposit,
			Gas:         gas,
		})
		if !result.Success() {
			return nil, bank, fmt.Errorf("deposit of bystander failed: %v", result)
		}
	}

	if scenario.Deposit > 0 {
		action := game.Action{Input: deposit, Value: tosca.NewValue(scenario.Deposit), Gas: gas}
		episode := game.Play(env, action, game.NeverReenter, game.Unlimited)
		if !episode.Result.Success() {
			return nil, bank, fmt.Errorf("deposit of attacker failed: %v", episode.Result)
		}
	}
	log.Info("Match ready", "defender", bank.Name, "deposit", scenario.Deposit, "bystander", scenario.BystanderDeposit)
	return env, bank, nil
}

// attack plays a withdraw reentering the defender up to the configured
// number of times.
func attack(env *game.Environment, bank examples.Example, scenario Scenario) (game.Episode, error) {
	withdraw, err := bank.Pack("withdraw")
	if err != nil {
		return game.Episode{}, err
	}
	strategy := &game.ReentryStrategy{MaxReentries: scenario.Reentries, Input: withdraw}
	action := game.Action{Input: withdraw, Gas: tosca.Gas(scenario.Gas)}
	return game.Play(env, action, strategy, game.Budget(scenario.Budget)), nil
}
