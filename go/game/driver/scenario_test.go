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
	"os"
	"path/filepath"
	"testing"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	return file
}

func TestScenario_DefaultIsValid(t *testing.T) {
	require.NoError(t, DefaultScenario().Validate())
}

func TestScenario_LoadOverridesDefaults(t *testing.T) {
	file := writeScenario(t, `
Defender = "safebank"
Deposit = 250
Reentries = 5
`)
	scenario, err := LoadScenario(file)
	require.NoError(t, err)

	want := DefaultScenario()
	want.Defender = "safebank"
	want.Deposit = 250
	want.Reentries = 5
	require.Equal(t, want, scenario)
}

func TestScenario_LoadRejectsUnknownFields(t *testing.T) {
	file := writeScenario(t, "Victim = 12\n")
	_, err := LoadScenario(file)
	require.Error(t, err)
}

func TestScenario_LoadReportsMissingFiles(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestScenario_ValidateDetectsInvalidScenarios(t *testing.T) {
	tests := map[string]func(*Scenario){
		"unknown defender":   func(s *Scenario) { s.Defender = "vault" },
		"excessive deposit":  func(s *Scenario) { s.Deposit = s.AttackerBalance + 1 },
		"negative reentries": func(s *Scenario) { s.Reentries = -1 },
		"no gas":             func(s *Scenario) { s.Gas = 0 },
		"negative budget":    func(s *Scenario) { s.Budget = -2 },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			scenario := DefaultScenario()
			modify(&scenario)
			require.Error(t, scenario.Validate())
		})
	}
}

func TestScenario_ValidateAcceptsBudgetBounds(t *testing.T) {
	for _, budget := range []int{-1, 0, 1} {
		scenario := DefaultScenario()
		scenario.Budget = budget
		require.NoError(t, scenario.Validate(), "budget %d", budget)
	}
}

func runWithFlags(t *testing.T, args ...string) (Scenario, error) {
	t.Helper()
	var scenario Scenario
	app := &cli.App{
		Flags: scenarioFlags,
		Action: func(context *cli.Context) error {
			var err error
			scenario, err = scenarioFromContext(context)
			return err
		},
	}
	err := app.Run(append([]string{"arena"}, args...))
	return scenario, err
}

func TestScenarioFromContext_FlagsOverrideFile(t *testing.T) {
	file := writeScenario(t, "Defender = \"safebank\"\nReentries = 5\n")
	scenario, err := runWithFlags(t, "--scenario", file, "--reentries", "2", "--gas", "500000")
	require.NoError(t, err)
	require.Equal(t, "safebank", scenario.Defender)
	require.Equal(t, 2, scenario.Reentries)
	require.Equal(t, int64(500_000), scenario.Gas)
	require.Equal(t, DefaultScenario().Deposit, scenario.Deposit)
}

func TestScenarioFromContext_InvalidValuesAreRejected(t *testing.T) {
	_, err := runWithFlags(t, "--defender", "vault")
	require.Error(t, err)
}

func TestAttack_DrainsSillyBank(t *testing.T) {
	scenario := DefaultScenario()
	env, bank, err := setupMatch(scenario)
	require.NoError(t, err)
	defer env.Close()

	attackerBefore := env.Balance(env.Attacker())
	episode, err := attack(env, bank, scenario)
	require.NoError(t, err)
	require.True(t, episode.Result.Success(), "attack failed: %v", episode.Result)
	require.Equal(t, scenario.Reentries, episode.Reentries)

	gain := scenario.Deposit * uint64(scenario.Reentries+1)
	want := tosca.Add(attackerBefore, tosca.NewValue(gain))
	require.Equal(t, want, env.Balance(env.Attacker()))
}

func TestAttack_SafeBankLosesNothing(t *testing.T) {
	scenario := DefaultScenario()
	scenario.Defender = "safebank"
	env, bank, err := setupMatch(scenario)
	require.NoError(t, err)
	defer env.Close()

	defenderBefore := env.Balance(env.Defender())
	episode, err := attack(env, bank, scenario)
	require.NoError(t, err)
	require.True(t, episode.Result.Success(), "attack failed: %v", episode.Result)

	want := tosca.Sub(defenderBefore, tosca.NewValue(scenario.Deposit))
	require.Equal(t, want, env.Balance(env.Defender()))
}

func TestFormatRate_HandlesZeroDurations(t *testing.T) {
	require.Equal(t, "-", formatRate(10, 0))
}
