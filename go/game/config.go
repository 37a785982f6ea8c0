// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package game

import (
	"github.com/Fantom-foundation/Arena/go/engine"
	"github.com/Fantom-foundation/Arena/go/tosca"
)

// DefaultAttacker is the address of the attacker account if not configured
// otherwise.
var DefaultAttacker = tosca.Address{17: 0x0A, 18: 0x77, 19: 0xAC}

// ReturnPolicy produces the result of an attacker call once the attacker
// is done issuing backcalls.
type ReturnPolicy func(call engine.Call) engine.Result

// ExplicitReturn is the default ReturnPolicy. Attacker calls return without
// output and consume no gas.
func ExplicitReturn(engine.Call) engine.Result {
	return engine.Result{Status: tosca.StatusReturned}
}

type Config struct {
	Attacker        tosca.Address
	AttackerBalance tosca.Value
	DeployGas       tosca.Gas
	Revision        tosca.Revision
	ReturnPolicy    ReturnPolicy
}

func DefaultConfig() Config {
	return Config{
		Attacker:        DefaultAttacker,
		AttackerBalance: tosca.NewValue(10_000),
		DeployGas:       1_000_000,
		Revision:        tosca.R13_Cancun,
		ReturnPolicy:    ExplicitReturn,
	}
}
