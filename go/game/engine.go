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

//go:generate mockgen -source engine.go -destination engine_mock.go -package game

// Engine is the execution engine a game is played on. Executions suspend
// at every nested call, leaving the decision of how to proceed to the game.
type Engine interface {
	// Run starts a fresh call.
	Run(engine.Call) engine.Outcome
	// Resume delivers the result of the pending nested call of a suspended
	// execution. Every suspension may only be resumed once.
	Resume(engine.Execution, engine.Result) engine.Outcome
	// Execute runs a call to completion, resolving nested calls internally.
	Execute(engine.Call) engine.Result

	// Enter performs the value transfer of a call that is not executed by
	// the engine and returns a snapshot to be passed to Leave.
	Enter(engine.Call) tosca.Snapshot
	// Leave undoes the effects since the given snapshot if the result
	// signals a failure.
	Leave(tosca.Snapshot, engine.Result)

	// Snapshot marks the current state of the transaction.
	Snapshot() tosca.Snapshot
	// Restore undoes all changes since the given snapshot.
	Restore(tosca.Snapshot)
	// Commit ends the current transaction.
	Commit()

	Fund(address tosca.Address, balance tosca.Value, nonce uint64)
	Balance(tosca.Address) tosca.Value
	CodeSize(tosca.Address) int
}

// compile-time check that the engine implementation satisfies the interface
var _ Engine = (*engine.Engine)(nil)
