// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import (
	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/params"
)

// MaxCallDepth is the deepest nesting level at which calls are executed.
const MaxCallDepth = int(params.CallCreateDepth)

var (
	runCounter        = metrics.NewRegisteredCounter("engine/runs", nil)
	suspensionCounter = metrics.NewRegisteredCounter("engine/suspensions", nil)
	resumeCounter     = metrics.NewRegisteredCounter("engine/resumes", nil)
)

// StateContext is the journaled transaction context an engine operates on.
type StateContext interface {
	tosca.TransactionContext

	// CreateContract marks addr as created in the current transaction.
	CreateContract(addr tosca.Address)
	// IsNewContract reports whether addr was created in the current
	// transaction.
	IsNewContract(addr tosca.Address) bool

	// Commit ends the current transaction.
	Commit()
}

// Config summarizes the block environment calls are executed in.
type Config struct {
	Revision    tosca.Revision
	ChainID     uint64
	BlockNumber int64
	Timestamp   int64
	GasLimit    tosca.Gas
	GasPrice    tosca.Value
}

func DefaultConfig() Config {
	return Config{
		Revision:    tosca.R13_Cancun,
		ChainID:     1,
		BlockNumber: 1,
		Timestamp:   1,
		GasLimit:    30_000_000,
	}
}

// Engine executes calls on an interpreter and a transaction context. Unlike
// a regular processor, it does not execute nested calls itself. A call
// reaching a nested call is suspended and handed back to the caller of Run
// as an Execution, which is continued with Resume once the result of the
// nested call is known.
//
// An Engine is not thread-safe. At any time at most one call is processed;
// suspended executions wait for their resumption.
type Engine struct {
	interpreter tosca.Interpreter
	context     StateContext
	block       tosca.BlockParameters
	transaction tosca.TransactionParameters
	log         log.Logger
}

func NewEngine(interpreter tosca.Interpreter, context StateContext, config Config) *Engine {
	block := tosca.BlockParameters{
		BlockNumber: config.BlockNumber,
		Timestamp:   config.Timestamp,
		GasLimit:    config.GasLimit,
		Revision:    config.Revision,
	}
	block.ChainID = tosca.Word(tosca.NewValue(config.ChainID))
	return &Engine{
		interpreter: interpreter,
		context:     context,
		block:       block,
		transaction: tosca.TransactionParameters{
			GasPrice: config.GasPrice,
		},
		log: log.New("module", "engine"),
	}
}

// Run starts the execution of the given call. The call either completes or
// is suspended at its first nested call.
func (e *Engine) Run(call Call) Outcome {
	runCounter.Inc(1)
	e.log.Trace("Running call", "call", call)
	inv, result := e.prepare(call)
	if result != nil {
		return Outcome{Result: *result}
	}
	return e.start(inv)
}

// Resume provides the result of the nested call the execution is suspended
// at and continues it. An execution can only be resumed once per suspension;
// violations cause a panic.
func (e *Engine) Resume(exec Execution, result Result) Outcome {
	x, ok := exec.(*execution)
	if !ok || x.engine != e {
		panic("engine: resumed execution of a different engine")
	}
	resumeCounter.Inc(1)
	e.log.Trace("Resuming call", "call", x.inv.call, "result", result)
	return x.resume(result)
}

// Execute runs the given call to completion. Nested calls are executed
// recursively.
func (e *Engine) Execute(call Call) Result {
	outcome := e.Run(call)
	for !outcome.Completed() {
		nested := e.Execute(outcome.Execution.Pending())
		outcome = e.Resume(outcome.Execution, nested)
	}
	return outcome.Result
}

// Enter performs the value transfer of a call that is not executed by the
// engine, but by an external party. The resulting snapshot is to be passed
// to Leave when the external call ends. Value the sender cannot afford is not
// transferred.
func (e *Engine) Enter(call Call) tosca.Snapshot {
	snapshot := e.context.CreateSnapshot()
	if call.Kind.TransfersValue() && canTransferValue(e.context, call.Value, call.Sender, call.Recipient) {
		transferValue(e.context, call.Value, call.Sender, call.Recipient)
	}
	return snapshot
}

// Leave ends an externally executed call. Unsuccessful results undo all
// changes since the corresponding Enter.
func (e *Engine) Leave(snapshot tosca.Snapshot, result Result) {
	if !result.Success() {
		e.context.RestoreSnapshot(snapshot)
	}
}

// Snapshot marks the current state of the transaction.
func (e *Engine) Snapshot() tosca.Snapshot {
	return e.context.CreateSnapshot()
}

// Restore undoes all changes of the transaction since the given snapshot.
func (e *Engine) Restore(snapshot tosca.Snapshot) {
	e.context.RestoreSnapshot(snapshot)
}

// Commit ends the current transaction.
func (e *Engine) Commit() {
	e.context.Commit()
}

// Balance returns the current balance of the given account.
func (e *Engine) Balance(address tosca.Address) tosca.Value {
	return e.context.GetBalance(address)
}

// CodeSize returns the size of the code of the given account.
func (e *Engine) CodeSize(address tosca.Address) int {
	return e.context.GetCodeSize(address)
}

// Fund sets the balance and nonce of the given account.
func (e *Engine) Fund(address tosca.Address, balance tosca.Value, nonce uint64) {
	e.context.SetBalance(address, balance)
	e.context.SetNonce(address, nonce)
}
