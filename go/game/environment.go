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
	"fmt"

	"github.com/Fantom-foundation/Arena/go/engine"
	"github.com/Fantom-foundation/Arena/go/state"
	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"
)

var (
	episodeCounter  = metrics.NewRegisteredCounter("game/episodes", nil)
	reentryCounter  = metrics.NewRegisteredCounter("game/reentries", nil)
	declinedCounter = metrics.NewRegisteredCounter("game/declined", nil)
)

// bootstrap is the account deploying the defender.
var bootstrap = tosca.Address{}

// bootstrapBalance is half of the maximum balance, enough for any deployment.
var bootstrapBalance = tosca.ValueFromUint256(new(uint256.Int).Rsh(new(uint256.Int).SetAllOne(), 1))

// Environment is a reentrancy game between an attacker account and a
// defender contract. Whenever a call is routed to the attacker, execution
// is suspended and the attacker decides how to proceed.
//
// An environment is driven by inspecting its State and invoking the one
// operation permitted by it. Invoking any other operation panics with a
// *ProtocolViolation. Environments are not safe for concurrent use.
type Environment struct {
	engine       Engine
	attacker     tosca.Address
	defender     tosca.Address
	returnPolicy ReturnPolicy
	state        State
	frames       frameStack
	start        tosca.Snapshot // < state before the current transaction
	log          log.Logger
}

// NewEnvironment creates a fresh world state, deploys the defender using
// the given creation code and funds the attacker.
func NewEnvironment(interpreter tosca.Interpreter, code tosca.Code, config Config) (*Environment, error) {
	engineConfig := engine.DefaultConfig()
	engineConfig.Revision = config.Revision
	return setup(engine.NewEngine(interpreter, state.NewContext(nil), engineConfig), code, config)
}

func setup(eng Engine, code tosca.Code, config Config) (*Environment, error) {
	logger := log.New("module", "game")

	eng.Fund(bootstrap, bootstrapBalance, 1)
	result := eng.Execute(engine.Call{
		Kind:   tosca.Create,
		Sender: bootstrap,
		Input:  tosca.Data(code),
		Gas:    config.DeployGas,
	})
	if !result.Success() {
		return nil, fmt.Errorf("failed to deploy defender: %v", result)
	}
	defender := result.CreatedAddress
	if eng.CodeSize(defender) == 0 {
		return nil, fmt.Errorf("failed to deploy defender: no code at %v", defender)
	}

	eng.Fund(config.Attacker, config.AttackerBalance, 1)
	eng.Commit()
	logger.Info("Environment ready", "attacker", config.Attacker, "defender", defender, "gas", result.GasUsed)

	return newEnvironment(eng, config.Attacker, defender, config.ReturnPolicy), nil
}

func newEnvironment(eng Engine, attacker, defender tosca.Address, policy ReturnPolicy) *Environment {
	if policy == nil {
		policy = ExplicitReturn
	}
	return &Environment{
		engine:       eng,
		attacker:     attacker,
		defender:     defender,
		returnPolicy: policy,
		state:        AwaitingAttackerAction{},
		log:          log.New("module", "game"),
	}
}

func (e *Environment) State() State {
	return e.state
}

// Depth returns the number of frames on the stack.
func (e *Environment) Depth() int {
	return e.frames.len()
}

func (e *Environment) Attacker() tosca.Address {
	return e.attacker
}

func (e *Environment) Defender() tosca.Address {
	return e.defender
}

// Balance returns the current balance of the given account.
func (e *Environment) Balance(address tosca.Address) tosca.Value {
	return e.engine.Balance(address)
}

// Fund sets up a funded externally owned account, e.g. a bystander using
// the defender. It is only permitted between transactions.
func (e *Environment) Fund(address tosca.Address, balance tosca.Value) {
	take[AwaitingAttackerAction](e, "Fund")
	e.engine.Fund(address, balance, 1)
	e.engine.Commit()
	e.state = AwaitingAttackerAction{}
}

// Transact runs a transaction outside of the game. Calls to the attacker
// are not suspended. It is only permitted between transactions.
func (e *Environment) Transact(call engine.Call) engine.Result {
	take[AwaitingAttackerAction](e, "Transact")
	result := e.engine.Execute(call)
	e.engine.Commit()
	e.state = AwaitingAttackerAction{}
	return result
}

// isAttacker is the routing rule of the game: calls addressing the attacker
// are played by the attacker, all others are executed by the engine.
func (e *Environment) isAttacker(call engine.Call) bool {
	return call.Target() == e.attacker
}

// SubmitAttackerAction starts a transaction calling the defender from the
// attacker account.
func (e *Environment) SubmitAttackerAction(input tosca.Data, value tosca.Value, gas tosca.Gas) {
	take[AwaitingAttackerAction](e, "SubmitAttackerAction")
	e.start = e.engine.Snapshot()
	e.transition(PendingCall{
		Call: engine.Call{
			Kind:        tosca.CallCode,
			Sender:      e.attacker,
			Recipient:   e.defender,
			CodeAddress: e.defender,
			Value:       value,
			Input:       input,
			Gas:         gas,
		},
	})
}

// ExecutePendingCall executes the pending call, or declines it if allow is
// false. Declined calls revert without consuming gas.
func (e *Environment) ExecutePendingCall(allow bool) {
	s := take[PendingCall](e, "ExecutePendingCall")
	if !allow {
		declinedCounter.Inc(1)
		e.transition(Unwinding{
			Result: engine.Result{Status: tosca.StatusReverted},
			Return: s.Return,
		})
		return
	}
	if e.isAttacker(s.Call) {
		e.route(s.Call, s.Return)
		return
	}
	e.handle(e.engine.Run(s.Call), s.Return)
}

// ResolveAttackerDecision ends the attacker call if backcall is nil.
// Otherwise the attacker issues the given backcall first.
func (e *Environment) ResolveAttackerDecision(backcall *engine.Call) {
	s := take[AwaitingAttackerDecision](e, "ResolveAttackerDecision")
	if backcall == nil {
		e.transition(SynthesizingAttackerReturn{Call: s.Call, Return: s.Return, entry: s.entry})
		return
	}
	reentryCounter.Inc(1)
	e.frames.push(&syntheticFrame{call: s.Call, region: s.Return, entry: s.entry})
	call := *backcall
	call.Depth = s.Call.Depth + 1
	e.transition(PendingCall{Call: call})
}

// SynthesizeAttackerReturn completes the attacker call with the result of
// the configured ReturnPolicy.
func (e *Environment) SynthesizeAttackerReturn() {
	s := take[SynthesizingAttackerReturn](e, "SynthesizeAttackerReturn")
	result := e.returnPolicy(s.Call)
	e.engine.Leave(s.entry, result)
	e.transition(Unwinding{Result: result, Return: s.Return})
}

// Unwind delivers the current result to the frame on top of the stack. If
// the stack is empty, the result is the final result of the transaction,
// which is committed and returned together with true.
func (e *Environment) Unwind() (engine.Result, bool) {
	s := take[Unwinding](e, "Unwind")
	top, found := e.frames.pop()
	if !found {
		e.engine.Commit()
		episodeCounter.Inc(1)
		e.log.Debug("Transaction completed", "result", s.Result)
		e.transition(AwaitingAttackerAction{})
		return s.Result, true
	}
	switch f := top.(type) {
	case *syntheticFrame:
		e.transition(SynthesizingAttackerReturn{Call: f.call, Return: f.region, entry: f.entry})
	case *realFrame:
		if f.region != s.Return {
			panic(fmt.Sprintf("game: result for region %v delivered to frame expecting %v", s.Return, f.region))
		}
		e.handle(e.engine.Resume(f.execution, s.Result), f.caller)
	}
	return engine.Result{}, false
}

// Close aborts all suspended executions and returns the environment to
// AwaitingAttackerAction. Effects of the aborted transaction are undone.
func (e *Environment) Close() {
	if _, idle := e.state.(AwaitingAttackerAction); idle && e.frames.len() == 0 {
		return
	}
	for {
		top, found := e.frames.pop()
		if !found {
			break
		}
		if f, ok := top.(*realFrame); ok {
			f.execution.Abort()
		}
	}
	e.engine.Restore(e.start)
	e.engine.Commit()
	e.log.Debug("Transaction aborted", "state", e.state)
	e.state = AwaitingAttackerAction{}
}

// handle processes the outcome of an engine invocation. Region is the
// region receiving the output of the executed call.
func (e *Environment) handle(outcome engine.Outcome, region engine.Region) {
	if outcome.Completed() {
		e.transition(Unwinding{Result: outcome.Result, Return: region})
		return
	}
	execution := outcome.Execution
	e.frames.push(&realFrame{
		execution: execution,
		caller:    region,
		region:    execution.Region(),
	})
	e.route(execution.Pending(), execution.Region())
}

// route decides who handles the given call.
func (e *Environment) route(call engine.Call, region engine.Region) {
	if e.isAttacker(call) {
		e.transition(AwaitingAttackerDecision{
			Call:   call,
			Return: region,
			entry:  e.engine.Enter(call),
		})
		return
	}
	e.transition(PendingCall{Call: call, Return: region})
}

func (e *Environment) transition(next State) {
	e.log.Trace("Transition", "depth", e.frames.len(), "state", next)
	e.state = next
}
