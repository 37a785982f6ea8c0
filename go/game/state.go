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
	"github.com/Fantom-foundation/Arena/go/tosca"
)

// State is the pending state of an environment, describing what has to
// happen next. Exactly one operation of the environment is legal in each
// state.
type State interface {
	fmt.Stringer
	isState()
}

// AwaitingAttackerAction is the state between transactions. The attacker
// is expected to submit its next action.
type AwaitingAttackerAction struct{}

// PendingCall holds a call ready to be executed or declined. Return is the
// region of the caller's memory receiving the call's output.
type PendingCall struct {
	Call   engine.Call
	Return engine.Region
}

// AwaitingAttackerDecision holds a call routed to the attacker. The
// attacker may issue a backcall before returning.
type AwaitingAttackerDecision struct {
	Call   engine.Call
	Return engine.Region
	entry  tosca.Snapshot
}

// SynthesizingAttackerReturn holds an attacker call that is done issuing
// backcalls and needs a result.
type SynthesizingAttackerReturn struct {
	Call   engine.Call
	Return engine.Region
	entry  tosca.Snapshot
}

// Unwinding holds the result of a completed call, to be delivered to the
// frame on top of the stack.
type Unwinding struct {
	Result engine.Result
	Return engine.Region
}

// Idle is the state of an environment while an operation is in progress.
// It is never the result of an operation.
type Idle struct{}

func (AwaitingAttackerAction) isState()     {}
func (PendingCall) isState()                {}
func (AwaitingAttackerDecision) isState()   {}
func (SynthesizingAttackerReturn) isState() {}
func (Unwinding) isState()                  {}
func (Idle) isState()                       {}

func (AwaitingAttackerAction) String() string {
	return "AwaitingAttackerAction"
}

func (s PendingCall) String() string {
	return fmt.Sprintf("PendingCall(%v, return: %v)", s.Call, s.Return)
}

func (s AwaitingAttackerDecision) String() string {
	return fmt.Sprintf("AwaitingAttackerDecision(%v, return: %v)", s.Call, s.Return)
}

func (s SynthesizingAttackerReturn) String() string {
	return fmt.Sprintf("SynthesizingAttackerReturn(%v, return: %v)", s.Call, s.Return)
}

func (s Unwinding) String() string {
	return fmt.Sprintf("Unwinding(%v, return: %v)", s.Result, s.Return)
}

func (Idle) String() string {
	return "Idle"
}

// ProtocolViolation is the panic value of an operation invoked in a state
// not permitting it.
type ProtocolViolation struct {
	Operation string
	State     State
}

func (p *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation: %s called in state %v", p.Operation, p.State)
}

// take consumes the current state of the environment, which must be of type
// S, leaving the environment idle.
func take[S State](e *Environment, operation string) S {
	s, ok := e.state.(S)
	if !ok {
		panic(&ProtocolViolation{Operation: operation, State: e.state})
	}
	e.state = Idle{}
	return s
}
