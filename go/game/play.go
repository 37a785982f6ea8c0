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

// Action is a top-level move of the attacker.
type Action struct {
	Input tosca.Data
	Value tosca.Value
	Gas   tosca.Gas
}

// DecisionSource decides how the attacker handles calls routed to it.
type DecisionSource interface {
	// Decide returns the backcall issued while handling the given call, or
	// nil if the attacker returns right away.
	Decide(call engine.Call) *engine.Call
}

// DecisionFunc adapts a function to the DecisionSource interface.
type DecisionFunc func(call engine.Call) *engine.Call

func (f DecisionFunc) Decide(call engine.Call) *engine.Call {
	return f(call)
}

// NeverReenter is a DecisionSource returning from every attacker call.
var NeverReenter = DecisionFunc(func(engine.Call) *engine.Call { return nil })

// ReentryStrategy calls back into the caller with the given input until
// MaxReentries backcalls have been issued.
type ReentryStrategy struct {
	MaxReentries int
	Input        tosca.Data
	reentries    int
}

func (s *ReentryStrategy) Decide(call engine.Call) *engine.Call {
	if s.reentries >= s.MaxReentries {
		return nil
	}
	s.reentries++
	return &engine.Call{
		Kind:        tosca.Call,
		Sender:      call.Target(),
		Recipient:   call.Sender,
		CodeAddress: call.Sender,
		Input:       s.Input,
		Gas:         call.Gas - call.Gas/64,
	}
}

// Budget limits the number of calls executed in an episode. Pending calls
// are declined once it is exhausted.
type Budget int

const Unlimited Budget = -1

// Episode summarizes a transaction played by Play.
type Episode struct {
	Result      engine.Result
	Transitions int
	MaxDepth    int
	Reentries   int
	Declined    int
	Trace       []State // < all states passed through, in order
}

// Play runs a full transaction starting with the given action. Calls routed
// to the attacker are handled as decided by the given source.
func Play(env *Environment, action Action, decisions DecisionSource, budget Budget) Episode {
	env.SubmitAttackerAction(action.Input, action.Value, action.Gas)
	episode := Episode{}
	for {
		state := env.State()
		episode.Transitions++
		episode.Trace = append(episode.Trace, state)

		switch s := state.(type) {
		case PendingCall:
			allow := budget != 0
			if budget > 0 {
				budget--
			}
			if !allow {
				episode.Declined++
			}
			env.ExecutePendingCall(allow)
		case AwaitingAttackerDecision:
			backcall := decisions.Decide(s.Call)
			if backcall != nil {
				episode.Reentries++
			}
			env.ResolveAttackerDecision(backcall)
		case SynthesizingAttackerReturn:
			env.SynthesizeAttackerReturn()
		case Unwinding:
			if result, done := env.Unwind(); done {
				episode.Result = result
				return episode
			}
		default:
			panic(&ProtocolViolation{Operation: "Play", State: state})
		}
		episode.MaxDepth = max(episode.MaxDepth, env.Depth())
	}
}
