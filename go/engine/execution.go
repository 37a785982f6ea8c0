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
)

//go:generate mockgen -source execution.go -destination execution_mock.go -package engine

// Execution is a call suspended at a nested call.
type Execution interface {
	// Call returns the call being executed.
	Call() Call
	// Pending returns the nested call the execution is waiting for.
	Pending() Call
	// Region returns the memory region of the caller receiving the output
	// of the pending call.
	Region() Region
	// Abort terminates the execution and undoes its effects. Aborting a
	// completed or already aborted execution is a no-op.
	Abort()
}

// execution runs the interpreter in its own goroutine. The interpreter's
// nested calls are forwarded through channels, which blocks the goroutine
// until the execution is resumed. Control is thus always either with the
// interpreter or with the owner of the execution, never with both.
type execution struct {
	engine  *Engine
	inv     *invocation
	calls   chan nestedCall
	replies chan reply
	done    chan completion

	pending   Call
	region    Region
	suspended bool
}

type nestedCall struct {
	call   Call
	region Region
}

type reply struct {
	result tosca.CallResult
	err    error
}

type completion struct {
	result tosca.Result
	err    error
}

func (e *Engine) start(inv *invocation) Outcome {
	x := &execution{
		engine:  e,
		inv:     inv,
		calls:   make(chan nestedCall),
		replies: make(chan reply),
		done:    make(chan completion),
	}
	params := inv.params
	params.Context = runContext{
		TransactionContext: e.context,
		execution:          x,
	}
	go func() {
		result, err := e.interpreter.Run(params)
		x.done <- completion{result, err}
	}()
	return x.wait()
}

// wait blocks until the interpreter either issues a nested call or
// finishes.
func (x *execution) wait() Outcome {
	select {
	case nested := <-x.calls:
		x.pending = nested.call
		x.region = nested.region
		x.suspended = true
		suspensionCounter.Inc(1)
		x.engine.log.Trace("Call suspended", "call", x.inv.call, "pending", nested.call, "region", nested.region)
		return Outcome{Execution: x}
	case c := <-x.done:
		result := x.engine.finish(x.inv, c.result, c.err)
		x.engine.log.Trace("Call completed", "call", x.inv.call, "result", result)
		return Outcome{Result: result}
	}
}

func (x *execution) resume(result Result) Outcome {
	if !x.suspended {
		panic("engine: execution is not suspended")
	}
	x.suspended = false
	gasLeft := x.pending.Gas - result.GasUsed
	if gasLeft < 0 {
		gasLeft = 0
	}
	x.replies <- reply{result: tosca.CallResult{
		Output:         result.Output,
		GasLeft:        gasLeft,
		GasRefund:      result.GasRefund,
		CreatedAddress: result.CreatedAddress,
		Success:        result.Success(),
	}}
	return x.wait()
}

func (x *execution) Call() Call {
	return x.inv.call
}

func (x *execution) Pending() Call {
	return x.pending
}

func (x *execution) Region() Region {
	return x.region
}

func (x *execution) Abort() {
	if !x.suspended {
		return
	}
	x.suspended = false
	x.replies <- reply{err: tosca.ErrAborted}
	for {
		select {
		case <-x.calls:
			x.replies <- reply{err: tosca.ErrAborted}
		case c := <-x.done:
			x.engine.finish(x.inv, c.result, c.err)
			return
		}
	}
}

// runContext is the context handed to the interpreter. Nested calls are
// forwarded to the owner of the execution.
type runContext struct {
	tosca.TransactionContext
	execution *execution
}

func (r runContext) Call(kind tosca.CallKind, parameters tosca.CallParameters) (tosca.CallResult, error) {
	parent := r.execution.inv
	call := Call{
		Kind:        kind,
		Sender:      parameters.Sender,
		Recipient:   parameters.Recipient,
		CodeAddress: parameters.CodeAddress,
		Value:       parameters.Value,
		Input:       parameters.Input,
		Gas:         parameters.Gas,
		Salt:        parameters.Salt,
		Static:      parent.params.Static,
		Depth:       parent.call.Depth + 1,
	}
	if kind.IsCreate() {
		call.Recipient = tosca.Address{}
		call.CodeAddress = tosca.Address{}
	}
	r.execution.calls <- nestedCall{
		call:   call,
		region: Region{Offset: parameters.ReturnOffset, Size: parameters.ReturnSize},
	}
	reply := <-r.execution.replies
	return reply.result, reply.err
}

// SelfDestruct follows EIP-6780 from Cancun on: accounts created before the
// current transaction only hand over their balance.
func (r runContext) SelfDestruct(addr tosca.Address, beneficiary tosca.Address) bool {
	e := r.execution.engine
	if e.block.Revision < tosca.R13_Cancun || e.context.IsNewContract(addr) {
		return e.context.SelfDestruct(addr, beneficiary)
	}
	transferValue(e.context, e.context.GetBalance(addr), addr, beneficiary)
	return false
}
