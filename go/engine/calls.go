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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// invocation is a call prepared for being executed by the interpreter.
type invocation struct {
	call     Call
	params   tosca.Parameters
	snapshot tosca.Snapshot
	created  tosca.Address // < only set for creates
}

// prepare performs all steps of a call before its code gets executed. If the
// call completes without running code, the result is returned instead of an
// invocation.
func (e *Engine) prepare(call Call) (*invocation, *Result) {
	if call.Depth > MaxCallDepth {
		res := failed(tosca.ErrMaxCallDepth, 0)
		return nil, &res
	}
	if call.Depth == 0 {
		e.transaction.Origin = call.Sender
		e.warmUp(call)
	}
	if call.Kind.IsCreate() {
		return e.prepareCreate(call)
	}
	return e.prepareCall(call)
}

// warmUp adds the accounts accessed by every transaction to the access list:
// the origin, the target, the precompiles (EIP-2929) and the coinbase
// (EIP-3651).
func (e *Engine) warmUp(call Call) {
	e.context.AccessAccount(call.Sender)
	if !call.Kind.IsCreate() {
		e.context.AccessAccount(call.Recipient)
		e.context.AccessAccount(call.CodeAddress)
	}
	for address := range precompiledContracts(e.block.Revision) {
		e.context.AccessAccount(tosca.Address(address))
	}
	if e.block.Revision >= tosca.R12_Shanghai {
		e.context.AccessAccount(e.block.Coinbase)
	}
}

func (e *Engine) prepareCall(call Call) (*invocation, *Result) {
	if call.Kind.TransfersValue() && !canTransferValue(e.context, call.Value, call.Sender, call.Recipient) {
		res := failed(tosca.ErrInsufficientBalance, 0)
		return nil, &res
	}
	snapshot := e.context.CreateSnapshot()
	if call.Kind.TransfersValue() {
		transferValue(e.context, call.Value, call.Sender, call.Recipient)
	}

	if result, isPrecompiled := runPrecompiled(e.block.Revision, call); isPrecompiled {
		if !result.Success() {
			e.context.RestoreSnapshot(snapshot)
		}
		return nil, &result
	}

	code := e.context.GetCode(call.CodeAddress)
	if len(code) == 0 {
		return nil, &Result{Status: tosca.StatusStopped}
	}
	codeHash := e.context.GetCodeHash(call.CodeAddress)
	return &invocation{
		call:     call,
		params:   e.parameters(call, call.Recipient, code, &codeHash, call.Input),
		snapshot: snapshot,
	}, nil
}

func (e *Engine) prepareCreate(call Call) (*invocation, *Result) {
	if !canTransferValue(e.context, call.Value, call.Sender, call.Recipient) {
		res := failed(tosca.ErrInsufficientBalance, 0)
		return nil, &res
	}
	if e.block.Revision >= tosca.R12_Shanghai && len(call.Input) > params.MaxInitCodeSize {
		res := failed(tosca.ErrMaxInitCodeSizeExceeded, call.Gas)
		return nil, &res
	}
	nonce := e.context.GetNonce(call.Sender)
	if nonce+1 < nonce {
		res := failed(tosca.ErrNonceOverflow, 0)
		return nil, &res
	}
	e.context.SetNonce(call.Sender, nonce+1)

	code := tosca.Code(call.Input)
	codeHash := hashCode(code)
	created := createAddress(call.Kind, call.Sender, nonce, call.Salt, codeHash)
	e.context.AccessAccount(created)

	if e.context.GetNonce(created) != 0 || e.context.GetCodeSize(created) != 0 {
		res := failed(tosca.ErrContractAddressTaken, call.Gas)
		return nil, &res
	}

	snapshot := e.context.CreateSnapshot()
	e.context.CreateContract(created)
	e.context.SetNonce(created, 1)
	transferValue(e.context, call.Value, call.Sender, created)

	return &invocation{
		call:     call,
		params:   e.parameters(call, created, code, &codeHash, nil),
		snapshot: snapshot,
		created:  created,
	}, nil
}

func (e *Engine) parameters(call Call, recipient tosca.Address, code tosca.Code, codeHash *tosca.Hash, input tosca.Data) tosca.Parameters {
	return tosca.Parameters{
		BlockParameters:       e.block,
		TransactionParameters: e.transaction,
		Kind:                  call.Kind,
		Static:                call.Static || call.Kind == tosca.StaticCall,
		Depth:                 call.Depth,
		Gas:                   call.Gas,
		Recipient:             recipient,
		Sender:                call.Sender,
		Input:                 input,
		Value:                 call.Value,
		CodeHash:              codeHash,
		Code:                  code,
	}
}

// finish completes an invocation after its code was executed. Failed calls
// restore the state of the call's snapshot. Reverts keep their remaining gas
// while all other failures consume it.
func (e *Engine) finish(inv *invocation, res tosca.Result, err error) Result {
	if err != nil {
		e.log.Error("Interpreter failure", "call", inv.call, "err", err)
		res = tosca.Result{Status: tosca.StatusFailed, Halt: err}
	}

	result := Result{
		Status:    res.Status,
		Halt:      res.Halt,
		GasRefund: res.GasRefund,
		Output:    res.Output,
	}
	gasLeft := res.GasLeft

	if inv.call.Kind.IsCreate() && result.Success() {
		code := res.Output
		deposit := tosca.Gas(len(code)) * tosca.Gas(params.CreateDataGas)
		var halt error
		switch {
		case len(code) > params.MaxCodeSize:
			halt = tosca.ErrMaxCodeSizeExceeded
		case e.block.Revision >= tosca.R10_London && len(code) > 0 && code[0] == 0xEF:
			halt = tosca.ErrInvalidCode
		case gasLeft < deposit:
			halt = tosca.ErrCodeStoreOutOfGas
		}
		if halt != nil {
			result = failed(halt, 0)
		} else {
			gasLeft -= deposit
			e.context.SetCode(inv.created, tosca.Code(code))
			result.CreatedAddress = inv.created
			result.Output = nil
		}
	}

	if !result.Success() {
		e.context.RestoreSnapshot(inv.snapshot)
		result.GasRefund = 0
		if result.Status != tosca.StatusReverted {
			gasLeft = 0
			result.Output = nil
		}
	}
	result.GasUsed = inv.call.Gas - gasLeft
	return result
}

func hashCode(code tosca.Code) tosca.Hash {
	return tosca.Hash(crypto.Keccak256(code))
}

func createAddress(
	kind tosca.CallKind,
	sender tosca.Address,
	nonce uint64,
	salt tosca.Hash,
	initHash tosca.Hash,
) tosca.Address {
	if kind == tosca.Create {
		return tosca.Address(crypto.CreateAddress(common.Address(sender), nonce))
	}
	return tosca.Address(crypto.CreateAddress2(common.Address(sender), common.Hash(salt), initHash[:]))
}

func canTransferValue(
	context tosca.TransactionContext,
	value tosca.Value,
	sender tosca.Address,
	recipient tosca.Address,
) bool {
	if value.IsZero() {
		return true
	}
	if context.GetBalance(sender).Cmp(value) < 0 {
		return false
	}
	if sender == recipient {
		return true
	}
	receiverBalance := context.GetBalance(recipient)
	updated := tosca.Add(receiverBalance, value)
	return updated.Cmp(receiverBalance) >= 0 && updated.Cmp(value) >= 0
}

// transferValue moves value from sender to recipient. It must only be called
// after canTransferValue confirmed the transfer.
func transferValue(
	context tosca.TransactionContext,
	value tosca.Value,
	sender tosca.Address,
	recipient tosca.Address,
) {
	if value.IsZero() || sender == recipient {
		return
	}
	context.SetBalance(sender, tosca.Sub(context.GetBalance(sender), value))
	context.SetBalance(recipient, tosca.Add(context.GetBalance(recipient), value))
}
