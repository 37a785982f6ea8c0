// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/core/vm"
)

const errGasUintOverflow = tosca.ConstError("gas uint64 overflow")

// status is the execution state of an interpreter run.
type status byte

const (
	statusRunning        status = iota // < all fine, ops are processed
	statusStopped                      // < execution stopped with a STOP
	statusReverted                     // < execution stopped with a REVERT
	statusReturned                     // < execution stopped with a RETURN
	statusSelfDestructed               // < execution stopped with a SELFDESTRUCT
	statusFailed                       // < execution stopped with a logic error
)

// context is the execution environment of a single interpreter run. Nested
// calls are executed through the RunContext and get their own context.
type context struct {
	// Inputs
	params  tosca.Parameters
	context tosca.RunContext
	code    tosca.Code
	jumps   jumpDests

	// Execution state
	pc     uint64
	gas    tosca.Gas
	refund tosca.Gas
	stack  *stack
	memory *Memory

	// returnData is the output of the last nested call, or the output of this
	// run after a RETURN or REVERT.
	returnData []byte
}

// useGas reduces the gas level by the given amount. Execution must stop if
// an error is returned.
func (c *context) useGas(amount tosca.Gas) error {
	if c.gas < 0 || amount < 0 || c.gas < amount {
		return tosca.ErrOutOfGas
	}
	c.gas -= amount
	return nil
}

func (c *context) isAtLeast(revision tosca.Revision) bool {
	return c.params.Revision >= revision
}

func run(params tosca.Parameters, jumps jumpDests) (tosca.Result, error) {
	if len(params.Code) == 0 {
		return tosca.Result{
			Status:  tosca.StatusStopped,
			GasLeft: params.Gas,
		}, nil
	}

	ctxt := context{
		params:  params,
		context: params.Context,
		code:    params.Code,
		jumps:   jumps,
		gas:     params.Gas,
		stack:   newStack(),
		memory:  NewMemory(),
	}
	defer returnStack(ctxt.stack)

	status, err := steps(&ctxt)
	return generateResult(status, err, &ctxt)
}

func generateResult(status status, halt error, ctxt *context) (tosca.Result, error) {
	switch status {
	case statusStopped:
		return tosca.Result{
			Status:    tosca.StatusStopped,
			GasLeft:   ctxt.gas,
			GasRefund: ctxt.refund,
		}, nil
	case statusSelfDestructed:
		return tosca.Result{
			Status:    tosca.StatusSelfDestructed,
			GasLeft:   ctxt.gas,
			GasRefund: ctxt.refund,
		}, nil
	case statusReturned:
		return tosca.Result{
			Status:    tosca.StatusReturned,
			Output:    ctxt.returnData,
			GasLeft:   ctxt.gas,
			GasRefund: ctxt.refund,
		}, nil
	case statusReverted:
		return tosca.Result{
			Status:  tosca.StatusReverted,
			Output:  ctxt.returnData,
			GasLeft: ctxt.gas,
		}, nil
	case statusFailed:
		return tosca.Result{
			Status: tosca.StatusFailed,
			Halt:   halt,
		}, nil
	default:
		return tosca.Result{}, fmt.Errorf("unexpected error in interpreter, unknown status: %v", status)
	}
}

// steps runs the code of the given context until it halts. Any violation of
// the execution rules ends the run with statusFailed and the reason.
func steps(c *context) (status, error) {
	for {
		if c.pc >= uint64(len(c.code)) {
			return statusStopped, nil
		}
		op := vm.OpCode(c.code[c.pc])

		info := &operations[op]
		if !info.valid || !c.isAtLeast(info.since) {
			return statusFailed, tosca.ErrInvalidOpCode
		}
		if c.stack.len() < info.pops {
			return statusFailed, tosca.ErrStackUnderflow
		}
		if c.stack.len()-info.pops+info.pushes > maxStackSize {
			return statusFailed, tosca.ErrStackOverflow
		}
		if c.params.Static && isWriteInstruction(op) {
			return statusFailed, tosca.ErrWriteProtection
		}
		if err := c.useGas(info.staticGas); err != nil {
			return statusFailed, err
		}

		status, err := execute(c, op)
		if err != nil {
			return statusFailed, err
		}
		if status != statusRunning {
			return status, nil
		}
	}
}

// execute runs a single instruction and advances the program counter.
func execute(c *context, op vm.OpCode) (status, error) {
	var err error
	switch {
	case vm.PUSH1 <= op && op <= vm.PUSH32:
		opPush(c, int(op-vm.PUSH1)+1)
		return statusRunning, nil
	case vm.DUP1 <= op && op <= vm.DUP16:
		c.stack.dup(int(op - vm.DUP1))
		c.pc++
		return statusRunning, nil
	case vm.SWAP1 <= op && op <= vm.SWAP16:
		c.stack.swap(int(op-vm.SWAP1) + 1)
		c.pc++
		return statusRunning, nil
	case vm.LOG0 <= op && op <= vm.LOG4:
		err = opLog(c, int(op-vm.LOG0))
		c.pc++
		return statusRunning, err
	}

	switch op {
	case vm.STOP:
		return statusStopped, nil
	case vm.RETURN:
		return statusReturned, opEndWithResult(c)
	case vm.REVERT:
		return statusReverted, opEndWithResult(c)
	case vm.SELFDESTRUCT:
		return opSelfdestruct(c)
	case vm.JUMP:
		return statusRunning, opJump(c)
	case vm.JUMPI:
		return statusRunning, opJumpi(c)

	case vm.ADD:
		opAdd(c)
	case vm.MUL:
		opMul(c)
	case vm.SUB:
		opSub(c)
	case vm.DIV:
		opDiv(c)
	case vm.SDIV:
		opSDiv(c)
	case vm.MOD:
		opMod(c)
	case vm.SMOD:
		opSMod(c)
	case vm.ADDMOD:
		opAddMod(c)
	case vm.MULMOD:
		opMulMod(c)
	case vm.EXP:
		err = opExp(c)
	case vm.SIGNEXTEND:
		opSignExtend(c)
	case vm.LT:
		opLt(c)
	case vm.GT:
		opGt(c)
	case vm.SLT:
		opSlt(c)
	case vm.SGT:
		opSgt(c)
	case vm.EQ:
		opEq(c)
	case vm.ISZERO:
		opIszero(c)
	case vm.AND:
		opAnd(c)
	case vm.OR:
		opOr(c)
	case vm.XOR:
		opXor(c)
	case vm.NOT:
		opNot(c)
	case vm.BYTE:
		opByte(c)
	case vm.SHL:
		opShl(c)
	case vm.SHR:
		opShr(c)
	case vm.SAR:
		opSar(c)
	case vm.KECCAK256:
		err = opKeccak256(c)

	case vm.ADDRESS:
		opAddress(c)
	case vm.BALANCE:
		err = opBalance(c)
	case vm.ORIGIN:
		opOrigin(c)
	case vm.CALLER:
		opCaller(c)
	case vm.CALLVALUE:
		opCallvalue(c)
	case vm.CALLDATALOAD:
		opCallDataload(c)
	case vm.CALLDATASIZE:
		opCallDatasize(c)
	case vm.CALLDATACOPY:
		err = genericDataCopy(c, c.params.Input)
	case vm.CODESIZE:
		opCodeSize(c)
	case vm.CODECOPY:
		err = genericDataCopy(c, c.params.Code)
	case vm.GASPRICE:
		opGasPrice(c)
	case vm.EXTCODESIZE:
		err = opExtcodesize(c)
	case vm.EXTCODECOPY:
		err = opExtCodeCopy(c)
	case vm.RETURNDATASIZE:
		opReturnDataSize(c)
	case vm.RETURNDATACOPY:
		err = opReturnDataCopy(c)
	case vm.EXTCODEHASH:
		err = opExtcodehash(c)

	case vm.BLOCKHASH:
		opBlockhash(c)
	case vm.COINBASE:
		opCoinbase(c)
	case vm.TIMESTAMP:
		opTimestamp(c)
	case vm.NUMBER:
		opNumber(c)
	case vm.PREVRANDAO:
		opPrevRandao(c)
	case vm.GASLIMIT:
		opGasLimit(c)
	case vm.CHAINID:
		opChainId(c)
	case vm.SELFBALANCE:
		opSelfbalance(c)
	case vm.BASEFEE:
		opBaseFee(c)
	case vm.BLOBHASH:
		opBlobHash(c)
	case vm.BLOBBASEFEE:
		opBlobBaseFee(c)

	case vm.POP:
		c.stack.pop()
	case vm.MLOAD:
		err = opMload(c)
	case vm.MSTORE:
		err = opMstore(c)
	case vm.MSTORE8:
		err = opMstore8(c)
	case vm.SLOAD:
		err = opSload(c)
	case vm.SSTORE:
		err = opSstore(c)
	case vm.PC:
		c.stack.pushUndefined().SetUint64(c.pc)
	case vm.MSIZE:
		c.stack.pushUndefined().SetUint64(c.memory.length())
	case vm.GAS:
		c.stack.pushUndefined().SetUint64(uint64(c.gas))
	case vm.JUMPDEST:
		// nothing
	case vm.TLOAD:
		opTload(c)
	case vm.TSTORE:
		opTstore(c)
	case vm.MCOPY:
		err = opMcopy(c)
	case vm.PUSH0:
		c.stack.pushUndefined().Clear()

	case vm.CREATE:
		err = genericCreate(c, tosca.Create)
	case vm.CREATE2:
		err = genericCreate(c, tosca.Create2)
	case vm.CALL:
		err = opCall(c)
	case vm.CALLCODE:
		err = genericCall(c, tosca.CallCode)
	case vm.DELEGATECALL:
		err = genericCall(c, tosca.DelegateCall)
	case vm.STATICCALL:
		err = genericCall(c, tosca.StaticCall)

	default:
		return statusFailed, tosca.ErrInvalidOpCode
	}
	c.pc++
	return statusRunning, err
}

// opEndWithResult copies the output of RETURN and REVERT out of the memory.
func opEndWithResult(c *context) error {
	offset, size := c.stack.pop(), c.stack.pop()
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	data, err := c.memory.getSlice(offset.Uint64(), size.Uint64(), c)
	if err != nil {
		return err
	}
	c.returnData = bytes.Clone(data)
	return nil
}
