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
	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// operation summarizes the static properties of an instruction checked by
// the interpreter loop before the instruction is executed.
type operation struct {
	valid     bool
	since     tosca.Revision // < first revision supporting the instruction
	pops      int            // < number of elements consumed from the stack
	pushes    int            // < number of elements produced on the stack
	staticGas tosca.Gas
}

var operations = newOperationTable()

func newOperationTable() [256]operation {
	res := [256]operation{}
	set := func(since tosca.Revision, pops, pushes int, gas uint64, ops ...vm.OpCode) {
		for _, op := range ops {
			res[op] = operation{
				valid:     true,
				since:     since,
				pops:      pops,
				pushes:    pushes,
				staticGas: tosca.Gas(gas),
			}
		}
	}
	const base = tosca.R09_Berlin

	set(base, 0, 0, 0, vm.STOP)
	set(base, 2, 1, vm.GasFastestStep, vm.ADD, vm.SUB, vm.LT, vm.GT, vm.SLT,
		vm.SGT, vm.EQ, vm.AND, vm.OR, vm.XOR, vm.BYTE, vm.SHL, vm.SHR, vm.SAR)
	set(base, 1, 1, vm.GasFastestStep, vm.ISZERO, vm.NOT, vm.CALLDATALOAD, vm.MLOAD)
	set(base, 2, 1, vm.GasFastStep, vm.MUL, vm.DIV, vm.SDIV, vm.MOD, vm.SMOD, vm.SIGNEXTEND)
	set(base, 3, 1, vm.GasMidStep, vm.ADDMOD, vm.MULMOD)
	set(base, 2, 1, params.ExpGas, vm.EXP)
	set(base, 2, 1, params.Keccak256Gas, vm.KECCAK256)

	set(base, 0, 1, vm.GasQuickStep, vm.ADDRESS, vm.ORIGIN, vm.CALLER,
		vm.CALLVALUE, vm.CALLDATASIZE, vm.CODESIZE, vm.GASPRICE,
		vm.RETURNDATASIZE, vm.COINBASE, vm.TIMESTAMP, vm.NUMBER,
		vm.PREVRANDAO, vm.GASLIMIT, vm.CHAINID, vm.PC, vm.MSIZE, vm.GAS)
	set(base, 0, 1, vm.GasFastStep, vm.SELFBALANCE)
	set(tosca.R10_London, 0, 1, vm.GasQuickStep, vm.BASEFEE)
	set(tosca.R12_Shanghai, 0, 1, vm.GasQuickStep, vm.PUSH0)
	set(tosca.R13_Cancun, 0, 1, vm.GasQuickStep, vm.BLOBBASEFEE)
	set(tosca.R13_Cancun, 1, 1, vm.GasFastestStep, vm.BLOBHASH)

	// Account accesses are charged dynamically depending on their warmth.
	set(base, 1, 1, 0, vm.BALANCE, vm.EXTCODESIZE, vm.EXTCODEHASH, vm.SLOAD)
	set(base, 4, 0, 0, vm.EXTCODECOPY)
	set(base, 1, 1, vm.GasExtStep, vm.BLOCKHASH)

	set(base, 3, 0, vm.GasFastestStep, vm.CALLDATACOPY, vm.CODECOPY, vm.RETURNDATACOPY)
	set(tosca.R13_Cancun, 3, 0, vm.GasFastestStep, vm.MCOPY)
	set(base, 1, 0, vm.GasQuickStep, vm.POP)
	set(base, 2, 0, vm.GasFastestStep, vm.MSTORE, vm.MSTORE8)
	set(base, 2, 0, 0, vm.SSTORE)
	set(tosca.R13_Cancun, 1, 1, params.WarmStorageReadCostEIP2929, vm.TLOAD)
	set(tosca.R13_Cancun, 2, 0, params.WarmStorageReadCostEIP2929, vm.TSTORE)

	set(base, 1, 0, vm.GasMidStep, vm.JUMP)
	set(base, 2, 0, vm.GasSlowStep, vm.JUMPI)
	set(base, 0, 0, params.JumpdestGas, vm.JUMPDEST)

	for i := 0; i < 32; i++ {
		set(base, 0, 1, vm.GasFastestStep, vm.PUSH1+vm.OpCode(i))
	}
	for i := 0; i < 16; i++ {
		set(base, i+1, i+2, vm.GasFastestStep, vm.DUP1+vm.OpCode(i))
		set(base, i+2, i+2, vm.GasFastestStep, vm.SWAP1+vm.OpCode(i))
	}
	for i := 0; i <= 4; i++ {
		set(base, i+2, 0, params.LogGas+uint64(i)*params.LogTopicGas, vm.LOG0+vm.OpCode(i))
	}

	set(base, 3, 1, params.CreateGas, vm.CREATE)
	set(base, 4, 1, params.Create2Gas, vm.CREATE2)
	set(base, 7, 1, 0, vm.CALL, vm.CALLCODE)
	set(base, 6, 1, 0, vm.DELEGATECALL, vm.STATICCALL)
	set(base, 2, 0, 0, vm.RETURN, vm.REVERT)
	set(base, 1, 0, params.SelfdestructGasEIP150, vm.SELFDESTRUCT)
	return res
}

// isWriteInstruction reports whether op modifies the world state and thus
// must not be executed in static mode. CALL is handled separately since it
// is only prohibited when transferring value.
func isWriteInstruction(op vm.OpCode) bool {
	switch op {
	case vm.SSTORE, vm.TSTORE, vm.CREATE, vm.CREATE2, vm.SELFDESTRUCT,
		vm.LOG0, vm.LOG1, vm.LOG2, vm.LOG3, vm.LOG4:
		return true
	}
	return false
}
