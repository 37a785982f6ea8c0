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
	geth "github.com/ethereum/go-ethereum/core/vm"
)

// runPrecompiled executes the call if it targets a precompiled contract. The
// second result is false if the target is an ordinary account.
func runPrecompiled(revision tosca.Revision, call Call) (Result, bool) {
	contract, ok := precompiledContract(call.CodeAddress, revision)
	if !ok {
		return Result{}, false
	}
	gasCost := contract.RequiredGas(call.Input)
	if call.Gas < 0 || uint64(call.Gas) < gasCost {
		return failed(tosca.ErrOutOfGas, call.Gas), true
	}
	output, err := contract.Run(call.Input)
	if err != nil {
		// precompiled contracts only return errors on invalid input
		return failed(tosca.ErrPrecompileFailed, call.Gas), true
	}
	return Result{
		Status:  tosca.StatusReturned,
		Output:  output,
		GasUsed: tosca.Gas(gasCost),
	}, true
}

func precompiledContracts(revision tosca.Revision) map[common.Address]geth.PrecompiledContract {
	if revision >= tosca.R13_Cancun {
		return geth.PrecompiledContractsCancun
	}
	return geth.PrecompiledContractsBerlin
}

func precompiledContract(address tosca.Address, revision tosca.Revision) (geth.PrecompiledContract, bool) {
	contract, ok := precompiledContracts(revision)[common.Address(address)]
	return contract, ok
}

// IsPrecompiled reports whether address hosts a precompiled contract in the
// given revision.
func IsPrecompiled(address tosca.Address, revision tosca.Revision) bool {
	_, ok := precompiledContract(address, revision)
	return ok
}
