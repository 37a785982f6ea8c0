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
	"github.com/ethereum/go-ethereum/params"
)

// getAccessCost returns the EIP-2929 costs for an account access.
func getAccessCost(status tosca.AccessStatus) tosca.Gas {
	if status == tosca.ColdAccess {
		return tosca.Gas(params.ColdAccountAccessCostEIP2929)
	}
	return tosca.Gas(params.WarmStorageReadCostEIP2929)
}

// getSloadCost returns the EIP-2929 costs for a storage access.
func getSloadCost(status tosca.AccessStatus) tosca.Gas {
	if status == tosca.ColdAccess {
		return tosca.Gas(params.ColdSloadCostEIP2929)
	}
	return tosca.Gas(params.WarmStorageReadCostEIP2929)
}

// getClearingRefund returns the refund granted for clearing a storage slot,
// which was reduced by EIP-3529 with London.
func getClearingRefund(revision tosca.Revision) tosca.Gas {
	if revision >= tosca.R10_London {
		return tosca.Gas(params.SstoreClearsScheduleRefundEIP3529)
	}
	return tosca.Gas(params.SstoreClearsScheduleRefundEIP2200)
}

// getDynamicCostsForSstore returns the costs of an SSTORE, excluding the cold
// access surcharge, following EIP-2200 as amended by EIP-2929.
func getDynamicCostsForSstore(status tosca.StorageStatus) tosca.Gas {
	const (
		warm  = tosca.Gas(params.WarmStorageReadCostEIP2929)
		set   = tosca.Gas(params.SstoreSetGasEIP2200)
		reset = tosca.Gas(params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929)
	)
	switch status {
	case tosca.StorageAdded:
		return set
	case tosca.StorageModified, tosca.StorageDeleted:
		return reset
	default:
		return warm
	}
}

// getRefundForSstore returns the refund of an SSTORE, which may be negative
// when an earlier refund is withdrawn.
func getRefundForSstore(revision tosca.Revision, status tosca.StorageStatus) tosca.Gas {
	const (
		warm  = tosca.Gas(params.WarmStorageReadCostEIP2929)
		set   = tosca.Gas(params.SstoreSetGasEIP2200)
		reset = tosca.Gas(params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929)
	)
	clearing := getClearingRefund(revision)
	switch status {
	case tosca.StorageDeleted, tosca.StorageModifiedDeleted:
		return clearing
	case tosca.StorageDeletedAdded:
		return -clearing
	case tosca.StorageDeletedRestored:
		return reset - warm - clearing
	case tosca.StorageAddedDeleted:
		return set - warm
	case tosca.StorageModifiedRestored:
		return reset - warm
	default:
		return 0
	}
}

// callGas applies the EIP-150 rule: at most all but one 64th of the available
// gas may be forwarded to a nested call.
func callGas(available tosca.Gas, requested uint64, requestedFits bool) tosca.Gas {
	gas := available - available/64
	if requestedFits && requested < uint64(gas) {
		return tosca.Gas(requested)
	}
	return gas
}

// getInitCodeCost returns the EIP-3860 costs for the init code of a create.
func getInitCodeCost(size uint64) (tosca.Gas, error) {
	if size > params.MaxInitCodeSize {
		return 0, tosca.ErrMaxInitCodeSizeExceeded
	}
	return tosca.Gas(params.InitCodeWordGas * tosca.SizeInWords(size)), nil
}
