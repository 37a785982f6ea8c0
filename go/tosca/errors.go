// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Halt reasons reported by engines in Result.Halt.
const (
	ErrOutOfGas                = ConstError("out of gas")
	ErrStackUnderflow          = ConstError("stack underflow")
	ErrStackOverflow           = ConstError("stack overflow")
	ErrInvalidJump             = ConstError("invalid jump destination")
	ErrInvalidOpCode           = ConstError("invalid opcode")
	ErrWriteProtection         = ConstError("write protection")
	ErrReturnDataOutOfBounds   = ConstError("return data out of bounds")
	ErrMaxCallDepth            = ConstError("max call depth exceeded")
	ErrInsufficientBalance     = ConstError("insufficient balance for transfer")
	ErrContractAddressTaken    = ConstError("contract address collision")
	ErrMaxCodeSizeExceeded     = ConstError("max code size exceeded")
	ErrMaxInitCodeSizeExceeded = ConstError("max initcode size exceeded")
	ErrInvalidCode             = ConstError("invalid code: must not begin with 0xef")
	ErrCodeStoreOutOfGas       = ConstError("contract creation code storage out of gas")
	ErrPrecompileFailed        = ConstError("precompiled contract failed")
	ErrNonceOverflow           = ConstError("nonce uint64 overflow")
	ErrAborted                 = ConstError("execution aborted")
)
