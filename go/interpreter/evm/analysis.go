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

import "github.com/ethereum/go-ethereum/core/vm"

// jumpDests is a bit-set marking the positions of a code that are valid
// targets of JUMP and JUMPI instructions.
type jumpDests []uint64

// analyzeJumpDests marks every JUMPDEST of the given code that is not part of
// the data section of a PUSH instruction.
func analyzeJumpDests(code []byte) jumpDests {
	res := make(jumpDests, (len(code)+63)/64)
	for i := 0; i < len(code); i++ {
		op := vm.OpCode(code[i])
		if op == vm.JUMPDEST {
			res[i/64] |= 1 << (i % 64)
		} else if vm.PUSH1 <= op && op <= vm.PUSH32 {
			i += int(op-vm.PUSH1) + 1
		}
	}
	return res
}

// isValid reports whether pos is a jump destination.
func (d jumpDests) isValid(pos uint64) bool {
	if pos/64 >= uint64(len(d)) {
		return false
	}
	return d[pos/64]&(1<<(pos%64)) != 0
}
